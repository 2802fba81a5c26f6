// Package layout partitions a rectangle into N near-square tiles.
//
// # Algorithm
//
// The ideal (real-valued) number of rows and columns for N square tiles in
// an L x H rectangle are cy = sqrt(N*H/L) and cx = sqrt(N*L/H). Four integer
// candidates are built from them: floor and ceil of cy used as a row count,
// and floor and ceil of cx used as a column count. A column candidate is
// solved as a row candidate on the transposed rectangle and transposed back.
//
// For a row count r the N tiles are split into two classes: "short" rows
// holding floor(N/r) tiles and "long" rows holding ceil(N/r) tiles, with
// N mod r long rows. Every tile has area L*H/N, so a class's tile height
// follows from its tile length. The divergence of a candidate is the larger
// |length - height| of the two classes; the candidate with the smallest
// divergence wins, ties going to the earlier candidate in the order above.
//
// # Usage
//
//	tiles, err := layout.Tiling(40, 30, 5)
//	if err != nil {
//	    return err // LAYOUT_INFEASIBLE or INVALID_CONFIG
//	}
package layout

import (
	"math"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
)

// Mode is the axis along which tile classes are stacked.
type Mode string

const (
	ModeRows Mode = "rows"
	ModeCols Mode = "cols"
)

// Class describes one size class of a candidate tiling.
type Class struct {
	Rows       int
	Cols       int
	TileLength float64
	TileHeight float64
}

// Candidate is one of the four integer tilings considered for (L, H, N).
type Candidate struct {
	Mode       Mode
	Count      int     // rows for ModeRows, columns for ModeCols
	Divergence float64 // +Inf when the count is unusable
	Short      Class
	Long       Class
}

// Feasible reports whether the candidate produced a finite divergence.
func (c Candidate) Feasible() bool { return !math.IsInf(c.Divergence, 0) }

// Candidates returns the four candidate tilings in evaluation order:
// rows-floor, rows-ceil, cols-floor, cols-ceil.
func Candidates(length, height float64, n int) []Candidate {
	area := length * height / float64(n)
	cy := math.Sqrt(float64(n) * height / length)
	cx := math.Sqrt(float64(n) * length / height)

	out := make([]Candidate, 0, 4)
	for _, r := range []int{int(math.Floor(cy)), int(math.Ceil(cy))} {
		out = append(out, solve(ModeRows, length, area, n, r))
	}
	for _, c := range []int{int(math.Floor(cx)), int(math.Ceil(cx))} {
		cand := solve(ModeCols, height, area, n, c)
		cand.Short = transpose(cand.Short)
		cand.Long = transpose(cand.Long)
		out = append(out, cand)
	}
	return out
}

// Best returns the candidate with the smallest divergence.
func Best(length, height float64, n int) (Candidate, error) {
	if err := checkInput(length, height, n); err != nil {
		return Candidate{}, err
	}

	cands := Candidates(length, height, n)
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Divergence < best.Divergence {
			best = c
		}
	}
	if !best.Feasible() {
		return Candidate{}, errors.New(errors.ErrCodeLayoutInfeasible,
			"no finite tiling of %gx%g into %d areas", length, height, n)
	}
	return best, nil
}

// Tiling partitions [0,length]x[0,height] into exactly n non-overlapping
// tiles that cover it completely. Short-class tiles are emitted first.
func Tiling(length, height float64, n int) ([]Tile, error) {
	if err := checkInput(length, height, n); err != nil {
		return nil, err
	}
	if n == 1 {
		return []Tile{{BottomRight: geom.Point{X: length, Y: height}}}, nil
	}

	best, err := Best(length, height, n)
	if err != nil {
		return nil, err
	}
	return best.Tiles(), nil
}

// Tiles emits the rectangles of c with an accumulating offset along the
// stacking axis.
func (c Candidate) Tiles() []Tile {
	var tiles []Tile
	shift := 0.0
	for _, cl := range []Class{c.Short, c.Long} {
		for row := 0; row < cl.Rows; row++ {
			for col := 0; col < cl.Cols; col++ {
				x0, y0 := float64(col)*cl.TileLength, float64(row)*cl.TileHeight
				x1, y1 := float64(col+1)*cl.TileLength, float64(row+1)*cl.TileHeight
				if c.Mode == ModeRows {
					y0, y1 = y0+shift, y1+shift
				} else {
					x0, x1 = x0+shift, x1+shift
				}
				tiles = append(tiles, Tile{
					TopLeft:     geom.Point{X: x0, Y: y0},
					BottomRight: geom.Point{X: x1, Y: y1},
				})
			}
		}
		if c.Mode == ModeRows {
			shift += float64(cl.Rows) * cl.TileHeight
		} else {
			shift += float64(cl.Cols) * cl.TileLength
		}
	}
	return tiles
}

func checkInput(length, height float64, n int) error {
	if n < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "area count must be at least 1, got %d", n)
	}
	if !(length > 0) || !(height > 0) || math.IsInf(length, 0) || math.IsInf(height, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "layout dimensions must be positive, got %gx%g", length, height)
	}
	return nil
}

// solve splits n tiles of the given area into r rows spanning length.
func solve(mode Mode, length, area float64, n, r int) Candidate {
	cand := Candidate{Mode: mode, Count: r, Divergence: math.Inf(1)}
	if r < 1 || r > n {
		return cand
	}

	colsLong := (n + r - 1) / r
	colsShort := n / r
	rowsLong := n % r

	cand.Short = newClass(r-rowsLong, colsShort, length, area)
	cand.Long = newClass(rowsLong, colsLong, length, area)
	cand.Divergence = math.Max(
		math.Abs(cand.Short.TileLength-cand.Short.TileHeight),
		math.Abs(cand.Long.TileLength-cand.Long.TileHeight),
	)
	return cand
}

func newClass(rows, cols int, length, area float64) Class {
	l := length / float64(cols)
	return Class{Rows: rows, Cols: cols, TileLength: l, TileHeight: area / l}
}

func transpose(c Class) Class {
	return Class{Rows: c.Cols, Cols: c.Rows, TileLength: c.TileHeight, TileHeight: c.TileLength}
}
