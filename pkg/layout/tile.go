package layout

import "github.com/matzehuels/scatter/pkg/geom"

// Tile is a single rectangle of a tiling. TopLeft holds the smaller
// coordinates on both axes (the layout frame grows downward), BottomRight
// the larger.
type Tile struct {
	TopLeft     geom.Point `json:"top_left" bson:"top_left" msgpack:"top_left"`
	BottomRight geom.Point `json:"bottom_right" bson:"bottom_right" msgpack:"bottom_right"`
}

// Width returns the horizontal span of the tile.
func (t Tile) Width() float64 { return t.BottomRight.X - t.TopLeft.X }

// Height returns the vertical span of the tile.
func (t Tile) Height() float64 { return t.BottomRight.Y - t.TopLeft.Y }

// Area returns the tile area.
func (t Tile) Area() float64 { return t.Width() * t.Height() }

// Rect converts the tile into a geom.Rect.
func (t Tile) Rect() geom.Rect {
	return geom.NewRect(t.TopLeft.X, t.TopLeft.Y, t.BottomRight.X, t.BottomRight.Y)
}

// Translate shifts the tile by d. The pipeline uses this to move tiles from
// the [0,L]x[0,H] layout frame into the centered environment frame.
func (t Tile) Translate(d geom.Point) Tile {
	return Tile{TopLeft: t.TopLeft.Add(d), BottomRight: t.BottomRight.Add(d)}
}
