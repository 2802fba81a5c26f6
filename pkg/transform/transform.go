// Package transform converts coordinates between the frames the placement
// engine works in: percentages of a site, the environment frame, and an
// area's sub-rectangle.
package transform

import (
	"github.com/matzehuels/scatter/pkg/geom"
)

// PercentToAbsolute resolves rel = (x%, y%, z) against a site with the given
// origin (its center) and half extent. 0% is the site's minimum edge, 50%
// its center and 100% its maximum edge. z passes through unchanged.
func PercentToAbsolute(rel geom.Vec3, origin geom.Point, halfX, halfY float64) geom.Vec3 {
	return geom.Vec3{
		X: origin.X - halfX + rel.X/100*2*halfX,
		Y: origin.Y - halfY + rel.Y/100*2*halfY,
		Z: rel.Z,
	}
}

// AbsoluteToPercent is the inverse of PercentToAbsolute.
func AbsoluteToPercent(abs geom.Vec3, origin geom.Point, halfX, halfY float64) geom.Vec3 {
	return geom.Vec3{
		X: percent(abs.X, origin.X, halfX),
		Y: percent(abs.Y, origin.Y, halfY),
		Z: abs.Z,
	}
}

func percent(v, origin, half float64) float64 {
	if half == 0 {
		return 50
	}
	return (v - origin + half) / (2 * half) * 100
}

// RemapToArea maps p from the reference rectangle ref onto area with an
// affine rescale per axis. z passes through unchanged.
func RemapToArea(p geom.Vec3, ref, area geom.Rect) geom.Vec3 {
	return geom.Vec3{
		X: rescale(p.X, ref.Min.X, ref.Max.X, area.Min.X, area.Max.X),
		Y: rescale(p.Y, ref.Min.Y, ref.Max.Y, area.Min.Y, area.Max.Y),
		Z: p.Z,
	}
}

// RemapFromArea is the inverse of RemapToArea for the same rectangles.
func RemapFromArea(p geom.Vec3, ref, area geom.Rect) geom.Vec3 {
	return RemapToArea(p, area, ref)
}

// rescale maps v from [from1, from2] to [to1, to2]. A degenerate source
// interval collapses onto to1.
func rescale(v, from1, from2, to1, to2 float64) float64 {
	if from2 == from1 {
		return to1
	}
	return to1 + (v-from1)*(to2-to1)/(from2-from1)
}
