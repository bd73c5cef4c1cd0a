package sprite

import "image"

// Center returns the centre of r, rounding toward the top-left.
func Center(r image.Rectangle) image.Point {
	return image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
}

// Inflate grows r by dx and dy around its centre. Negative values shrink it.
// Half of each delta is applied per side, truncated toward zero, so the top
// left moves by dx/2 and the size changes by the full delta.
func Inflate(r image.Rectangle, dx, dy int) image.Rectangle {
	minX, minY := r.Min.X-dx/2, r.Min.Y-dy/2
	return image.Rectangle{
		Min: image.Pt(minX, minY),
		Max: image.Pt(minX+r.Dx()+dx, minY+r.Dy()+dy),
	}
}
