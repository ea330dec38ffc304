// Package viewport maps between view and image coordinates and renders the
// document at a zoom level.
package viewport

import (
	"fmt"
	"image"
	"math"
)

// Default zoom bounds.
const (
	DefaultMin  = 0.1
	DefaultMax  = 10.0
	DefaultStep = 1.25
)

// Zoom is a bounded zoom factor. Step is multiplicative: ZoomIn multiplies
// the scale by Step and ZoomOut divides by it. View (0,0) shows the image
// point at Origin.
type Zoom struct {
	scale  float64
	min    float64
	max    float64
	step   float64
	origin image.Point
}

// NewZoom returns a zoom at 1.0 clamped into [lo, hi].
func NewZoom(lo, hi, step float64) (*Zoom, error) {
	if lo <= 0 || hi < lo {
		return nil, fmt.Errorf("invalid zoom bounds [%g, %g]", lo, hi)
	}
	if step <= 1 {
		return nil, fmt.Errorf("zoom step must be greater than 1, got %g", step)
	}
	z := &Zoom{min: lo, max: hi, step: step}
	z.Set(1)
	return z, nil
}

// Scale returns the current factor.
func (z *Zoom) Scale() float64 { return z.scale }

// Bounds returns the configured minimum and maximum.
func (z *Zoom) Bounds() (lo, hi float64) { return z.min, z.max }

// SetBounds changes the limits and re-clamps the current factor.
func (z *Zoom) SetBounds(lo, hi, step float64) error {
	if lo <= 0 || hi < lo || step <= 1 {
		return fmt.Errorf("invalid zoom bounds [%g, %g] step %g", lo, hi, step)
	}
	z.min, z.max, z.step = lo, hi, step
	z.Set(z.scale)
	return nil
}

// Set clamps s into the bounds and returns the applied factor. NaN and
// non-positive values reset to the minimum.
func (z *Zoom) Set(s float64) float64 {
	if math.IsNaN(s) || s <= 0 {
		s = z.min
	}
	z.scale = math.Max(z.min, math.Min(z.max, s))
	return z.scale
}

// Origin returns the image point drawn at the view's top-left corner.
func (z *Zoom) Origin() image.Point { return z.origin }

// SetOrigin sets the image point drawn at the view's top-left corner,
// normally the Min of the image bounds.
func (z *Zoom) SetOrigin(p image.Point) { z.origin = p }

// In zooms in one step.
func (z *Zoom) In() float64 { return z.Set(z.scale * z.step) }

// Out zooms out one step.
func (z *Zoom) Out() float64 { return z.Set(z.scale / z.step) }

// ToImage maps a point in view coordinates to image coordinates.
func (z *Zoom) ToImage(p image.Point) image.Point {
	return image.Pt(
		int(math.Floor(float64(p.X)/z.scale)),
		int(math.Floor(float64(p.Y)/z.scale)),
	).Add(z.origin)
}

// RectToImage maps a view rectangle to image coordinates.
func (z *Zoom) RectToImage(r image.Rectangle) image.Rectangle {
	r = r.Canon()
	return image.Rectangle{Min: z.ToImage(r.Min), Max: z.ToImage(r.Max)}
}

// ToView maps a point in image coordinates to view coordinates.
func (z *Zoom) ToView(p image.Point) image.Point {
	return z.scaleUp(p.Sub(z.origin))
}

func (z *Zoom) scaleUp(p image.Point) image.Point {
	return image.Pt(
		int(math.Round(float64(p.X)*z.scale)),
		int(math.Round(float64(p.Y)*z.scale)),
	)
}

// DeltaToImage maps a drag distance in view pixels to image pixels.
func (z *Zoom) DeltaToImage(d image.Point) image.Point {
	return image.Pt(
		int(math.Round(float64(d.X)/z.scale)),
		int(math.Round(float64(d.Y)/z.scale)),
	)
}
