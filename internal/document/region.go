package document

import (
	"fmt"
	"image"
)

// RegionID identifies a TextRegion within one document. IDs are never reused
// while the document is open.
type RegionID uint64

func (id RegionID) String() string {
	return fmt.Sprintf("r%d", uint64(id))
}

// TextRegion is a recognized text span located in image coordinates.
type TextRegion struct {
	ID        RegionID
	Box       image.Rectangle
	Text      string
	Highlight bool
}

// Clip intersects box with bounds. The second result is false when nothing of
// the box remains inside bounds.
func Clip(box, bounds image.Rectangle) (image.Rectangle, bool) {
	clipped := box.Canon().Intersect(bounds)
	if clipped.Empty() {
		return image.Rectangle{}, false
	}
	return clipped, true
}

// Envelope returns the union of the boxes of regions.
func Envelope(regions []TextRegion) image.Rectangle {
	var env image.Rectangle
	for i, r := range regions {
		if i == 0 {
			env = r.Box
			continue
		}
		env = env.Union(r.Box)
	}
	return env
}
