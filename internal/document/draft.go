package document

import (
	"image"
	"slices"
)

// Draft is a mutable working copy of a Snapshot. It is owned by whoever
// called Snapshot.Edit and is turned back into a Snapshot with Publish.
type Draft struct {
	image     image.Image
	imageID   uint64
	Regions   []TextRegion
	Selection Selection
}

// NewDraft starts an empty draft on img.
func NewDraft(img image.Image) *Draft {
	return &Draft{image: img, imageID: nextImageID()}
}

// Image returns the read-only raster shared with the source snapshot.
func (d *Draft) Image() image.Image { return d.image }

// Bounds returns the image bounds, or the zero rectangle when there is no image.
func (d *Draft) Bounds() image.Rectangle {
	if d.image == nil {
		return image.Rectangle{}
	}
	return d.image.Bounds()
}

// ReplaceImage swaps the raster under the draft. Regions are clipped to the
// new bounds and those left empty are dropped along with their selection.
func (d *Draft) ReplaceImage(img image.Image) {
	d.image = img
	d.imageID = nextImageID()
	bounds := d.Bounds()
	kept := d.Regions[:0]
	for _, r := range d.Regions {
		box, ok := Clip(r.Box, bounds)
		if !ok {
			continue
		}
		r.Box = box
		kept = append(kept, r)
	}
	clear(d.Regions[len(kept):])
	d.Regions = kept
	d.Selection = pruneSelection(kept, d.Selection, false)
}

// IndexOf returns the z-position of id, or -1.
func (d *Draft) IndexOf(id RegionID) int { return indexOf(d.Regions, id) }

// Select replaces the selection.
func (d *Draft) Select(ids ...RegionID) { d.Selection = NewSelection(ids...) }

// Publish freezes the draft into a Snapshot. Boxes outside the image and
// selected ids without a region are invariant violations; outside strict mode
// they are repaired (clipped, dropped or deselected).
func (d *Draft) Publish() Snapshot {
	bounds := d.Bounds()
	regions := make([]TextRegion, 0, len(d.Regions))
	for _, r := range d.Regions {
		if d.image != nil && !r.Box.In(bounds) {
			clipped, ok := Clip(r.Box, bounds)
			if !ok {
				Violation("region %s box %v lies outside image %v, dropped", r.ID, r.Box, bounds)
				continue
			}
			Violation("region %s box %v exceeds image %v, clipped", r.ID, r.Box, bounds)
			r.Box = clipped
		}
		regions = append(regions, r)
	}
	return Snapshot{
		image:     d.image,
		imageID:   d.imageID,
		regions:   slices.Clip(regions),
		selection: pruneSelection(regions, d.Selection, true),
	}
}

func pruneSelection(regions []TextRegion, sel Selection, report bool) Selection {
	if sel.IsEmpty() {
		return Selection{}
	}
	kept := make([]RegionID, 0, sel.Len())
	for _, id := range sel.ids {
		if indexOf(regions, id) < 0 {
			if report {
				Violation("selected region %s does not exist", id)
			}
			continue
		}
		kept = append(kept, id)
	}
	return NewSelection(kept...)
}
