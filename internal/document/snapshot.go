package document

import (
	"image"
	"slices"
	"sync/atomic"
)

// imageSeq hands out raster identities. Images are compared by the identity
// they were attached with, never by value, since image.Image implementations
// need not be comparable.
var imageSeq atomic.Uint64

func nextImageID() uint64 { return imageSeq.Add(1) }

// Snapshot is one published state of a document: the image, the regions in
// z-order and the active selection. Accessors return copies, so holding a
// Snapshot never exposes a mutable alias into history.
type Snapshot struct {
	image     image.Image
	imageID   uint64
	regions   []TextRegion
	selection Selection
}

// New returns a snapshot of img with no regions and no selection.
func New(img image.Image) Snapshot {
	return Snapshot{image: img, imageID: nextImageID()}
}

// Image returns the read-only raster the regions refer to.
func (s Snapshot) Image() image.Image { return s.image }

// Bounds returns the image bounds, or the zero rectangle when there is no image.
func (s Snapshot) Bounds() image.Rectangle {
	if s.image == nil {
		return image.Rectangle{}
	}
	return s.image.Bounds()
}

// Len returns the number of regions.
func (s Snapshot) Len() int { return len(s.regions) }

// Regions returns a copy of the regions in z-order (lowest first).
func (s Snapshot) Regions() []TextRegion { return slices.Clone(s.regions) }

// At returns the region at z-position i.
func (s Snapshot) At(i int) TextRegion { return s.regions[i] }

// Region looks a region up by id.
func (s Snapshot) Region(id RegionID) (TextRegion, bool) {
	if i := indexOf(s.regions, id); i >= 0 {
		return s.regions[i], true
	}
	return TextRegion{}, false
}

// IndexOf returns the z-position of id, or -1.
func (s Snapshot) IndexOf(id RegionID) int { return indexOf(s.regions, id) }

// Selection returns the active selection.
func (s Snapshot) Selection() Selection { return s.selection }

// SelectedRegions returns the selected regions in selection order.
func (s Snapshot) SelectedRegions() []TextRegion {
	out := make([]TextRegion, 0, s.selection.Len())
	for _, id := range s.selection.ids {
		if r, ok := s.Region(id); ok {
			out = append(out, r)
		}
	}
	return out
}

// WithSelection returns a snapshot that shares this snapshot's regions and
// carries sel instead of the current selection. Ids that do not exist are
// dropped.
func (s Snapshot) WithSelection(sel Selection) Snapshot {
	next := s
	next.selection = pruneSelection(s.regions, sel, false)
	return next
}

// Edit returns a mutable working copy. The image is shared; regions and
// selection are copied.
func (s Snapshot) Edit() *Draft {
	return &Draft{
		image:     s.image,
		imageID:   s.imageID,
		Regions:   slices.Clone(s.regions),
		Selection: NewSelection(s.selection.ids...),
	}
}

// Equal reports whether both snapshots hold the same image, regions and
// selection. Images match when they were attached by the same New, NewDraft
// or ReplaceImage call.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.imageID == other.imageID &&
		slices.Equal(s.regions, other.regions) &&
		s.selection.Equal(other.selection)
}

func indexOf(regions []TextRegion, id RegionID) int {
	return slices.IndexFunc(regions, func(r TextRegion) bool { return r.ID == id })
}
