package controller

import (
	"image"

	"github.com/jackzampolin/scanedit/internal/document"
	"github.com/jackzampolin/scanedit/internal/extract"
	"github.com/jackzampolin/scanedit/internal/selection"
)

// EditEnv gives edit operations what they need from the controller.
type EditEnv struct {
	NewID     selection.IDAllocator
	Separator string
}

// EditOp is a synchronous edit applied to a working copy of the live
// snapshot. Apply reports whether the draft changed; unchanged drafts are not
// committed to history.
type EditOp interface {
	Apply(env EditEnv, d *document.Draft) (changed bool, err error)
}

// Move translates regions, clamped to the image as a group.
type Move struct {
	IDs   []document.RegionID
	Delta image.Point
}

func (op Move) Apply(_ EditEnv, d *document.Draft) (bool, error) {
	return selection.Move(d, op.IDs, op.Delta), nil
}

// Group merges regions into one.
type Group struct {
	IDs []document.RegionID
}

func (op Group) Apply(env EditEnv, d *document.Draft) (bool, error) {
	_, changed, err := selection.Group(d, op.IDs, env.NewID, env.Separator)
	return changed, err
}

// Delete removes regions.
type Delete struct {
	IDs []document.RegionID
}

func (op Delete) Apply(_ EditEnv, d *document.Draft) (bool, error) {
	if len(op.IDs) == 0 {
		return false, selection.ErrEmptySelection
	}
	return selection.Remove(d, op.IDs), nil
}

// Paste inserts copies of regions with fresh ids.
type Paste struct {
	Regions []document.TextRegion
	Offset  image.Point
}

func (op Paste) Apply(env EditEnv, d *document.Draft) (bool, error) {
	return len(selection.Paste(d, op.Regions, op.Offset, env.NewID)) > 0, nil
}

// Reorder moves a region to a new z-position.
type Reorder struct {
	ID    document.RegionID
	Index int
}

func (op Reorder) Apply(_ EditEnv, d *document.Draft) (bool, error) {
	return selection.Reorder(d, op.ID, op.Index)
}

// Highlight sets or clears the style flag.
type Highlight struct {
	IDs []document.RegionID
	On  bool
}

func (op Highlight) Apply(_ EditEnv, d *document.Draft) (bool, error) {
	return selection.SetHighlight(d, op.IDs, op.On), nil
}

// SetText replaces a region's content.
type SetText struct {
	ID   document.RegionID
	Text string
}

func (op SetText) Apply(_ EditEnv, d *document.Draft) (bool, error) {
	return selection.SetText(d, op.ID, op.Text)
}

// PasteImage replaces the document image. Regions are clipped to the new
// bounds; the controller re-extracts after committing it.
type PasteImage struct {
	Image image.Image
}

func (op PasteImage) Apply(_ EditEnv, d *document.Draft) (bool, error) {
	if op.Image == nil || op.Image.Bounds().Empty() {
		return false, extract.ErrInvalidImage
	}
	d.ReplaceImage(op.Image)
	return true, nil
}

func (PasteImage) replacesImage() {}

// imageEdit marks ops whose result must be extracted again.
type imageEdit interface {
	replacesImage()
}
