package controller

import (
	"image"

	"github.com/jackzampolin/scanedit/internal/document"
	"github.com/jackzampolin/scanedit/internal/selection"
)

// Selection changes only touch the live snapshot's selection. They are not
// edits and never enter history.

// SelectAt selects the topmost region under p, or clears the selection when
// p hits nothing.
func (c *Controller) SelectAt(p image.Point) (document.RegionID, bool) {
	id, ok := selection.HitTest(c.live, p)
	if ok {
		c.setSelection(document.NewSelection(id))
	} else {
		c.setSelection(document.Selection{})
	}
	return id, ok
}

// SelectRange selects every region overlapping rect and returns their ids.
func (c *Controller) SelectRange(rect image.Rectangle) []document.RegionID {
	ids := selection.SelectRange(c.live, rect)
	c.setSelection(document.NewSelection(ids...))
	return ids
}

// Select selects the given ids. Unknown ids are ignored.
func (c *Controller) Select(ids ...document.RegionID) {
	c.setSelection(document.NewSelection(ids...))
}

// ClearSelection deselects everything.
func (c *Controller) ClearSelection() {
	c.setSelection(document.Selection{})
}

func (c *Controller) setSelection(sel document.Selection) {
	if c.closed || !c.loaded {
		return
	}
	next := c.live.WithSelection(sel)
	if next.Selection().Equal(c.live.Selection()) {
		return
	}
	c.live = next
	c.notify(Event{Kind: DocumentChanged})
}

// MoveSelection moves the selected regions by delta.
func (c *Controller) MoveSelection(delta image.Point) error {
	return c.ApplyEdit(Move{IDs: c.selectedIDs(), Delta: delta})
}

// GroupSelection merges the selected regions. It returns
// selection.ErrEmptySelection when nothing is selected.
func (c *Controller) GroupSelection() error {
	return c.ApplyEdit(Group{IDs: c.selectedIDs()})
}

// DeleteSelection removes the selected regions.
func (c *Controller) DeleteSelection() error {
	return c.ApplyEdit(Delete{IDs: c.selectedIDs()})
}

// HighlightSelection sets the style flag on the selected regions.
func (c *Controller) HighlightSelection(on bool) error {
	return c.ApplyEdit(Highlight{IDs: c.selectedIDs(), On: on})
}

// CopySelection copies the selected regions to the clipboard and returns how
// many were copied. The document itself is unchanged.
func (c *Controller) CopySelection() int {
	c.clipboard = c.live.SelectedRegions()
	return len(c.clipboard)
}

// PasteClipboard inserts the clipboard regions, shifted by the paste offset.
func (c *Controller) PasteClipboard() error {
	if len(c.clipboard) == 0 {
		return selection.ErrEmptySelection
	}
	return c.ApplyEdit(Paste{Regions: c.clipboard, Offset: c.pasteOffset})
}

func (c *Controller) selectedIDs() []document.RegionID {
	return c.live.Selection().IDs()
}
