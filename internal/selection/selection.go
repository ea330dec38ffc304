// Package selection implements the geometric queries and edits over a
// document's text regions: hit-testing, range selection, grouping, removal
// and moves. Queries read a Snapshot; edits mutate a Draft in place and report
// whether anything changed.
package selection

import (
	"errors"
	"image"
	"slices"
	"strings"

	"github.com/jackzampolin/scanedit/internal/document"
)

// ErrEmptySelection is returned when an operation needs at least one region.
var ErrEmptySelection = errors.New("empty selection")

// ErrUnknownRegion is returned when an id does not name a region.
var ErrUnknownRegion = errors.New("unknown region")

// IDAllocator hands out fresh region ids.
type IDAllocator func() document.RegionID

// HitTest returns the topmost region containing p. Later regions in z-order
// sit above earlier ones.
func HitTest(s document.Snapshot, p image.Point) (document.RegionID, bool) {
	for i := s.Len() - 1; i >= 0; i-- {
		r := s.At(i)
		if p.In(r.Box) {
			return r.ID, true
		}
	}
	return 0, false
}

// SelectRange returns the ids of all regions overlapping rect, in z-order. A
// rect without extent (a click rather than a drag) falls back to HitTest.
func SelectRange(s document.Snapshot, rect image.Rectangle) []document.RegionID {
	rect = rect.Canon()
	if rect.Empty() {
		if id, ok := HitTest(s, rect.Min); ok {
			return []document.RegionID{id}
		}
		return nil
	}
	var ids []document.RegionID
	for i := 0; i < s.Len(); i++ {
		r := s.At(i)
		if r.Box.Overlaps(rect) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Group merges the regions named by ids into one region with a fresh id. The
// merged box is the union of the constituents and the text is their content
// in reading order (top to bottom, then left to right) joined by sep. The
// merged region takes the z-position of the lowest constituent and becomes the
// selection.
//
// A single id is a no-op: the original region is returned and changed is
// false.
func Group(d *document.Draft, ids []document.RegionID, alloc IDAllocator, sep string) (merged document.TextRegion, changed bool, err error) {
	members, positions := collect(d, ids)
	if len(ids) == 0 || len(members) == 0 {
		return document.TextRegion{}, false, ErrEmptySelection
	}
	if len(members) == 1 {
		return members[0], false, nil
	}

	ordered := slices.Clone(members)
	slices.SortStableFunc(ordered, readingOrder)

	texts := make([]string, 0, len(ordered))
	for _, r := range ordered {
		if r.Text != "" {
			texts = append(texts, r.Text)
		}
		merged.Highlight = merged.Highlight || r.Highlight
	}
	merged.ID = alloc()
	merged.Box = document.Envelope(members)
	merged.Text = strings.Join(texts, sep)

	insertAt := slices.Min(positions)
	out := make([]document.TextRegion, 0, len(d.Regions)-len(members)+1)
	for i, r := range d.Regions {
		if i == insertAt {
			out = append(out, merged)
		}
		if slices.Contains(positions, i) {
			continue
		}
		out = append(out, r)
	}
	d.Regions = out
	d.Select(merged.ID)
	return merged, true, nil
}

// Remove deletes the regions named by ids and clears the selection.
func Remove(d *document.Draft, ids []document.RegionID) bool {
	before := len(d.Regions)
	d.Regions = slices.DeleteFunc(d.Regions, func(r document.TextRegion) bool {
		return slices.Contains(ids, r.ID)
	})
	changed := len(d.Regions) != before || !d.Selection.IsEmpty()
	d.Select()
	return changed
}

// Move translates the regions named by ids by delta. The union envelope of
// the moved boxes is clamped to the image as one unit so the regions keep
// their relative offsets. It reports false when the clamped delta is zero.
func Move(d *document.Draft, ids []document.RegionID, delta image.Point) bool {
	members, positions := collect(d, ids)
	if len(members) == 0 {
		return false
	}
	delta = clampDelta(document.Envelope(members), d.Bounds(), delta)
	if delta == (image.Point{}) {
		return false
	}
	for _, i := range positions {
		d.Regions[i].Box = d.Regions[i].Box.Add(delta)
	}
	return true
}

// Reorder moves region id to z-position index, clamped to the list.
func Reorder(d *document.Draft, id document.RegionID, index int) (bool, error) {
	from := d.IndexOf(id)
	if from < 0 {
		return false, ErrUnknownRegion
	}
	index = max(0, min(index, len(d.Regions)-1))
	if index == from {
		return false, nil
	}
	r := d.Regions[from]
	d.Regions = slices.Delete(d.Regions, from, from+1)
	d.Regions = slices.Insert(d.Regions, index, r)
	return true, nil
}

// SetHighlight sets the style flag on the regions named by ids.
func SetHighlight(d *document.Draft, ids []document.RegionID, on bool) bool {
	changed := false
	for _, i := range positionsOf(d, ids) {
		if d.Regions[i].Highlight != on {
			d.Regions[i].Highlight = on
			changed = true
		}
	}
	return changed
}

// SetText replaces the content of region id.
func SetText(d *document.Draft, id document.RegionID, text string) (bool, error) {
	i := d.IndexOf(id)
	if i < 0 {
		return false, ErrUnknownRegion
	}
	if d.Regions[i].Text == text {
		return false, nil
	}
	d.Regions[i].Text = text
	return true, nil
}

// Paste inserts copies of regions on top of the z-order, shifted by offset
// and given fresh ids. Boxes are clamped into the image; regions that cannot
// fit are clipped. The pasted regions become the selection.
func Paste(d *document.Draft, regions []document.TextRegion, offset image.Point, alloc IDAllocator) []document.RegionID {
	if len(regions) == 0 {
		return nil
	}
	bounds := d.Bounds()
	offset = clampDelta(document.Envelope(regions), bounds, offset)
	ids := make([]document.RegionID, 0, len(regions))
	for _, r := range regions {
		box, ok := document.Clip(r.Box.Add(offset), bounds)
		if !ok {
			continue
		}
		r.ID = alloc()
		r.Box = box
		d.Regions = append(d.Regions, r)
		ids = append(ids, r.ID)
	}
	d.Select(ids...)
	return ids
}

// clampDelta limits delta so env+delta stays inside bounds. When env is larger
// than bounds on an axis the axis is pinned to the bounds' origin.
func clampDelta(env, bounds image.Rectangle, delta image.Point) image.Point {
	return image.Point{
		X: clampAxis(env.Min.X, env.Max.X, bounds.Min.X, bounds.Max.X, delta.X),
		Y: clampAxis(env.Min.Y, env.Max.Y, bounds.Min.Y, bounds.Max.Y, delta.Y),
	}
}

func clampAxis(lo, hi, minBound, maxBound, d int) int {
	if hi-lo > maxBound-minBound {
		return minBound - lo
	}
	if lo+d < minBound {
		d = minBound - lo
	}
	if hi+d > maxBound {
		d = maxBound - hi
	}
	return d
}

func readingOrder(a, b document.TextRegion) int {
	if a.Box.Min.Y != b.Box.Min.Y {
		return a.Box.Min.Y - b.Box.Min.Y
	}
	return a.Box.Min.X - b.Box.Min.X
}

// collect returns the regions named by ids in z-order with their positions.
// Unknown ids are skipped.
func collect(d *document.Draft, ids []document.RegionID) ([]document.TextRegion, []int) {
	positions := positionsOf(d, ids)
	members := make([]document.TextRegion, 0, len(positions))
	for _, i := range positions {
		members = append(members, d.Regions[i])
	}
	return members, positions
}

func positionsOf(d *document.Draft, ids []document.RegionID) []int {
	var positions []int
	for i, r := range d.Regions {
		if slices.Contains(ids, r.ID) {
			positions = append(positions, i)
		}
	}
	return positions
}
