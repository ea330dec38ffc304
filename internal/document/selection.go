package document

import "slices"

// Selection is the set of selected region ids: none, a single id, or a group.
// Ids keep the order they were selected in.
type Selection struct {
	ids []RegionID
}

// NewSelection builds a selection, dropping duplicate ids.
func NewSelection(ids ...RegionID) Selection {
	if len(ids) == 0 {
		return Selection{}
	}
	out := make([]RegionID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return Selection{ids: out}
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool { return len(s.ids) == 0 }

// Len returns the number of selected ids.
func (s Selection) Len() int { return len(s.ids) }

// IDs returns a copy of the selected ids.
func (s Selection) IDs() []RegionID {
	if len(s.ids) == 0 {
		return nil
	}
	return slices.Clone(s.ids)
}

// Contains reports whether id is selected.
func (s Selection) Contains(id RegionID) bool {
	return slices.Contains(s.ids, id)
}

// Single returns the selected id when exactly one region is selected.
func (s Selection) Single() (RegionID, bool) {
	if len(s.ids) != 1 {
		return 0, false
	}
	return s.ids[0], true
}

// Equal reports whether both selections hold the same ids in the same order.
func (s Selection) Equal(other Selection) bool {
	return slices.Equal(s.ids, other.ids)
}
