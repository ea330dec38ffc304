package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jackzampolin/scanedit/internal/document"
)

// RegionView is the serialisable form of a text region.
type RegionView struct {
	ID        string `json:"id" yaml:"id"`
	Z         int    `json:"z" yaml:"z"`
	X         int    `json:"x" yaml:"x"`
	Y         int    `json:"y" yaml:"y"`
	Width     int    `json:"width" yaml:"width"`
	Height    int    `json:"height" yaml:"height"`
	Text      string `json:"text" yaml:"text"`
	Highlight bool   `json:"highlight,omitempty" yaml:"highlight,omitempty"`
	Selected  bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// DocumentView is the serialisable form of a document snapshot and the
// editor state around it.
type DocumentView struct {
	ID         string       `json:"id,omitempty" yaml:"id,omitempty"`
	Path       string       `json:"path,omitempty" yaml:"path,omitempty"`
	Width      int          `json:"width" yaml:"width"`
	Height     int          `json:"height" yaml:"height"`
	Processing bool         `json:"processing" yaml:"processing"`
	UndoDepth  int          `json:"undo_depth" yaml:"undo_depth"`
	RedoDepth  int          `json:"redo_depth" yaml:"redo_depth"`
	Zoom       float64      `json:"zoom,omitempty" yaml:"zoom,omitempty"`
	Selected   []string     `json:"selected,omitempty" yaml:"selected,omitempty"`
	Regions    []RegionView `json:"regions" yaml:"regions"`
}

// State is the editor state a DocumentView reports next to the snapshot.
type State struct {
	ID         string
	Path       string
	Processing bool
	UndoDepth  int
	RedoDepth  int
	Zoom       float64
}

// NewDocumentView builds a view of s in z-order.
func NewDocumentView(s document.Snapshot, st State) DocumentView {
	b := s.Bounds()
	sel := s.Selection()
	v := DocumentView{
		ID:         st.ID,
		Path:       st.Path,
		Width:      b.Dx(),
		Height:     b.Dy(),
		Processing: st.Processing,
		UndoDepth:  st.UndoDepth,
		RedoDepth:  st.RedoDepth,
		Zoom:       st.Zoom,
		Regions:    make([]RegionView, 0, s.Len()),
	}
	for _, id := range sel.IDs() {
		v.Selected = append(v.Selected, id.String())
	}
	for i, r := range s.Regions() {
		v.Regions = append(v.Regions, RegionView{
			ID:        r.ID.String(),
			Z:         i,
			X:         r.Box.Min.X,
			Y:         r.Box.Min.Y,
			Width:     r.Box.Dx(),
			Height:    r.Box.Dy(),
			Text:      r.Text,
			Highlight: r.Highlight,
			Selected:  sel.Contains(r.ID),
		})
	}
	return v
}

// WriteText renders the view as an aligned region table.
func (v DocumentView) WriteText(w io.Writer) error {
	status := "idle"
	if v.Processing {
		status = "extracting"
	}
	if _, err := fmt.Fprintf(w, "%s %dx%d %s undo=%d redo=%d\n",
		v.Path, v.Width, v.Height, status, v.UndoDepth, v.RedoDepth); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tBOX\tTEXT")
	for _, r := range v.Regions {
		mark := " "
		switch {
		case r.Selected && r.Highlight:
			mark = "*!"
		case r.Selected:
			mark = "*"
		case r.Highlight:
			mark = "!"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d,%d %dx%d\t%q\n", mark, r.ID, r.X, r.Y, r.Width, r.Height, r.Text)
	}
	return tw.Flush()
}
