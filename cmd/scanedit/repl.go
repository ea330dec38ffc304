package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/jackzampolin/scanedit/internal/controller"
	"github.com/jackzampolin/scanedit/internal/document"
	"github.com/jackzampolin/scanedit/internal/output"
	"github.com/jackzampolin/scanedit/internal/viewport"
)

var errQuit = errors.New("quit")

const replHelp = `commands:
  show                      print the document
  click <x> <y>             select the topmost region at a point
  box <x0> <y0> <x1> <y1>   select every region overlapping a rectangle
  select <id>...            select regions by id
  clear                     clear the selection
  move <dx> <dy>            move the selection
  group                     merge the selection into one region
  delete                    delete the selection
  copy | paste              copy the selection, paste it offset
  highlight on|off          set the highlight flag on the selection
  text <id> <text>          replace a region's text
  reorder <id> <index>      move a region to a z-position
  undo | redo               step through history
  extract                   re-run OCR on the image
  paste-image <file>        replace the image with another file and re-extract
  zoom in|out|<factor>      change the view scale
  render <file>             save the view with regions drawn
  quit`

// repl interprets edit session commands. Its methods run on the control
// goroutine.
type repl struct {
	s         *session
	out       io.Writer
	finishing bool
}

func newREPL(s *session, out io.Writer) *repl {
	return &repl{s: s, out: out}
}

// observe reports extraction activity as it happens.
func (r *repl) observe(ev controller.Event) {
	switch ev.Kind {
	case controller.ProcessingStateChanged:
		if ev.Processing {
			fmt.Fprintln(r.out, "extracting...")
		} else {
			r.finishing = true
		}
	case controller.ExtractionProgress:
		fmt.Fprintf(r.out, "  %s %3.0f%%\n", ev.Progress.Stage, ev.Progress.Fraction*100)
	case controller.ExtractionFailed:
		r.finishing = false
		fmt.Fprintf(r.out, "extraction failed: %v\n", ev.Err)
	case controller.DocumentChanged:
		if r.finishing {
			r.finishing = false
			fmt.Fprintf(r.out, "extracted %d regions\n", ev.Snapshot.Len())
		}
	}
}

func (r *repl) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]
	ctrl := r.s.ctrl
	r.s.zoom.SetOrigin(ctrl.Snapshot().Bounds().Min)

	switch name {
	case "help", "?":
		fmt.Fprintln(r.out, replHelp)
		return nil
	case "quit", "exit":
		return errQuit
	case "show":
		return output.To(r.out, output.GetFormat(), r.s.view())

	case "click":
		p, err := parsePoint(args)
		if err != nil {
			return err
		}
		if id, ok := ctrl.SelectAt(r.s.zoom.ToImage(p)); ok {
			fmt.Fprintf(r.out, "selected %s\n", id)
		} else {
			fmt.Fprintln(r.out, "nothing selected")
		}
		return nil
	case "box":
		rect, err := parseRect(args)
		if err != nil {
			return err
		}
		ids := ctrl.SelectRange(r.s.zoom.RectToImage(rect))
		fmt.Fprintf(r.out, "selected %d regions\n", len(ids))
		return nil
	case "select":
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		ctrl.Select(ids...)
		return nil
	case "clear":
		ctrl.ClearSelection()
		return nil

	case "move":
		d, err := parsePoint(args)
		if err != nil {
			return err
		}
		return ctrl.MoveSelection(r.s.zoom.DeltaToImage(d))
	case "group":
		return ctrl.GroupSelection()
	case "delete":
		return ctrl.DeleteSelection()
	case "copy":
		fmt.Fprintf(r.out, "copied %d regions\n", ctrl.CopySelection())
		return nil
	case "paste":
		return ctrl.PasteClipboard()
	case "highlight":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return fmt.Errorf("usage: highlight on|off")
		}
		return ctrl.HighlightSelection(args[0] == "on")
	case "text":
		if len(args) < 1 {
			return fmt.Errorf("usage: text <id> <text>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return ctrl.ApplyEdit(controller.SetText{ID: id, Text: strings.Join(args[1:], " ")})
	case "reorder":
		if len(args) != 2 {
			return fmt.Errorf("usage: reorder <id> <index>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[1])
		}
		return ctrl.ApplyEdit(controller.Reorder{ID: id, Index: index})

	case "undo":
		return ctrl.Undo()
	case "redo":
		return ctrl.Redo()
	case "extract":
		return ctrl.Extract()
	case "paste-image":
		if len(args) != 1 {
			return fmt.Errorf("usage: paste-image <file>")
		}
		return ctrl.PasteImageFile(args[0])

	case "zoom":
		if len(args) != 1 {
			return fmt.Errorf("usage: zoom in|out|<factor>")
		}
		switch args[0] {
		case "in":
			r.s.zoom.In()
		case "out":
			r.s.zoom.Out()
		default:
			f, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid zoom factor %q", args[0])
			}
			r.s.zoom.Set(f)
		}
		fmt.Fprintf(r.out, "zoom %.2f\n", r.s.zoom.Scale())
		return nil
	case "render":
		if len(args) != 1 {
			return fmt.Errorf("usage: render <file>")
		}
		return imaging.Save(viewport.Render(ctrl.Snapshot(), r.s.zoom), args[0])
	}
	return fmt.Errorf("unknown command %q (try help)", name)
}

func parseInts(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}

func parsePoint(args []string) (image.Point, error) {
	v, err := parseInts(args, 2)
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(v[0], v[1]), nil
}

func parseRect(args []string) (image.Rectangle, error) {
	v, err := parseInts(args, 4)
	if err != nil {
		return image.Rectangle{}, err
	}
	return image.Rect(v[0], v[1], v[2], v[3]), nil
}

// parseID accepts both "r7" and "7".
func parseID(s string) (document.RegionID, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "r"), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid region id %q", s)
	}
	return document.RegionID(n), nil
}

func parseIDs(args []string) ([]document.RegionID, error) {
	ids := make([]document.RegionID, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
