// Package controller owns an editable OCR document: the live snapshot, its
// undo/redo history and the asynchronous extraction that fills it with text
// regions.
//
// A Controller is not safe for concurrent use. All calls, including
// HandleCompletion, must come from one control goroutine; Run provides such
// a loop. Extraction workers only compute results and send them back over the
// completion channel.
package controller

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jackzampolin/scanedit/internal/document"
	"github.com/jackzampolin/scanedit/internal/extract"
	"github.com/jackzampolin/scanedit/internal/history"
	"github.com/jackzampolin/scanedit/internal/imageload"
)

var (
	// ErrAlreadyProcessing is returned when an extraction is in flight.
	// Re-entrant extractions and history edits are rejected, not queued.
	ErrAlreadyProcessing = errors.New("extraction already in progress")

	// ErrNoDocument is returned when no image has been loaded.
	ErrNoDocument = errors.New("no document loaded")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("document closed")
)

// Dispatcher accepts extraction requests. *extract.Pool implements it.
type Dispatcher interface {
	Submit(req *extract.Request) error
}

// Config configures a Controller.
type Config struct {
	Logger     *slog.Logger
	Loader     imageload.Loader
	Dispatcher Dispatcher

	HistoryLimit     int         // 0 keeps every entry
	GroupSeparator   string      // Default " "
	PasteOffset      image.Point // Shift applied to pasted regions
	CompletionBuffer int         // Default 16
}

// Controller orchestrates the document state engine.
type Controller struct {
	id         string
	logger     *slog.Logger
	loader     imageload.Loader
	dispatcher Dispatcher

	separator   string
	pasteOffset image.Point

	live       document.Snapshot
	loaded     bool
	path       string
	history    *history.Stack
	processing bool
	generation uint64
	nextID     document.RegionID
	clipboard  []document.TextRegion
	closed     bool

	completions chan extract.Result

	observers    []subscription
	nextObserver int
}

// New creates a controller with no document loaded.
func New(cfg Config) (*Controller, error) {
	if cfg.Loader == nil {
		return nil, fmt.Errorf("controller requires a loader")
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("controller requires a dispatcher")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	separator := cfg.GroupSeparator
	if separator == "" {
		separator = " "
	}

	buffer := cfg.CompletionBuffer
	if buffer <= 0 {
		buffer = 16
	}

	id := uuid.New().String()
	return &Controller{
		id:          id,
		logger:      logger.With("document", id),
		loader:      cfg.Loader,
		dispatcher:  cfg.Dispatcher,
		separator:   separator,
		pasteOffset: cfg.PasteOffset,
		history:     history.New(cfg.HistoryLimit),
		completions: make(chan extract.Result, buffer),
	}, nil
}

// ID returns the document id.
func (c *Controller) ID() string { return c.id }

// Path returns the path of the loaded image.
func (c *Controller) Path() string { return c.path }

// Snapshot returns the live snapshot.
func (c *Controller) Snapshot() document.Snapshot { return c.live }

// Processing reports whether an extraction is in flight.
func (c *Controller) Processing() bool { return c.processing }

// CanUndo reports whether Undo would change the document.
func (c *Controller) CanUndo() bool { return !c.processing && c.history.CanUndo() }

// CanRedo reports whether Redo would change the document.
func (c *Controller) CanRedo() bool { return !c.processing && c.history.CanRedo() }

// UndoDepth returns the number of undo entries.
func (c *Controller) UndoDepth() int { return c.history.UndoDepth() }

// RedoDepth returns the number of redo entries.
func (c *Controller) RedoDepth() int { return c.history.RedoDepth() }

// Generation returns the current extraction generation.
func (c *Controller) Generation() uint64 { return c.generation }

// Completions is the channel extraction workers reply on. The control
// goroutine must pass every value it receives to HandleCompletion.
func (c *Controller) Completions() <-chan extract.Result { return c.completions }

// SetHistoryLimit changes the undo bound.
func (c *Controller) SetHistoryLimit(limit int) { c.history.SetLimit(limit) }

// SetGroupSeparator changes the text joined between grouped regions.
func (c *Controller) SetGroupSeparator(sep string) {
	if sep == "" {
		sep = " "
	}
	c.separator = sep
}

// SetPasteOffset changes the shift applied to pasted regions.
func (c *Controller) SetPasteOffset(offset image.Point) { c.pasteOffset = offset }

// LoadImage opens path as a new document and starts extracting it. History
// is discarded and any in-flight extraction becomes stale. On a load error
// the current document is left untouched.
func (c *Controller) LoadImage(path string) error {
	if c.closed {
		return ErrClosed
	}
	img, err := c.loader.Load(path)
	if err != nil {
		c.logger.Warn("image load failed", "path", path, "error", err)
		return fmt.Errorf("load image: %w", err)
	}

	c.history.Reset()
	c.generation++
	c.processing = false
	c.nextID = 0
	c.clipboard = nil
	c.live = document.New(img)
	c.loaded = true
	c.path = path
	c.logger.Info("image loaded", "path", path, "bounds", img.Bounds(), "generation", c.generation)
	c.notify(Event{Kind: DocumentChanged})

	return c.Extract()
}

// Extract re-runs OCR on the live image. It returns immediately; the result
// is committed when its completion reaches HandleCompletion.
func (c *Controller) Extract() error {
	if err := c.editable(); err != nil {
		return err
	}
	c.history.Stage(c.live)
	return c.dispatch()
}

// dispatch submits the live image. A staged history entry is dropped if the
// submission fails.
func (c *Controller) dispatch() error {
	c.generation++
	req := &extract.Request{
		ID:         uuid.New().String(),
		Generation: c.generation,
		Image:      c.live.Image(),
		Reply:      c.completions,
	}
	if err := c.dispatcher.Submit(req); err != nil {
		c.history.DropStaged()
		c.logger.Warn("extraction dispatch failed", "error", err)
		return fmt.Errorf("dispatch extraction: %w", err)
	}

	c.processing = true
	c.logger.Debug("extraction dispatched", "request_id", req.ID, "generation", req.Generation)
	c.notify(Event{Kind: ProcessingStateChanged})
	return nil
}

// HandleCompletion applies a message from an extraction worker. Messages
// from a superseded generation, or arriving after Close, are dropped.
func (c *Controller) HandleCompletion(r extract.Result) {
	if c.closed || !c.processing || r.Generation != c.generation {
		c.logger.Debug("discarding stale extraction result",
			"request_id", r.RequestID, "generation", r.Generation, "current", c.generation)
		return
	}

	if !r.Final() {
		c.notify(Event{Kind: ExtractionProgress, Progress: *r.Progress})
		return
	}

	c.processing = false
	if r.Err != nil {
		c.history.DropStaged()
		c.logger.Warn("extraction failed", "request_id", r.RequestID, "error", r.Err)
		c.notify(Event{Kind: ProcessingStateChanged})
		c.notify(Event{Kind: ExtractionFailed, Err: r.Err})
		return
	}

	d := c.live.Edit()
	d.Selection = document.Selection{}
	d.Regions = make([]document.TextRegion, 0, len(r.Spans))
	for _, s := range r.Spans {
		d.Regions = append(d.Regions, document.TextRegion{
			ID:   c.allocID(),
			Box:  s.Box,
			Text: s.Text,
		})
	}
	c.live = d.Publish()
	c.history.CommitStaged()
	c.logger.Info("extraction committed", "request_id", r.RequestID, "regions", c.live.Len(), "duration", r.Duration)
	c.notify(Event{Kind: ProcessingStateChanged})
	c.notify(Event{Kind: DocumentChanged})
}

// Undo restores the previous snapshot.
func (c *Controller) Undo() error {
	if err := c.editable(); err != nil {
		return err
	}
	prev, err := c.history.Undo(c.live)
	if err != nil {
		return err
	}
	c.live = prev
	c.notify(Event{Kind: DocumentChanged})
	return nil
}

// Redo re-applies the most recently undone snapshot.
func (c *Controller) Redo() error {
	if err := c.editable(); err != nil {
		return err
	}
	next, err := c.history.Redo(c.live)
	if err != nil {
		return err
	}
	c.live = next
	c.notify(Event{Kind: DocumentChanged})
	return nil
}

// ApplyEdit applies op to a working copy of the live snapshot and commits
// it. Edits that change nothing leave history and observers alone.
func (c *Controller) ApplyEdit(op EditOp) error {
	if err := c.editable(); err != nil {
		return err
	}
	d := c.live.Edit()
	changed, err := op.Apply(EditEnv{NewID: c.allocID, Separator: c.separator}, d)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	c.history.Commit(c.live)
	c.live = d.Publish()
	c.notify(Event{Kind: DocumentChanged})
	if _, ok := op.(imageEdit); ok {
		return c.dispatch()
	}
	return nil
}

// PasteImageFile loads path and pastes it over the current image as an
// undoable edit, then extracts the new image.
func (c *Controller) PasteImageFile(path string) error {
	if err := c.editable(); err != nil {
		return err
	}
	img, err := c.loader.Load(path)
	if err != nil {
		c.logger.Warn("image load failed", "path", path, "error", err)
		return fmt.Errorf("load image: %w", err)
	}
	if err := c.ApplyEdit(PasteImage{Image: img}); err != nil {
		return err
	}
	c.logger.Info("image pasted", "path", path, "bounds", img.Bounds(), "generation", c.generation)
	return nil
}

// Close tears the document down. A completion still in flight finds its
// generation superseded and is dropped.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.generation++
	c.processing = false
	c.history.Reset()
	c.clipboard = nil
	c.observers = nil
	c.logger.Debug("document closed")
}

// Run is the control loop: it executes commands and extraction completions
// one at a time on the calling goroutine until ctx is cancelled or commands
// is closed.
func (c *Controller) Run(ctx context.Context, commands <-chan func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-commands:
			if !ok {
				return nil
			}
			cmd()
		case r := <-c.completions:
			c.HandleCompletion(r)
		}
	}
}

func (c *Controller) editable() error {
	switch {
	case c.closed:
		return ErrClosed
	case !c.loaded:
		return ErrNoDocument
	case c.processing:
		return ErrAlreadyProcessing
	}
	return nil
}

func (c *Controller) allocID() document.RegionID {
	c.nextID++
	return c.nextID
}
