// Package history implements the undo/redo stacks of document snapshots.
package history

import (
	"errors"

	"github.com/jackzampolin/scanedit/internal/document"
)

// ErrHistoryEmpty is returned by Undo and Redo when the respective stack has
// nothing to restore.
var ErrHistoryEmpty = errors.New("history is empty")

// Stack holds snapshots in two LIFO stacks. Snapshots are values, so entries
// can never be mutated through an alias held elsewhere.
type Stack struct {
	undo   []document.Snapshot
	redo   []document.Snapshot
	limit  int
	staged bool
}

// New creates a stack. A limit of zero or less keeps every undo entry;
// otherwise the oldest entry is discarded once limit is exceeded.
func New(limit int) *Stack {
	return &Stack{limit: limit}
}

// Push records s on the undo stack, trimming to the limit.
func (h *Stack) Push(s document.Snapshot) {
	h.undo = append(h.undo, s)
	h.trim()
}

// Stage records s on the undo stack provisionally. The limit is not applied
// until CommitStaged, so DropStaged leaves the stack exactly as it was.
func (h *Stack) Stage(s document.Snapshot) {
	h.undo = append(h.undo, s)
	h.staged = true
}

// CommitStaged makes a staged entry permanent and discards the redo branch.
// Without a staged entry it only discards the redo branch.
func (h *Stack) CommitStaged() {
	h.staged = false
	h.trim()
	h.ClearRedo()
}

// Commit stages s onto the undo stack and discards the redo branch. This is
// the bookkeeping for every new edit.
func (h *Stack) Commit(s document.Snapshot) {
	h.Push(s)
	h.ClearRedo()
}

// Undo pops the most recent undo entry and records live on the redo stack.
func (h *Stack) Undo(live document.Snapshot) (document.Snapshot, error) {
	prev, ok := pop(&h.undo)
	if !ok {
		return live, ErrHistoryEmpty
	}
	h.redo = append(h.redo, live)
	return prev, nil
}

// Redo pops the most recent redo entry and records live on the undo stack.
func (h *Stack) Redo(live document.Snapshot) (document.Snapshot, error) {
	next, ok := pop(&h.redo)
	if !ok {
		return live, ErrHistoryEmpty
	}
	h.Push(live)
	return next, nil
}

// DropStaged removes the entry recorded by Stage without restoring it. It
// reports false when nothing is staged.
func (h *Stack) DropStaged() bool {
	if !h.staged {
		return false
	}
	h.staged = false
	_, ok := pop(&h.undo)
	return ok
}

// Staged reports whether an entry awaits CommitStaged or DropStaged.
func (h *Stack) Staged() bool { return h.staged }

// ClearRedo discards the redo branch.
func (h *Stack) ClearRedo() {
	clear(h.redo)
	h.redo = h.redo[:0]
}

// Reset discards both stacks.
func (h *Stack) Reset() {
	h.undo = nil
	h.redo = nil
	h.staged = false
}

// CanUndo reports whether Undo would restore something.
func (h *Stack) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would restore something.
func (h *Stack) CanRedo() bool { return len(h.redo) > 0 }

// UndoDepth returns the number of undo entries.
func (h *Stack) UndoDepth() int { return len(h.undo) }

// RedoDepth returns the number of redo entries.
func (h *Stack) RedoDepth() int { return len(h.redo) }

// SetLimit changes the undo bound, trimming immediately if needed.
func (h *Stack) SetLimit(limit int) {
	h.limit = limit
	h.trim()
}

// trim drops the oldest entries beyond the limit. A staged entry does not
// count against it.
func (h *Stack) trim() {
	if h.limit <= 0 {
		return
	}
	keep := h.limit
	if h.staged {
		keep++
	}
	if len(h.undo) > keep {
		drop := len(h.undo) - keep
		clear(h.undo[:drop])
		h.undo = h.undo[drop:]
	}
}

func pop(stack *[]document.Snapshot) (document.Snapshot, bool) {
	s := *stack
	if len(s) == 0 {
		return document.Snapshot{}, false
	}
	top := s[len(s)-1]
	s[len(s)-1] = document.Snapshot{}
	*stack = s[:len(s)-1]
	return top, true
}
