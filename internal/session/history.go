package session

import "github.com/piwi3910/boardfoot/internal/model"

// undoDepth bounds how many edits can be undone.
const undoDepth = 50

// edit is the board list as it stood on one side of a change, tagged with
// the action that made the change.
type edit struct {
	boards []model.BoardEntry
	action string
}

// stack is a LIFO of edits that forgets its oldest entry past limit.
type stack struct {
	items []edit
	limit int
}

func (s *stack) push(e edit) {
	s.items = append(s.items, e)
	if over := len(s.items) - s.limit; over > 0 {
		s.items = s.items[over:]
	}
}

func (s *stack) pop() (edit, bool) {
	if len(s.items) == 0 {
		return edit{}, false
	}
	e := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return e, true
}

func (s *stack) top() string {
	if len(s.items) == 0 {
		return ""
	}
	return s.items[len(s.items)-1].action
}

// History keeps undo and redo points for a working board list. Every point
// holds its own deep copy of the boards.
type History struct {
	undo stack
	redo stack
}

// NewHistory returns a History that remembers up to depth edits. A depth
// below one selects undoDepth.
func NewHistory(depth int) *History {
	if depth < 1 {
		depth = undoDepth
	}
	return &History{undo: stack{limit: depth}, redo: stack{limit: depth}}
}

// Record stores boards as they are before action is applied. Any redo
// points are discarded.
func (h *History) Record(boards []model.BoardEntry, action string) {
	h.undo.push(edit{boards: model.CloneBoards(boards), action: action})
	h.redo.items = nil
}

// Undo trades current for the most recent undo point and returns that
// point's boards.
func (h *History) Undo(current []model.BoardEntry) ([]model.BoardEntry, bool) {
	prev, ok := h.undo.pop()
	if !ok {
		return nil, false
	}
	h.redo.push(edit{boards: model.CloneBoards(current), action: prev.action})
	return model.CloneBoards(prev.boards), true
}

// Redo reapplies the most recently undone action.
func (h *History) Redo(current []model.BoardEntry) ([]model.BoardEntry, bool) {
	next, ok := h.redo.pop()
	if !ok {
		return nil, false
	}
	h.undo.push(edit{boards: model.CloneBoards(current), action: next.action})
	return model.CloneBoards(next.boards), true
}

func (h *History) CanUndo() bool { return len(h.undo.items) > 0 }

func (h *History) CanRedo() bool { return len(h.redo.items) > 0 }

// UndoLabel names the action Undo would revert.
func (h *History) UndoLabel() string { return h.undo.top() }

// RedoLabel names the action Redo would reapply.
func (h *History) RedoLabel() string { return h.redo.top() }

func (h *History) Clear() {
	h.undo.items = nil
	h.redo.items = nil
}
