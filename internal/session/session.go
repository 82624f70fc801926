// Package session owns the working board list of one editing session: the
// form input, the list itself, its undo history and the autosaved draft.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/piwi3910/boardfoot/internal/model"
	"github.com/piwi3910/boardfoot/internal/project"
)

var (
	// ErrEmptyOrder is returned when saving a session with no boards.
	ErrEmptyOrder = errors.New("order has no boards")
	// ErrNotFound is returned when an id matches no board or saved order.
	ErrNotFound = errors.New("not found")
)

// Session is the single logical owner of a working board list. It is not
// safe for concurrent use.
type Session struct {
	store   *project.OrderStore
	logger  *log.Logger
	config  model.AppConfig
	input   model.BoardInput
	boards  []model.BoardEntry
	history *History
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig applies the configured input defaults.
func WithConfig(cfg model.AppConfig) Option {
	return func(s *Session) { s.config = cfg }
}

// New creates an empty session backed by store.
func New(store *project.OrderStore, opts ...Option) *Session {
	s := &Session{
		store:   store,
		logger:  log.New(io.Discard, "", 0),
		config:  model.DefaultAppConfig(),
		boards:  []model.BoardEntry{},
		history: NewHistory(undoDepth),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.input = s.freshInput()
	return s
}

func (s *Session) freshInput() model.BoardInput {
	in := model.NewBoardInput()
	s.config.ApplyToInput(&in)
	return in
}

// Restore loads a non-empty draft left by a previous session. It reports
// whether anything was restored.
func (s *Session) Restore(ctx context.Context) bool {
	draft, ok := s.store.LoadDraft(ctx)
	if !ok || len(draft) == 0 {
		return false
	}
	s.boards = draft
	s.history.Clear()
	s.adoptUnits(draft[0])
	s.logger.Printf("restored draft with %d boards", len(draft))
	return true
}

// Input returns the form input the next board is built from.
func (s *Session) Input() *model.BoardInput { return &s.input }

// Boards returns a copy of the working list.
func (s *Session) Boards() []model.BoardEntry {
	return model.CloneBoards(s.boards)
}

// Len returns the number of boards in the working list.
func (s *Session) Len() int { return len(s.boards) }

// Totals returns the board feet and cost of the working list.
func (s *Session) Totals() (boardFeet, cost float64) {
	return model.Totals(s.boards)
}

// Add validates in, appends the resulting board and autosaves the draft.
func (s *Session) Add(ctx context.Context, in model.BoardInput) (model.BoardEntry, error) {
	b, err := in.Build()
	if err != nil {
		return model.BoardEntry{}, err
	}
	s.mutate(ctx, "Add Board", func() {
		s.boards = append(s.boards, b)
	})
	return b.Clone(), nil
}

// AddCurrent adds a board from the session's own input and then clears the
// dimension fields, keeping price and species for the next board.
func (s *Session) AddCurrent(ctx context.Context) (model.BoardEntry, error) {
	b, err := s.Add(ctx, s.input)
	if err != nil {
		return model.BoardEntry{}, err
	}
	s.input.ResetDimensions()
	return b, nil
}

// AddBoards appends already built boards, such as an import result, as one
// undoable change. Invalid boards are rejected before anything is added.
func (s *Session) AddBoards(ctx context.Context, boards []model.BoardEntry) error {
	for i, b := range boards {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("board %d: %w", i+1, err)
		}
	}
	if len(boards) == 0 {
		return nil
	}
	s.mutate(ctx, "Add "+strconv.Itoa(len(boards))+" Boards", func() {
		s.boards = append(s.boards, model.CloneBoards(boards)...)
	})
	return nil
}

// Update replaces the board with the same id in place.
func (s *Session) Update(ctx context.Context, b model.BoardEntry) error {
	if err := b.Validate(); err != nil {
		return err
	}
	i := s.indexOf(b.ID)
	if i < 0 {
		return fmt.Errorf("board %s: %w", b.ID, ErrNotFound)
	}
	s.mutate(ctx, "Edit Board", func() {
		s.boards[i] = b.Clone()
	})
	return nil
}

// Remove deletes the board with the given id.
func (s *Session) Remove(ctx context.Context, id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	s.mutate(ctx, "Remove Board", func() {
		s.boards = append(s.boards[:i:i], s.boards[i+1:]...)
	})
	return nil
}

// Clear empties the working list, resets the input and removes the draft.
// The change can be undone.
func (s *Session) Clear(ctx context.Context) {
	if len(s.boards) > 0 {
		s.history.Record(s.boards, "Clear All")
	}
	s.boards = []model.BoardEntry{}
	s.input = s.freshInput()
	s.store.ClearDraft(ctx)
}

// LoadOrder replaces the working list with a copy of a saved order's boards
// and takes the first board's settings into the input. The saved order is
// not modified; saving again creates a new order.
func (s *Session) LoadOrder(ctx context.Context, order model.SavedOrder) {
	s.mutate(ctx, "Load "+order.Name, func() {
		s.boards = model.CloneBoards(order.Boards)
	})
	if len(order.Boards) > 0 {
		first := order.Boards[0]
		s.adoptUnits(first)
		s.input.PricingType = first.PricingType
		if first.WoodSpecies != nil && *first.WoodSpecies != "" {
			s.input.Species = *first.WoodSpecies
		}
		if first.Price != nil && *first.Price != 0 {
			s.input.Price = strconv.FormatFloat(*first.Price, 'f', -1, 64)
		}
	}
}

// LoadOrderByID looks up a saved order and loads it.
func (s *Session) LoadOrderByID(ctx context.Context, id string) (model.SavedOrder, error) {
	order, ok := s.store.FindOrder(ctx, id)
	if !ok {
		return model.SavedOrder{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	s.LoadOrder(ctx, order)
	return order, nil
}

// Save snapshots the working list into a new saved order, then clears the
// list, the draft and the undo history.
func (s *Session) Save(ctx context.Context, name string) (model.SavedOrder, error) {
	if len(s.boards) == 0 {
		return model.SavedOrder{}, ErrEmptyOrder
	}
	order := model.NewSavedOrder(name, s.boards, s.store.NextOrderNumber(ctx))
	s.store.SaveOrder(ctx, order)
	s.store.ClearDraft(ctx)
	s.boards = []model.BoardEntry{}
	s.input = s.freshInput()
	s.history.Clear()
	s.logger.Printf("saved %q with %d boards", order.Name, len(order.Boards))
	return order, nil
}

// ExportText renders the working list as the undated export report.
func (s *Session) ExportText() string {
	title := s.config.ReportTitle
	if title == "" {
		title = model.DraftExportTitle
	}
	return model.GenerateReport(title, nil, s.boards)
}

// Undo reverts the last change to the working list.
func (s *Session) Undo(ctx context.Context) bool {
	boards, ok := s.history.Undo(s.boards)
	if !ok {
		return false
	}
	s.restore(ctx, boards)
	return true
}

// Redo reapplies the last undone change.
func (s *Session) Redo(ctx context.Context) bool {
	boards, ok := s.history.Redo(s.boards)
	if !ok {
		return false
	}
	s.restore(ctx, boards)
	return true
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// UndoLabel names the change Undo would revert, or "" when there is none.
func (s *Session) UndoLabel() string { return s.history.UndoLabel() }

// RedoLabel names the change Redo would reapply, or "" when there is none.
func (s *Session) RedoLabel() string { return s.history.RedoLabel() }

func (s *Session) restore(ctx context.Context, boards []model.BoardEntry) {
	s.boards = boards
	s.autosave(ctx)
}

// mutate records an undo point, applies fn and autosaves.
func (s *Session) mutate(ctx context.Context, label string, fn func()) {
	s.history.Record(s.boards, label)
	fn()
	s.autosave(ctx)
}

// autosave writes a non-empty list to the draft. An empty list leaves the
// stored draft as it is; only Clear and Save remove it.
func (s *Session) autosave(ctx context.Context) {
	if len(s.boards) > 0 {
		s.store.SaveDraft(ctx, s.boards)
	}
}

func (s *Session) adoptUnits(b model.BoardEntry) {
	s.input.Unit = b.Unit
	if b.LengthUnit != nil {
		s.input.LengthUnit = *b.LengthUnit
	}
}

func (s *Session) indexOf(id string) int {
	for i := range s.boards {
		if s.boards[i].ID == id {
			return i
		}
	}
	return -1
}
