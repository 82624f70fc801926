package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"

	"github.com/piwi3910/boardfoot/internal/model"
	"github.com/piwi3910/boardfoot/internal/storage"
)

// Keys the order store writes under.
const (
	SavedOrdersKey = "savedOrders"
	DraftKey       = "workInProgress"
)

var orderNumberPattern = regexp.MustCompile(`Order (\d+)`)

// errCorrupt marks stored data that was read but could not be decoded.
var errCorrupt = errors.New("corrupt data")

// OrderStore keeps the saved orders collection and the working draft in a KV
// backend. It never returns errors: failures are logged, counted, and read
// back as absent data.
type OrderStore struct {
	kv      storage.KV
	logger  *log.Logger
	metrics *Metrics
}

// Option configures an OrderStore.
type Option func(*OrderStore)

// WithLogger sets the logger failures are reported to.
func WithLogger(l *log.Logger) Option {
	return func(s *OrderStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the collectors store activity is counted in.
func WithMetrics(m *Metrics) Option {
	return func(s *OrderStore) { s.metrics = m }
}

// NewOrderStore wraps kv.
func NewOrderStore(kv storage.KV, opts ...Option) *OrderStore {
	s := &OrderStore{kv: kv, logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the driver name of the underlying KV.
func (s *OrderStore) Backend() storage.Driver { return s.kv.Driver() }

// Location returns the directory a file-backed store writes to, or "" for
// other backends.
func (s *OrderStore) Location() string {
	if f, ok := s.kv.(*storage.File); ok {
		return f.Root()
	}
	return ""
}

func (s *OrderStore) failed(op string, err error) {
	s.logger.Printf("%s: %v", op, err)
	s.metrics.fail(op)
}

// loadOrders reads the collection. A backend failure is returned as is; data
// that cannot be decoded is wrapped in errCorrupt. Orders holding invalid
// boards are dropped and reported under op.
func (s *OrderStore) loadOrders(ctx context.Context, op string) ([]model.SavedOrder, error) {
	data, found, err := s.kv.Get(ctx, SavedOrdersKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	if !found || data == "" {
		return []model.SavedOrder{}, nil
	}
	var orders []model.SavedOrder
	if err := json.Unmarshal([]byte(data), &orders); err != nil {
		return nil, fmt.Errorf("failed to parse orders: %w: %v", errCorrupt, err)
	}
	valid := make([]model.SavedOrder, 0, len(orders))
	for _, o := range orders {
		if err := validateBoards(o.Boards); err != nil {
			s.failed(op, fmt.Errorf("dropping order %q: %w", o.ID, err))
			continue
		}
		valid = append(valid, o)
	}
	return valid, nil
}

func validateBoards(boards []model.BoardEntry) error {
	for i, b := range boards {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("board %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *OrderStore) writeOrders(ctx context.Context, orders []model.SavedOrder) error {
	if orders == nil {
		orders = []model.SavedOrder{}
	}
	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}
	if err := s.kv.Set(ctx, SavedOrdersKey, string(data)); err != nil {
		return fmt.Errorf("failed to write orders: %w", err)
	}
	s.metrics.setOrders(len(orders))
	return nil
}

// ListOrders returns every saved order in insertion order. Missing or
// unreadable data yields an empty list.
func (s *OrderStore) ListOrders(ctx context.Context) []model.SavedOrder {
	s.metrics.observe("list")
	orders, err := s.loadOrders(ctx, "list")
	if err != nil {
		s.failed("list", err)
		return []model.SavedOrder{}
	}
	s.metrics.setOrders(len(orders))
	return orders
}

// FindOrder returns the saved order with the given id.
func (s *OrderStore) FindOrder(ctx context.Context, id string) (model.SavedOrder, bool) {
	for _, o := range s.ListOrders(ctx) {
		if o.ID == id {
			return o, true
		}
	}
	return model.SavedOrder{}, false
}

// SaveOrder appends order to the collection. A corrupt collection is
// replaced rather than blocking the save; a failed read writes nothing.
func (s *OrderStore) SaveOrder(ctx context.Context, order model.SavedOrder) {
	s.metrics.observe("save")
	orders, err := s.loadOrders(ctx, "save")
	if err != nil {
		s.failed("save", err)
		if !errors.Is(err, errCorrupt) {
			return
		}
		orders = []model.SavedOrder{}
	}
	orders = append(orders, order.Clone())
	if err := s.writeOrders(ctx, orders); err != nil {
		s.failed("save", err)
	}
}

// UpdateOrder replaces the order with the same id. Unknown ids are ignored.
func (s *OrderStore) UpdateOrder(ctx context.Context, order model.SavedOrder) {
	s.metrics.observe("update")
	orders, err := s.loadOrders(ctx, "update")
	if err != nil {
		s.failed("update", err)
		return
	}
	for i := range orders {
		if orders[i].ID == order.ID {
			orders[i] = order.Clone()
			if err := s.writeOrders(ctx, orders); err != nil {
				s.failed("update", err)
			}
			return
		}
	}
}

// DeleteOrder removes the order with the given id and persists the rest.
// Nothing is written when the collection cannot be read.
func (s *OrderStore) DeleteOrder(ctx context.Context, id string) {
	s.metrics.observe("delete")
	orders, err := s.loadOrders(ctx, "delete")
	if err != nil {
		s.failed("delete", err)
		return
	}
	kept := orders[:0]
	for _, o := range orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	if err := s.writeOrders(ctx, kept); err != nil {
		s.failed("delete", err)
	}
}

// DeleteAllOrders removes the collection key.
func (s *OrderStore) DeleteAllOrders(ctx context.Context) {
	s.metrics.observe("delete_all")
	if err := s.kv.Remove(ctx, SavedOrdersKey); err != nil {
		s.failed("delete_all", fmt.Errorf("failed to remove orders: %w", err))
		return
	}
	s.metrics.setOrders(0)
}

// NextOrderNumber returns one more than the highest N among names containing
// "Order N", or 1 when no name matches.
func (s *OrderStore) NextOrderNumber(ctx context.Context) int {
	return NextOrderNumber(s.ListOrders(ctx))
}

// NextOrderNumber computes the next default order number for orders.
func NextOrderNumber(orders []model.SavedOrder) int {
	highest := 0
	for _, o := range orders {
		m := orderNumberPattern.FindStringSubmatch(o.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1
}

// SaveDraft overwrites the working draft with boards.
func (s *OrderStore) SaveDraft(ctx context.Context, boards []model.BoardEntry) {
	s.metrics.observe("save_draft")
	data, err := json.Marshal(model.CloneBoards(boards))
	if err != nil {
		s.failed("save_draft", fmt.Errorf("failed to encode draft: %w", err))
		return
	}
	if err := s.kv.Set(ctx, DraftKey, string(data)); err != nil {
		s.failed("save_draft", fmt.Errorf("failed to write draft: %w", err))
	}
}

// LoadDraft returns the working draft, or false when there is none, it
// cannot be read, or any of its boards is invalid.
func (s *OrderStore) LoadDraft(ctx context.Context) ([]model.BoardEntry, bool) {
	s.metrics.observe("load_draft")
	data, found, err := s.kv.Get(ctx, DraftKey)
	if err != nil {
		s.failed("load_draft", fmt.Errorf("failed to read draft: %w", err))
		return nil, false
	}
	if !found || data == "" {
		return nil, false
	}
	var boards []model.BoardEntry
	if err := json.Unmarshal([]byte(data), &boards); err != nil {
		s.failed("load_draft", fmt.Errorf("failed to parse draft: %w", err))
		return nil, false
	}
	if boards == nil {
		return nil, false
	}
	if err := validateBoards(boards); err != nil {
		s.failed("load_draft", fmt.Errorf("invalid draft: %w", err))
		return nil, false
	}
	return boards, true
}

// ClearDraft removes the working draft.
func (s *OrderStore) ClearDraft(ctx context.Context) {
	s.metrics.observe("clear_draft")
	if err := s.kv.Remove(ctx, DraftKey); err != nil {
		s.failed("clear_draft", fmt.Errorf("failed to remove draft: %w", err))
	}
}
