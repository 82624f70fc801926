package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// isoMillis is ISO-8601 with millisecond precision, e.g. 2024-01-15T10:30:00.000Z.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// SavedOrder is an immutable snapshot of a board list. Totals are computed
// once when the order is created and are not recomputed on load.
type SavedOrder struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Date           time.Time    `json:"date"`
	Boards         []BoardEntry `json:"boards"`
	TotalBoardFeet float64      `json:"totalBoardFeet"`
	TotalCost      float64      `json:"totalCost"`
}

// DefaultOrderName returns the name given to an order saved without one.
func DefaultOrderName(orderNumber int) string {
	if orderNumber < 1 {
		orderNumber = 1
	}
	return fmt.Sprintf("Order %d", orderNumber)
}

// NewSavedOrder snapshots boards into a new order. A blank name falls back to
// "Order {orderNumber}". The boards are deep-copied so later edits to the
// working list do not reach the saved order.
func NewSavedOrder(name string, boards []BoardEntry, orderNumber int) SavedOrder {
	orderName := strings.TrimSpace(name)
	if orderName == "" {
		orderName = DefaultOrderName(orderNumber)
	}
	totalBF, totalCost := Totals(boards)
	return SavedOrder{
		ID:             uuid.New().String(),
		Name:           orderName,
		Date:           time.Now().Truncate(time.Millisecond),
		Boards:         CloneBoards(boards),
		TotalBoardFeet: totalBF,
		TotalCost:      totalCost,
	}
}

// Clone returns a deep copy of the order.
func (o SavedOrder) Clone() SavedOrder {
	cp := o
	cp.Boards = CloneBoards(o.Boards)
	return cp
}

// ExportText renders the order as the shareable text report, using the
// totals frozen at save time.
func (o SavedOrder) ExportText() string {
	date := o.Date
	return writeReport(o.Name, &date, o.Boards, o.TotalBoardFeet, o.TotalCost)
}

type savedOrderJSON struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Date           string       `json:"date"`
	Boards         []BoardEntry `json:"boards"`
	TotalBoardFeet float64      `json:"totalBoardFeet"`
	TotalCost      float64      `json:"totalCost"`
}

// MarshalJSON writes the date as an ISO-8601 UTC timestamp with milliseconds.
func (o SavedOrder) MarshalJSON() ([]byte, error) {
	boards := o.Boards
	if boards == nil {
		boards = []BoardEntry{}
	}
	return json.Marshal(savedOrderJSON{
		ID:             o.ID,
		Name:           o.Name,
		Date:           o.Date.UTC().Format(isoMillis),
		Boards:         boards,
		TotalBoardFeet: o.TotalBoardFeet,
		TotalCost:      o.TotalCost,
	})
}

// UnmarshalJSON parses the ISO-8601 date back into local time.
func (o *SavedOrder) UnmarshalJSON(data []byte) error {
	var raw savedOrderJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.Parse(time.RFC3339Nano, raw.Date)
	if err != nil {
		return fmt.Errorf("invalid order date %q: %w", raw.Date, err)
	}
	*o = SavedOrder{
		ID:             raw.ID,
		Name:           raw.Name,
		Date:           date.Local(),
		Boards:         raw.Boards,
		TotalBoardFeet: raw.TotalBoardFeet,
		TotalCost:      raw.TotalCost,
	}
	if o.Boards == nil {
		o.Boards = []BoardEntry{}
	}
	return nil
}
