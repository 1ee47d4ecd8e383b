package domain

import "time"

// ProcessingState is the terminal outcome recorded for a notification.
// Values match the numeric states used in the history table.
type ProcessingState int

const (
	StateNone ProcessingState = iota
	StateProcessed
	StateError
	StateIncomplete
	StateAlreadyDone
)

func (s ProcessingState) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StateProcessed:
		return "PROCESSED"
	case StateError:
		return "ERROR"
	case StateIncomplete:
		return "INCOMPLETE"
	case StateAlreadyDone:
		return "ALREADYDONE"
	default:
		return "UNKNOWN"
	}
}

// HistoryEntry is one received notification in the append-only ledger.
// ID is assigned on insert and immutable afterwards; State starts at
// NONE and is set at most once per processing attempt.
type HistoryEntry struct {
	ID          int64
	ReceivedAt  time.Time
	CheckoutID  string
	AmountCents int64
	OrderID     string
	RawRequest  string
	State       ProcessingState

	// Duplicate is a read-time presentation flag: true when an earlier
	// entry in the listing shares this CheckoutID. Never persisted.
	Duplicate bool
}

// NewHistoryEntry builds the durable record for a relevant notification.
func NewHistoryEntry(n *Notification, raw []byte, receivedAt time.Time) HistoryEntry {
	return HistoryEntry{
		ReceivedAt:  receivedAt,
		CheckoutID:  string(n.Data.ID),
		AmountCents: n.Data.Amount,
		OrderID:     string(n.Data.Order.ID),
		RawRequest:  string(raw),
		State:       StateNone,
	}
}

// History listing columns.
const (
	OrderByDate     = "history_date"
	OrderByCheckout = "checkout_id"
	OrderByAmount   = "amount"
	OrderByState    = "state"
)

// HistoryFilter controls listing order and paging. Zero values mean
// "order by receipt date descending, first page, default size".
type HistoryFilter struct {
	OrderBy    string
	Descending bool
	Page       int
	PageSize   int
}

// Normalize fills defaults and rejects unknown columns, falling back to
// the receipt date.
func (f HistoryFilter) Normalize() HistoryFilter {
	switch f.OrderBy {
	case OrderByDate, OrderByCheckout, OrderByAmount, OrderByState:
	default:
		f.OrderBy = OrderByDate
		f.Descending = true
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 200 {
		f.PageSize = 50
	}
	return f
}

// FlagDuplicates annotates entries sharing a checkout id with an earlier
// entry in the given order. Redelivery of the same provider notification
// is expected, so the store allows them; the flag only aids operators.
func FlagDuplicates(entries []HistoryEntry) {
	seen := make(map[string]struct{}, len(entries))
	for i := range entries {
		if _, ok := seen[entries[i].CheckoutID]; ok {
			entries[i].Duplicate = true
			continue
		}
		seen[entries[i].CheckoutID] = struct{}{}
	}
}
