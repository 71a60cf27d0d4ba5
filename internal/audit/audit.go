// Package audit keeps an append-only trail of user-facing workflow events
// per order. Entries are never mutated or removed; downstream views render
// them verbatim.
package audit

import (
	"sync"
	"time"
)

// EntryType classifies what produced an entry.
type EntryType string

const (
	EntryTypeQR      EntryType = "qr"
	EntryTypeContact EntryType = "contact"
	EntryTypeEscrow  EntryType = "escrow"
	EntryTypeRelease EntryType = "release"
)

// Entry is one immutable event shown to the counterparty.
type Entry struct {
	Type    EntryType `json:"type"`
	Label   string    `json:"label"`
	Date    time.Time `json:"date"`
	Channel string    `json:"channel,omitempty"`
	Detail  string    `json:"detail,omitempty"`
}

// Log stores entries keyed by order id, in append order.
type Log struct {
	mu      sync.RWMutex
	entries map[string][]Entry
	now     func() time.Time
}

// NewLog builds an empty audit log.
func NewLog() *Log {
	return &Log{
		entries: make(map[string][]Entry),
		now:     time.Now,
	}
}

// Append records an entry for the order. A zero Date is stamped with the
// current time.
func (l *Log) Append(orderID string, e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e.Date.IsZero() {
		e.Date = l.now()
	}
	l.entries[orderID] = append(l.entries[orderID], e)
}

// ForOrder returns a copy of the order's entries in append order.
func (l *Log) ForOrder(orderID string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	src := l.entries[orderID]
	if len(src) == 0 {
		return nil
	}
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}

// Count returns the number of entries recorded for the order.
func (l *Log) Count(orderID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries[orderID])
}
