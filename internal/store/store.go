package store

import (
	"sync"
	"time"

	"github.com/minexafrica/tradeflow-backend/pkg/enums"
)

const (
	// MinStep and MaxStep bound the per-order step counter.
	MinStep = 1
	MaxStep = 3
)

// Store is the single owner of order, transaction, logistics, payout, and
// enquiry records. Every command is applied atomically under one mutex; no
// reader can observe a half-applied command. Commands referencing a record
// that does not exist are silent no-ops, surfaced only through the returned
// applied flag.
type Store struct {
	mu sync.RWMutex

	orders       map[string]*Order
	orderIDs     []string
	transactions map[string]*Transaction
	txIDs        []string
	logistics    map[string]*LogisticsDetails
	payouts      map[string]*Payout
	payoutIDs    []string
	enquiries    map[string]*Enquiry
	enquiryIDs   []string
	users        map[string]*RegistryUser

	now func() time.Time
}

// New builds an empty store.
func New() *Store {
	return &Store{
		orders:       make(map[string]*Order),
		transactions: make(map[string]*Transaction),
		logistics:    make(map[string]*LogisticsDetails),
		payouts:      make(map[string]*Payout),
		enquiries:    make(map[string]*Enquiry),
		users:        make(map[string]*RegistryUser),
		now:          time.Now,
	}
}

// Snapshot is a deep copy of the store's state at one instant, safe to fold
// over without further locking. Slices preserve insertion order so derived
// views are deterministic.
type Snapshot struct {
	Orders       []Order
	Transactions []Transaction
	Logistics    map[string]LogisticsDetails
	Payouts      []Payout
	Enquiries    []Enquiry
	Users        map[string]RegistryUser
}

// Snapshot returns a consistent deep copy of all records.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Orders:       make([]Order, 0, len(s.orderIDs)),
		Transactions: make([]Transaction, 0, len(s.txIDs)),
		Logistics:    make(map[string]LogisticsDetails, len(s.logistics)),
		Payouts:      make([]Payout, 0, len(s.payoutIDs)),
		Enquiries:    make([]Enquiry, 0, len(s.enquiryIDs)),
		Users:        make(map[string]RegistryUser, len(s.users)),
	}
	for _, id := range s.orderIDs {
		snap.Orders = append(snap.Orders, s.orders[id].clone())
	}
	for _, id := range s.txIDs {
		snap.Transactions = append(snap.Transactions, s.transactions[id].clone())
	}
	for id, l := range s.logistics {
		snap.Logistics[id] = *l
	}
	for _, id := range s.payoutIDs {
		snap.Payouts = append(snap.Payouts, *s.payouts[id])
	}
	for _, id := range s.enquiryIDs {
		snap.Enquiries = append(snap.Enquiries, s.enquiries[id].clone())
	}
	for id, u := range s.users {
		snap.Users[id] = *u
	}
	return snap
}

// GetOrder returns a copy of the order with the given id.
func (s *Store) GetOrder(id string) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return Order{}, false
	}
	return o.clone(), true
}

// GetTransaction returns a copy of the transaction with the given id.
func (s *Store) GetTransaction(id string) (Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[id]
	if !ok {
		return Transaction{}, false
	}
	return t.clone(), true
}

// GetLogistics returns a copy of the logistics record for the given order.
func (s *Store) GetLogistics(orderID string) (LogisticsDetails, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logistics[orderID]
	if !ok {
		return LogisticsDetails{}, false
	}
	return *l, true
}

// PutOrder inserts a new order or replaces an existing one with the same
// id, preserving its insertion position.
func (s *Store) PutOrder(o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putOrderLocked(o)
}

func (s *Store) putOrderLocked(o Order) {
	o.CurrentStep = clampStep(o.CurrentStep)
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	o.UpdatedAt = s.now()
	stored := o.clone()
	if _, exists := s.orders[o.ID]; !exists {
		s.orderIDs = append(s.orderIDs, o.ID)
	}
	s.orders[o.ID] = &stored
}

// PutTransaction inserts or replaces a transaction. The referenced order
// must exist for the lifetime of the transaction, so an unresolvable
// orderId refuses the insert.
func (s *Store) PutTransaction(t Transaction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[t.OrderID]; !ok {
		return false
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	t.UpdatedAt = s.now()
	stored := t.clone()
	if _, exists := s.transactions[t.ID]; !exists {
		s.txIDs = append(s.txIDs, t.ID)
	}
	s.transactions[t.ID] = &stored
	return true
}

// PutLogistics attaches (or replaces) the logistics record for an order.
func (s *Store) PutLogistics(l LogisticsDetails) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[l.OrderID]; !ok {
		return false
	}
	stored := l
	s.logistics[l.OrderID] = &stored
	return true
}

// PutPayout records a settlement batch produced by the external batch job.
func (s *Store) PutPayout(p Payout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := p
	if _, exists := s.payouts[p.ID]; !exists {
		s.payoutIDs = append(s.payoutIDs, p.ID)
	}
	s.payouts[p.ID] = &stored
}

// PutEnquiry records a support ticket.
func (s *Store) PutEnquiry(e Enquiry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	stored := e.clone()
	if _, exists := s.enquiries[e.ID]; !exists {
		s.enquiryIDs = append(s.enquiryIDs, e.ID)
	}
	s.enquiries[e.ID] = &stored
}

// PutRegistryUser loads counterparty reference data.
func (s *Store) PutRegistryUser(u RegistryUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := u
	s.users[u.ID] = &stored
}

// UpdateOrder replaces the full order record matching its id. Used for
// composite updates such as escrow status plus step counter together.
func (s *Store) UpdateOrder(o Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.orders[o.ID]
	if !ok {
		return false
	}
	o.CreatedAt = existing.CreatedAt
	s.putOrderLocked(o)
	return true
}

// UpdateTransaction replaces the full transaction record matching its id.
func (s *Store) UpdateTransaction(t Transaction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.transactions[t.ID]
	if !ok {
		return false
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = s.now()
	stored := t.clone()
	s.transactions[t.ID] = &stored
	return true
}

// SetOrderCurrentStep sets the step counter for the matching order. The
// step is clamped into [MinStep, MaxStep]; an order of a different type is
// left untouched.
func (s *Store) SetOrderCurrentStep(orderID string, typ enums.OrderType, step int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Type != typ {
		return false
	}
	o.CurrentStep = clampStep(step)
	o.UpdatedAt = s.now()
	return true
}

// SetOrderTesting sets the assay lab (and optional result summary) on a
// sell order.
func (s *Store) SetOrderTesting(orderID string, typ enums.OrderType, testingLab string, resultSummary *string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Type != typ || typ != enums.OrderTypeSell {
		return false
	}
	o.TestingLab = &testingLab
	o.TestingResultSummary = cloneStringPtr(resultSummary)
	o.UpdatedAt = s.now()
	return true
}

// SetOrderLC sets the letter-of-credit number on the matching order.
// Re-issue overwrites the previous number.
func (s *Store) SetOrderLC(orderID string, typ enums.OrderType, lcNumber string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Type != typ {
		return false
	}
	o.LCNumber = &lcNumber
	o.UpdatedAt = s.now()
	return true
}

// SetEnquiryStatus moves a support ticket between statuses; the only
// enquiry field the core may write.
func (s *Store) SetEnquiryStatus(enquiryID string, status enums.EnquiryStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enquiries[enquiryID]
	if !ok {
		return false
	}
	e.Status = status
	return true
}

func clampStep(step int) int {
	if step < MinStep {
		return MinStep
	}
	if step > MaxStep {
		return MaxStep
	}
	return step
}
