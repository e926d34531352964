package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/entusanojuicio/storefront/internal/domain"
)

// Summary is what observers receive after every mutation.
type Summary struct {
	Lines     []domain.CartLine
	Total     float64
	ItemCount int
}

// Store holds the customer's selected line items and derived totals. It is
// the single source of truth for what the customer intends to buy; mutators
// are atomic and every mutation persists a snapshot and notifies observers.
type Store struct {
	mu    sync.Mutex
	lines []domain.CartLine
	snaps SnapshotStore
	subs  []func(Summary)
}

// NewStore creates an empty cart backed by snaps. A nil snaps disables
// persistence (useful for tests).
func NewStore(snaps SnapshotStore) *Store {
	return &Store{snaps: snaps}
}

// Load rehydrates the cart from the snapshot store. A missing snapshot
// leaves the cart empty; a malformed one is rejected and the cart stays
// empty rather than trusting bad data.
func (s *Store) Load(ctx context.Context) error {
	if s.snaps == nil {
		return nil
	}
	snap, err := s.snaps.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return err
	}
	if errValidate := snap.Validate(); errValidate != nil {
		log.Printf("rejecting persisted cart: %v", errValidate)
		return errValidate
	}

	s.mu.Lock()
	s.lines = snap.Items
	s.mu.Unlock()
	s.notify()
	return nil
}

// AddItem adds one unit of the product. An existing line for the same
// product id has its quantity incremented; no duplicate lines are created.
func (s *Store) AddItem(p domain.Product) {
	s.mu.Lock()
	found := false
	for i := range s.lines {
		if s.lines[i].ProductID == p.ID {
			s.lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, domain.CartLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Price:       p.Price,
			Quantity:    1,
			ImageURL:    p.ImageURL,
		})
	}
	s.mu.Unlock()
	s.persist()
	s.notify()
}

// RemoveItem deletes the matching line. Removing an absent product is a no-op.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	for i, line := range s.lines {
		if line.ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.persist()
	s.notify()
}

// UpdateQuantity sets the quantity for a product. Anything at or below zero
// removes the line; a zero-quantity line is never retained.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()
	s.persist()
	s.notify()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	s.persist()
	s.notify()
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total is recomputed from the lines on every read so it cannot drift.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// Subscribe registers an observer called after every mutation.
func (s *Store) Subscribe(fn func(Summary)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) persist() {
	if s.snaps == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	snap := &Snapshot{Items: s.Lines(), SavedAt: time.Now()}
	if err := s.snaps.Save(ctx, snap); err != nil {
		log.Printf("cart snapshot save error: %v", err)
	}
}

func (s *Store) notify() {
	summary := Summary{Lines: s.Lines(), Total: s.Total(), ItemCount: s.ItemCount()}
	s.mu.Lock()
	subs := make([]func(Summary), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(summary)
	}
}
