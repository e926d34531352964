package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entusanojuicio/storefront/internal/domain"
)

var (
	// ErrNoSnapshot means the store holds nothing for this client.
	ErrNoSnapshot = errors.New("no cart snapshot")
	// ErrBadSnapshot means persisted data failed validation and must not be trusted.
	ErrBadSnapshot = errors.New("malformed cart snapshot")
)

// Snapshot is the serialized form of the cart, written on every mutation and
// rehydrated at startup.
type Snapshot struct {
	Items   []domain.CartLine `json:"items"`
	SavedAt time.Time         `json:"saved_at"`
}

// Validate rejects snapshots that violate cart invariants: duplicate product
// ids, non-positive quantities, negative prices, blank product ids.
func (s *Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s.Items))
	for _, line := range s.Items {
		if line.ProductID == "" {
			return fmt.Errorf("%w: line with empty product_id", ErrBadSnapshot)
		}
		if _, dup := seen[line.ProductID]; dup {
			return fmt.Errorf("%w: duplicate product_id %s", ErrBadSnapshot, line.ProductID)
		}
		seen[line.ProductID] = struct{}{}
		if line.Quantity < 1 {
			return fmt.Errorf("%w: product %s has quantity %d", ErrBadSnapshot, line.ProductID, line.Quantity)
		}
		if line.Price < 0 {
			return fmt.Errorf("%w: product %s has negative price", ErrBadSnapshot, line.ProductID)
		}
	}
	return nil
}

// SnapshotStore persists cart snapshots under a fixed per-client key.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}
