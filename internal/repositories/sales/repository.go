// Package sales persists sale transactions keyed by sales number.
//
// Reverted sales are tombstoned: their record keeps its slot with the
// is_deleted flag set and their index entry is removed, so they stay visible
// to full scans (which skip them) but not to point lookups.
package sales

import (
	"context"

	"github.com/dmitrijs2005/dealerledger/internal/models"
)

// Repository describes keyed and sequential access to sales.
type Repository interface {
	// Create stores s as a live sale unless its number is taken, in which
	// case it returns nil.
	Create(ctx context.Context, s *models.Sale) (*models.Sale, error)

	// GetByNumber returns the live sale with the number, or nil.
	GetByNumber(ctx context.Context, number string) (*models.Sale, error)

	// MarkDeleted tombstones the live sale with the number and returns it
	// together with its slot. It returns nil when the number is not indexed.
	MarkDeleted(ctx context.Context, number string) (*models.Sale, int, error)

	// Restore reverses MarkDeleted for the sale stored at slot.
	Restore(ctx context.Context, number string, slot int) error

	// FindActiveByVIN scans all sales and returns the live sale of the car,
	// or nil.
	FindActiveByVIN(ctx context.Context, vin string) (*models.Sale, error)

	// ScanActive calls fn for every live sale in slot order.
	ScanActive(ctx context.Context, fn func(s models.Sale) error) error
}
