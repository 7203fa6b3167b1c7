package cars

import (
	"context"

	"github.com/dmitrijs2005/dealerledger/internal/models"
)

// Repository describes keyed and sequential access to cars.
type Repository interface {
	// Create stores c unless its VIN is taken, in which case it returns nil.
	Create(ctx context.Context, c *models.Car) (*models.Car, error)

	// GetByVIN returns nil when the VIN is not indexed.
	GetByVIN(ctx context.Context, vin string) (*models.Car, error)

	// SetStatus rewrites only the status of a car and returns the updated car,
	// or nil when the VIN is not indexed.
	SetStatus(ctx context.Context, vin string, status models.CarStatus) (*models.Car, error)

	// RenameVIN changes the primary key of a car in place. It returns nil when
	// vin is not indexed and common.ErrorDuplicateKey when newVIN is taken.
	RenameVIN(ctx context.Context, vin, newVIN string) (*models.Car, error)

	// ListByStatus scans every car record and keeps those with the status.
	ListByStatus(ctx context.Context, status models.CarStatus) ([]models.Car, error)

	// ListAll scans every car record in slot order.
	ListAll(ctx context.Context) ([]models.Car, error)
}
