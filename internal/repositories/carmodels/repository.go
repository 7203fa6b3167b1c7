// Package carmodels persists vehicle models keyed by their numeric id.
package carmodels

import (
	"context"

	"github.com/dmitrijs2005/dealerledger/internal/models"
)

// Repository describes keyed access to vehicle models.
type Repository interface {
	// Create stores m unless its id is taken, in which case it returns nil.
	Create(ctx context.Context, m *models.Model) (*models.Model, error)

	// GetByID returns nil when no model has the given id.
	GetByID(ctx context.Context, id int) (*models.Model, error)
}
