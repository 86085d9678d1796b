package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dosewave/dosewave-api/internal/domain"
)

// RegimenStore defines the interface for dosing regimen persistence.
type RegimenStore interface {
	// Create saves a new regimen to the store.
	// The regimen must pass domain validation.
	// Returns ErrInvalidEntity wrapping the validation error otherwise.
	Create(ctx context.Context, regimen *domain.DosingRegimen) error

	// GetByID retrieves a regimen by its unique ID.
	// Returns ErrRegimenNotFound if the regimen does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DosingRegimen, error)

	// ListByUserID retrieves all regimens owned by the given user, ordered
	// by creation time. Returns an empty slice when the user has none.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.DosingRegimen, error)

	// Update modifies an existing regimen. The stored UpdatedAt timestamp is
	// refreshed. Returns ErrRegimenNotFound if the regimen does not exist.
	Update(ctx context.Context, regimen *domain.DosingRegimen) error

	// Delete removes a regimen from the store by its ID.
	// Returns ErrRegimenNotFound if the regimen does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new RegimenStore instance that uses the provided
	// transaction. The transaction is managed by the caller.
	WithTx(tx *sql.Tx) RegimenStore
}
