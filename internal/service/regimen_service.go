package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dosewave/dosewave-api/internal/domain"
	"github.com/dosewave/dosewave-api/internal/platform/logger"
	"github.com/dosewave/dosewave-api/internal/store"
)

// RegimenServiceError is a custom error type for regimen service errors.
type RegimenServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for RegimenServiceError.
func (e *RegimenServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("regimen service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("regimen service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *RegimenServiceError) Unwrap() error {
	return e.Err
}

// NewRegimenServiceError creates a new RegimenServiceError.
func NewRegimenServiceError(operation, message string, err error) *RegimenServiceError {
	return &RegimenServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// RegimenService provides regimen CRUD operations with ownership enforcement.
type RegimenService interface {
	// CreateRegimen persists a new regimen for the given user.
	CreateRegimen(ctx context.Context, regimen *domain.DosingRegimen) error

	// GetRegimen retrieves a regimen by ID.
	// Returns store.ErrRegimenNotFound if it does not exist and ErrNotOwned
	// if it belongs to a different user.
	GetRegimen(ctx context.Context, userID, regimenID uuid.UUID) (*domain.DosingRegimen, error)

	// ListRegimens retrieves all regimens owned by the user, ordered by
	// creation time.
	ListRegimens(ctx context.Context, userID uuid.UUID) ([]*domain.DosingRegimen, error)

	// UpdateRegimen modifies an existing regimen after verifying ownership.
	UpdateRegimen(ctx context.Context, userID uuid.UUID, regimen *domain.DosingRegimen) error

	// DeleteRegimen removes a regimen after verifying ownership.
	DeleteRegimen(ctx context.Context, userID, regimenID uuid.UUID) error
}

// regimenServiceImpl implements the RegimenService interface
type regimenServiceImpl struct {
	regimenStore store.RegimenStore
	logger       *slog.Logger
}

// NewRegimenService creates a new RegimenService.
// It returns an error if the store dependency is nil.
func NewRegimenService(
	regimenStore store.RegimenStore,
	log *slog.Logger,
) (RegimenService, error) {
	if regimenStore == nil {
		return nil, domain.NewValidationError("regimenStore", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &regimenServiceImpl{
		regimenStore: regimenStore,
		logger:       log.With(slog.String("component", "regimen_service")),
	}, nil
}

// CreateRegimen implements RegimenService.CreateRegimen
func (s *regimenServiceImpl) CreateRegimen(
	ctx context.Context,
	regimen *domain.DosingRegimen,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.regimenStore.Create(ctx, regimen); err != nil {
		return NewRegimenServiceError("create", "failed to save regimen", err)
	}

	log.Info("regimen created",
		slog.String("regimen_id", regimen.ID.String()),
		slog.String("user_id", regimen.UserID.String()))
	return nil
}

// GetRegimen implements RegimenService.GetRegimen
func (s *regimenServiceImpl) GetRegimen(
	ctx context.Context,
	userID, regimenID uuid.UUID,
) (*domain.DosingRegimen, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	regimen, err := s.regimenStore.GetByID(ctx, regimenID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewRegimenServiceError("get", "failed to load regimen", err)
	}

	if regimen.UserID != userID {
		log.Warn("regimen ownership check failed",
			slog.String("regimen_id", regimenID.String()),
			slog.String("owner_id", regimen.UserID.String()),
			slog.String("requester_id", userID.String()))
		return nil, ErrNotOwned
	}

	return regimen, nil
}

// ListRegimens implements RegimenService.ListRegimens
func (s *regimenServiceImpl) ListRegimens(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.DosingRegimen, error) {
	regimens, err := s.regimenStore.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewRegimenServiceError("list", "failed to list regimens", err)
	}
	return regimens, nil
}

// UpdateRegimen implements RegimenService.UpdateRegimen
func (s *regimenServiceImpl) UpdateRegimen(
	ctx context.Context,
	userID uuid.UUID,
	regimen *domain.DosingRegimen,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Load the stored record to verify ownership before writing.
	existing, err := s.GetRegimen(ctx, userID, regimen.ID)
	if err != nil {
		return err
	}
	regimen.UserID = existing.UserID
	regimen.CreatedAt = existing.CreatedAt

	if err := s.regimenStore.Update(ctx, regimen); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		return NewRegimenServiceError("update", "failed to update regimen", err)
	}

	log.Info("regimen updated",
		slog.String("regimen_id", regimen.ID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// DeleteRegimen implements RegimenService.DeleteRegimen
func (s *regimenServiceImpl) DeleteRegimen(
	ctx context.Context,
	userID, regimenID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.GetRegimen(ctx, userID, regimenID); err != nil {
		return err
	}

	if err := s.regimenStore.Delete(ctx, regimenID); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		return NewRegimenServiceError("delete", "failed to delete regimen", err)
	}

	log.Info("regimen deleted",
		slog.String("regimen_id", regimenID.String()),
		slog.String("user_id", userID.String()))
	return nil
}
