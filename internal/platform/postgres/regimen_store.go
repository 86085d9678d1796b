package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dosewave/dosewave-api/internal/domain"
	"github.com/dosewave/dosewave-api/internal/platform/logger"
	"github.com/dosewave/dosewave-api/internal/store"
)

// PostgresRegimenStore implements the store.RegimenStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRegimenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRegimenStore creates a new PostgreSQL implementation of the
// RegimenStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// the default logger is used.
func NewPostgresRegimenStore(db store.DBTX, log *slog.Logger) *PostgresRegimenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresRegimenStore{
		db:     db,
		logger: log.With(slog.String("component", "regimen_store")),
	}
}

// Ensure PostgresRegimenStore implements store.RegimenStore interface
var _ store.RegimenStore = (*PostgresRegimenStore)(nil)

const regimenColumns = `
	id, user_id, name, dose_amount, frequency, schedule_times,
	elimination_half_life_hours, absorption_uptake_hours,
	peak_time_hint_hours, duration_override_hours,
	metabolite_half_life_hours, metabolite_conversion_fraction,
	created_at, updated_at
`

// Create implements store.RegimenStore.Create
// It saves a new regimen to the database after domain validation.
// Returns store.ErrInvalidEntity if the owning user doesn't exist.
func (s *PostgresRegimenStore) Create(ctx context.Context, regimen *domain.DosingRegimen) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := regimen.Validate(); err != nil {
		log.Warn("regimen validation failed during create",
			slog.String("error", err.Error()),
			slog.String("regimen_id", regimen.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	scheduleTimes, err := json.Marshal(regimen.ScheduleTimes)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule times: %w", err)
	}

	var metaboliteHalfLife, metaboliteFraction sql.NullFloat64
	if regimen.Metabolite != nil {
		metaboliteHalfLife = sql.NullFloat64{Float64: regimen.Metabolite.HalfLifeHours, Valid: true}
		metaboliteFraction = sql.NullFloat64{Float64: regimen.Metabolite.ConversionFraction, Valid: true}
	}

	query := `
		INSERT INTO dosing_regimens (` + regimenColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		regimen.ID,
		regimen.UserID,
		regimen.Name,
		regimen.DoseAmount,
		regimen.Frequency,
		scheduleTimes,
		regimen.EliminationHalfLifeHours,
		regimen.AbsorptionUptakeHours,
		nullFloat(regimen.PeakTimeHintHours),
		nullFloat(regimen.DurationOverrideHours),
		metaboliteHalfLife,
		metaboliteFraction,
		regimen.CreatedAt,
		regimen.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during regimen creation",
				slog.String("regimen_id", regimen.ID.String()),
				slog.String("user_id", regimen.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, regimen.UserID)
		}
		log.Error("failed to create regimen",
			slog.String("error", err.Error()),
			slog.String("regimen_id", regimen.ID.String()))
		return MapError(err)
	}

	log.Info("regimen created successfully",
		slog.String("regimen_id", regimen.ID.String()),
		slog.String("user_id", regimen.UserID.String()),
		slog.String("name", regimen.Name))
	return nil
}

// GetByID implements store.RegimenStore.GetByID
// Returns store.ErrRegimenNotFound if the regimen does not exist.
func (s *PostgresRegimenStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.DosingRegimen, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + regimenColumns + ` FROM dosing_regimens WHERE id = $1`

	regimen, err := scanRegimen(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("regimen not found", slog.String("regimen_id", id.String()))
			return nil, store.ErrRegimenNotFound
		}
		log.Error("failed to get regimen by ID",
			slog.String("error", err.Error()),
			slog.String("regimen_id", id.String()))
		return nil, MapError(err)
	}

	return regimen, nil
}

// ListByUserID implements store.RegimenStore.ListByUserID
// Returns an empty slice when the user has no regimens.
func (s *PostgresRegimenStore) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.DosingRegimen, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + regimenColumns + `
		FROM dosing_regimens
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query regimens by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	regimens := []*domain.DosingRegimen{}
	for rows.Next() {
		regimen, err := scanRegimen(rows)
		if err != nil {
			log.Error("failed to scan regimen row",
				slog.String("error", err.Error()))
			return nil, err
		}
		regimens = append(regimens, regimen)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed regimens for user",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(regimens)))
	return regimens, nil
}

// Update implements store.RegimenStore.Update
// Returns store.ErrRegimenNotFound if the regimen does not exist.
func (s *PostgresRegimenStore) Update(ctx context.Context, regimen *domain.DosingRegimen) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := regimen.Validate(); err != nil {
		log.Warn("regimen validation failed during update",
			slog.String("error", err.Error()),
			slog.String("regimen_id", regimen.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	scheduleTimes, err := json.Marshal(regimen.ScheduleTimes)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule times: %w", err)
	}

	var metaboliteHalfLife, metaboliteFraction sql.NullFloat64
	if regimen.Metabolite != nil {
		metaboliteHalfLife = sql.NullFloat64{Float64: regimen.Metabolite.HalfLifeHours, Valid: true}
		metaboliteFraction = sql.NullFloat64{Float64: regimen.Metabolite.ConversionFraction, Valid: true}
	}

	regimen.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE dosing_regimens
		SET name = $1, dose_amount = $2, frequency = $3, schedule_times = $4,
			elimination_half_life_hours = $5, absorption_uptake_hours = $6,
			peak_time_hint_hours = $7, duration_override_hours = $8,
			metabolite_half_life_hours = $9, metabolite_conversion_fraction = $10,
			updated_at = $11
		WHERE id = $12
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		regimen.Name,
		regimen.DoseAmount,
		regimen.Frequency,
		scheduleTimes,
		regimen.EliminationHalfLifeHours,
		regimen.AbsorptionUptakeHours,
		nullFloat(regimen.PeakTimeHintHours),
		nullFloat(regimen.DurationOverrideHours),
		metaboliteHalfLife,
		metaboliteFraction,
		regimen.UpdatedAt,
		regimen.ID,
	)
	if err != nil {
		log.Error("failed to update regimen",
			slog.String("error", err.Error()),
			slog.String("regimen_id", regimen.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "regimen"); err != nil {
		log.Debug("regimen not found for update",
			slog.String("regimen_id", regimen.ID.String()))
		return store.ErrRegimenNotFound
	}

	log.Info("regimen updated successfully",
		slog.String("regimen_id", regimen.ID.String()))
	return nil
}

// Delete implements store.RegimenStore.Delete
// Returns store.ErrRegimenNotFound if the regimen does not exist.
func (s *PostgresRegimenStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM dosing_regimens WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete regimen",
			slog.String("error", err.Error()),
			slog.String("regimen_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "regimen"); err != nil {
		log.Debug("regimen not found for delete",
			slog.String("regimen_id", id.String()))
		return store.ErrRegimenNotFound
	}

	log.Info("regimen deleted successfully",
		slog.String("regimen_id", id.String()))
	return nil
}

// WithTx implements store.RegimenStore.WithTx
func (s *PostgresRegimenStore) WithTx(tx *sql.Tx) store.RegimenStore {
	return &PostgresRegimenStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanRegimen.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRegimen reads one regimen row, decoding the JSONB schedule and the
// nullable optional columns.
func scanRegimen(row rowScanner) (*domain.DosingRegimen, error) {
	var regimen domain.DosingRegimen
	var frequency string
	var scheduleTimes []byte
	var peakHint, durationOverride sql.NullFloat64
	var metaboliteHalfLife, metaboliteFraction sql.NullFloat64

	err := row.Scan(
		&regimen.ID,
		&regimen.UserID,
		&regimen.Name,
		&regimen.DoseAmount,
		&frequency,
		&scheduleTimes,
		&regimen.EliminationHalfLifeHours,
		&regimen.AbsorptionUptakeHours,
		&peakHint,
		&durationOverride,
		&metaboliteHalfLife,
		&metaboliteFraction,
		&regimen.CreatedAt,
		&regimen.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	regimen.Frequency = domain.Frequency(frequency)
	if err := json.Unmarshal(scheduleTimes, &regimen.ScheduleTimes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule times: %w", err)
	}

	regimen.PeakTimeHintHours = floatPtr(peakHint)
	regimen.DurationOverrideHours = floatPtr(durationOverride)

	// Both metabolite columns are set together or not at all; the check
	// constraint on the table enforces this.
	if metaboliteHalfLife.Valid && metaboliteFraction.Valid {
		regimen.Metabolite = &domain.MetaboliteProfile{
			HalfLifeHours:      metaboliteHalfLife.Float64,
			ConversionFraction: metaboliteFraction.Float64,
		}
	}

	return &regimen, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
