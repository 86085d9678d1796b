package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dosewave/dosewave-api/internal/domain"
	"github.com/dosewave/dosewave-api/internal/domain/pk"
	"github.com/dosewave/dosewave-api/internal/platform/logger"
	"github.com/dosewave/dosewave-api/internal/store"
)

// Dataset is one labeled concentration series, ready for charting.
type Dataset struct {
	Label  string                `json:"label"`
	Series pk.ConcentrationCurve `json:"series"`
}

// Graph bundles all datasets for a user's regimens over one time window,
// along with non-fatal warnings about the simulation.
type Graph struct {
	StartHours float64   `json:"start_hours"`
	EndHours   float64   `json:"end_hours"`
	Datasets   []Dataset `json:"datasets"`
	Warnings   []string  `json:"warnings,omitempty"`
}

// GraphService assembles simulation datasets for a user's regimens.
type GraphService interface {
	// BuildGraph simulates every regimen the user owns over the window and
	// returns one dataset per regimen, plus one per complete metabolite
	// profile. Returns ErrNoRegimens when the user has nothing to simulate.
	BuildGraph(ctx context.Context, userID uuid.UUID, startHours, endHours float64) (*Graph, error)
}

// graphServiceImpl implements the GraphService interface
type graphServiceImpl struct {
	regimenStore store.RegimenStore
	simulator    pk.Service
	logger       *slog.Logger
}

// NewGraphService creates a new GraphService.
// It returns an error if any of the required dependencies are nil.
func NewGraphService(
	regimenStore store.RegimenStore,
	simulator pk.Service,
	log *slog.Logger,
) (GraphService, error) {
	if regimenStore == nil {
		return nil, domain.NewValidationError("regimenStore", "cannot be nil", domain.ErrValidation)
	}
	if simulator == nil {
		return nil, domain.NewValidationError("simulator", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &graphServiceImpl{
		regimenStore: regimenStore,
		simulator:    simulator,
		logger:       log.With(slog.String("component", "graph_service")),
	}, nil
}

// BuildGraph implements GraphService.BuildGraph
func (s *graphServiceImpl) BuildGraph(
	ctx context.Context,
	userID uuid.UUID,
	startHours, endHours float64,
) (*Graph, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	regimens, err := s.regimenStore.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list regimens for graph: %w", err)
	}
	if len(regimens) == 0 {
		return nil, ErrNoRegimens
	}

	graph := &Graph{
		StartHours: startHours,
		EndHours:   endHours,
		Datasets:   make([]Dataset, 0, len(regimens)),
	}

	for _, regimen := range regimens {
		series, err := s.simulator.SimulateRegimen(regimen, startHours, endHours)
		if err != nil {
			log.Error("regimen simulation failed",
				slog.String("error", err.Error()),
				slog.String("regimen_id", regimen.ID.String()))
			return nil, fmt.Errorf("failed to simulate regimen %s: %w", regimen.ID, err)
		}
		graph.Datasets = append(graph.Datasets, Dataset{
			Label:  regimen.Label(),
			Series: series,
		})

		if s.simulator.UsesFallbackFormula(
			regimen.EliminationHalfLifeHours,
			regimen.AbsorptionUptakeHours,
		) {
			graph.Warnings = append(graph.Warnings, fmt.Sprintf(
				"%s: absorption and elimination rates are nearly equal; using limit-case formula",
				regimen.Label()))
		}

		if !regimen.HasMetabolite() {
			continue
		}

		metaboliteSeries, err := s.simulator.SimulateMetabolite(regimen, startHours, endHours)
		if err != nil {
			log.Error("metabolite simulation failed",
				slog.String("error", err.Error()),
				slog.String("regimen_id", regimen.ID.String()))
			return nil, fmt.Errorf("failed to simulate metabolite for %s: %w", regimen.ID, err)
		}
		// An empty series means no metabolite output for this window.
		if len(metaboliteSeries) == 0 {
			continue
		}
		graph.Datasets = append(graph.Datasets, Dataset{
			Label:  regimen.MetaboliteLabel(),
			Series: metaboliteSeries,
		})
	}

	log.Debug("graph assembled",
		slog.String("user_id", userID.String()),
		slog.Int("dataset_count", len(graph.Datasets)),
		slog.Int("warning_count", len(graph.Warnings)))
	return graph, nil
}
