package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dosewave/dosewave-api/internal/api/shared"
	"github.com/dosewave/dosewave-api/internal/platform/render"
	"github.com/dosewave/dosewave-api/internal/service"
)

// GraphHandler handles concentration graph API requests.
type GraphHandler struct {
	graphService       service.GraphService
	defaultWindowHours float64
}

// NewGraphHandler creates a new GraphHandler with the given dependencies.
func NewGraphHandler(graphService service.GraphService, defaultWindowHours float64) *GraphHandler {
	return &GraphHandler{
		graphService:       graphService,
		defaultWindowHours: defaultWindowHours,
	}
}

// parseWindow reads the start_hours and end_hours query parameters, falling
// back to [0, defaultWindowHours). It writes an error response and returns
// false when a parameter is malformed or the window is empty.
func (h *GraphHandler) parseWindow(
	w http.ResponseWriter,
	r *http.Request,
) (startHours, endHours float64, ok bool) {
	startHours = 0
	endHours = h.defaultWindowHours

	if raw := r.URL.Query().Get("start_hours"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid start_hours parameter")
			return 0, 0, false
		}
		startHours = parsed
	}

	if raw := r.URL.Query().Get("end_hours"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid end_hours parameter")
			return 0, 0, false
		}
		endHours = parsed
	}

	if startHours < 0 || endHours <= startHours {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"end_hours must be greater than start_hours, and start_hours must not be negative")
		return 0, 0, false
	}

	return startHours, endHours, true
}

// Get handles GET /graph. It simulates every regimen the user owns over the
// requested window and returns the labeled datasets as JSON.
func (h *GraphHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	startHours, endHours, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	graph, err := h.graphService.BuildGraph(r.Context(), userID, startHours, endHours)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GraphResponse{
		StartHours: graph.StartHours,
		EndHours:   graph.EndHours,
		Datasets:   graph.Datasets,
		Warnings:   graph.Warnings,
	})
}

// Rendered chart dimension bounds, in pixels.
const (
	minChartDimension = 100
	maxChartDimension = 4000
)

// parseDimension reads an optional pixel-dimension query parameter, falling
// back to the given default. It writes an error response and returns false
// when the value is malformed or out of bounds.
func parseDimension(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	fallback int,
) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < minChartDimension || parsed > maxChartDimension {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			fmt.Sprintf("%s must be an integer between %d and %d",
				name, minChartDimension, maxChartDimension))
		return 0, false
	}
	return parsed, true
}

// GetPNG handles GET /graph/png. It renders the same datasets as Get into a
// PNG line chart.
func (h *GraphHandler) GetPNG(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	startHours, endHours, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	width, ok := parseDimension(w, r, "width", render.DefaultWidth)
	if !ok {
		return
	}
	height, ok := parseDimension(w, r, "height", render.DefaultHeight)
	if !ok {
		return
	}

	graph, err := h.graphService.BuildGraph(r.Context(), userID, startHours, endHours)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	png, err := render.Chart(graph, width, height)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to render graph")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		// Headers are already sent. Nothing useful left to do.
		return
	}
}
