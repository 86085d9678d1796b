package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosewave/dosewave-api/internal/domain"
)

func validRegimenRequest() RegimenRequest {
	return RegimenRequest{
		Name:                     "Testozil",
		DoseAmount:               500,
		Frequency:                "twice_daily",
		ScheduleTimes:            []string{"08:00", "20:00"},
		EliminationHalfLifeHours: 6,
		AbsorptionUptakeHours:    1,
	}
}

func seedRegimen(t *testing.T, svc *mockRegimenService, userID uuid.UUID) *domain.DosingRegimen {
	t.Helper()

	req := validRegimenRequest()
	regimen, err := req.ToDomain(userID)
	require.NoError(t, err)
	require.NoError(t, svc.CreateRegimen(context.Background(), regimen))
	return regimen
}

func doRegimenRequest(
	handler http.HandlerFunc,
	method, path string,
	body []byte,
	userID uuid.UUID,
	pathID string,
) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req = withUserID(req, userID)
	}
	if pathID != "" {
		req = withChiURLParam(req, "id", pathID)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestRegimenHandlerCreate(t *testing.T) {
	t.Parallel()

	svc := newMockRegimenService()
	handler := NewRegimenHandler(svc)
	userID := uuid.New()

	body, err := json.Marshal(validRegimenRequest())
	require.NoError(t, err)

	rr := doRegimenRequest(handler.Create, http.MethodPost, "/regimens", body, userID, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp RegimenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "Testozil", resp.Name)
	assert.Equal(t, []string{"08:00", "20:00"}, resp.ScheduleTimes)

	stored, err := svc.GetRegimen(context.Background(), userID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, stored.UserID)
}

func TestRegimenHandlerCreateUnauthenticated(t *testing.T) {
	t.Parallel()

	handler := NewRegimenHandler(newMockRegimenService())

	body, err := json.Marshal(validRegimenRequest())
	require.NoError(t, err)

	rr := doRegimenRequest(handler.Create, http.MethodPost, "/regimens", body, uuid.Nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRegimenHandlerCreateRejections(t *testing.T) {
	t.Parallel()

	handler := NewRegimenHandler(newMockRegimenService())
	userID := uuid.New()

	halfLife := 8.0

	mutate := func(fn func(*RegimenRequest)) []byte {
		req := validRegimenRequest()
		fn(&req)
		body, _ := json.Marshal(req)
		return body
	}

	tests := []struct {
		name string
		body []byte
	}{
		{name: "malformed JSON", body: []byte("{not json")},
		{name: "missing name", body: mutate(func(r *RegimenRequest) { r.Name = "" })},
		{name: "zero dose", body: mutate(func(r *RegimenRequest) { r.DoseAmount = 0 })},
		{name: "unknown frequency", body: mutate(func(r *RegimenRequest) { r.Frequency = "hourly" })},
		{
			name: "schedule count mismatch",
			body: mutate(func(r *RegimenRequest) { r.ScheduleTimes = []string{"08:00"} }),
		},
		{
			name: "bad schedule time",
			body: mutate(func(r *RegimenRequest) { r.ScheduleTimes = []string{"8am", "20:00"} }),
		},
		{
			name: "half metabolite",
			body: mutate(func(r *RegimenRequest) { r.MetaboliteHalfLifeHours = &halfLife }),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rr := doRegimenRequest(handler.Create, http.MethodPost, "/regimens", tc.body, userID, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}

func TestRegimenHandlerList(t *testing.T) {
	t.Parallel()

	svc := newMockRegimenService()
	handler := NewRegimenHandler(svc)
	userID := uuid.New()

	seedRegimen(t, svc, userID)
	seedRegimen(t, svc, userID)
	seedRegimen(t, svc, uuid.New()) // someone else's

	rr := doRegimenRequest(handler.List, http.MethodGet, "/regimens", nil, userID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp []RegimenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestRegimenHandlerListEmpty(t *testing.T) {
	t.Parallel()

	handler := NewRegimenHandler(newMockRegimenService())

	rr := doRegimenRequest(handler.List, http.MethodGet, "/regimens", nil, uuid.New(), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestRegimenHandlerGet(t *testing.T) {
	t.Parallel()

	svc := newMockRegimenService()
	handler := NewRegimenHandler(svc)
	userID := uuid.New()
	regimen := seedRegimen(t, svc, userID)

	rr := doRegimenRequest(
		handler.Get, http.MethodGet, "/regimens/"+regimen.ID.String(),
		nil, userID, regimen.ID.String())
	require.Equal(t, http.StatusOK, rr.Code)

	var resp RegimenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, regimen.ID, resp.ID)
}

func TestRegimenHandlerGetErrors(t *testing.T) {
	t.Parallel()

	svc := newMockRegimenService()
	handler := NewRegimenHandler(svc)
	owner := uuid.New()
	regimen := seedRegimen(t, svc, owner)

	tests := []struct {
		name       string
		userID     uuid.UUID
		pathID     string
		wantStatus int
	}{
		{
			name:       "not found",
			userID:     owner,
			pathID:     uuid.New().String(),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "not owned",
			userID:     uuid.New(),
			pathID:     regimen.ID.String(),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "bad id",
			userID:     owner,
			pathID:     "not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unauthenticated",
			userID:     uuid.Nil,
			pathID:     regimen.ID.String(),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rr := doRegimenRequest(
				handler.Get, http.MethodGet, "/regimens/"+tc.pathID, nil, tc.userID, tc.pathID)
			assert.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestRegimenHandlerUpdate(t *testing.T) {
	t.Parallel()

	svc := newMockRegimenService()
	handler := NewRegimenHandler(svc)
	userID := uuid.New()
	regimen := seedRegimen(t, svc, userID)

	updated := validRegimenRequest()
	updated.DoseAmount = 750
	body, err := json.Marshal(updated)
	require.NoError(t, err)

	rr := doRegimenRequest(
		handler.Update, http.MethodPut, "/regimens/"+regimen.ID.String(),
		body, userID, regimen.ID.String())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	stored, err := svc.GetRegimen(context.Background(), userID, regimen.ID)
	require.NoError(t, err)
	assert.Equal(t, 750.0, stored.DoseAmount)
}

func TestRegimenHandlerDelete(t *testing.T) {
	t.Parallel()

	svc := newMockRegimenService()
	handler := NewRegimenHandler(svc)
	userID := uuid.New()
	regimen := seedRegimen(t, svc, userID)

	rr := doRegimenRequest(
		handler.Delete, http.MethodDelete, "/regimens/"+regimen.ID.String(),
		nil, userID, regimen.ID.String())
	require.Equal(t, http.StatusNoContent, rr.Code)

	_, err := svc.GetRegimen(context.Background(), userID, regimen.ID)
	assert.Error(t, err)
}

func TestRegimenHandlerDeleteNotOwned(t *testing.T) {
	t.Parallel()

	svc := newMockRegimenService()
	handler := NewRegimenHandler(svc)
	regimen := seedRegimen(t, svc, uuid.New())

	rr := doRegimenRequest(
		handler.Delete, http.MethodDelete, "/regimens/"+regimen.ID.String(),
		nil, uuid.New(), regimen.ID.String())
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
