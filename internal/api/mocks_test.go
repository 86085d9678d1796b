package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dosewave/dosewave-api/internal/api/shared"
	"github.com/dosewave/dosewave-api/internal/domain"
	"github.com/dosewave/dosewave-api/internal/service"
	"github.com/dosewave/dosewave-api/internal/service/auth"
	"github.com/dosewave/dosewave-api/internal/store"
)

// mockUserStore is an in-memory UserStore for handler tests.
type mockUserStore struct {
	usersByID    map[uuid.UUID]*domain.User
	usersByEmail map[string]*domain.User

	createErr error
	getErr    error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		usersByID:    make(map[uuid.UUID]*domain.User),
		usersByEmail: make(map[string]*domain.User),
	}
}

func (m *mockUserStore) Create(_ context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.usersByEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	// Mimic the real store: the hash stands in for the plaintext password.
	stored := *user
	stored.HashedPassword = "hashed:" + user.Password
	stored.Password = ""
	m.usersByID[stored.ID] = &stored
	m.usersByEmail[stored.Email] = &stored
	return nil
}

func (m *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	user, ok := m.usersByID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStore) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.usersByID[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user
	return nil
}

func (m *mockUserStore) Delete(_ context.Context, id uuid.UUID) error {
	user, ok := m.usersByID[id]
	if !ok {
		return store.ErrUserNotFound
	}
	delete(m.usersByEmail, user.Email)
	delete(m.usersByID, id)
	return nil
}

func (m *mockUserStore) WithTx(_ *sql.Tx) store.UserStore { return m }

// mockJWTService issues predictable token strings keyed by user ID.
type mockJWTService struct {
	generateErr error
	validateErr error
	claims      *auth.Claims
}

func (m *mockJWTService) GenerateToken(_ context.Context, userID uuid.UUID) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return "access-" + userID.String(), nil
}

func (m *mockJWTService) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return m.claims, nil
}

func (m *mockJWTService) GenerateRefreshToken(
	_ context.Context,
	userID uuid.UUID,
) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return "refresh-" + userID.String(), nil
}

func (m *mockJWTService) ValidateRefreshToken(
	_ context.Context,
	_ string,
) (*auth.Claims, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return m.claims, nil
}

// mockPasswordVerifier accepts a password when "hashed:"+password matches the
// stored hash, matching mockUserStore's fake hashing.
type mockPasswordVerifier struct{}

func (mockPasswordVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

// mockRegimenService is a map-backed RegimenService with injectable errors.
type mockRegimenService struct {
	regimens map[uuid.UUID]*domain.DosingRegimen
	order    []uuid.UUID

	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
}

func newMockRegimenService() *mockRegimenService {
	return &mockRegimenService{regimens: make(map[uuid.UUID]*domain.DosingRegimen)}
}

func (m *mockRegimenService) CreateRegimen(
	_ context.Context,
	regimen *domain.DosingRegimen,
) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.regimens[regimen.ID] = regimen
	m.order = append(m.order, regimen.ID)
	return nil
}

func (m *mockRegimenService) GetRegimen(
	_ context.Context,
	userID, regimenID uuid.UUID,
) (*domain.DosingRegimen, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	regimen, ok := m.regimens[regimenID]
	if !ok {
		return nil, store.ErrRegimenNotFound
	}
	if regimen.UserID != userID {
		return nil, service.ErrNotOwned
	}
	return regimen, nil
}

func (m *mockRegimenService) ListRegimens(
	_ context.Context,
	userID uuid.UUID,
) ([]*domain.DosingRegimen, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*domain.DosingRegimen
	for _, id := range m.order {
		if m.regimens[id].UserID == userID {
			result = append(result, m.regimens[id])
		}
	}
	return result, nil
}

func (m *mockRegimenService) UpdateRegimen(
	ctx context.Context,
	userID uuid.UUID,
	regimen *domain.DosingRegimen,
) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, err := m.GetRegimen(ctx, userID, regimen.ID); err != nil {
		return err
	}
	m.regimens[regimen.ID] = regimen
	return nil
}

func (m *mockRegimenService) DeleteRegimen(
	ctx context.Context,
	userID, regimenID uuid.UUID,
) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, err := m.GetRegimen(ctx, userID, regimenID); err != nil {
		return err
	}
	delete(m.regimens, regimenID)
	for i, id := range m.order {
		if id == regimenID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// mockGraphService returns a canned graph or error.
type mockGraphService struct {
	graph *service.Graph
	err   error

	lastStartHours float64
	lastEndHours   float64
}

func (m *mockGraphService) BuildGraph(
	_ context.Context,
	_ uuid.UUID,
	startHours, endHours float64,
) (*service.Graph, error) {
	m.lastStartHours = startHours
	m.lastEndHours = endHours
	if m.err != nil {
		return nil, m.err
	}
	if m.graph != nil {
		return m.graph, nil
	}
	return &service.Graph{StartHours: startHours, EndHours: endHours}, nil
}

// withUserID returns the request with an authenticated user ID in its
// context, as the auth middleware would set it.
func withUserID(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

// withChiURLParam returns the request with a chi route parameter attached,
// as the router would do when matching a path pattern.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

var _ store.UserStore = (*mockUserStore)(nil)
var _ auth.JWTService = (*mockJWTService)(nil)
var _ auth.PasswordVerifier = mockPasswordVerifier{}
var _ service.RegimenService = (*mockRegimenService)(nil)
var _ service.GraphService = (*mockGraphService)(nil)
