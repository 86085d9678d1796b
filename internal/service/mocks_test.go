package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dosewave/dosewave-api/internal/domain"
	"github.com/dosewave/dosewave-api/internal/store"
)

// mockRegimenStore is a hand-rolled store.RegimenStore backed by a map.
type mockRegimenStore struct {
	regimens map[uuid.UUID]*domain.DosingRegimen
	order    []uuid.UUID

	// Overridable hooks for error injection.
	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
}

func newMockRegimenStore() *mockRegimenStore {
	return &mockRegimenStore{
		regimens: make(map[uuid.UUID]*domain.DosingRegimen),
	}
}

var _ store.RegimenStore = (*mockRegimenStore)(nil)

func (m *mockRegimenStore) Create(ctx context.Context, regimen *domain.DosingRegimen) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.regimens[regimen.ID] = regimen
	m.order = append(m.order, regimen.ID)
	return nil
}

func (m *mockRegimenStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.DosingRegimen, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	regimen, ok := m.regimens[id]
	if !ok {
		return nil, store.ErrRegimenNotFound
	}
	return regimen, nil
}

func (m *mockRegimenStore) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.DosingRegimen, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := []*domain.DosingRegimen{}
	for _, id := range m.order {
		if regimen, ok := m.regimens[id]; ok && regimen.UserID == userID {
			result = append(result, regimen)
		}
	}
	return result, nil
}

func (m *mockRegimenStore) Update(ctx context.Context, regimen *domain.DosingRegimen) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.regimens[regimen.ID]; !ok {
		return store.ErrRegimenNotFound
	}
	m.regimens[regimen.ID] = regimen
	return nil
}

func (m *mockRegimenStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.regimens[id]; !ok {
		return store.ErrRegimenNotFound
	}
	delete(m.regimens, id)
	return nil
}

func (m *mockRegimenStore) WithTx(tx *sql.Tx) store.RegimenStore {
	return m
}
