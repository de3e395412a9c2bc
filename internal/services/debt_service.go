package services

import (
	"context"
	"strings"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/store"
)

// debtService handles debts. They are kept out of the unified ledger and
// only adjust the presented balance.
type debtService struct {
	store *store.Store
}

// NewDebtService creates a new DebtServicer.
func NewDebtService(s *store.Store) DebtServicer {
	return &debtService{store: s}
}

// CreateDebt records a debt; status defaults to pending.
func (s *debtService) CreateDebt(ctx context.Context, userID string, in DebtInput) (*models.Debt, error) {
	if !in.Type.Valid() {
		return nil, apperrors.Validation("type must be given or received")
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	person := strings.TrimSpace(in.PersonName)
	if person == "" {
		return nil, apperrors.Validation("person_name is required")
	}
	if err := validateDate(in.Date); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.DebtStatusPending
	}
	if !status.Valid() {
		return nil, apperrors.Validation("status must be pending, paid or received")
	}
	id, err := resolveID(in.ID)
	if err != nil {
		return nil, err
	}

	if err := s.store.RequireUser(ctx, userID); err != nil {
		return nil, err
	}

	debt := &models.Debt{
		Base:        models.Base{ID: id},
		UserID:      userID,
		Type:        in.Type,
		Amount:      in.Amount,
		PersonName:  person,
		Description: strings.TrimSpace(in.Description),
		Date:        dateOnly(in.Date),
		Status:      status,
	}
	if err := s.store.Create(ctx, debt); err != nil {
		return nil, err
	}
	return debt, nil
}

// ListDebts returns the user's debts, newest first.
func (s *debtService) ListDebts(ctx context.Context, userID string, filter DebtFilter) ([]models.Debt, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperrors.Validation("type must be given or received")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Validation("status must be pending, paid or received")
	}

	debts := []models.Debt{}
	f := store.Filter{Equals: map[string]string{
		"type":   string(filter.Type),
		"status": string(filter.Status),
	}}
	if err := s.store.List(ctx, &debts, userID, f); err != nil {
		return nil, err
	}
	return debts, nil
}

// UpdateDebt applies the supplied fields. Matching zero rows is not an error.
func (s *debtService) UpdateDebt(ctx context.Context, userID, id string, patch DebtPatch) (int64, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return 0, apperrors.Validation("type must be given or received")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return 0, apperrors.Validation("status must be pending, paid or received")
	}
	fields, err := newPatch().
		amount(patch.Amount).
		required("person_name", patch.PersonName).
		optional("description", patch.Description).
		date(patch.Date).
		build()
	if err != nil {
		return 0, err
	}
	if patch.Type != nil {
		fields["type"] = string(*patch.Type)
	}
	if patch.Status != nil {
		fields["status"] = string(*patch.Status)
	}

	return s.store.UpdateScoped(ctx, &models.Debt{}, id, userID, fields)
}

// DeleteDebt removes the debt.
func (s *debtService) DeleteDebt(ctx context.Context, userID, id string) (int64, error) {
	return s.store.DeleteScoped(ctx, &models.Debt{}, id, userID)
}
