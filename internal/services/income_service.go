package services

import (
	"context"
	"strings"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/store"
)

// incomeService handles income entries and mirrors them into the ledger.
type incomeService struct {
	store *store.Store
	sync  *ledgerSync
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(s *store.Store) IncomeServicer {
	return &incomeService{store: s, sync: newLedgerSync(s)}
}

// CreateIncome writes the entry, then its ledger mirror under the same id.
func (s *incomeService) CreateIncome(ctx context.Context, userID string, in IncomeInput) (*models.Income, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	source := strings.TrimSpace(in.Source)
	if source == "" {
		return nil, apperrors.Validation("source is required")
	}
	if err := validateDate(in.Date); err != nil {
		return nil, err
	}
	accountType, err := accountTypeOrDefault(in.AccountType)
	if err != nil {
		return nil, err
	}
	id, err := resolveID(in.ID)
	if err != nil {
		return nil, err
	}

	if err := s.store.RequireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := requireFreeID(ctx, s.store, in.ID, id); err != nil {
		return nil, err
	}

	income := &models.Income{
		Base:        models.Base{ID: id},
		UserID:      userID,
		Amount:      in.Amount,
		Source:      source,
		Category:    strings.TrimSpace(in.Category),
		Date:        dateOnly(in.Date),
		Description: strings.TrimSpace(in.Description),
		AccountID:   strings.TrimSpace(in.AccountID),
		AccountType: accountType,
	}
	if err := s.store.Create(ctx, income); err != nil {
		return nil, err
	}

	s.sync.create(ctx, originIncome, incomeLedgerRow(income), userID, income.ID)
	return income, nil
}

// ListIncome returns the user's income entries, newest first.
func (s *incomeService) ListIncome(ctx context.Context, userID string, filter EntryFilter) ([]models.Income, error) {
	incomes := []models.Income{}
	if err := s.store.List(ctx, &incomes, userID, toStoreFilter(filter)); err != nil {
		return nil, err
	}
	return incomes, nil
}

// UpdateIncome applies the supplied fields and pushes the mapped subset to
// the mirror. Matching zero rows is not an error and skips the mirror.
func (s *incomeService) UpdateIncome(ctx context.Context, userID, id string, patch IncomePatch) (int64, error) {
	fields, err := newPatch().
		amount(patch.Amount).
		required("source", patch.Source).
		optional("category", patch.Category).
		date(patch.Date).
		optional("description", patch.Description).
		optional("account_id", patch.AccountID).
		accountType(patch.AccountType).
		build()
	if err != nil {
		return 0, err
	}

	affected, err := s.store.UpdateScoped(ctx, &models.Income{}, id, userID, fields)
	if err != nil || affected == 0 {
		return affected, err
	}

	s.sync.updateMirror(ctx, originIncome, models.LedgerTypeIncome, userID, id, mirrorFields(fields, incomeMirrorColumns))
	return affected, nil
}

// DeleteIncome removes the entry and always issues the mirror delete.
func (s *incomeService) DeleteIncome(ctx context.Context, userID, id string) (int64, error) {
	affected, err := s.store.DeleteScoped(ctx, &models.Income{}, id, userID)
	if err != nil {
		return 0, err
	}
	s.sync.deleteMirror(ctx, originIncome, models.LedgerTypeIncome, userID, id)
	return affected, nil
}
