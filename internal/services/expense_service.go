package services

import (
	"context"
	"strings"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/store"
)

// expenseService handles expense entries and mirrors them into the ledger.
type expenseService struct {
	store *store.Store
	sync  *ledgerSync
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(s *store.Store) ExpenseServicer {
	return &expenseService{store: s, sync: newLedgerSync(s)}
}

// CreateExpense writes the entry, then its ledger mirror under the same id.
func (s *expenseService) CreateExpense(ctx context.Context, userID string, in ExpenseInput) (*models.Expense, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
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
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultExpenseCategory
	}

	if err := s.store.RequireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := requireFreeID(ctx, s.store, in.ID, id); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Base:        models.Base{ID: id},
		UserID:      userID,
		Amount:      in.Amount,
		Category:    category,
		Date:        dateOnly(in.Date),
		Description: strings.TrimSpace(in.Description),
		AccountID:   strings.TrimSpace(in.AccountID),
		AccountType: accountType,
	}
	if err := s.store.Create(ctx, expense); err != nil {
		return nil, err
	}

	s.sync.create(ctx, originExpense, expenseLedgerRow(expense), userID, expense.ID)
	return expense, nil
}

// ListExpenses returns the user's expenses, newest first.
func (s *expenseService) ListExpenses(ctx context.Context, userID string, filter EntryFilter) ([]models.Expense, error) {
	expenses := []models.Expense{}
	if err := s.store.List(ctx, &expenses, userID, toStoreFilter(filter)); err != nil {
		return nil, err
	}
	return expenses, nil
}

// UpdateExpense applies the supplied fields and pushes the mapped subset to
// the mirror. An empty category is stored as the default category.
func (s *expenseService) UpdateExpense(ctx context.Context, userID, id string, patch ExpensePatch) (int64, error) {
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		other := models.DefaultExpenseCategory
		patch.Category = &other
	}
	fields, err := newPatch().
		amount(patch.Amount).
		optional("category", patch.Category).
		date(patch.Date).
		optional("description", patch.Description).
		optional("account_id", patch.AccountID).
		accountType(patch.AccountType).
		build()
	if err != nil {
		return 0, err
	}

	affected, err := s.store.UpdateScoped(ctx, &models.Expense{}, id, userID, fields)
	if err != nil || affected == 0 {
		return affected, err
	}

	s.sync.updateMirror(ctx, originExpense, models.LedgerTypeExpense, userID, id, expenseMirrorFields(fields))
	return affected, nil
}

// DeleteExpense removes the entry and always issues the mirror delete.
func (s *expenseService) DeleteExpense(ctx context.Context, userID, id string) (int64, error) {
	affected, err := s.store.DeleteScoped(ctx, &models.Expense{}, id, userID)
	if err != nil {
		return 0, err
	}
	s.sync.deleteMirror(ctx, originExpense, models.LedgerTypeExpense, userID, id)
	return affected, nil
}
