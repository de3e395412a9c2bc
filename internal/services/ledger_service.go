package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/pagination"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/store"
)

// ledgerService handles rows written directly to the unified ledger.
type ledgerService struct {
	store *store.Store
	sync  *ledgerSync
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(s *store.Store) LedgerServicer {
	return &ledgerService{store: s, sync: newLedgerSync(s)}
}

// CreateTransaction writes the ledger row first, then the matching income
// or expense entry under the same id.
func (s *ledgerService) CreateTransaction(ctx context.Context, userID string, in LedgerInput) (*models.AccountTransaction, error) {
	if !in.Type.Valid() {
		return nil, apperrors.Validation("type must be income or expense")
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
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
	if category == "" && in.Type == models.LedgerTypeExpense {
		category = models.DefaultExpenseCategory
	}

	if err := s.store.RequireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := requireFreeID(ctx, s.store, in.ID, id); err != nil {
		return nil, err
	}

	row := &models.AccountTransaction{
		Base:        models.Base{ID: id},
		UserID:      userID,
		Type:        in.Type,
		Amount:      in.Amount,
		Name:        name,
		Category:    category,
		Date:        dateOnly(in.Date),
		AccountType: accountType,
		Note:        strings.TrimSpace(in.Note),
	}
	if err := s.store.Create(ctx, row); err != nil {
		return nil, err
	}

	if row.Type == models.LedgerTypeIncome {
		s.sync.create(ctx, originLedger, &models.Income{
			Base:        models.Base{ID: row.ID},
			UserID:      userID,
			Amount:      row.Amount,
			Source:      row.Name,
			Category:    row.Category,
			Date:        row.Date,
			Description: row.Note,
			AccountType: row.AccountType,
		}, userID, row.ID)
		return row, nil
	}

	description := row.Note
	if description == "" {
		description = row.Name
	}
	s.sync.create(ctx, originLedger, &models.Expense{
		Base:        models.Base{ID: row.ID},
		UserID:      userID,
		Amount:      row.Amount,
		Category:    row.Category,
		Date:        row.Date,
		Description: description,
		AccountType: row.AccountType,
	}, userID, row.ID)
	return row, nil
}

// ListTransactions returns one page of the user's ledger, newest first.
func (s *ledgerService) ListTransactions(ctx context.Context, userID string, txType models.LedgerType, page pagination.PageRequest) (*pagination.PageResponse[models.AccountTransaction], error) {
	if txType != "" && !txType.Valid() {
		return nil, apperrors.Validation("type must be income or expense")
	}
	page.Defaults()

	var total int64
	rows := []models.AccountTransaction{}
	err := s.store.Run(ctx, "list ledger", func(tx *gorm.DB) error {
		scoped := func() *gorm.DB {
			q := tx.Model(&models.AccountTransaction{}).Where("user_id = ?", userID)
			if txType != "" {
				q = q.Where("type = ?", string(txType))
			}
			return q
		}
		if err := scoped().Count(&total).Error; err != nil {
			return err
		}
		return scoped().
			Order("date DESC").
			Order("created_at DESC").
			Scopes(pagination.Paginate(page)).
			Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	resp := pagination.NewPageResponse(rows, page, total)
	return &resp, nil
}

// DeleteTransaction removes the ledger row and cascades to the income or
// expense entry of the same kind sharing its id. An id the caller does not
// own affects nothing.
func (s *ledgerService) DeleteTransaction(ctx context.Context, userID, id string) (int64, error) {
	var row models.AccountTransaction
	err := s.store.FindScoped(ctx, &row, id, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	affected, err := s.store.DeleteScoped(ctx, &models.AccountTransaction{}, id, userID, store.Eq("type", string(row.Type)))
	if err != nil || affected == 0 {
		return affected, err
	}
	s.sync.deleteEntry(ctx, row.Type, userID, id)
	return affected, nil
}
