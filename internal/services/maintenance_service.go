package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/logger"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/store"
)

// maintenanceService exposes the migrator and reconciliation as operations
// an operator can trigger over HTTP.
type maintenanceService struct {
	store *store.Store
}

// NewMaintenanceService creates a new MaintenanceServicer.
func NewMaintenanceService(s *store.Store) MaintenanceServicer {
	return &maintenanceService{store: s}
}

// CreateTables ensures every table and the full settings column set exist.
func (s *maintenanceService) CreateTables(ctx context.Context) error {
	if err := s.store.Migrator().EnsureAll(ctx); err != nil {
		return apperrors.Wrap(apperrors.ErrStore, err)
	}
	return nil
}

// MigrateSettings ensures the settings columns and returns the live column list.
func (s *maintenanceService) MigrateSettings(ctx context.Context) ([]string, error) {
	m := s.store.Migrator()
	if err := m.EnsureSettingsColumns(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	columns, err := m.Columns(ctx, models.TableUserSettings)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return columns, nil
}

// Reconcile repairs the caller's ledger by primary key: entries without a
// mirror get one, mirrors whose amount, date or account type drifted are
// realigned, and ledger rows without any entry are counted but kept.
func (s *maintenanceService) Reconcile(ctx context.Context, userID string) (*ReconcileReport, error) {
	report := &ReconcileReport{}

	var incomes []models.Income
	var expenses []models.Expense
	err := s.store.Run(ctx, "find unmirrored", func(tx *gorm.DB) error {
		if err := unmirrored(tx, models.TableIncome, userID).Find(&incomes).Error; err != nil {
			return err
		}
		return unmirrored(tx, models.TableExpenses, userID).Find(&expenses).Error
	})
	if err != nil {
		return nil, err
	}

	for i := range incomes {
		if s.insertMirror(ctx, incomeLedgerRow(&incomes[i])) {
			report.MirrorsCreated++
		}
	}
	for i := range expenses {
		if s.insertMirror(ctx, expenseLedgerRow(&expenses[i])) {
			report.MirrorsCreated++
		}
	}

	err = s.store.Run(ctx, "realign mirrors", func(tx *gorm.DB) error {
		for _, entry := range []struct {
			table string
			kind  models.LedgerType
		}{
			{models.TableIncome, models.LedgerTypeIncome},
			{models.TableExpenses, models.LedgerTypeExpense},
		} {
			res := tx.Exec(realignSQL(entry.table), entry.kind, userID)
			if res.Error != nil {
				return res.Error
			}
			report.MirrorsRealigned += res.RowsAffected
		}

		return tx.Model(&models.AccountTransaction{}).
			Where("user_id = ?", userID).
			Where("NOT EXISTS (SELECT 1 FROM income i WHERE i.id = account_transactions.id)").
			Where("NOT EXISTS (SELECT 1 FROM expenses e WHERE e.id = account_transactions.id)").
			Count(&report.OrphanLedgerRows).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Named("reconcile").Infow("reconciliation finished",
		"user_id", userID,
		"mirrors_created", report.MirrorsCreated,
		"mirrors_realigned", report.MirrorsRealigned,
		"orphan_ledger_rows", report.OrphanLedgerRows,
	)
	return report, nil
}

// unmirrored selects the entries of table that have no ledger row with the same id.
func unmirrored(tx *gorm.DB, table, userID string) *gorm.DB {
	return tx.Table(table+" AS e").
		Select("e.*").
		Joins("LEFT JOIN account_transactions a ON a.id = e.id").
		Where("e.user_id = ? AND a.id IS NULL", userID)
}

// realignSQL copies the invariant fields of each entry in table onto its
// mirror when they differ.
func realignSQL(table string) string {
	return `UPDATE account_transactions SET
	amount = (SELECT e.amount FROM ` + table + ` e WHERE e.id = account_transactions.id),
	date = (SELECT e.date FROM ` + table + ` e WHERE e.id = account_transactions.id),
	account_type = (SELECT e.account_type FROM ` + table + ` e WHERE e.id = account_transactions.id)
WHERE type = ? AND user_id = ? AND EXISTS (
	SELECT 1 FROM ` + table + ` e
	WHERE e.id = account_transactions.id
	AND (e.amount <> account_transactions.amount
		OR e.date <> account_transactions.date
		OR COALESCE(e.account_type, '') <> COALESCE(account_transactions.account_type, ''))
)`
}

func (s *maintenanceService) insertMirror(ctx context.Context, row *models.AccountTransaction) bool {
	err := s.store.Create(ctx, row)
	if err == nil {
		return true
	}
	if !errors.Is(err, apperrors.ErrDuplicateID) {
		logger.Named("reconcile").Warnw("failed to insert mirror", "id", row.ID, "error", err)
	}
	return false
}
