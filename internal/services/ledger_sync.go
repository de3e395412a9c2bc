package services

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/logger"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/store"
)

// Origins of a mirrored write, used in logs and error reports.
const (
	originIncome  = "income"
	originExpense = "expense"
	originLedger  = "account_transactions"
)

// Column mappings from an entry table to the unified ledger. Columns absent
// from a mapping are never pushed to the mirror.
var (
	incomeMirrorColumns = map[string]string{
		"amount":       "amount",
		"source":       "name",
		"category":     "category",
		"date":         "date",
		"description":  "note",
		"account_type": "account_type",
	}
	expenseMirrorColumns = map[string]string{
		"amount":       "amount",
		"category":     "category",
		"date":         "date",
		"description":  "note",
		"account_type": "account_type",
	}
)

// mirrorFields translates entry columns into ledger columns through mapping.
func mirrorFields(fields map[string]any, mapping map[string]string) map[string]any {
	out := make(map[string]any, len(fields))
	for column, value := range fields {
		if target, ok := mapping[column]; ok {
			out[target] = value
		}
	}
	return out
}

// expenseMirrorFields maps an expense patch. The ledger display name is the
// description, or the category when the description is empty, so a patch to
// either column may rename the mirror.
func expenseMirrorFields(fields map[string]any) map[string]any {
	out := mirrorFields(fields, expenseMirrorColumns)
	desc, hasDesc := fields["description"].(string)
	category, hasCategory := fields["category"].(string)
	switch {
	case hasDesc && desc != "":
		out["name"] = desc
	case hasDesc && hasCategory:
		out["name"] = category
	case hasDesc:
		out["name"] = gorm.Expr("category")
	case hasCategory:
		out["name"] = gorm.Expr("CASE WHEN COALESCE(note, '') = '' THEN ? ELSE name END", category)
	}
	return out
}

func incomeLedgerRow(in *models.Income) *models.AccountTransaction {
	return &models.AccountTransaction{
		Base:        models.Base{ID: in.ID},
		UserID:      in.UserID,
		Type:        models.LedgerTypeIncome,
		Amount:      in.Amount,
		Name:        in.Source,
		Category:    in.Category,
		Date:        in.Date,
		AccountType: in.AccountType,
		Note:        in.Description,
	}
}

func expenseLedgerRow(ex *models.Expense) *models.AccountTransaction {
	name := ex.Description
	if name == "" {
		name = ex.Category
	}
	return &models.AccountTransaction{
		Base:        models.Base{ID: ex.ID},
		UserID:      ex.UserID,
		Type:        models.LedgerTypeExpense,
		Amount:      ex.Amount,
		Name:        name,
		Category:    ex.Category,
		Date:        ex.Date,
		AccountType: ex.AccountType,
		Note:        ex.Description,
	}
}

// reportFunc delivers a mirror failure to an error tracker.
type reportFunc func(ctx context.Context, err error, tags map[string]string)

func reportToSentry(_ context.Context, err error, tags map[string]string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// ledgerSync performs the second half of a dual write. The primary write has
// already been committed when it runs, so a failure here is logged and
// reported but never returned: the entry and its mirror stay ID-aligned and
// the reconciliation pass can repair the gap.
type ledgerSync struct {
	store  *store.Store
	log    *zap.SugaredLogger
	report reportFunc
}

func newLedgerSync(s *store.Store) *ledgerSync {
	return &ledgerSync{store: s, log: logger.Named("ledger_sync"), report: reportToSentry}
}

func (l *ledgerSync) create(ctx context.Context, origin string, value any, userID, id string) {
	if err := l.store.Create(ctx, value); err != nil {
		l.failed(ctx, err, "create", origin, userID, id)
	}
}

// updateMirror pushes fields into the ledger row of the given kind. The type
// constraint keeps an entry from rewriting a row that mirrors the other kind.
func (l *ledgerSync) updateMirror(ctx context.Context, origin string, kind models.LedgerType, userID, id string, fields map[string]any) {
	if len(fields) == 0 {
		return
	}
	if _, err := l.store.UpdateScoped(ctx, &models.AccountTransaction{}, id, userID, fields, store.Eq("type", string(kind))); err != nil {
		l.failed(ctx, err, "update", origin, userID, id)
	}
}

// deleteMirror removes the ledger row of the given kind sharing id.
func (l *ledgerSync) deleteMirror(ctx context.Context, origin string, kind models.LedgerType, userID, id string) {
	if _, err := l.store.DeleteScoped(ctx, &models.AccountTransaction{}, id, userID, store.Eq("type", string(kind))); err != nil {
		l.failed(ctx, err, "delete", origin, userID, id)
	}
}

// deleteEntry removes the income or expense entry behind a deleted ledger row.
func (l *ledgerSync) deleteEntry(ctx context.Context, kind models.LedgerType, userID, id string) {
	var model any = &models.Expense{}
	if kind == models.LedgerTypeIncome {
		model = &models.Income{}
	}
	if _, err := l.store.DeleteScoped(ctx, model, id, userID); err != nil {
		l.failed(ctx, err, "delete", originLedger, userID, id)
	}
}

func (l *ledgerSync) failed(ctx context.Context, err error, op, origin, userID, id string) {
	l.log.Errorw("mirror write failed",
		"op", op,
		"origin", origin,
		"user_id", userID,
		"id", id,
		"error", err,
	)
	l.report(ctx, fmt.Errorf("mirror %s from %s: %w", op, origin, err), map[string]string{
		"op":      op,
		"origin":  origin,
		"user_id": userID,
		"id":      id,
	})
}
