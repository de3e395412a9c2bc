package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/store"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/uuid"
)

// dateOnly keeps the calendar date of t at UTC midnight.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func resolveID(supplied string) (string, error) {
	id, err := uuid.Resolve(strings.TrimSpace(supplied))
	if err != nil {
		return "", apperrors.Validation("id must be a valid UUID")
	}
	return id, nil
}

// entryTables share one id space: an entry and its ledger mirror carry the
// same primary key.
var entryTables = []string{models.TableIncome, models.TableExpenses, models.TableAccountTransactions}

// requireFreeID rejects a client-supplied id already used by any entry or
// ledger row. Generated ids are v7 UUIDs and skip the lookup.
func requireFreeID(ctx context.Context, s *store.Store, supplied, id string) error {
	if strings.TrimSpace(supplied) == "" {
		return nil
	}
	return s.RequireUnusedID(ctx, id, entryTables...)
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.Validation("amount must be greater than 0")
	}
	return nil
}

func validateDate(date time.Time) error {
	if date.IsZero() {
		return apperrors.Validation("date is required")
	}
	return nil
}

// accountTypeOrDefault falls back to cash, the account every user has.
func accountTypeOrDefault(t models.AccountType) (models.AccountType, error) {
	if t == "" {
		return models.AccountTypeCash, nil
	}
	if !t.Valid() {
		return "", apperrors.Validation("account_type must be one of bank, cash, card")
	}
	return t, nil
}

func toStoreFilter(f EntryFilter) store.Filter {
	sf := store.Filter{Category: f.Category}
	if f.FromDate != nil {
		from := dateOnly(*f.FromDate)
		sf.From = &from
	}
	if f.ToDate != nil {
		to := dateOnly(*f.ToDate)
		sf.To = &to
	}
	return sf
}

// patchBuilder collects validated column updates from a partial payload.
type patchBuilder struct {
	fields map[string]any
	err    error
}

func newPatch() *patchBuilder {
	return &patchBuilder{fields: map[string]any{}}
}

func (p *patchBuilder) amount(v *decimal.Decimal) *patchBuilder {
	if v == nil || p.err != nil {
		return p
	}
	if p.err = validateAmount(*v); p.err == nil {
		p.fields["amount"] = *v
	}
	return p
}

func (p *patchBuilder) date(v *time.Time) *patchBuilder {
	if v == nil || p.err != nil {
		return p
	}
	if p.err = validateDate(*v); p.err == nil {
		p.fields["date"] = dateOnly(*v)
	}
	return p
}

func (p *patchBuilder) required(column string, v *string) *patchBuilder {
	if v == nil || p.err != nil {
		return p
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		p.err = apperrors.Validation(column + " cannot be empty")
		return p
	}
	p.fields[column] = s
	return p
}

func (p *patchBuilder) optional(column string, v *string) *patchBuilder {
	if v == nil || p.err != nil {
		return p
	}
	p.fields[column] = strings.TrimSpace(*v)
	return p
}

func (p *patchBuilder) accountType(v *models.AccountType) *patchBuilder {
	if v == nil || p.err != nil {
		return p
	}
	if !v.Valid() {
		p.err = apperrors.Validation("account_type must be one of bank, cash, card")
		return p
	}
	p.fields["account_type"] = string(*v)
	return p
}

func (p *patchBuilder) build() (map[string]any, error) {
	return p.fields, p.err
}
