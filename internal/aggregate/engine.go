// Package aggregate computes read-side figures over the unified ledger and
// the debts table. Nothing here mutates data; sums are accumulated by the
// database in numeric form and rounded to cents at the boundary.
package aggregate

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/schema"
)

// Kind selects the entry table a monthly total is computed over.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) table() (string, bool) {
	switch k {
	case KindIncome:
		return models.TableIncome, true
	case KindExpense:
		return models.TableExpenses, true
	}
	return "", false
}

// Balance is the signed ledger position of one user.
type Balance struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Summary combines the ledger balance with outstanding debts. It is derived
// on every request and never stored.
type Summary struct {
	Balance
	PendingGiven        decimal.Decimal `json:"pending_debts_given"`
	PendingReceived     decimal.Decimal `json:"pending_debts_received"`
	DebtAdjustedBalance decimal.Decimal `json:"debt_adjusted_balance"`
}

// Engine runs aggregate queries.
type Engine struct {
	db      *sqlx.DB
	sb      sq.StatementBuilderType
	timeout time.Duration
}

// New creates an Engine over db. driverName decides the placeholder style.
func New(db *sqlx.DB, timeout time.Duration) *Engine {
	var placeholder sq.PlaceholderFormat = sq.Question
	switch db.DriverName() {
	case "postgres", "pgx":
		placeholder = sq.Dollar
	}
	return &Engine{
		db:      db,
		sb:      sq.StatementBuilder.PlaceholderFormat(placeholder),
		timeout: timeout,
	}
}

// FromGorm creates an Engine sharing the connection pool of gdb.
func FromGorm(gdb *gorm.DB, timeout time.Duration) (*Engine, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("aggregate: underlying pool: %w", err)
	}
	return New(sqlx.NewDb(sqlDB, gdb.Dialector.Name()), timeout), nil
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

func wrap(err error) error {
	if schema.IsMissing(err) {
		return apperrors.Wrap(apperrors.ErrSchemaMissing, err)
	}
	return apperrors.Wrap(apperrors.ErrStore, err)
}

type typeTotal struct {
	Type  string          `db:"type"`
	Total decimal.Decimal `db:"total"`
}

// AccountBalance returns income minus expense over the unified ledger.
func (e *Engine) AccountBalance(ctx context.Context, userID string) (Balance, error) {
	query, args, err := e.sb.
		Select("type", "COALESCE(SUM(amount), 0) AS total").
		From(models.TableAccountTransactions).
		Where(sq.Eq{"user_id": userID}).
		GroupBy("type").
		ToSql()
	if err != nil {
		return Balance{}, apperrors.Wrap(apperrors.ErrStore, err)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var totals []typeTotal
	if err := e.db.SelectContext(ctx, &totals, query, args...); err != nil {
		return Balance{}, wrap(err)
	}

	var b Balance
	for _, t := range totals {
		switch models.LedgerType(t.Type) {
		case models.LedgerTypeIncome:
			b.Income = b.Income.Add(t.Total)
		case models.LedgerTypeExpense:
			b.Expense = b.Expense.Add(t.Total)
		}
	}
	b.Income = b.Income.Round(2)
	b.Expense = b.Expense.Round(2)
	b.Balance = b.Income.Sub(b.Expense).Round(2)
	return b, nil
}

// MonthRange returns the half-open UTC interval covering month of year.
func MonthRange(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// MonthlyTotal sums the income or expense entries dated within month/year.
func (e *Engine) MonthlyTotal(ctx context.Context, userID string, kind Kind, month, year int) (decimal.Decimal, error) {
	table, ok := kind.table()
	if !ok {
		return decimal.Zero, apperrors.Validation("kind must be income or expense")
	}
	if month < 1 || month > 12 {
		return decimal.Zero, apperrors.Validation("month must be between 1 and 12")
	}
	if year < 1 {
		return decimal.Zero, apperrors.Validation("year must be positive")
	}

	start, end := MonthRange(month, year)
	query, args, err := e.sb.
		Select("COALESCE(SUM(amount), 0)").
		From(table).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"date": start}).
		Where(sq.Lt{"date": end}).
		ToSql()
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return e.sum(ctx, query, args)
}

// TotalDebts sums debts of debtType, optionally narrowed to status.
func (e *Engine) TotalDebts(ctx context.Context, userID string, debtType models.DebtType, status models.DebtStatus) (decimal.Decimal, error) {
	if !debtType.Valid() {
		return decimal.Zero, apperrors.Validation("type must be given or received")
	}
	where := sq.Eq{"user_id": userID, "type": string(debtType)}
	if status != "" {
		if !status.Valid() {
			return decimal.Zero, apperrors.Validation("status must be pending, paid or received")
		}
		where["status"] = string(status)
	}

	query, args, err := e.sb.
		Select("COALESCE(SUM(amount), 0)").
		From(models.TableDebts).
		Where(where).
		ToSql()
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return e.sum(ctx, query, args)
}

func (e *Engine) sum(ctx context.Context, query string, args []any) (decimal.Decimal, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var total decimal.Decimal
	if err := e.db.GetContext(ctx, &total, query, args...); err != nil {
		return decimal.Zero, wrap(err)
	}
	return total.Round(2), nil
}

// Summary returns the balance together with pending debts and the
// debt-adjusted figure: money lent out is still owed to the user, money
// borrowed is still owed by them.
func (e *Engine) Summary(ctx context.Context, userID string) (Summary, error) {
	balance, err := e.AccountBalance(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	given, err := e.TotalDebts(ctx, userID, models.DebtTypeGiven, models.DebtStatusPending)
	if err != nil {
		return Summary{}, err
	}
	received, err := e.TotalDebts(ctx, userID, models.DebtTypeReceived, models.DebtStatusPending)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Balance:             balance,
		PendingGiven:        given,
		PendingReceived:     received,
		DebtAdjustedBalance: balance.Balance.Add(given).Sub(received).Round(2),
	}, nil
}
