package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/aggregate"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, email, password, name string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
}

// EntryFilter holds optional filter parameters for listing entries.
type EntryFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Category string
}

// IncomeInput is the payload of a new income entry. ID may be supplied by
// the client; it is generated otherwise.
type IncomeInput struct {
	ID          string
	Amount      decimal.Decimal
	Source      string
	Category    string
	Date        time.Time
	Description string
	AccountID   string
	AccountType models.AccountType
}

// IncomePatch carries only the fields a caller supplied.
type IncomePatch struct {
	Amount      *decimal.Decimal
	Source      *string
	Category    *string
	Date        *time.Time
	Description *string
	AccountID   *string
	AccountType *models.AccountType
}

// IncomeServicer defines the contract for income entries and their ledger mirrors.
type IncomeServicer interface {
	CreateIncome(ctx context.Context, userID string, in IncomeInput) (*models.Income, error)
	ListIncome(ctx context.Context, userID string, filter EntryFilter) ([]models.Income, error)
	UpdateIncome(ctx context.Context, userID, id string, patch IncomePatch) (int64, error)
	DeleteIncome(ctx context.Context, userID, id string) (int64, error)
}

// ExpenseInput is the payload of a new expense entry.
type ExpenseInput struct {
	ID          string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Description string
	AccountID   string
	AccountType models.AccountType
}

// ExpensePatch carries only the fields a caller supplied.
type ExpensePatch struct {
	Amount      *decimal.Decimal
	Category    *string
	Date        *time.Time
	Description *string
	AccountID   *string
	AccountType *models.AccountType
}

// ExpenseServicer defines the contract for expense entries and their ledger mirrors.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, userID string, in ExpenseInput) (*models.Expense, error)
	ListExpenses(ctx context.Context, userID string, filter EntryFilter) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, userID, id string, patch ExpensePatch) (int64, error)
	DeleteExpense(ctx context.Context, userID, id string) (int64, error)
}

// LedgerInput is the payload of a row created on the unified ledger.
type LedgerInput struct {
	ID          string
	Type        models.LedgerType
	Amount      decimal.Decimal
	Name        string
	Category    string
	Date        time.Time
	AccountType models.AccountType
	Note        string
}

// LedgerServicer defines the contract for the unified ledger endpoint.
type LedgerServicer interface {
	CreateTransaction(ctx context.Context, userID string, in LedgerInput) (*models.AccountTransaction, error)
	ListTransactions(ctx context.Context, userID string, txType models.LedgerType, page pagination.PageRequest) (*pagination.PageResponse[models.AccountTransaction], error)
	DeleteTransaction(ctx context.Context, userID, id string) (int64, error)
}

// DebtInput is the payload of a new debt.
type DebtInput struct {
	ID          string
	Type        models.DebtType
	Amount      decimal.Decimal
	PersonName  string
	Description string
	Date        time.Time
	Status      models.DebtStatus
}

// DebtPatch carries only the fields a caller supplied.
type DebtPatch struct {
	Type        *models.DebtType
	Amount      *decimal.Decimal
	PersonName  *string
	Description *string
	Date        *time.Time
	Status      *models.DebtStatus
}

// DebtFilter narrows a debt listing.
type DebtFilter struct {
	Type   models.DebtType
	Status models.DebtStatus
}

// DebtServicer defines the contract for debts. Debts never touch the ledger.
type DebtServicer interface {
	CreateDebt(ctx context.Context, userID string, in DebtInput) (*models.Debt, error)
	ListDebts(ctx context.Context, userID string, filter DebtFilter) ([]models.Debt, error)
	UpdateDebt(ctx context.Context, userID, id string, patch DebtPatch) (int64, error)
	DeleteDebt(ctx context.Context, userID, id string) (int64, error)
}

// BalanceServicer defines the contract for read-side aggregates.
type BalanceServicer interface {
	GetSummary(ctx context.Context, userID string) (*aggregate.Summary, error)
	GetMonthlyTotal(ctx context.Context, userID string, kind aggregate.Kind, month, year int) (decimal.Decimal, error)
	GetTotalDebts(ctx context.Context, userID string, debtType models.DebtType, status models.DebtStatus) (decimal.Decimal, error)
}

// SettingsInput carries the settings fields a caller supplied; nil fields
// keep their stored or default value.
type SettingsInput struct {
	Currency             *string
	Language             *string
	CustomCategories     *[]models.CustomCategory
	Accounts             *[]models.SettingsAccount
	AnalyticsPreferences map[string]interface{}
}

// SettingsServicer defines the contract for per-user settings.
type SettingsServicer interface {
	GetSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	SaveSettings(ctx context.Context, userID string, in SettingsInput) (*models.UserSettings, error)
}

// ReconcileReport summarises a reconciliation pass over one user's entries.
type ReconcileReport struct {
	MirrorsCreated   int   `json:"mirrors_created"`
	MirrorsRealigned int64 `json:"mirrors_realigned"`
	OrphanLedgerRows int64 `json:"orphan_ledger_rows"`
}

// MaintenanceServicer exposes the schema migrator and reconciliation as
// explicit operations.
type MaintenanceServicer interface {
	CreateTables(ctx context.Context) error
	MigrateSettings(ctx context.Context) ([]string, error)
	Reconcile(ctx context.Context, userID string) (*ReconcileReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
