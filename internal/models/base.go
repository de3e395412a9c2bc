package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/uuid"
)

func init() {
	// Amounts are rendered as JSON numbers rather than quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Base contains common columns for all tables. Rows are hard-deleted, so
// there is no soft-delete column.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for records whose id was not supplied
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// AccountType tags which kind of account an entry was booked against.
type AccountType string

const (
	AccountTypeBank AccountType = "bank"
	AccountTypeCash AccountType = "cash"
	AccountTypeCard AccountType = "card"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeBank, AccountTypeCash, AccountTypeCard:
		return true
	}
	return false
}

// Table names. They are referenced by the schema migrator and the aggregate
// engine, which work below the ORM.
const (
	TableUsers               = "users"
	TableIncome              = "income"
	TableExpenses            = "expenses"
	TableAccountTransactions = "account_transactions"
	TableDebts               = "debts"
	TableUserSettings        = "user_settings"
	TableAuditLogs           = "audit_logs"
)
