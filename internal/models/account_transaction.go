package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerType is the direction of a unified ledger row.
type LedgerType string

const (
	LedgerTypeIncome  LedgerType = "income"
	LedgerTypeExpense LedgerType = "expense"
)

// Valid reports whether t is income or expense.
func (t LedgerType) Valid() bool {
	return t == LedgerTypeIncome || t == LedgerTypeExpense
}

// AccountTransaction is the unified ledger row used for balance computation.
// Rows mirrored from Income or Expense share the primary key of their source
// row, so the mirror can always be located by id alone.
type AccountTransaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        LedgerType      `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Name        string          `gorm:"not null" json:"name"`
	Category    string          `json:"category"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	AccountType AccountType     `json:"account_type"`
	Note        string          `json:"note"`
}

// TableName overrides the table name used by AccountTransaction
func (AccountTransaction) TableName() string { return TableAccountTransactions }
