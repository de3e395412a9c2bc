package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultExpenseCategory is used when an expense is recorded without a category.
const DefaultExpenseCategory = "Other"

// Income is a single income entry booked against one of the user's accounts.
type Income struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Source      string          `gorm:"not null" json:"source"`
	Category    string          `json:"category"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	Description string          `json:"description"`
	AccountID   string          `json:"account_id"`
	AccountType AccountType     `json:"account_type"`
}

// TableName overrides the table name used by Income
func (Income) TableName() string { return TableIncome }

// Expense has the same shape as Income minus Source.
type Expense struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Category    string          `gorm:"not null;default:'Other'" json:"category"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	Description string          `json:"description"`
	AccountID   string          `json:"account_id"`
	AccountType AccountType     `json:"account_type"`
}

// TableName overrides the table name used by Expense
func (Expense) TableName() string { return TableExpenses }
