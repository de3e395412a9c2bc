package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtType says whether money was lent out or borrowed.
type DebtType string

const (
	DebtTypeGiven    DebtType = "given"
	DebtTypeReceived DebtType = "received"
)

// Valid reports whether t is a known debt type.
func (t DebtType) Valid() bool {
	return t == DebtTypeGiven || t == DebtTypeReceived
}

// DebtStatus tracks settlement of a debt.
type DebtStatus string

const (
	DebtStatusPending  DebtStatus = "pending"
	DebtStatusPaid     DebtStatus = "paid"
	DebtStatusReceived DebtStatus = "received"
)

// Valid reports whether s is a known debt status.
func (s DebtStatus) Valid() bool {
	switch s {
	case DebtStatusPending, DebtStatusPaid, DebtStatusReceived:
		return true
	}
	return false
}

// Debt is tracked independently of the unified ledger; it only adjusts the
// presented balance.
type Debt struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        DebtType        `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PersonName  string          `gorm:"not null" json:"person_name"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	Status      DebtStatus      `gorm:"not null;default:'pending'" json:"status"`
}

// TableName overrides the table name used by Debt
func (Debt) TableName() string { return TableDebts }
