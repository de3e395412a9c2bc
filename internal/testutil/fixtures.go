package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestDate is the fixed booking date used by fixtures.
var TestDate = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	hashed := string(hash)

	user := &models.User{
		Email:        email,
		PasswordHash: &hashed,
		Name:         "Test User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestIncome inserts an income row without a ledger mirror.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID, amount string) *models.Income {
	t.Helper()

	income := &models.Income{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Source:      fmt.Sprintf("Source %d", nextID()),
		Category:    "Salary",
		Date:        TestDate,
		AccountType: models.AccountTypeCash,
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestExpense inserts an expense row without a ledger mirror.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, amount string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Category:    "Food",
		Date:        TestDate,
		Description: fmt.Sprintf("Expense %d", nextID()),
		AccountType: models.AccountTypeCash,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestLedgerRow inserts a unified ledger row dated at TestDate.
func CreateTestLedgerRow(t *testing.T, db *gorm.DB, userID string, txType models.LedgerType, amount string) *models.AccountTransaction {
	t.Helper()
	return CreateTestLedgerRowOn(t, db, userID, txType, amount, TestDate)
}

// CreateTestLedgerRowOn inserts a unified ledger row on the given date.
func CreateTestLedgerRowOn(t *testing.T, db *gorm.DB, userID string, txType models.LedgerType, amount string, date time.Time) *models.AccountTransaction {
	t.Helper()

	row := &models.AccountTransaction{
		UserID:      userID,
		Type:        txType,
		Amount:      decimal.RequireFromString(amount),
		Name:        fmt.Sprintf("Ledger %d", nextID()),
		Date:        date,
		AccountType: models.AccountTypeCash,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test ledger row: %v", err)
	}
	return row
}

// CreateTestDebt inserts a debt with the given type, status and amount.
func CreateTestDebt(t *testing.T, db *gorm.DB, userID string, debtType models.DebtType, status models.DebtStatus, amount string) *models.Debt {
	t.Helper()

	debt := &models.Debt{
		UserID:     userID,
		Type:       debtType,
		Amount:     decimal.RequireFromString(amount),
		PersonName: fmt.Sprintf("Person %d", nextID()),
		Date:       TestDate,
		Status:     status,
	}
	if err := db.Create(debt).Error; err != nil {
		t.Fatalf("failed to create test debt: %v", err)
	}
	return debt
}
