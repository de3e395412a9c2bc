package testutil_test

import (
	"testing"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "income", "expenses", "account_transactions", "debts", "user_settings", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	a := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, a)
	b := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, b)

	testutil.CreateTestUser(t, a)

	var count int64
	if err := b.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Errorf("expected second database to be empty, got %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	income := testutil.CreateTestIncome(t, db, user.ID, "1000.50")
	if income.Amount.String() != "1000.5" {
		t.Errorf("expected amount 1000.5, got %s", income.Amount)
	}

	expense := testutil.CreateTestExpense(t, db, user.ID, "20")
	if expense.Category != "Food" {
		t.Errorf("expected category Food, got %s", expense.Category)
	}

	row := testutil.CreateTestLedgerRow(t, db, user.ID, models.LedgerTypeIncome, "5")
	if row.Type != models.LedgerTypeIncome {
		t.Errorf("expected income ledger row, got %s", row.Type)
	}

	debt := testutil.CreateTestDebt(t, db, user.ID, models.DebtTypeGiven, models.DebtStatusPending, "40")
	if debt.Status != models.DebtStatusPending {
		t.Errorf("expected pending debt, got %s", debt.Status)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrNotFound, "custom message")
	testutil.AssertAppError(t, err, "NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}

func TestAssertions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	income := testutil.CreateTestIncome(t, db, user.ID, "10.5")

	testutil.AssertAmount(t, income.Amount, "10.50")
	testutil.AssertRowCount(t, db, models.TableIncome, income.ID, 1)
	testutil.AssertRowCount(t, db, models.TableAccountTransactions, income.ID, 0)
	testutil.AssertAppError(t, errors.WithMessage(errors.ErrNotFound, "gone"), "NOT_FOUND")
	testutil.AssertNoError(t, nil)
}
