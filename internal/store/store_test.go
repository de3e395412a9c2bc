package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/schema"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/store"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/testutil"
)

func newStore(db *gorm.DB) *store.Store {
	return store.New(db, schema.New(db), 5*time.Second)
}

func TestCreate_HealsMissingSchema(t *testing.T) {
	db := testutil.OpenBareDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := newStore(db)

	user := &models.User{Email: "heal@test.com"}
	if err := s.Create(context.Background(), user); err != nil {
		t.Fatalf("expected create to succeed after migrator pass, got %v", err)
	}
	if !db.Migrator().HasTable(models.TableUserSettings) {
		t.Error("expected migrator pass to create every table")
	}
}

func TestRun_SchemaStillMissingAfterRetry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := newStore(db)

	calls := 0
	err := s.Run(context.Background(), "ghost", func(tx *gorm.DB) error {
		calls++
		return tx.Exec("INSERT INTO ghosts (id) VALUES (1)").Error
	})
	testutil.AssertAppError(t, err, "SCHEMA_MISSING")
	if calls != 2 {
		t.Errorf("expected exactly one retry, got %d attempts", calls)
	}
}

func TestRun_AppliesDeadline(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := store.New(db, schema.New(db), time.Second)

	err := s.Run(context.Background(), "deadline", func(tx *gorm.DB) error {
		if _, ok := tx.Statement.Context.Deadline(); !ok {
			t.Error("expected round-trip context to carry a deadline")
		}
		return nil
	})
	testutil.AssertNoError(t, err)
}

func TestRun_ExpiredContextIsStoreError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := newStore(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var count int64
	err := s.Run(ctx, "count", func(tx *gorm.DB) error {
		return tx.Model(&models.User{}).Count(&count).Error
	})
	testutil.AssertAppError(t, err, "STORE_ERROR")
}

func TestCreate_DuplicateID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := newStore(db)
	user := testutil.CreateTestUser(t, db)
	income := testutil.CreateTestIncome(t, db, user.ID, "10")

	dup := &models.Income{
		Base:   models.Base{ID: income.ID},
		UserID: user.ID,
		Amount: decimal.NewFromInt(5),
		Source: "again",
		Date:   testutil.TestDate,
	}
	err := s.Create(context.Background(), dup)
	testutil.AssertAppError(t, err, "DUPLICATE_ID")
}

func TestUpdateScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := newStore(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	income := testutil.CreateTestIncome(t, db, owner.ID, "100")

	t.Run("empty field set is a no-op", func(t *testing.T) {
		n, err := s.UpdateScoped(ctx, &models.Income{}, income.ID, owner.ID, nil)
		testutil.AssertNoError(t, err)
		if n != 0 {
			t.Errorf("expected 0 rows, got %d", n)
		}
	})

	t.Run("owner updates only supplied fields", func(t *testing.T) {
		n, err := s.UpdateScoped(ctx, &models.Income{}, income.ID, owner.ID, map[string]any{
			"amount": decimal.NewFromInt(500),
		})
		testutil.AssertNoError(t, err)
		if n != 1 {
			t.Fatalf("expected 1 row, got %d", n)
		}

		var got models.Income
		if err := db.First(&got, "id = ?", income.ID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if !got.Amount.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected amount 500, got %s", got.Amount)
		}
		if got.Source != income.Source || got.Category != income.Category {
			t.Errorf("unsupplied fields changed: %+v", got)
		}
		if !got.UpdatedAt.After(income.UpdatedAt) && !got.UpdatedAt.Equal(income.UpdatedAt) {
			t.Errorf("updated_at moved backwards")
		}
	})

	t.Run("foreign owner affects zero rows", func(t *testing.T) {
		n, err := s.UpdateScoped(ctx, &models.Income{}, income.ID, other.ID, map[string]any{
			"source": "hijack",
		})
		testutil.AssertNoError(t, err)
		if n != 0 {
			t.Errorf("expected 0 rows, got %d", n)
		}
	})
}

func TestDeleteScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := newStore(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestExpense(t, db, owner.ID, "30")

	n, err := s.DeleteScoped(ctx, &models.Expense{}, expense.ID, other.ID)
	testutil.AssertNoError(t, err)
	if n != 0 {
		t.Errorf("expected foreign delete to affect 0 rows, got %d", n)
	}

	n, err = s.DeleteScoped(ctx, &models.Expense{}, expense.ID, owner.ID)
	testutil.AssertNoError(t, err)
	if n != 1 {
		t.Errorf("expected 1 row deleted, got %d", n)
	}

	n, err = s.DeleteScoped(ctx, &models.Expense{}, expense.ID, owner.ID)
	testutil.AssertNoError(t, err)
	if n != 0 {
		t.Errorf("expected repeat delete to affect 0 rows, got %d", n)
	}
}

func TestFindScoped_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := newStore(db)
	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	debt := testutil.CreateTestDebt(t, db, owner.ID, models.DebtTypeGiven, models.DebtStatusPending, "10")

	var got models.Debt
	err := s.FindScoped(context.Background(), &got, debt.ID, other.ID)
	testutil.AssertAppError(t, err, "NOT_FOUND")
}

func TestList_OrderAndFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := newStore(db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	jan := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestLedgerRowOn(t, db, user.ID, models.LedgerTypeIncome, "1", jan)
	testutil.CreateTestLedgerRowOn(t, db, user.ID, models.LedgerTypeExpense, "2", feb)
	testutil.CreateTestLedgerRowOn(t, db, other.ID, models.LedgerTypeIncome, "3", feb)

	var all []models.AccountTransaction
	testutil.AssertNoError(t, s.List(ctx, &all, user.ID, store.Filter{}))
	if len(all) != 2 {
		t.Fatalf("expected 2 rows for user, got %d", len(all))
	}
	if !all[0].Date.Equal(feb) {
		t.Errorf("expected newest first, got %s", all[0].Date)
	}

	from := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	var recent []models.AccountTransaction
	testutil.AssertNoError(t, s.List(ctx, &recent, user.ID, store.Filter{From: &from}))
	if len(recent) != 1 {
		t.Errorf("expected 1 row from February, got %d", len(recent))
	}

	var incomes []models.AccountTransaction
	testutil.AssertNoError(t, s.List(ctx, &incomes, user.ID, store.Filter{Equals: map[string]string{"type": "income"}}))
	if len(incomes) != 1 || incomes[0].Type != models.LedgerTypeIncome {
		t.Errorf("expected only the income row, got %+v", incomes)
	}
}

func TestRequireUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := newStore(db)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, s.RequireUser(context.Background(), user.ID))
	testutil.AssertAppError(t, s.RequireUser(context.Background(), "0190a6c4-0000-7000-8000-000000000000"), "USER_NOT_FOUND")
}

func TestScopedWrites_ExtraConditions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := newStore(db)
	user := testutil.CreateTestUser(t, db)
	row := testutil.CreateTestLedgerRow(t, db, user.ID, models.LedgerTypeExpense, "40")

	incomeOnly := store.Eq("type", string(models.LedgerTypeIncome))

	n, err := s.UpdateScoped(ctx, &models.AccountTransaction{}, row.ID, user.ID, map[string]any{"amount": decimal.NewFromInt(999)}, incomeOnly)
	testutil.AssertNoError(t, err)
	if n != 0 {
		t.Errorf("expected a type mismatch to update 0 rows, got %d", n)
	}
	n, err = s.DeleteScoped(ctx, &models.AccountTransaction{}, row.ID, user.ID, incomeOnly)
	testutil.AssertNoError(t, err)
	if n != 0 {
		t.Errorf("expected a type mismatch to delete 0 rows, got %d", n)
	}

	var stored models.AccountTransaction
	testutil.AssertNoError(t, db.First(&stored, "id = ?", row.ID).Error)
	testutil.AssertAmount(t, stored.Amount, "40")

	n, err = s.DeleteScoped(ctx, &models.AccountTransaction{}, row.ID, user.ID, store.Eq("type", string(models.LedgerTypeExpense)))
	testutil.AssertNoError(t, err)
	if n != 1 {
		t.Errorf("expected matching type to delete 1 row, got %d", n)
	}
}

func TestRequireUnusedID(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := newStore(db)
	owner := testutil.CreateTestUser(t, db)
	row := testutil.CreateTestLedgerRow(t, db, owner.ID, models.LedgerTypeIncome, "1")
	tables := []string{models.TableIncome, models.TableExpenses, models.TableAccountTransactions}

	testutil.AssertAppError(t, s.RequireUnusedID(ctx, row.ID, tables...), "DUPLICATE_ID")
	testutil.AssertNoError(t, s.RequireUnusedID(ctx, row.ID, models.TableIncome, models.TableExpenses))
	testutil.AssertNoError(t, s.RequireUnusedID(ctx, "0190a6c4-9999-7000-8000-000000000000", tables...))
}
