package services

import (
	"context"
	"testing"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/schema"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/testutil"
)

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	st := newTestStore(db)
	svc := NewMaintenanceService(st)
	incomes := NewIncomeService(st)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	unmirroredIncome := testutil.CreateTestIncome(t, db, user.ID, "100")
	unmirroredExpense := testutil.CreateTestExpense(t, db, user.ID, "40")
	testutil.CreateTestIncome(t, db, other.ID, "5")

	drifted, err := incomes.CreateIncome(ctx, user.ID, IncomeInput{Amount: dec("10"), Source: "Gig", Date: jan5})
	testutil.AssertNoError(t, err)
	if err := db.Model(&models.AccountTransaction{}).Where("id = ?", drifted.ID).Update("amount", dec("99")).Error; err != nil {
		t.Fatalf("drift mirror: %v", err)
	}

	orphan := testutil.CreateTestLedgerRow(t, db, user.ID, models.LedgerTypeExpense, "7")

	report, err := svc.Reconcile(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if report.MirrorsCreated != 2 {
		t.Errorf("expected 2 mirrors created, got %d", report.MirrorsCreated)
	}
	if report.MirrorsRealigned != 1 {
		t.Errorf("expected 1 mirror realigned, got %d", report.MirrorsRealigned)
	}
	if report.OrphanLedgerRows != 1 {
		t.Errorf("expected 1 orphan ledger row, got %d", report.OrphanLedgerRows)
	}

	income := assertMirrored(t, db, unmirroredIncome.ID, dec("100"), testutil.TestDate, models.AccountTypeCash)
	if income.Type != models.LedgerTypeIncome || income.Name != unmirroredIncome.Source {
		t.Errorf("unexpected income mirror %+v", income)
	}
	expense := assertMirrored(t, db, unmirroredExpense.ID, dec("40"), testutil.TestDate, models.AccountTypeCash)
	if expense.Type != models.LedgerTypeExpense || expense.Name != unmirroredExpense.Description {
		t.Errorf("unexpected expense mirror %+v", expense)
	}
	assertMirrored(t, db, drifted.ID, dec("10"), jan5, models.AccountTypeCash)

	if loadMirror(t, db, orphan.ID) == nil {
		t.Error("orphan ledger rows must be kept")
	}

	var otherRows int64
	db.Model(&models.AccountTransaction{}).Where("user_id = ?", other.ID).Count(&otherRows)
	if otherRows != 0 {
		t.Errorf("reconcile touched another user's entries")
	}

	again, err := svc.Reconcile(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if again.MirrorsCreated != 0 || again.MirrorsRealigned != 0 || again.OrphanLedgerRows != 1 {
		t.Errorf("expected a second pass to change nothing, got %+v", again)
	}
}

func TestCreateTables(t *testing.T) {
	db := testutil.OpenBareDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewMaintenanceService(newTestStore(db))

	testutil.AssertNoError(t, svc.CreateTables(context.Background()))
	for _, spec := range schema.CoreTables {
		if !db.Migrator().HasTable(spec.Name) {
			t.Errorf("expected table %s", spec.Name)
		}
	}
	testutil.AssertNoError(t, svc.CreateTables(context.Background()))
}

func TestMigrateSettings(t *testing.T) {
	db := testutil.OpenBareDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewMaintenanceService(newTestStore(db))

	// user_settings references users, so the core tables come first.
	testutil.AssertNoError(t, schema.New(db).EnsureCoreTables(context.Background()))
	if err := db.Exec("DROP TABLE user_settings").Error; err != nil {
		t.Fatalf("drop: %v", err)
	}

	columns, err := svc.MigrateSettings(context.Background())
	testutil.AssertNoError(t, err)

	have := map[string]bool{}
	for _, c := range columns {
		have[c] = true
	}
	for _, want := range []string{"id", "user_id", "currency", "language", "custom_categories", "accounts", "analytics_preferences"} {
		if !have[want] {
			t.Errorf("expected column %s in %v", want, columns)
		}
	}
}
