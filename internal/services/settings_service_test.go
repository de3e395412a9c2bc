package services

import (
	"context"
	"testing"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/testutil"
)

func TestGetSettings_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSettingsService(newTestStore(db))
	user := testutil.CreateTestUser(t, db)

	settings, err := svc.GetSettings(context.Background(), user.ID)
	testutil.AssertNoError(t, err)
	if settings.Currency != "USD" || settings.Language != "en" {
		t.Errorf("unexpected defaults %+v", settings)
	}
	if settings.CustomCategories == nil || settings.Accounts == nil || settings.AnalyticsPreferences == nil {
		t.Error("expected empty collections, not nil")
	}
}

func TestSaveSettings_AddsMissingColumns(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)

	// Recreate the settings table as it was before any preference column existed.
	if err := db.Exec("DROP TABLE user_settings").Error; err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := db.Exec(`CREATE TABLE user_settings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error; err != nil {
		t.Fatalf("create legacy table: %v", err)
	}

	svc := NewSettingsService(newTestStore(db))
	settings, err := svc.SaveSettings(ctx, user.ID, SettingsInput{Currency: ptr("eur")})
	testutil.AssertNoError(t, err)
	if settings.Currency != "EUR" || settings.Language != "en" {
		t.Errorf("expected EUR with default language, got %+v", settings)
	}

	got, err := svc.GetSettings(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if got.Currency != "EUR" || got.Language != "en" || len(got.CustomCategories) != 0 {
		t.Errorf("unexpected stored settings %+v", got)
	}
}

func TestSaveSettings_Upsert(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSettingsService(newTestStore(db))
	user := testutil.CreateTestUser(t, db)

	first, err := svc.SaveSettings(ctx, user.ID, SettingsInput{
		Language: ptr("fr"),
		CustomCategories: &[]models.CustomCategory{
			{Name: "Rent", Icon: "home", Type: "expense"},
		},
		AnalyticsPreferences: map[string]interface{}{"show_trends": true},
	})
	testutil.AssertNoError(t, err)
	if len(first.CustomCategories) != 1 || first.CustomCategories[0].ID == "" {
		t.Fatalf("expected category with generated id, got %+v", first.CustomCategories)
	}

	second, err := svc.SaveSettings(ctx, user.ID, SettingsInput{
		Accounts: &[]models.SettingsAccount{{Name: "Wallet"}},
	})
	testutil.AssertNoError(t, err)
	if second.ID != first.ID {
		t.Errorf("expected the same row to be updated")
	}
	if second.Language != "fr" || len(second.CustomCategories) != 1 {
		t.Errorf("fields outside the update changed: %+v", second)
	}
	if len(second.Accounts) != 1 || second.Accounts[0].Type != models.AccountTypeCash {
		t.Errorf("expected wallet account defaulting to cash, got %+v", second.Accounts)
	}
	if second.AnalyticsPreferences["show_trends"] != true {
		t.Errorf("expected analytics preferences kept, got %v", second.AnalyticsPreferences)
	}

	var count int64
	db.Model(&models.UserSettings{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one settings row, got %d", count)
	}
}

func TestSaveSettings_Validation(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSettingsService(newTestStore(db))
	user := testutil.CreateTestUser(t, db)

	tests := []struct {
		name string
		in   SettingsInput
	}{
		{"unknown_currency", SettingsInput{Currency: ptr("ABC")}},
		{"empty_language", SettingsInput{Language: ptr("")}},
		{"category_without_name", SettingsInput{CustomCategories: &[]models.CustomCategory{{Type: "income"}}}},
		{"category_bad_type", SettingsInput{CustomCategories: &[]models.CustomCategory{{Name: "x", Type: "debt"}}}},
		{"account_bad_type", SettingsInput{Accounts: &[]models.SettingsAccount{{Name: "x", Type: "crypto"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveSettings(ctx, user.ID, tt.in)
			testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		})
	}
}
