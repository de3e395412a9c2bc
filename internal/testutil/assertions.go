package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
)

// AssertAppError fails unless err is an *AppError carrying code.
func AssertAppError(t testing.TB, err error, code string) {
	t.Helper()

	var appErr *apperrors.AppError
	switch {
	case err == nil:
		t.Fatalf("expected %s, got success", code)
	case !errors.As(err, &appErr):
		t.Fatalf("expected %s, got untyped %T: %v", code, err, err)
	case appErr.Code != code:
		t.Errorf("expected %s, got %s: %s", code, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected %s: %v", apperrors.Kind(err), err)
	}
}

// AssertAmount compares money by value, so 10.5 and 10.50 are equal.
func AssertAmount(t testing.TB, got decimal.Decimal, want string) {
	t.Helper()

	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("amount = %s, want %s", got.StringFixed(2), want)
	}
}

// AssertRowCount fails unless table holds want rows with primary key id.
func AssertRowCount(t testing.TB, db *gorm.DB, table, id string, want int64) {
	t.Helper()

	var got int64
	if err := db.Table(table).Where("id = ?", id).Count(&got).Error; err != nil {
		t.Fatalf("count %s rows: %v", table, err)
	}
	if got != want {
		t.Errorf("%s rows with id %s = %d, want %d", table, id, got, want)
	}
}
