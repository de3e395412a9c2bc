package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/schema"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/store"
)

func newTestStore(db *gorm.DB) *store.Store {
	return store.New(db, schema.New(db), 5*time.Second)
}

// reportRecorder captures mirror failures instead of sending them to Sentry.
type reportRecorder struct {
	mu   sync.Mutex
	tags []map[string]string
}

func (r *reportRecorder) report(_ context.Context, _ error, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = append(r.tags, tags)
}

func (r *reportRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tags)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

var jan5 = time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

func loadMirror(t *testing.T, db *gorm.DB, id string) *models.AccountTransaction {
	t.Helper()
	var rows []models.AccountTransaction
	if err := db.Where("id = ?", id).Find(&rows).Error; err != nil {
		t.Fatalf("load mirror: %v", err)
	}
	if len(rows) == 0 {
		return nil
	}
	return &rows[0]
}

// assertMirrored checks the invariant fields shared by an entry and its mirror.
func assertMirrored(t *testing.T, db *gorm.DB, id string, amount decimal.Decimal, date time.Time, accountType models.AccountType) *models.AccountTransaction {
	t.Helper()
	mirror := loadMirror(t, db, id)
	if mirror == nil {
		t.Fatalf("expected ledger mirror for %s", id)
	}
	if !mirror.Amount.Equal(amount) {
		t.Errorf("mirror amount = %s, want %s", mirror.Amount, amount)
	}
	if !mirror.Date.Equal(date) {
		t.Errorf("mirror date = %s, want %s", mirror.Date, date)
	}
	if mirror.AccountType != accountType {
		t.Errorf("mirror account_type = %s, want %s", mirror.AccountType, accountType)
	}
	return mirror
}

// rejectInserts makes every insert into table fail until the test ends.
func rejectInserts(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	stmt := "CREATE TRIGGER reject_" + table + " BEFORE INSERT ON " + table +
		" BEGIN SELECT RAISE(ABORT, 'insert rejected'); END"
	if err := db.Exec(stmt).Error; err != nil {
		t.Fatalf("create trigger: %v", err)
	}
}
