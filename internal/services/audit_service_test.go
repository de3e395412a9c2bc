package services

import (
	"context"
	"testing"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)

	svc.Log(context.Background(), user.ID, "CREATE_INCOME", "income", "abc", "127.0.0.1", map[string]any{"amount": "10.00"})

	var entries []models.AuditLog
	if err := db.Where("user_id = ?", user.ID).Find(&entries).Error; err != nil {
		t.Fatalf("load audit logs: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].Action != "CREATE_INCOME" || entries[0].Changes != `{"amount":"10.00"}` {
		t.Errorf("unexpected entry %+v", entries[0])
	}

	t.Run("failure_is_swallowed", func(t *testing.T) {
		if err := db.Exec("DROP TABLE audit_logs").Error; err != nil {
			t.Fatalf("drop: %v", err)
		}
		svc.Log(context.Background(), user.ID, "DELETE_INCOME", "income", "abc", "", nil)
	})
}
