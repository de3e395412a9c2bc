package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/services"
)

// --- mock expense service ---

type mockExpenseService struct {
	createExpenseFn func(userID string, in services.ExpenseInput) (*models.Expense, error)
	listExpensesFn  func(userID string, filter services.EntryFilter) ([]models.Expense, error)
	updateExpenseFn func(userID, id string, patch services.ExpensePatch) (int64, error)
	deleteExpenseFn func(userID, id string) (int64, error)
}

func (m *mockExpenseService) CreateExpense(_ context.Context, userID string, in services.ExpenseInput) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(userID, in)
	}
	return &models.Expense{Base: models.Base{ID: testEntryID}, UserID: userID, Amount: in.Amount}, nil
}

func (m *mockExpenseService) ListExpenses(_ context.Context, userID string, filter services.EntryFilter) ([]models.Expense, error) {
	if m.listExpensesFn != nil {
		return m.listExpensesFn(userID, filter)
	}
	return []models.Expense{}, nil
}

func (m *mockExpenseService) UpdateExpense(_ context.Context, userID, id string, patch services.ExpensePatch) (int64, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(userID, id, patch)
	}
	return 1, nil
}

func (m *mockExpenseService) DeleteExpense(_ context.Context, userID, id string) (int64, error) {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(userID, id)
	}
	return 1, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := newTestRouter()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/expenses", handler.CreateExpense)
	auth.GET("/expenses", handler.ListExpenses)
	auth.PATCH("/expenses/:id", handler.UpdateExpense)
	auth.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 without a category", func(t *testing.T) {
		var got services.ExpenseInput
		svc := &mockExpenseService{
			createExpenseFn: func(userID string, in services.ExpenseInput) (*models.Expense, error) {
				got = in
				return &models.Expense{Base: models.Base{ID: testEntryID}, UserID: userID, Category: models.DefaultExpenseCategory}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/expenses", `{"amount":"12.30","description":"Lunch","date":"2024-01-05"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount.StringFixed(2) != "12.30" || got.Category != "" || got.Description != "Lunch" {
			t.Errorf("unexpected input %+v", got)
		}
		expense := parseJSON(t, rec)["expense"].(map[string]interface{})
		if expense["category"] != "Other" {
			t.Errorf("expected category Other, got %v", expense["category"])
		}
	})

	t.Run("returns 400 on zero amount", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/expenses", `{"amount":0,"date":"2024-01-05"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_UpdateAndDelete(t *testing.T) {
	t.Run("update passes date as a time", func(t *testing.T) {
		var got services.ExpensePatch
		svc := &mockExpenseService{
			updateExpenseFn: func(_, _ string, patch services.ExpensePatch) (int64, error) {
				got = patch
				return 1, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PATCH", "/expenses/"+testEntryID, `{"date":"2024-02-01"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Date == nil || got.Date.Month() != 2 || got.Amount != nil {
			t.Errorf("unexpected patch %+v", got)
		}
	})

	t.Run("update rejects malformed date", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "PATCH", "/expenses/"+testEntryID, `{"date":"Feb 1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("delete of foreign id reports zero rows", func(t *testing.T) {
		svc := &mockExpenseService{
			deleteExpenseFn: func(_, _ string) (int64, error) { return 0, nil },
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/expenses/"+testEntryID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["affected"].(float64) != 0 {
			t.Error("expected affected 0")
		}
	})
}
