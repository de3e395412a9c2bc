package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
)

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app error", apperrors.WithMessage(apperrors.ErrNotFound, "no such entry"), http.StatusNotFound, "NOT_FOUND"},
		{"wrapped app error", apperrors.Wrap(apperrors.ErrDuplicateID, errors.New("unique constraint failed")), http.StatusConflict, "DUPLICATE_ID"},
		{"raw error", errors.New("connection reset"), http.StatusInternalServerError, "STORE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			r := newTestRouter()
			r.GET("/fail", func(c *gin.Context) {
				respondWithError(c, tt.err)
			}, func(c *gin.Context) {
				reached = true
			})

			rec := doRequest(r, "GET", "/fail", "")
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), tt.code)
			if reached {
				t.Error("handlers after an error must not run")
			}
		})
	}

	t.Run("message survives", func(t *testing.T) {
		r := newTestRouter()
		r.GET("/fail", func(c *gin.Context) {
			respondWithError(c, apperrors.Validation("amount must be greater than 0"))
		})

		result := parseJSON(t, doRequest(r, "GET", "/fail", ""))
		if msg := result["error"].(map[string]interface{})["message"]; msg != "amount must be greater than 0" {
			t.Errorf("unexpected message %v", msg)
		}
	})
}
