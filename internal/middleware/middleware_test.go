package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v (body: %s)", err, w.Body.String())
	}
	return body.Error.Code
}

func TestTokenGate_IssueVerify(t *testing.T) {
	gate := NewTokenGate("secret", 7*24*time.Hour)

	token, err := gate.Issue("user-1", "a@b.c")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id := gate.Verify(token)
	if id == nil {
		t.Fatal("expected valid token to verify")
	}
	if id.UserID != "user-1" || id.Email != "a@b.c" {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestTokenGate_Rejections(t *testing.T) {
	gate := NewTokenGate("secret", time.Hour)
	token, err := gate.Issue("user-1", "a@b.c")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	expired := NewTokenGate("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	noneAlg := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTClaims{UserID: "user-1"})
	unsigned, _ := noneAlg.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		gate  *TokenGate
		token string
	}{
		{"expired", expired, token},
		{"wrong secret", NewTokenGate("other", time.Hour), token},
		{"tampered", gate, token[:len(token)-2] + "xx"},
		{"malformed", gate, "not-a-token"},
		{"empty", gate, ""},
		{"alg none", gate, unsigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if id := tt.gate.Verify(tt.token); id != nil {
				t.Errorf("expected nil identity, got %+v", id)
			}
		})
	}
}

func TestTokenGate_SevenDayValidity(t *testing.T) {
	gate := NewTokenGate("secret", 7*24*time.Hour)
	token, _ := gate.Issue("user-1", "a@b.c")

	later := NewTokenGate("secret", 7*24*time.Hour)
	later.now = func() time.Time { return time.Now().Add(6 * 24 * time.Hour) }
	if later.Verify(token) == nil {
		t.Error("expected token to be valid after six days")
	}

	later.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	if later.Verify(token) != nil {
		t.Error("expected token to be expired after eight days")
	}
}

func TestAuthMiddleware(t *testing.T) {
	gate := NewTokenGate("secret", time.Hour)
	token, _ := gate.Issue("user-1", "a@b.c")

	r := gin.New()
	r.GET("/me", AuthMiddleware(gate), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID"), "email": c.GetString("email")})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if code := errorCode(t, w); code != "AUTH_ERROR" {
					t.Errorf("expected AUTH_ERROR, got %s", code)
				}
				return
			}
			var body map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body["user_id"] != "user-1" {
				t.Errorf("expected user-1 in context, got %q", body["user_id"])
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperrors.Wrap(apperrors.ErrSchemaMissing, errors.New("no such table")))
	})
	r.GET("/raw", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))
	if w.Code != http.StatusInternalServerError || errorCode(t, w) != "SCHEMA_MISSING" {
		t.Errorf("expected 500 SCHEMA_MISSING, got %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/raw", nil))
	if w.Code != http.StatusInternalServerError || errorCode(t, w) != "STORE_ERROR" {
		t.Errorf("expected 500 STORE_ERROR, got %d %s", w.Code, w.Body.String())
	}
}

func TestRequestLogging_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "0190a6c4-0000-7000-8000-000000000001")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "0190a6c4-0000-7000-8000-000000000001" {
		t.Errorf("expected inbound request id to be echoed, got %q", got)
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError || errorCode(t, w) != "STORE_ERROR" {
		t.Errorf("expected 500 STORE_ERROR, got %d %s", w.Code, w.Body.String())
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://app.example.com"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("unexpected allow-origin %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS headers for foreign origin")
	}
}
