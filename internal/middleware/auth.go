package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
)

const issuer = "ledger-api"

// Identity is the verified caller every scoped operation runs as.
type Identity struct {
	UserID string
	Email  string
}

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenGate issues and verifies HS256 bearer tokens.
type TokenGate struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenGate creates a TokenGate signing with secret. Tokens stay valid for ttl.
func NewTokenGate(secret string, ttl time.Duration) *TokenGate {
	return &TokenGate{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue produces a signed token for the user.
func (g *TokenGate) Issue(userID, email string) (string, error) {
	if userID == "" {
		return "", errors.New("token gate: empty user id")
	}
	now := g.now()
	claims := &JWTClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// Verify decodes token. It returns nil for any expired, tampered or
// malformed input; callers treat nil as unauthenticated.
func (g *TokenGate) Verify(token string) *Identity {
	claims := &JWTClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return nil
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email}
}

// AuthMiddleware verifies the bearer token and sets the caller in the context
func AuthMiddleware(gate *TokenGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		identity := gate.Verify(parts[1])
		if identity == nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("userID", identity.UserID)
		c.Set("email", identity.Email)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrUnauthorized.Code,
			"message": message,
		},
	})
}
