package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Role is the authorization role of a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleLearner Role = "learner"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleLearner
}

// localsKey is where the auth middleware stores the session on the Fiber context.
const localsKey = "session"

// Session identifies who is acting. It is passed explicitly to the services that
// need it instead of living in a global.
type Session struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// IsAdmin reports whether the session may author courses.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// System is the session used for API-key and CLI access.
func System() Session {
	return Session{UserID: "system", Role: RoleAdmin}
}

// Claims are the JWT claims carried by session tokens.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned for malformed, expired or badly signed tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// IssueToken signs an HS256 token for s.
func IssueToken(secret string, s Session, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	if !s.Role.IsValid() {
		return "", fmt.Errorf("unknown role %q", s.Role)
	}
	now := time.Now()
	claims := Claims{
		Role: s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies a token and returns the session it carries.
func ParseToken(secret, token string) (Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" || !claims.Role.IsValid() {
		return Session{}, ErrInvalidToken
	}
	return Session{UserID: claims.Subject, Role: claims.Role}, nil
}

// Set stores s on the request context.
func Set(c *fiber.Ctx, s Session) {
	c.Locals(localsKey, s)
}

// From returns the session stored on the request context.
func From(c *fiber.Ctx) (Session, bool) {
	s, ok := c.Locals(localsKey).(Session)
	return s, ok
}
