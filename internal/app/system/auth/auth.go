// Package auth guards the admin surface with a bearer token whose bcrypt
// hash is held in configuration. The token itself is never stored.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost used for new token hashes.
const HashCost = 12

// ErrEmptyToken is returned when hashing an empty token.
var ErrEmptyToken = errors.New("token must not be empty")

// HashToken returns the bcrypt hash of token.
func HashToken(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrEmptyToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ValidateHash checks that hash is a well-formed bcrypt hash.
// An empty hash is valid and means admin access is disabled.
func ValidateHash(hash string) error {
	if hash == "" {
		return nil
	}
	_, err := bcrypt.Cost([]byte(hash))
	return err
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin guard                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const adminKey ctxKey = "admin"

// IsAdmin reports whether the request passed the admin guard.
func IsAdmin(r *http.Request) bool {
	ok, _ := r.Context().Value(adminKey).(bool)
	return ok
}

// Guard checks admin bearer tokens against a configured bcrypt hash.
type Guard struct {
	hash []byte
	log  *zap.Logger
}

// NewGuard builds a Guard. With an empty hash every admin request is
// refused with 403.
func NewGuard(hash string, logger *zap.Logger) *Guard {
	g := &Guard{log: logger}
	if hash != "" {
		g.hash = []byte(hash)
	}
	return g
}

// Enabled reports whether an admin token hash is configured.
func (g *Guard) Enabled() bool {
	return len(g.hash) > 0
}

// RequireAdmin lets a request through only when it carries
// "Authorization: Bearer <token>" matching the configured hash.
//   - no hash configured: 403
//   - missing or wrong token: 401 with a WWW-Authenticate challenge
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Enabled() {
			writeError(w, http.StatusForbidden, "admin access is not configured")
			return
		}

		token, ok := bearerToken(r)
		if !ok || bcrypt.CompareHashAndPassword(g.hash, []byte(token)) != nil {
			g.log.Warn("admin auth failed",
				zap.String("path", r.URL.Path),
				zap.String("remote", r.RemoteAddr),
				zap.Bool("token_present", ok))
			w.Header().Set("WWW-Authenticate", `Bearer realm="schoolfinder-admin"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey, true)))
	})
}

// bearerToken extracts the token from an Authorization header. The scheme
// is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
