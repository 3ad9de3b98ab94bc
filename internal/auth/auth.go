// Package auth guards the staff pages with HTTP basic auth checked against a
// bcrypt hash from the environment.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/littlelemon/internal/internaltypes"
)

// lowered in tests
var hashCost = bcrypt.DefaultCost

func HashPassword(pw string) (string, error) {
	if pw == "" {
		return "", fmt.Errorf("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), hashCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
	return err == nil
}

type Admin struct {
	Username     string
	PasswordHash string
	Realm        string
}

type ctxKey string

const adminKey ctxKey = "admin"

// Enabled reports whether a password hash is configured. Without one the admin
// pages are not mounted at all.
func (a Admin) Enabled() bool {
	return a.Username != "" && a.PasswordHash != ""
}

// Authenticate returns internaltypes.ErrUnauthorized on any mismatch.
func (a Admin) Authenticate(username, password string) error {
	if !a.Enabled() {
		return internaltypes.ErrUnauthorized
	}
	// bcrypt runs regardless of the username result so timing does not leak which half was wrong
	userOK := secureEq(username, a.Username)
	pwOK := CheckPassword(a.PasswordHash, password)
	if !userOK || !pwOK {
		return internaltypes.ErrUnauthorized
	}
	return nil
}

func (a Admin) RequireAuth(next http.Handler) http.Handler {
	realm := a.Realm
	if realm == "" {
		realm = "Little Lemon staff"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pw, ok := r.BasicAuth()
		if !ok || a.Authenticate(user, pw) != nil {
			w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", realm))
			http.Error(w, internaltypes.ErrUnauthorized.Error(), http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), adminKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func AdminFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(adminKey).(string)
	return u, ok
}

func secureEq(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
