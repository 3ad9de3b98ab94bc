package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

const (
	visitorCookie = "littlelemon_visitor"
	visitorMaxAge = 14 * 24 * time.Hour
)

// Sessions issues and reads the signed, encrypted visitor cookie. The cookie only
// carries an opaque visitor id; the draft itself lives in the booking registry.
type Sessions struct {
	sc *securecookie.SecureCookie
}

func NewSessions(hashKey, blockKey []byte) *Sessions {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(visitorMaxAge.Seconds()))
	return &Sessions{sc: sc}
}

func (s *Sessions) read(r *http.Request) (string, bool) {
	c, err := r.Cookie(visitorCookie)
	if err != nil {
		return "", false
	}
	var id string
	if err := s.sc.Decode(visitorCookie, c.Value, &id); err != nil {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// Visitor returns the request's visitor id, issuing a new cookie when the request
// has none or carries one that does not verify.
func (s *Sessions) Visitor(w http.ResponseWriter, r *http.Request) (string, error) {
	if id, ok := s.read(r); ok {
		return id, nil
	}
	id := uuid.NewString()
	encoded, err := s.sc.Encode(visitorCookie, id)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		MaxAge:   int(visitorMaxAge.Seconds()),
	})
	return id, nil
}
