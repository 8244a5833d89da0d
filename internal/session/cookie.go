package session

import (
	"net/http"
)

// CookieStore keeps the id_token itself in an HttpOnly cookie.
type CookieStore struct {
	name   string
	secure bool
}

func NewCookieStore(name string, secure bool) *CookieStore {
	return &CookieStore{name: name, secure: secure}
}

func (s *CookieStore) Get(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(s.name)
	if err != nil || cookie.Value == "" {
		return Session{}, ErrNoSession
	}
	return Session{IDToken: cookie.Value}, nil
}

func (s *CookieStore) Save(w http.ResponseWriter, sess Session) error {
	http.SetCookie(w, newCookie(s.name, sess.IDToken, sess.ExpiresAt, s.secure))
	return nil
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, expiredCookie(s.name, s.secure))
	return nil
}
