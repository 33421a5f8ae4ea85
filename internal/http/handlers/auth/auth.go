package auth

import (
	"errors"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services/auth"
	"inboxflow/internal/http/handlers/response"
	"net/http"
	"strings"
	"time"
)

const (
	AUTH_TOKEN_PREFIX  = "Bearer "
	AUTH_TOKEN_MAX_LEN = 1024
)

// SessionCookie writes and reads the cookie carrying the session token.
type SessionCookie struct {
	Name   string
	Secure bool
	now    func() time.Time
}

func NewSessionCookie(name string, secure bool, now func() time.Time) SessionCookie {
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return SessionCookie{Name: name, Secure: secure, now: now}
}

func (sc SessionCookie) Set(rw http.ResponseWriter, session user.Session) {
	http.SetCookie(rw, &http.Cookie{
		Name:     sc.Name,
		Value:    string(session.Token),
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(session.ExpiresAt.Sub(sc.now()).Seconds()),
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (sc SessionCookie) Clear(rw http.ResponseWriter) {
	http.SetCookie(rw, &http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ParseToken reads the session token from the cookie, falling back to a bearer token.
func (sc SessionCookie) ParseToken(r *http.Request) c.Optional[user.SessionToken] {
	if cookie, err := r.Cookie(sc.Name); err == nil && cookie.Value != "" {
		if len(cookie.Value) > AUTH_TOKEN_MAX_LEN {
			return c.Optional[user.SessionToken]{}
		}
		return c.NewOptional(user.SessionToken(cookie.Value), true)
	}
	token, ok := parseBearerToken(r)
	return c.NewOptional(token, ok)
}

func (sc SessionCookie) Credentials(r *http.Request) auth.Credentials {
	return auth.Credentials{SessionToken: sc.ParseToken(r)}
}

func parseBearerToken(r *http.Request) (token user.SessionToken, ok bool) {
	header := r.Header.Get("authorization")
	if header == "" {
		return token, false
	}
	parts := strings.SplitN(header, AUTH_TOKEN_PREFIX, 2)
	if len(parts) != 2 || parts[1] == "" {
		return token, false
	}
	if len(parts[1]) > AUTH_TOKEN_MAX_LEN {
		return token, false
	}
	return user.SessionToken(parts[1]), true
}

func IsSessionError(err error) bool {
	return errors.Is(err, user.ErrNoSession) ||
		errors.Is(err, user.ErrExpiredSession) ||
		errors.Is(err, user.ErrInvalidSession)
}

// RenderSessionError renders authentication failures and reports whether err was one.
func RenderSessionError(rw http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, user.ErrNoSession):
		response.RenderError(rw, "authentication required", http.StatusUnauthorized)
	case errors.Is(err, user.ErrExpiredSession):
		response.RenderError(rw, "session has expired", http.StatusUnauthorized)
	case errors.Is(err, user.ErrInvalidSession):
		response.RenderUnauthorized(rw)
	default:
		return false
	}
	return true
}

// RenderWeakPassword renders a rejected password and reports whether err was one.
func RenderWeakPassword(rw http.ResponseWriter, err error) bool {
	if !errors.Is(err, user.ErrWeakPassword) {
		return false
	}
	msg := "password is too weak"
	var validationErr *e.ValidationError
	if errors.As(err, &validationErr) {
		msg = validationErr.Error()
	}
	response.RenderError(rw, msg, http.StatusBadRequest)
	return true
}
