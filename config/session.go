package config

import (
	"errors"
	"log/slog"
	"net/http"

	"chitsmart/internal/calc"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

var (
	JwtKey   []byte
	Sessions *sessions.CookieStore
	Calc     *calc.Calculator
)

// InitSecurity prepares the JWT key and the cookie store. Outside the
// memory driver both secrets are required; in memory mode missing secrets are
// generated per process.
func InitSecurity(s Settings) error {
	jwtSecret, sessionSecret := s.JWTSecret, s.SessionSecret
	if jwtSecret == "" || sessionSecret == "" {
		if s.StoreDriver != "memory" {
			return errors.New("JWT_SECRET and SESSION_SECRET must be set")
		}
		slog.Warn("Using generated secrets, sessions will not survive a restart.")
		if jwtSecret == "" {
			jwtSecret = uuid.NewString() + uuid.NewString()
		}
		if sessionSecret == "" {
			sessionSecret = uuid.NewString() + uuid.NewString()
		}
	}
	JwtKey = []byte(jwtSecret)
	Sessions = NewCookieStore([]byte(sessionSecret), s.SecureCookies)
	return nil
}

// NewCookieStore is the store for short-lived flow state and flash messages.
func NewCookieStore(key []byte, secure bool) *sessions.CookieStore {
	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return cs
}

// InitCalculator compiles the scheme formulas.
func InitCalculator(s Settings) error {
	c, err := calc.New(s.MonthlyFormula, s.MembersFormula, s.DefaultDuration, s.DefaultMembersPerGroup)
	if err != nil {
		return err
	}
	Calc = c
	return nil
}
