package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"chitsmart/config"
	"chitsmart/internal/auth"
	"chitsmart/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func ShowAdminLoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login_admin.html", gin.H{
		"title":   "Admin Login",
		"enabled": config.GoogleAuth != nil,
	})
}

func adminLoginFailed(c *gin.Context) {
	toastError(c, "Login Failed", "Could not log in with Google. Please try again.")
	redirect(c, "/login/admin")
}

// GoogleLoginHandler starts the consent flow with a state bound to this
// browser.
func GoogleLoginHandler(c *gin.Context) {
	if config.GoogleAuth == nil {
		adminLoginFailed(c)
		return
	}
	state := uuid.NewString()
	s := flow(c)
	s.Values[keyOAuthState] = state
	saveFlow(c, s)
	c.Redirect(http.StatusFound, config.GoogleAuth.AuthCodeURL(state))
}

// GoogleCallbackHandler finishes the flow and signs the admin in.
func GoogleCallbackHandler(c *gin.Context) {
	s := flow(c)
	expected, _ := s.Values[keyOAuthState].(string)
	delete(s.Values, keyOAuthState)
	saveFlow(c, s)

	// Closing the consent screen is not an error worth reporting.
	if c.Query("error") == "access_denied" {
		slog.Info("Google login cancelled by user.")
		redirect(c, "/login/admin")
		return
	}
	if config.GoogleAuth == nil || expected == "" ||
		subtle.ConstantTimeCompare([]byte(expected), []byte(c.Query("state"))) != 1 {
		slog.Warn("Google callback with missing or mismatched state")
		adminLoginFailed(c)
		return
	}

	identity, err := config.GoogleAuth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		slog.Error("Error during Google login", "error", err)
		adminLoginFailed(c)
		return
	}
	if err := config.Admins.Check(identity); err != nil {
		slog.Warn("Rejected admin login", "email", identity.Email, "error", err)
		adminLoginFailed(c)
		return
	}

	claims := auth.Claims{Role: auth.RoleAdmin, Email: identity.Email, Name: identity.Name}
	claims.Subject = identity.Subject
	if err := middleware.SetSession(c, claims); err != nil {
		slog.Error("Failed to issue admin session", "error", err)
		adminLoginFailed(c)
		return
	}
	slog.Info("Admin logged in", "email", identity.Email)
	redirect(c, "/admin/dashboard")
}
