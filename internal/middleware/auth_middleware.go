package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"chitsmart/config"
	"chitsmart/internal/auth"

	"github.com/gin-gonic/gin"
)

// Context keys set by SessionMiddleware.
const (
	KeyRole    = "role"
	KeySubject = "subject"
	KeyPhone   = "phone"
	KeyEmail   = "email"
	KeyName    = "name"
)

// SessionMiddleware reads the session token from the auth_token cookie or a
// bearer header. Requests without a valid token continue anonymously and an
// invalid cookie is cleared.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(auth.CookieName)
		fromCookie := err == nil && tokenStr != ""
		if !fromCookie {
			parts := strings.Split(c.GetHeader("Authorization"), " ")
			if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
				tokenStr = parts[1]
			}
		}
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(config.JwtKey, tokenStr)
		if err != nil {
			if fromCookie {
				ClearSession(c)
			}
			slog.Debug("Ignoring invalid session token", "error", err, "path", c.Request.URL.Path)
			c.Next()
			return
		}

		c.Set(KeyRole, claims.Role)
		c.Set(KeySubject, claims.Subject)
		c.Set(KeyPhone, claims.Phone)
		c.Set(KeyEmail, claims.Email)
		c.Set(KeyName, claims.Name)
		c.Next()
	}
}

// SetSession issues a token for claims and stores it in the session cookie.
func SetSession(c *gin.Context, claims auth.Claims) error {
	token, err := auth.IssueToken(config.JwtKey, claims, config.App.SessionTTL)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(config.App.SessionTTL.Seconds()), "/", "", config.App.SecureCookies, true)
	return nil
}

func ClearSession(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", config.App.SecureCookies, true)
}

// Role is the role of the current session, or "" when anonymous.
func Role(c *gin.Context) string {
	return c.GetString(KeyRole)
}

// RequireRole stops requests whose session does not carry role.
func RequireRole(role, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) == role {
			c.Next()
			return
		}
		handleAuthError(c, loginPath, "Authentication required")
	}
}

// RedirectIfRole sends an already signed-in user from a login page to target.
func RedirectIfRole(role, target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) == role {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

func handleAuthError(c *gin.Context, loginPath, message string) {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusFound, loginPath)
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	}
	c.Abort()
}
