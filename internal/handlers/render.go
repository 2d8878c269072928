package handlers

import (
	"encoding/gob"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"chitsmart/config"
	"chitsmart/internal/middleware"
	"chitsmart/internal/money"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// flowSession is the cookie that holds login step state and pending toasts.
const flowSession = "chitsmart_flow"

const (
	keyOTPSession = "otp_session"
	keyOTPPhone   = "otp_phone"
	keyOAuthState = "oauth_state"
)

// Toast is a one-shot notification shown on the next rendered page.
type Toast struct {
	Title       string
	Description string
	Variant     string
}

func init() {
	gob.Register(Toast{})
}

func flow(c *gin.Context) *sessions.Session {
	// Get returns a fresh session when the cookie cannot be decoded.
	s, err := config.Sessions.Get(c.Request, flowSession)
	if err != nil {
		slog.Debug("Discarding unreadable flow cookie", "error", err)
	}
	return s
}

func saveFlow(c *gin.Context, s *sessions.Session) {
	if err := s.Save(c.Request, c.Writer); err != nil {
		slog.Error("Failed to save flow session", "error", err)
	}
}

func addToast(c *gin.Context, t Toast) {
	s := flow(c)
	s.AddFlash(t)
	saveFlow(c, s)
}

func toastError(c *gin.Context, title, description string) {
	addToast(c, Toast{Title: title, Description: description, Variant: "destructive"})
}

func toastInfo(c *gin.Context, title, description string) {
	addToast(c, Toast{Title: title, Description: description, Variant: "default"})
}

func takeToasts(c *gin.Context) []Toast {
	s := flow(c)
	flashes := s.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	toasts := make([]Toast, 0, len(flashes))
	for _, f := range flashes {
		if t, ok := f.(Toast); ok {
			toasts = append(toasts, t)
		}
	}
	saveFlow(c, s)
	return toasts
}

// render adds the layout data every page needs and writes the template.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["toasts"] = takeToasts(c)
	data["role"] = middleware.Role(c)
	data["userName"] = c.GetString(middleware.KeyName)
	data["userEmail"] = c.GetString(middleware.KeyEmail)
	data["path"] = c.Request.URL.Path
	data["contactPhone"] = config.App.ContactPhone
	data["contactEmail"] = config.App.ContactEmail
	c.HTML(status, name, data)
}

// TemplateFuncs are available in every page template.
var TemplateFuncs = template.FuncMap{
	"inr":     money.FormatINR,
	"label":   money.Label,
	"initial": initial,
	"add":     func(a, b int) int { return a + b },
	"sub":     func(a, b int) int { return a - b },
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "A"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}
