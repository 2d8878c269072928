package routes

import (
	"html/template"

	"chitsmart/internal/handlers"
	"chitsmart/internal/middleware"
	"chitsmart/web"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with templates, middleware and every route.
func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.SessionMiddleware())
	LoadTemplates(r)
	SetupRoutes(r)
	return r
}

// LoadTemplates parses the embedded page templates.
func LoadTemplates(r *gin.Engine) {
	t := template.Must(template.New("").Funcs(handlers.TemplateFuncs).ParseFS(web.Templates, "templates/*.html"))
	r.SetHTMLTemplate(t)
}

// SetupRoutes registers public pages first, then the role-guarded groups.
func SetupRoutes(r *gin.Engine) {
	RegisterPublicRoutes(r)
	RegisterAuthRoutes(r)
	RegisterAdminRoutes(r)
	RegisterCustomerRoutes(r)
	RegisterAPIRoutes(r)
}
