// chitsmart/internal/routes/api_routes.go
package routes

import (
	"chitsmart/internal/auth"
	"chitsmart/internal/handlers"
	"chitsmart/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes registers the JSON API. Admin routes and the member
// route are guarded separately.
func RegisterAPIRoutes(r *gin.Engine) {
	apiGroup := r.Group("/api")

	admin := apiGroup.Group("", middleware.RequireRole(auth.RoleAdmin, "/login/admin"))
	{
		admin.GET("/customers", handlers.GetCustomersAPI)
		admin.PUT("/customers/status", handlers.UpdateCustomerStatusAPI)
		admin.GET("/schemes", handlers.GetSchemesAPI)
		admin.PUT("/schemes/groups", handlers.UpdateSchemeGroupsAPI)
		admin.GET("/dashboard", handlers.GetDashboardAPI)
	}

	apiGroup.GET("/me", middleware.RequireRole(auth.RoleCustomer, "/login/customer"), handlers.GetMeAPI)
}
