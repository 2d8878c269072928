package routes

import (
	"chitsmart/internal/auth"
	"chitsmart/internal/handlers"
	"chitsmart/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes registers the admin portal pages and form actions.
func RegisterAdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin", middleware.RequireRole(auth.RoleAdmin, "/login/admin"))
	{
		admin.GET("/dashboard", handlers.ShowAdminDashboardPage)
		admin.GET("/customers", handlers.ShowCustomersPage)
		admin.GET("/customers/export", handlers.ExportCustomers)
		admin.POST("/customers/status", handlers.UpdateCustomerStatusAction)
		admin.GET("/schemes", handlers.ShowSchemesPage)
		admin.POST("/schemes/groups", handlers.UpdateSchemeGroupsAction)
		admin.GET("/live", handlers.LiveWSEndpoint)
	}
}

// RegisterCustomerRoutes registers the member portal.
func RegisterCustomerRoutes(r *gin.Engine) {
	customer := r.Group("/customer", middleware.RequireRole(auth.RoleCustomer, "/login/customer"))
	{
		customer.GET("/dashboard", handlers.ShowCustomerDashboardPage)
	}
}
