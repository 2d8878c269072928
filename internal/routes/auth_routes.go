package routes

import (
	"chitsmart/internal/auth"
	"chitsmart/internal/handlers"
	"chitsmart/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes needs no session.
func RegisterPublicRoutes(r *gin.Engine) {
	r.GET("/", handlers.ShowHomePage)
	r.GET("/schemes", handlers.ShowPublicSchemesPage)
	r.POST("/api/schemes/suggest", handlers.SuggestScheme)
}

// RegisterAuthRoutes are the two login flows. Signed-in users skip the
// login pages.
func RegisterAuthRoutes(r *gin.Engine) {
	customer := r.Group("/login/customer", middleware.RedirectIfRole(auth.RoleCustomer, "/customer/dashboard"))
	{
		customer.GET("", handlers.ShowCustomerLoginPage)
		customer.POST("/otp", handlers.SendOTPHandler)
		customer.POST("/verify", handlers.VerifyOTPHandler)
		customer.POST("/reset", handlers.ResetOTPHandler)
	}

	admin := r.Group("/login/admin", middleware.RedirectIfRole(auth.RoleAdmin, "/admin/dashboard"))
	{
		admin.GET("", handlers.ShowAdminLoginPage)
		admin.GET("/google", handlers.GoogleLoginHandler)
		admin.GET("/callback", handlers.GoogleCallbackHandler)
	}

	r.GET("/logout", handlers.LogoutHandler)
}
