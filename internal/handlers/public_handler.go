package handlers

import (
	"log/slog"
	"net/http"

	"chitsmart/config"
	"chitsmart/internal/calc"

	"github.com/gin-gonic/gin"
)

// ShowHomePage is the landing page with both portal entry points.
func ShowHomePage(c *gin.Context) {
	render(c, http.StatusOK, "home.html", gin.H{"title": "ChitSmart"})
}

func loadSchemeViews(c *gin.Context) ([]calc.View, error) {
	schemes, err := config.Store.ListSchemes(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return config.Calc.DeriveAll(schemes)
}

// ShowPublicSchemesPage lists every scheme for prospective members.
func ShowPublicSchemesPage(c *gin.Context) {
	views, err := loadSchemeViews(c)
	if err != nil {
		slog.Error("Failed to load schemes for public page", "error", err)
		render(c, http.StatusOK, "schemes.html", gin.H{
			"title": "Our Chit Fund Schemes",
			"error": "Could not load schemes right now. Please try again later.",
		})
		return
	}
	render(c, http.StatusOK, "schemes.html", gin.H{
		"title":          "Our Chit Fund Schemes",
		"schemes":        views,
		"assistantReady": config.Assistant != nil,
	})
}

type suggestRequest struct {
	Budget int64 `json:"budget" form:"budget" binding:"required,gt=0"`
}

// SuggestScheme asks the assistant which schemes fit a monthly budget.
func SuggestScheme(c *gin.Context) {
	if config.Assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheme suggestions are not available."})
		return
	}
	var req suggestRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a monthly budget in rupees."})
		return
	}
	views, err := loadSchemeViews(c)
	if err != nil {
		slog.Error("Failed to load schemes for suggestion", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load schemes."})
		return
	}
	text, err := config.Assistant.Suggest(c.Request.Context(), req.Budget, views)
	if err != nil {
		slog.Error("Scheme suggestion failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not get a suggestion. Please try again."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": text})
}
