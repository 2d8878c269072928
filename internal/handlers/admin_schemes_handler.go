package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ShowSchemesPage renders scheme cards with the manage-groups form.
func ShowSchemesPage(c *gin.Context) {
	views, err := loadSchemeViews(c)
	if err != nil {
		slog.Error("Error fetching schemes", "error", err)
		render(c, http.StatusOK, "admin_schemes.html", gin.H{
			"title": "Active Schemes",
			"error": "Failed to fetch schemes. Please refresh the page.",
		})
		return
	}
	render(c, http.StatusOK, "admin_schemes.html", gin.H{
		"title":   "Active Schemes",
		"schemes": views,
		"live":    true,
	})
}

// UpdateSchemeGroupsAction handles the manage-groups form.
func UpdateSchemeGroupsAction(c *gin.Context) {
	groups, err := strconv.Atoi(strings.TrimSpace(c.PostForm("groups")))
	if err != nil {
		groups = -1
	}
	if aerr := updateSchemeGroups(c.Request.Context(), c.PostForm("amount"), groups); aerr != nil {
		toastError(c, "Update Failed", aerr.Message)
	} else {
		title := c.PostForm("title")
		if title == "" {
			title = "scheme"
		}
		toastInfo(c, "Success!", "The "+title+" has been updated.")
	}
	redirect(c, "/admin/schemes")
}
