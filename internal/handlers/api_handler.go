package handlers

import (
	"log/slog"
	"net/http"

	"chitsmart/config"

	"github.com/gin-gonic/gin"
)

// GetCustomersAPI returns customers matching ?q= as a paginated response.
func GetCustomersAPI(c *gin.Context) {
	customers, err := config.Store.ListCustomers(c.Request.Context())
	if err != nil {
		slog.Error("Error fetching customers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": customersFailureMessage})
		return
	}
	sortCustomers(customers)
	matched := filterCustomers(customers, c.Query("q"))
	start, end := Paginate(c, len(matched))
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, matched[start:end], int64(len(matched))))
}

// GetSchemesAPI returns every scheme with its derived values.
func GetSchemesAPI(c *gin.Context) {
	views, err := loadSchemeViews(c)
	if err != nil {
		slog.Error("Error fetching schemes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schemes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

// GetDashboardAPI returns the admin overview.
func GetDashboardAPI(c *gin.Context) {
	d, err := loadDashboard(c)
	if err != nil {
		slog.Error("Failed to load dashboard", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard data"})
		return
	}
	c.JSON(http.StatusOK, d)
}

type schemeGroupsRequest struct {
	Amount amountInput `json:"amount"`
	Groups *int        `json:"groups"`
}

// UpdateSchemeGroupsAPI is the JSON form of the manage-groups action.
func UpdateSchemeGroupsAPI(c *gin.Context) {
	var req schemeGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Groups == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput.Message})
		return
	}
	if aerr := updateSchemeGroups(c.Request.Context(), string(req.Amount), *req.Groups); aerr != nil {
		c.JSON(aerr.Status, gin.H{"error": aerr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type liftStatusRequest struct {
	Number     string `json:"number"`
	LiftStatus string `json:"liftStatus"`
}

// UpdateCustomerStatusAPI is the JSON form of the lift status action.
func UpdateCustomerStatusAPI(c *gin.Context) {
	var req liftStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput.Message})
		return
	}
	if aerr := setLiftStatus(c.Request.Context(), req.Number, req.LiftStatus); aerr != nil {
		c.JSON(aerr.Status, gin.H{"error": aerr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMeAPI returns the signed-in member's summary.
func GetMeAPI(c *gin.Context) {
	summary, err := loadCustomerSummary(c)
	if isNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Your number is not registered."})
		return
	}
	if err != nil {
		slog.Error("Error fetching customer summary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred while fetching your data."})
		return
	}
	c.JSON(http.StatusOK, summary)
}
