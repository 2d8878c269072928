package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"chitsmart/config"
	"chitsmart/internal/export"
	"chitsmart/models"

	"github.com/gin-gonic/gin"
)

const (
	noCustomersMessage      = "No customers found in your Firestore 'customers' collection."
	customersFailureMessage = "Failed to fetch customers. This might be due to Firestore security rules or a network issue. Check the browser console for details."
)

// filterCustomers keeps customers whose name or number contains q. Digits in
// q are also matched against the number without its country code.
func filterCustomers(customers []models.Customer, q string) []models.Customer {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return customers
	}
	var out []models.Customer
	for _, cu := range customers {
		number := strings.TrimPrefix(cu.Number, config.App.CountryCode)
		if strings.Contains(strings.ToLower(cu.Name), q) ||
			strings.Contains(cu.Number, q) ||
			strings.Contains(number, strings.TrimPrefix(q, config.App.CountryCode)) {
			out = append(out, cu)
		}
	}
	return out
}

func sortCustomers(customers []models.Customer) {
	sort.SliceStable(customers, func(i, j int) bool {
		return strings.ToLower(customers[i].Name) < strings.ToLower(customers[j].Name)
	})
}

// ShowCustomersPage renders the customer table with search and paging.
func ShowCustomersPage(c *gin.Context) {
	data := gin.H{
		"title":    "Customer Contacts",
		"query":    c.Query("q"),
		"statuses": []models.LiftStatus{models.LiftStatusLifted, models.LiftStatusRunning, models.LiftStatusDefaulted},
		"live":     true,
	}

	customers, err := config.Store.ListCustomers(c.Request.Context())
	if err != nil {
		slog.Error("Error fetching customers", "error", err)
		data["error"] = customersFailureMessage
		render(c, http.StatusOK, "admin_customers.html", data)
		return
	}
	if len(customers) == 0 {
		data["error"] = noCustomersMessage
	}

	sortCustomers(customers)
	matched := filterCustomers(customers, c.Query("q"))
	start, end := Paginate(c, len(matched))
	data["customers"] = matched[start:end]
	data["page"] = CreatePaginatedResponse(c, nil, int64(len(matched)))
	render(c, http.StatusOK, "admin_customers.html", data)
}

// ExportCustomers downloads the customer list as xlsx (default) or csv.
func ExportCustomers(c *gin.Context) {
	customers, err := config.Store.ListCustomers(c.Request.Context())
	if err != nil {
		slog.Error("Failed to fetch customers for export", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data for export"})
		return
	}
	sortCustomers(customers)
	customers = filterCustomers(customers, c.Query("q"))

	stamp := time.Now().Format("20060102_150405")
	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=customers_%s.csv", stamp))
		if err := export.EncodeCustomersCSV(c.Writer, customers); err != nil {
			slog.Error("Failed to write CSV export", "error", err)
		}
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=customers_%s.xlsx", stamp))
		if err := export.CustomersXLSX(c.Writer, customers); err != nil {
			slog.Error("Failed to write Excel export", "error", err)
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported export format"})
	}
}

// UpdateCustomerStatusAction is the form post from the customer table.
func UpdateCustomerStatusAction(c *gin.Context) {
	number := c.PostForm("number")
	if aerr := setLiftStatus(c.Request.Context(), number, c.PostForm("liftStatus")); aerr != nil {
		toastError(c, "Update Failed", aerr.Message)
	} else {
		toastInfo(c, "Success!", fmt.Sprintf("The status of %s has been updated.", number))
	}
	back := "/admin/customers"
	if q := c.PostForm("q"); q != "" {
		back += "?q=" + url.QueryEscape(q)
	}
	redirect(c, back)
}
