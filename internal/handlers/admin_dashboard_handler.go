package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"chitsmart/config"
	"chitsmart/internal/calc"
	"chitsmart/internal/money"
	"chitsmart/models"

	"github.com/gin-gonic/gin"
)

const recentPaymentsLimit = 5

type Metric struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Change string `json:"change"`
	Icon   string `json:"icon"`
}

type RecentPayment struct {
	Name        string `json:"name"`
	Scheme      string `json:"scheme"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	StatusClass string `json:"statusClass"`
}

type Dashboard struct {
	Metrics        []Metric        `json:"metrics"`
	StatusCounts   map[string]int  `json:"statusCounts"`
	RecentPayments []RecentPayment `json:"recentPayments"`
	Schemes        []calc.View     `json:"schemes"`
}

// BuildDashboard derives the overview from live records. Values are scheme
// amounts summed per lift status.
func BuildDashboard(customers []models.Customer, schemes []calc.View, payments []models.Payment) Dashboard {
	var total, distributed, pending int64
	counts := map[string]int{}
	byID := make(map[string]models.Customer, len(customers))
	for _, cu := range customers {
		byID[cu.ID] = cu
		total += cu.Scheme
		counts[cu.LiftStatus.Label()]++
		switch cu.LiftStatus {
		case models.LiftStatusLifted:
			distributed += cu.Scheme
		case models.LiftStatusDefaulted:
			pending += cu.Scheme
		}
	}
	running := counts[string(models.LiftStatusRunning)]

	d := Dashboard{
		Metrics: []Metric{
			{Title: "Total Collection", Value: money.Lakhs(total), Change: fmt.Sprintf("Across %d members", len(customers)), Icon: "wallet"},
			{Title: "Active Members", Value: fmt.Sprint(running), Change: "Currently running", Icon: "users"},
			{Title: "Total Distributed", Value: money.Lakhs(distributed), Change: fmt.Sprintf("%d distributions made", counts[string(models.LiftStatusLifted)]), Icon: "hand-coins"},
			{Title: "Total Pending", Value: money.Lakhs(pending), Change: fmt.Sprintf("From %d members", counts[string(models.LiftStatusDefaulted)]), Icon: "hourglass"},
		},
		StatusCounts: counts,
		Schemes:      schemes,
	}

	sorted := append([]models.Payment(nil), payments...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })
	for _, p := range sorted {
		if len(d.RecentPayments) == recentPaymentsLimit {
			break
		}
		cu := byID[p.CustomerID]
		d.RecentPayments = append(d.RecentPayments, RecentPayment{
			Name:        cu.Name,
			Scheme:      money.Label(cu.Scheme),
			Amount:      money.Label(p.Amount),
			Date:        p.Date.Format("02-Jan-2006"),
			Status:      p.Status,
			StatusClass: p.StatusClass(),
		})
	}
	return d
}

func loadDashboard(c *gin.Context) (Dashboard, error) {
	ctx := c.Request.Context()
	customers, err := config.Store.ListCustomers(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	views, err := loadSchemeViews(c)
	if err != nil {
		return Dashboard{}, err
	}
	var payments []models.Payment
	for _, cu := range customers {
		ps, err := config.Store.ListPayments(ctx, cu.ID)
		if err != nil {
			slog.Warn("Skipping payments of customer", "customer_id", cu.ID, "error", err)
			continue
		}
		payments = append(payments, ps...)
	}
	return BuildDashboard(customers, views, payments), nil
}

// ShowAdminDashboardPage renders the overview.
func ShowAdminDashboardPage(c *gin.Context) {
	d, err := loadDashboard(c)
	if err != nil {
		slog.Error("Failed to load dashboard", "error", err)
		render(c, http.StatusOK, "admin_dashboard.html", gin.H{
			"title": "Dashboard",
			"error": "Failed to load dashboard data. Please refresh the page.",
		})
		return
	}
	render(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"title":     "Dashboard",
		"dashboard": d,
		"live":      true,
	})
}
