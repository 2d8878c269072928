package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"chitsmart/config"
	"chitsmart/internal/calc"
	"chitsmart/internal/middleware"
	"chitsmart/internal/money"
	"chitsmart/models"

	"github.com/gin-gonic/gin"
)

// CustomerSummary is the member's view of their own account.
type CustomerSummary struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Number       string         `json:"number"`
	Scheme       int64          `json:"scheme"`
	SchemeLabel  string         `json:"schemeLabel"`
	Monthly      string         `json:"monthly"`
	NextPayment  string         `json:"nextPayment"`
	LiftStatus   string         `json:"liftStatus"`
	BadgeVariant string         `json:"badgeVariant"`
	Payments     []PaymentEntry `json:"payments"`
}

type PaymentEntry struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	StatusClass string `json:"statusClass"`
}

// BuildCustomerSummary derives the monthly amount and next due date at
// read time.
func BuildCustomerSummary(cu models.Customer, schemes []models.Scheme, payments []models.Payment, calculator *calc.Calculator, now time.Time, dueDay int) (CustomerSummary, error) {
	monthly, err := calculator.MonthlyFor(cu, schemes)
	if err != nil {
		return CustomerSummary{}, err
	}
	next := "N/A"
	if due := calc.NextDue(cu.LiftStatus, now, dueDay); !due.IsZero() {
		next = due.Format("02-Jan-2006")
	}
	s := CustomerSummary{
		ID:           cu.ID,
		Name:         cu.Name,
		Number:       cu.Number,
		Scheme:       cu.Scheme,
		SchemeLabel:  money.Label(cu.Scheme),
		Monthly:      money.LabelDecimal(monthly),
		NextPayment:  next,
		LiftStatus:   cu.LiftStatus.Label(),
		BadgeVariant: cu.LiftStatus.BadgeVariant(),
		Payments:     make([]PaymentEntry, 0, len(payments)),
	}
	for _, p := range payments {
		s.Payments = append(s.Payments, PaymentEntry{
			Date:        p.Date.Format("02-Jan-2006"),
			Amount:      money.Label(p.Amount),
			Status:      p.Status,
			StatusClass: p.StatusClass(),
		})
	}
	return s, nil
}

func loadCustomerSummary(c *gin.Context) (CustomerSummary, error) {
	ctx := c.Request.Context()
	cu, err := findCustomer(ctx, c.GetString(middleware.KeyPhone))
	if err != nil {
		return CustomerSummary{}, err
	}
	schemes, err := config.Store.ListSchemes(ctx)
	if err != nil {
		return CustomerSummary{}, err
	}
	payments, err := config.Store.ListPayments(ctx, cu.ID)
	if err != nil {
		return CustomerSummary{}, err
	}
	return BuildCustomerSummary(*cu, schemes, payments, config.Calc, time.Now(), config.App.PaymentDueDay)
}

// ShowCustomerDashboardPage renders the member's scheme and payments.
func ShowCustomerDashboardPage(c *gin.Context) {
	summary, err := loadCustomerSummary(c)
	if isNotFound(err) {
		toastError(c, "Account Not Found", "Your number is not registered. Please contact support or explore our schemes.")
		middleware.ClearSession(c)
		redirect(c, "/schemes")
		return
	}
	if err != nil {
		slog.Error("Error fetching customer dashboard", "error", err)
		toastError(c, "Error", "An unexpected error occurred while fetching your data. Please try logging in again.")
		middleware.ClearSession(c)
		redirect(c, "/login/customer")
		return
	}
	render(c, http.StatusOK, "customer_dashboard.html", gin.H{
		"title":    "My Dashboard",
		"customer": summary,
	})
}
