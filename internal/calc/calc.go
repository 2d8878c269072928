// Package calc derives the read-time values of a scheme: monthly
// contribution, member counts and the next due date. None of these are
// persisted.
package calc

import (
	"fmt"
	"math"
	"sort"
	"time"

	"chitsmart/internal/money"
	"chitsmart/models"

	"github.com/Knetic/govaluate"
	"github.com/shopspring/decimal"
)

const (
	DefaultMonthlyFormula = "amount / durationMonths"
	DefaultMembersFormula = "groups * membersPerGroup"
	DefaultDuration       = 15
	DefaultMembersPer     = 15
	untitled              = "Untitled Scheme"
)

// View is a scheme prepared for rendering.
type View struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amountValue"`
	AmountLabel string `json:"amount"`
	AmountWords string `json:"amountWords"`
	Title       string `json:"title"`
	Monthly     string `json:"monthly"`
	Duration    string `json:"duration"`
	Groups      int    `json:"groups"`
	Members     int    `json:"members"`
	PerGroup    int    `json:"perGroup"`
	Badge       string `json:"badge,omitempty"`
}

// Calculator evaluates the configured formulas. Variables available to both
// formulas are amount, durationMonths, groups and membersPerGroup.
type Calculator struct {
	monthly         *govaluate.EvaluableExpression
	members         *govaluate.EvaluableExpression
	defaultDuration int
	defaultPer      int
}

// New compiles the formulas. Empty formulas and non-positive defaults fall
// back to the built-in ones.
func New(monthlyFormula, membersFormula string, defaultDuration, defaultMembersPer int) (*Calculator, error) {
	if monthlyFormula == "" {
		monthlyFormula = DefaultMonthlyFormula
	}
	if membersFormula == "" {
		membersFormula = DefaultMembersFormula
	}
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	if defaultMembersPer <= 0 {
		defaultMembersPer = DefaultMembersPer
	}

	monthly, err := govaluate.NewEvaluableExpression(monthlyFormula)
	if err != nil {
		return nil, fmt.Errorf("monthly formula %q: %w", monthlyFormula, err)
	}
	members, err := govaluate.NewEvaluableExpression(membersFormula)
	if err != nil {
		return nil, fmt.Errorf("members formula %q: %w", membersFormula, err)
	}
	return &Calculator{
		monthly:         monthly,
		members:         members,
		defaultDuration: defaultDuration,
		defaultPer:      defaultMembersPer,
	}, nil
}

// MustDefault is the calculator with built-in formulas.
func MustDefault() *Calculator {
	c, err := New("", "", 0, 0)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Calculator) duration(s models.Scheme) int {
	if s.DurationMonths > 0 {
		return s.DurationMonths
	}
	return c.defaultDuration
}

func (c *Calculator) perGroup(s models.Scheme) int {
	if s.MembersPerGroup > 0 {
		return s.MembersPerGroup
	}
	return c.defaultPer
}

func (c *Calculator) params(s models.Scheme) map[string]interface{} {
	return map[string]interface{}{
		"amount":          float64(s.Amount),
		"durationMonths":  float64(c.duration(s)),
		"groups":          float64(s.Groups),
		"membersPerGroup": float64(c.perGroup(s)),
	}
}

func evaluate(expr *govaluate.EvaluableExpression, params map[string]interface{}) (decimal.Decimal, error) {
	result, err := expr.Evaluate(params)
	if err != nil {
		return decimal.Zero, err
	}
	f, ok := result.(float64)
	if !ok {
		return decimal.Zero, fmt.Errorf("formula %q did not produce a number", expr.String())
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, fmt.Errorf("formula %q is not finite for %v", expr.String(), params)
	}
	return decimal.NewFromFloat(f), nil
}

// Monthly is the contribution per month, unrounded.
func (c *Calculator) Monthly(s models.Scheme) (decimal.Decimal, error) {
	return evaluate(c.monthly, c.params(s))
}

// Members is the total member count across groups.
func (c *Calculator) Members(s models.Scheme) (int, error) {
	d, err := evaluate(c.members, c.params(s))
	if err != nil {
		return 0, err
	}
	return int(d.IntPart()), nil
}

// Derive builds the render view with the portal defaults: 15 months,
// 15 members per group, 0 groups and "Untitled Scheme".
func (c *Calculator) Derive(s models.Scheme) (View, error) {
	monthly, err := c.Monthly(s)
	if err != nil {
		return View{}, err
	}
	members, err := c.Members(s)
	if err != nil {
		return View{}, err
	}
	title := s.Title
	if title == "" {
		title = untitled
	}
	groups := s.Groups
	if groups < 0 {
		groups = 0
	}
	divisor := groups
	if divisor == 0 {
		divisor = 1
	}
	return View{
		ID:          s.ID,
		Amount:      s.Amount,
		AmountLabel: money.FormatINR(s.Amount),
		AmountWords: money.Words(s.Amount),
		Title:       title,
		Monthly:     money.FormatINRDecimal(monthly),
		Duration:    fmt.Sprintf("%d Months", c.duration(s)),
		Groups:      groups,
		Members:     members,
		PerGroup:    members / divisor,
		Badge:       s.Badge,
	}, nil
}

// DeriveAll derives and sorts by amount ascending.
func (c *Calculator) DeriveAll(schemes []models.Scheme) ([]View, error) {
	views := make([]View, 0, len(schemes))
	for _, s := range schemes {
		v, err := c.Derive(s)
		if err != nil {
			return nil, fmt.Errorf("scheme %s: %w", s.ID, err)
		}
		views = append(views, v)
	}
	SortByAmount(views)
	return views, nil
}

// SortByAmount orders views by amount ascending, keeping input order for ties.
func SortByAmount(views []View) {
	sort.SliceStable(views, func(i, j int) bool { return views[i].Amount < views[j].Amount })
}

// MonthlyFor is a customer's monthly contribution. The duration comes from
// the scheme with the same amount, or the default when none matches.
func (c *Calculator) MonthlyFor(customer models.Customer, schemes []models.Scheme) (decimal.Decimal, error) {
	s := models.Scheme{Amount: customer.Scheme}
	for _, candidate := range schemes {
		if candidate.Amount == customer.Scheme {
			s = candidate
			break
		}
	}
	return c.Monthly(s)
}

// MaxDueDay is the last day present in every month.
const MaxDueDay = 28

// NextDue is the next dueDay-of-month strictly after today for running
// members. Other statuses have nothing due and get the zero time.
func NextDue(status models.LiftStatus, now time.Time, dueDay int) time.Time {
	if status != models.LiftStatusRunning {
		return time.Time{}
	}
	switch {
	case dueDay < 1:
		dueDay = 5
	case dueDay > MaxDueDay:
		dueDay = MaxDueDay
	}
	y, m, d := now.Date()
	due := time.Date(y, m, dueDay, 0, 0, 0, 0, now.Location())
	if d >= dueDay {
		due = due.AddDate(0, 1, 0)
	}
	return due
}
