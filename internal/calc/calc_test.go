package calc

import (
	"testing"
	"time"

	"chitsmart/models"
)

func TestDeriveAppliesDefaults(t *testing.T) {
	c := MustDefault()
	v, err := c.Derive(models.Scheme{ID: "x", Amount: 100000})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if v.Title != "Untitled Scheme" {
		t.Errorf("title: %q", v.Title)
	}
	if v.Duration != "15 Months" {
		t.Errorf("duration: %q", v.Duration)
	}
	if v.Monthly != "6,667" {
		t.Errorf("monthly: %q", v.Monthly)
	}
	if v.Groups != 0 || v.Members != 0 || v.PerGroup != 0 {
		t.Errorf("members: %+v", v)
	}
	if v.AmountLabel != "1,00,000" {
		t.Errorf("amount: %q", v.AmountLabel)
	}
}

func TestDeriveMembers(t *testing.T) {
	c := MustDefault()
	v, err := c.Derive(models.Scheme{Amount: 500000, DurationMonths: 20, Groups: 2, MembersPerGroup: 12, Badge: "Elite"})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if v.Members != 24 || v.PerGroup != 12 {
		t.Errorf("got members=%d perGroup=%d", v.Members, v.PerGroup)
	}
	if v.Monthly != "25,000" || v.Duration != "20 Months" || v.Badge != "Elite" {
		t.Errorf("unexpected view %+v", v)
	}
}

func TestCustomFormula(t *testing.T) {
	// Foreman commission of 5% on top of the plain split.
	c, err := New("amount * 1.05 / durationMonths", "", 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m, err := c.Monthly(models.Scheme{Amount: 150000, DurationMonths: 15})
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if m.Round(0).IntPart() != 10500 {
		t.Fatalf("got %s", m)
	}

	perGroup, err := New("amount / groups", "", 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := perGroup.Derive(models.Scheme{Amount: 50000, Groups: 0}); err == nil {
		t.Fatal("division by zero groups must be an error")
	}
}

func TestNewRejectsBadFormula(t *testing.T) {
	if _, err := New("amount / (", "", 0, 0); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestDeriveAllSortsByAmount(t *testing.T) {
	views, err := MustDefault().DeriveAll([]models.Scheme{
		{ID: "b", Amount: 200000},
		{ID: "a", Amount: 50000},
		{ID: "c", Amount: 100000},
	})
	if err != nil {
		t.Fatalf("DeriveAll: %v", err)
	}
	got := views[0].ID + views[1].ID + views[2].ID
	if got != "acb" {
		t.Fatalf("order %q", got)
	}
}

func TestMonthlyForUsesMatchingScheme(t *testing.T) {
	c := MustDefault()
	schemes := []models.Scheme{{Amount: 500000, DurationMonths: 20}}
	m, err := c.MonthlyFor(models.Customer{Scheme: 500000}, schemes)
	if err != nil {
		t.Fatal(err)
	}
	if m.IntPart() != 25000 {
		t.Fatalf("got %s", m)
	}
	m, err = c.MonthlyFor(models.Customer{Scheme: 150000}, schemes)
	if err != nil {
		t.Fatal(err)
	}
	if m.IntPart() != 10000 {
		t.Fatalf("default duration: got %s", m)
	}
}

func TestNextDue(t *testing.T) {
	now := time.Date(2024, 8, 20, 10, 0, 0, 0, time.UTC)
	due := NextDue(models.LiftStatusRunning, now, 5)
	if !due.Equal(time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("got %v", due)
	}
	early := NextDue(models.LiftStatusRunning, time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC), 5)
	if early.Day() != 5 || early.Month() != time.August {
		t.Fatalf("got %v", early)
	}
	late := NextDue(models.LiftStatusRunning, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), 31)
	if !late.Equal(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day 31 should fall on the 28th, got %v", late)
	}
	if !NextDue(models.LiftStatusLifted, now, 5).IsZero() {
		t.Fatal("lifted members have nothing due")
	}
}
