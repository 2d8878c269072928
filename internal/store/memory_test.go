package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"chitsmart/models"
)

func newSeeded(t *testing.T) *Memory {
	t.Helper()
	m, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	customers := []models.Customer{
		{ID: "c1", Name: "Suresh Patel", Number: "9876543210", Scheme: 100000, LiftStatus: models.LiftStatusRunning},
		{ID: "c2", Name: "Deepika Singh", Number: "+919123456780", Scheme: 200000, LiftStatus: models.LiftStatusLifted},
	}
	payments := []models.Payment{
		{CustomerID: "c1", Amount: 6667, Date: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), Status: models.PaymentPaid},
		{CustomerID: "c1", Amount: 6667, Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), Status: models.PaymentPaid},
		{CustomerID: "c2", Amount: 13333, Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), Status: models.PaymentPaid},
	}
	if err := m.Seed(models.DefaultSchemes(), customers, payments); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return m
}

func TestFindCustomerByPhoneEitherFormat(t *testing.T) {
	m := newSeeded(t)
	ctx := context.Background()

	local, err := m.FindCustomerByPhone(ctx, []string{"+919876543210", "9876543210"})
	if err != nil || local.ID != "c1" {
		t.Fatalf("local-format record: %v %+v", err, local)
	}
	intl, err := m.FindCustomerByPhone(ctx, []string{"+919123456780", "9123456780"})
	if err != nil || intl.ID != "c2" {
		t.Fatalf("international-format record: %v %+v", err, intl)
	}
	if _, err := m.FindCustomerByPhone(ctx, []string{"+910000000000", "0000000000"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateSchemeGroups(t *testing.T) {
	m := newSeeded(t)
	ctx := context.Background()

	n, err := m.UpdateSchemeGroups(ctx, 100000, 12)
	if err != nil || n != 1 {
		t.Fatalf("got n=%d err=%v", n, err)
	}
	schemes, _ := m.ListSchemes(ctx)
	for _, s := range schemes {
		if s.Amount == 100000 && s.Groups != 12 {
			t.Fatalf("groups not updated: %+v", s)
		}
		if s.Amount == 50000 && s.Groups != 4 {
			t.Fatalf("other scheme touched: %+v", s)
		}
	}
	if _, err := m.UpdateSchemeGroups(ctx, 75000, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetCustomerLiftStatus(t *testing.T) {
	m := newSeeded(t)
	ctx := context.Background()
	if _, err := m.SetCustomerLiftStatus(ctx, []string{"+919876543210", "9876543210"}, models.LiftStatusDefaulted); err != nil {
		t.Fatal(err)
	}
	c, _ := m.FindCustomerByPhone(ctx, []string{"9876543210"})
	if c.LiftStatus != models.LiftStatusDefaulted {
		t.Fatalf("status: %q", c.LiftStatus)
	}
}

func TestUpsertCustomerMergesByNumber(t *testing.T) {
	m := newSeeded(t)
	ctx := context.Background()
	err := m.UpsertCustomer(ctx, models.Customer{Name: "Suresh P.", Number: "+919876543210", Scheme: 100000}, []string{"+919876543210", "9876543210"})
	if err != nil {
		t.Fatal(err)
	}
	err = m.UpsertCustomer(ctx, models.Customer{Name: "Ravi Kumar", Number: "9000000001", Scheme: 50000}, []string{"+919000000001", "9000000001"})
	if err != nil {
		t.Fatal(err)
	}
	all, _ := m.ListCustomers(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 customers, got %d", len(all))
	}
	c, _ := m.FindCustomerByPhone(ctx, []string{"+919876543210"})
	if c.ID != "c1" || c.Name != "Suresh P." {
		t.Fatalf("merge failed: %+v", c)
	}
}

func TestListPaymentsNewestFirst(t *testing.T) {
	m := newSeeded(t)
	ps, err := m.ListPayments(context.Background(), "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 2 || ps[0].Date.Month() != time.June {
		t.Fatalf("unexpected payments: %+v", ps)
	}
}

func TestWatchReportsSchemeChanges(t *testing.T) {
	m := newSeeded(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	changed := make(chan string, 1)
	go m.Watch(ctx, func(collection string) {
		select {
		case changed <- collection:
		default:
		}
	})

	// Keep writing until the watcher has armed and reported.
	for i := 1; ; i++ {
		if _, err := m.UpdateSchemeGroups(context.Background(), 50000, i); err != nil {
			t.Fatal(err)
		}
		select {
		case got := <-changed:
			if got != SchemesCollection {
				t.Fatalf("got %q", got)
			}
			return
		case <-time.After(20 * time.Millisecond):
		case <-ctx.Done():
			t.Fatal("no change reported")
		}
	}
}
