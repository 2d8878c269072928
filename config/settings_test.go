package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PAYMENT_DUE_DAY", "")
	s := Load()
	if s.StoreDriver != "firestore" || s.CountryCode != "+91" || s.PaymentDueDay != 5 {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if s.SessionTTL != 24*time.Hour {
		t.Fatalf("session ttl: %v", s.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ADMIN_EMAILS", "a@example.com,b@example.com")
	t.Setenv("DEFAULT_DURATION_MONTHS", "20")
	t.Setenv("DEFAULT_MEMBERS_PER_GROUP", "-3")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "true")

	s := Load()
	if App.StoreDriver != "memory" {
		t.Fatal("Load must publish App")
	}
	if len(s.AdminEmails) != 2 || s.DefaultDuration != 20 || s.SessionTTL != 2*time.Hour || !s.SecureCookies {
		t.Fatalf("overrides not applied: %+v", s)
	}
	if s.DefaultMembersPerGroup != 15 {
		t.Fatalf("non-positive values must keep the default, got %d", s.DefaultMembersPerGroup)
	}
}

func TestLoadClampsPaymentDueDay(t *testing.T) {
	t.Setenv("PAYMENT_DUE_DAY", "31")
	if s := Load(); s.PaymentDueDay != 28 {
		t.Fatalf("got due day %d", s.PaymentDueDay)
	}
	t.Setenv("PAYMENT_DUE_DAY", "12")
	if s := Load(); s.PaymentDueDay != 12 {
		t.Fatalf("got due day %d", s.PaymentDueDay)
	}
}

func TestInitSecurityRequiresSecretsOutsideMemory(t *testing.T) {
	s := Defaults()
	if err := InitSecurity(s); err == nil {
		t.Fatal("expected error without secrets")
	}
	s.StoreDriver = "memory"
	if err := InitSecurity(s); err != nil || len(JwtKey) == 0 || Sessions == nil {
		t.Fatalf("memory mode should generate secrets: %v", err)
	}
}

func TestDemoStoreSeeded(t *testing.T) {
	m, err := NewDemoStore()
	if err != nil {
		t.Fatal(err)
	}
	schemes, _ := m.ListSchemes(Ctx)
	if len(schemes) != 4 {
		t.Fatalf("expected 4 schemes, got %d", len(schemes))
	}
	ps, _ := m.ListPayments(Ctx, "demo-1")
	if len(ps) != 3 {
		t.Fatalf("expected 3 payments, got %d", len(ps))
	}
}
