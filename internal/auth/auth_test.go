package auth

import (
	"errors"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

var testKey = []byte("test-secret")

func TestIssueAndParseToken(t *testing.T) {
	raw, err := IssueToken(testKey, Claims{Role: RoleCustomer, Phone: "+919876543210"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseToken(testKey, raw)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role != RoleCustomer || claims.Phone != "+919876543210" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	expired, _ := IssueToken(testKey, Claims{Role: RoleAdmin}, -time.Minute)
	noRole, _ := IssueToken(testKey, Claims{Role: "guest"}, time.Hour)
	otherKey, _ := IssueToken([]byte("other"), Claims{Role: RoleAdmin}, time.Hour)

	for name, raw := range map[string]string{
		"expired":   expired,
		"bad role":  noRole,
		"other key": otherKey,
		"garbage":   "not-a-jwt",
	} {
		if _, err := ParseToken(testKey, raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestIssueTokenRequiresKey(t *testing.T) {
	if _, err := IssueToken(nil, Claims{Role: RoleAdmin}, time.Hour); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestClassifyToolkitError(t *testing.T) {
	cases := map[string]error{
		"INVALID_CODE":                          ErrInvalidCode,
		"SESSION_EXPIRED":                       ErrCodeExpired,
		"TOO_MANY_ATTEMPTS_TRY_LATER : later":   ErrTooManyRequests,
		"CAPTCHA_CHECK_FAILED : Recaptcha fail": ErrCaptchaFailed,
		"INVALID_PHONE_NUMBER : TOO_SHORT":      ErrInvalidPhone,
	}
	for msg, want := range cases {
		err := classifyToolkitError(&googleapi.Error{Code: 400, Message: msg})
		if !errors.Is(err, want) {
			t.Errorf("%q: got %v, want %v", msg, err, want)
		}
	}

	other := errors.New("dial tcp: timeout")
	if got := classifyToolkitError(other); got != other {
		t.Errorf("non-api errors must pass through, got %v", got)
	}
}

func TestAdminPolicy(t *testing.T) {
	verified := &Identity{Email: "Owner@Example.com", EmailVerified: true}

	if err := NewAdminPolicy(nil).Check(verified); err != nil {
		t.Fatalf("empty allowlist should admit verified accounts: %v", err)
	}
	if err := NewAdminPolicy(nil).Check(&Identity{Email: "x@example.com"}); !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("unverified: %v", err)
	}

	p := NewAdminPolicy([]string{" owner@example.com ", ""})
	if err := p.Check(verified); err != nil {
		t.Fatalf("allowlisted account rejected: %v", err)
	}
	if err := p.Check(&Identity{Email: "intruder@example.com", EmailVerified: true}); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
}
