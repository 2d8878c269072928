// chitsmart/config/settings.go
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"chitsmart/internal/calc"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	HTTPAddr    string
	StoreDriver string

	FirestoreProjectID string
	CredentialsFile    string
	MongoURI           string
	MongoDB            string
	DBURL              string
	RedisAddr          string

	JWTSecret     string
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool

	FirebaseAPIKey     string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	AdminEmails        []string
	GeminiAPIKey       string

	CountryCode            string
	DefaultDuration        int
	DefaultMembersPerGroup int
	MonthlyFormula         string
	MembersFormula         string
	PaymentDueDay          int
	ContactPhone           string
	ContactEmail           string

	LogLevel  string
	LogFormat string
}

// App holds the settings of the running process. It is set by Load.
var App = Defaults()

func Defaults() Settings {
	return Settings{
		HTTPAddr:               ":8080",
		StoreDriver:            "firestore",
		FirestoreProjectID:     "chitsmart",
		MongoDB:                "chitsmart",
		SessionTTL:             24 * time.Hour,
		CountryCode:            "+91",
		DefaultDuration:        15,
		DefaultMembersPerGroup: 15,
		PaymentDueDay:          5,
		ContactPhone:           "+91 7097774579",
		ContactEmail:           "saikrishnajella06@gmail.com",
		LogLevel:               "info",
		LogFormat:              "text",
	}
}

// Load reads the environment over the defaults and stores the result in App.
func Load() Settings {
	s := Defaults()
	str(&s.HTTPAddr, "HTTP_ADDR")
	str(&s.StoreDriver, "STORE_DRIVER")
	str(&s.FirestoreProjectID, "FIRESTORE_PROJECT_ID")
	str(&s.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	str(&s.MongoURI, "MONGO_URI")
	str(&s.MongoDB, "MONGO_DB")
	str(&s.DBURL, "DB_URL")
	str(&s.RedisAddr, "REDIS_ADDR")
	str(&s.JWTSecret, "JWT_SECRET")
	str(&s.SessionSecret, "SESSION_SECRET")
	if v, err := time.ParseDuration(os.Getenv("SESSION_TTL")); err == nil && v > 0 {
		s.SessionTTL = v
	}
	s.SecureCookies, _ = strconv.ParseBool(os.Getenv("COOKIE_SECURE"))
	str(&s.FirebaseAPIKey, "FIREBASE_API_KEY")
	str(&s.GoogleClientID, "GOOGLE_CLIENT_ID")
	str(&s.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	str(&s.GoogleRedirectURL, "GOOGLE_REDIRECT_URL")
	if v := os.Getenv("ADMIN_EMAILS"); v != "" {
		s.AdminEmails = strings.Split(v, ",")
	}
	str(&s.GeminiAPIKey, "GEMINI_API_KEY")
	str(&s.CountryCode, "COUNTRY_CODE")
	num(&s.DefaultDuration, "DEFAULT_DURATION_MONTHS")
	num(&s.DefaultMembersPerGroup, "DEFAULT_MEMBERS_PER_GROUP")
	str(&s.MonthlyFormula, "MONTHLY_FORMULA")
	str(&s.MembersFormula, "MEMBERS_FORMULA")
	num(&s.PaymentDueDay, "PAYMENT_DUE_DAY")
	if s.PaymentDueDay > calc.MaxDueDay {
		slog.Warn("PAYMENT_DUE_DAY is past the end of short months, using the 28th", "value", s.PaymentDueDay)
		s.PaymentDueDay = calc.MaxDueDay
	}
	str(&s.ContactPhone, "CONTACT_PHONE")
	str(&s.ContactEmail, "CONTACT_EMAIL")
	str(&s.LogLevel, "LOG_LEVEL")
	str(&s.LogFormat, "LOG_FORMAT")

	App = s
	return s
}

func str(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func num(dst *int, key string) {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		*dst = v
	}
}
