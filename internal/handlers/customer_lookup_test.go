package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"chitsmart/config"
	"chitsmart/internal/middleware"
	"chitsmart/internal/phone"
	"chitsmart/internal/store"
	"chitsmart/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	setup(t)
	mr := miniredis.RunT(t)
	config.RDB = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		config.RDB.Close()
		config.RDB = nil
	})
	return mr
}

func TestFindCustomerServedFromCache(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	cu, err := findCustomer(ctx, "9876543210")
	if err != nil || cu.Name != "Suresh Patel" {
		t.Fatalf("lookup: %+v %v", cu, err)
	}
	key := customerCacheKey("9876543210")
	if !mr.Exists(key) {
		t.Fatalf("expected %s to be cached", key)
	}
	if ttl := mr.TTL(key); ttl != customerCacheTTL {
		t.Fatalf("ttl: %v", ttl)
	}

	// Written behind the cache's back, so the next lookup must still see the cached copy.
	variants := phone.Variants("9876543210", config.App.CountryCode)
	if _, err := config.Store.SetCustomerLiftStatus(ctx, variants, models.LiftStatusLifted); err != nil {
		t.Fatal(err)
	}
	cu, err = findCustomer(ctx, "+919876543210")
	if err != nil || cu.LiftStatus != models.LiftStatusRunning {
		t.Fatalf("expected cached Running record, got %+v %v", cu, err)
	}
}

func TestFindCustomerMissIsNotCached(t *testing.T) {
	mr := setupRedis(t)

	if _, err := findCustomer(context.Background(), "9999999999"); !isNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if mr.Exists(customerCacheKey("9999999999")) {
		t.Fatal("a miss must not leave a cache entry")
	}
}

func TestSetLiftStatusInvalidatesCache(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	if _, err := findCustomer(ctx, "9876543210"); err != nil {
		t.Fatal(err)
	}
	if aerr := setLiftStatus(ctx, "9876543210", "Defaulted"); aerr != nil {
		t.Fatalf("setLiftStatus: %+v", aerr)
	}
	if mr.Exists(customerCacheKey("9876543210")) {
		t.Fatal("status change must drop the cached customer")
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/dashboard", nil)
	c.Set(middleware.KeyPhone, "+919876543210")
	summary, err := loadCustomerSummary(c)
	if err != nil {
		t.Fatal(err)
	}
	if summary.LiftStatus != string(models.LiftStatusDefaulted) {
		t.Fatalf("dashboard shows %q", summary.LiftStatus)
	}
}

func TestStoreChangedClearsCachedCustomers(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	for _, number := range []string{"9876543210", "9123456780"} {
		if _, err := findCustomer(ctx, number); err != nil {
			t.Fatal(err)
		}
	}
	mr.Set("unrelated", "kept")

	StoreChanged(store.CustomersCollection)
	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "unrelated" {
		t.Fatalf("remaining keys: %v", keys)
	}
}
