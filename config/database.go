// chitsmart/config/database.go

package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chitsmart/internal/store"
	"chitsmart/models"

	"google.golang.org/api/option"
)

var Store store.Store

// ConnectStore opens the backend named by STORE_DRIVER and publishes it as
// Store.
func ConnectStore(ctx context.Context, s Settings) error {
	var (
		st  store.Store
		err error
	)
	switch s.StoreDriver {
	case "firestore":
		var opts []option.ClientOption
		if s.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(s.CredentialsFile))
		}
		st, err = store.NewFirestore(ctx, s.FirestoreProjectID, opts...)
	case "mongo":
		if s.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is not set")
		}
		st, err = store.NewMongo(ctx, s.MongoURI, s.MongoDB)
	case "postgres":
		if s.DBURL == "" {
			return fmt.Errorf("DB_URL is not set")
		}
		var pg *store.Postgres
		pg, err = store.NewPostgres(ctx, s.DBURL)
		if err == nil {
			err = pg.SeedSchemes(ctx, models.DefaultSchemes())
			st = pg
		}
	case "memory":
		st, err = NewDemoStore()
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", s.StoreDriver)
	}
	if err != nil {
		return fmt.Errorf("connect %s store: %w", s.StoreDriver, err)
	}

	Store = st
	slog.Info("Connected to document store", "driver", s.StoreDriver)
	return nil
}

// NewDemoStore is an in-memory store with the four public schemes and a few
// members to log in as.
func NewDemoStore() (*store.Memory, error) {
	m, err := store.NewMemory()
	if err != nil {
		return nil, err
	}
	customers := []models.Customer{
		{ID: "demo-1", Name: "Suresh Patel", Number: "9876543210", Scheme: 100000, LiftStatus: models.LiftStatusRunning},
		{ID: "demo-2", Name: "Deepika Singh", Number: "+919123456780", Scheme: 200000, LiftStatus: models.LiftStatusLifted, DisbursedDate: "15-Jan-2024"},
		{ID: "demo-3", Name: "Ravi Kumar", Number: "9000000001", Scheme: 50000, LiftStatus: models.LiftStatusDefaulted},
	}
	month := time.Now().UTC().AddDate(0, -3, 0)
	var payments []models.Payment
	for i := 0; i < 3; i++ {
		payments = append(payments, models.Payment{
			CustomerID: "demo-1",
			Date:       time.Date(month.Year(), month.Month()+time.Month(i), 5, 0, 0, 0, 0, time.UTC),
			Amount:     6667,
			Status:     models.PaymentPaid,
		})
	}
	if err := m.Seed(models.DefaultSchemes(), customers, payments); err != nil {
		return nil, err
	}
	return m, nil
}
