package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"chitsmart/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotifyChannel is the LISTEN/NOTIFY channel written after every mutation.
const NotifyChannel = "chitsmart_changes"

// Postgres runs queries through gorm and listens for changes through a
// dedicated pgx pool.
type Postgres struct {
	db   *gorm.DB
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Scheme{}, &models.Payment{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgx ping: %w", err)
	}
	return &Postgres{db: db, pool: pool}, nil
}

func (p *Postgres) notify(ctx context.Context, collection string) {
	if err := p.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", NotifyChannel, collection).Error; err != nil {
		slog.Warn("pg_notify failed", "collection", collection, "error", err)
	}
}

func (p *Postgres) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := p.db.WithContext(ctx).Order("name").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (p *Postgres) FindCustomerByPhone(ctx context.Context, variants []string) (*models.Customer, error) {
	if len(variants) == 0 {
		return nil, ErrNotFound
	}
	var c models.Customer
	err := p.db.WithContext(ctx).Where("number IN ?", variants).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &c, nil
}

func (p *Postgres) SetCustomerLiftStatus(ctx context.Context, variants []string, st models.LiftStatus) (int, error) {
	if len(variants) == 0 {
		return 0, ErrNotFound
	}
	res := p.db.WithContext(ctx).Model(&models.Customer{}).
		Where("number IN ?", variants).
		Update("lift_status", st)
	if res.Error != nil {
		return 0, fmt.Errorf("update lift status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	p.notify(ctx, CustomersCollection)
	return int(res.RowsAffected), nil
}

func (p *Postgres) UpsertCustomer(ctx context.Context, c models.Customer, variants []string) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Customer
		err := tx.Where("number IN ?", variants).First(&existing).Error
		switch {
		case err == nil:
			return tx.Model(&existing).Updates(map[string]interface{}{
				"name":           c.Name,
				"number":         c.Number,
				"scheme":         c.Scheme,
				"lift_status":    c.LiftStatus,
				"disbursed_date": c.DisbursedDate,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			return tx.Create(&c).Error
		default:
			return err
		}
	})
	if err != nil {
		return fmt.Errorf("upsert customer %s: %w", c.Number, err)
	}
	p.notify(ctx, CustomersCollection)
	return nil
}

func (p *Postgres) ListSchemes(ctx context.Context) ([]models.Scheme, error) {
	var schemes []models.Scheme
	if err := p.db.WithContext(ctx).Order("amount").Find(&schemes).Error; err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	return schemes, nil
}

func (p *Postgres) UpdateSchemeGroups(ctx context.Context, amount int64, groups int) (int, error) {
	res := p.db.WithContext(ctx).Model(&models.Scheme{}).
		Where("amount = ?", amount).
		Update("groups", groups)
	if res.Error != nil {
		return 0, fmt.Errorf("update groups: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	p.notify(ctx, SchemesCollection)
	return int(res.RowsAffected), nil
}

func (p *Postgres) ListPayments(ctx context.Context, customerID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := p.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("date DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// SeedSchemes inserts the given schemes when the table is empty. Rows that
// another instance inserted first are left alone.
func (p *Postgres) SeedSchemes(ctx context.Context, schemes []models.Scheme) error {
	var count int64
	if err := p.db.WithContext(ctx).Model(&models.Scheme{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&schemes).Error
}

// Watch holds one pooled connection in LISTEN until ctx is done.
func (p *Postgres) Watch(ctx context.Context, fn func(collection string)) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("wait for notification: %w", err)
		}
		fn(n.Payload)
	}
}

func (p *Postgres) Close() error {
	p.pool.Close()
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
