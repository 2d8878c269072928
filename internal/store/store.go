// Package store binds the portal to the external document store. Several
// backends implement the same Store interface; the choice is made at startup.
package store

import (
	"context"
	"errors"

	"chitsmart/models"
)

// Collection names shared by every backend and by change notifications.
const (
	CustomersCollection = "customers"
	SchemesCollection   = "schemes"
	PaymentsCollection  = "payments"
)

var ErrNotFound = errors.New("document not found")

// Store is the data access surface used by the handlers.
type Store interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	// FindCustomerByPhone returns the first customer whose number equals any
	// of the given variants.
	FindCustomerByPhone(ctx context.Context, variants []string) (*models.Customer, error)
	SetCustomerLiftStatus(ctx context.Context, variants []string, status models.LiftStatus) (int, error)
	// UpsertCustomer merges c into the customer matching any of variants, or
	// inserts it when none matches.
	UpsertCustomer(ctx context.Context, c models.Customer, variants []string) error

	ListSchemes(ctx context.Context) ([]models.Scheme, error)
	// UpdateSchemeGroups sets groups on every scheme with the given amount.
	UpdateSchemeGroups(ctx context.Context, amount int64, groups int) (int, error)

	ListPayments(ctx context.Context, customerID string) ([]models.Payment, error)

	// Watch calls fn with a collection name whenever the backend reports a
	// change, until ctx is done.
	Watch(ctx context.Context, fn func(collection string)) error
	Close() error
}
