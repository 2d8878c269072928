package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"chitsmart/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore is the managed document store the portal was built on.
// Customers and schemes are top-level collections; payments live in a
// subcollection of each customer.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(ctx context.Context, projectID string, opts ...option.ClientOption) (*Firestore, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Firestore{client: client}, nil
}

func (f *Firestore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	docs, err := f.client.Collection(CustomersCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	customers := make([]models.Customer, 0, len(docs))
	for _, doc := range docs {
		c, ok := models.CustomerFromFields(doc.Ref.ID, doc.Data())
		if !ok {
			slog.Warn("Skipping customer document with missing or mistyped fields", "id", doc.Ref.ID)
			continue
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (f *Firestore) customersByPhone(variants []string) firestore.Query {
	return f.client.Collection(CustomersCollection).Where("number", "in", variants)
}

func (f *Firestore) FindCustomerByPhone(ctx context.Context, variants []string) (*models.Customer, error) {
	if len(variants) == 0 {
		return nil, ErrNotFound
	}
	docs, err := f.customersByPhone(variants).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	c, ok := models.CustomerFromFields(docs[0].Ref.ID, docs[0].Data())
	if !ok {
		return nil, fmt.Errorf("customer %s has missing or mistyped fields", docs[0].Ref.ID)
	}
	return &c, nil
}

func (f *Firestore) SetCustomerLiftStatus(ctx context.Context, variants []string, st models.LiftStatus) (int, error) {
	if len(variants) == 0 {
		return 0, ErrNotFound
	}
	return f.updateMatching(ctx, f.customersByPhone(variants), "liftStatus", string(st))
}

func (f *Firestore) UpsertCustomer(ctx context.Context, c models.Customer, variants []string) error {
	if len(variants) > 0 {
		docs, err := f.customersByPhone(variants).Limit(1).Documents(ctx).GetAll()
		if err != nil {
			return fmt.Errorf("upsert customer lookup: %w", err)
		}
		if len(docs) > 0 {
			_, err := docs[0].Ref.Set(ctx, c.Fields(), firestore.MergeAll)
			return err
		}
	}
	ref := f.client.Collection(CustomersCollection).NewDoc()
	if c.ID != "" {
		ref = f.client.Collection(CustomersCollection).Doc(c.ID)
	}
	_, err := ref.Set(ctx, c.Fields())
	return err
}

func (f *Firestore) ListSchemes(ctx context.Context) ([]models.Scheme, error) {
	docs, err := f.client.Collection(SchemesCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	schemes := make([]models.Scheme, 0, len(docs))
	for _, doc := range docs {
		schemes = append(schemes, models.SchemeFromFields(doc.Ref.ID, doc.Data()))
	}
	return schemes, nil
}

func (f *Firestore) UpdateSchemeGroups(ctx context.Context, amount int64, groups int) (int, error) {
	q := f.client.Collection(SchemesCollection).Where("amount", "==", amount)
	return f.updateMatching(ctx, q, "groups", groups)
}

// updateMatching sets one field on every document of q in a single
// transaction.
func (f *Firestore) updateMatching(ctx context.Context, q firestore.Query, path string, value interface{}) (int, error) {
	var updated int
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(q).GetAll()
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return ErrNotFound
		}
		for _, doc := range docs {
			if err := tx.Update(doc.Ref, []firestore.Update{{Path: path, Value: value}}); err != nil {
				return err
			}
		}
		updated = len(docs)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("update %s: %w", path, err)
	}
	return updated, nil
}

func (f *Firestore) ListPayments(ctx context.Context, customerID string) ([]models.Payment, error) {
	docs, err := f.client.Collection(CustomersCollection).Doc(customerID).
		Collection(PaymentsCollection).
		OrderBy("date", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	payments := make([]models.Payment, 0, len(docs))
	for _, doc := range docs {
		payments = append(payments, models.PaymentFromFields(doc.Ref.ID, customerID, doc.Data()))
	}
	return payments, nil
}

// Watch listens to query snapshots on both collections. The first snapshot
// of each listener is the initial state and is not reported.
func (f *Firestore) Watch(ctx context.Context, fn func(collection string)) error {
	errc := make(chan error, 2)
	for _, name := range []string{CustomersCollection, SchemesCollection} {
		go func(name string) {
			errc <- f.listen(ctx, name, fn)
		}(name)
	}
	var firstErr error
	for i := 0; i < 2; i++ {
		if err := <-errc; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *Firestore) listen(ctx context.Context, name string, fn func(string)) error {
	it := f.client.Collection(name).Snapshots(ctx)
	defer it.Stop()
	initial := true
	for {
		_, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("listen %s: %w", name, err)
		}
		if initial {
			initial = false
			continue
		}
		fn(name)
	}
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
