package store

import (
	"context"
	"fmt"
	"sort"

	"chitsmart/models"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
)

var memorySchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		CustomersCollection: {
			Name: CustomersCollection,
			Indexes: map[string]*memdb.IndexSchema{
				"id":     {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				"number": {Name: "number", AllowMissing: true, Indexer: &memdb.StringFieldIndex{Field: "Number"}},
			},
		},
		SchemesCollection: {
			Name: SchemesCollection,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
			},
		},
		PaymentsCollection: {
			Name: PaymentsCollection,
			Indexes: map[string]*memdb.IndexSchema{
				"id":       {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				"customer": {Name: "customer", Indexer: &memdb.StringFieldIndex{Field: "CustomerID"}},
			},
		},
	},
}

// Memory is an in-process store backed by go-memdb. It is used for local
// development and by the tests.
type Memory struct {
	db *memdb.MemDB
}

// NewMemory creates an empty in-memory store.
func NewMemory() (*Memory, error) {
	db, err := memdb.NewMemDB(memorySchema)
	if err != nil {
		return nil, fmt.Errorf("memdb: %w", err)
	}
	return &Memory{db: db}, nil
}

// Seed inserts documents as-is. Empty IDs are generated.
func (m *Memory) Seed(schemes []models.Scheme, customers []models.Customer, payments []models.Payment) error {
	txn := m.db.Txn(true)
	defer txn.Abort()
	for i := range schemes {
		s := schemes[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if err := txn.Insert(SchemesCollection, &s); err != nil {
			return err
		}
	}
	for i := range customers {
		c := customers[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if err := txn.Insert(CustomersCollection, &c); err != nil {
			return err
		}
	}
	for i := range payments {
		p := payments[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if err := txn.Insert(PaymentsCollection, &p); err != nil {
			return err
		}
	}
	txn.Commit()
	return nil
}

func (m *Memory) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(CustomersCollection, "id")
	if err != nil {
		return nil, err
	}
	var out []models.Customer
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, *obj.(*models.Customer))
	}
	return out, nil
}

func (m *Memory) matchCustomers(txn *memdb.Txn, variants []string) ([]*models.Customer, error) {
	var out []*models.Customer
	seen := make(map[string]bool)
	for _, v := range variants {
		it, err := txn.Get(CustomersCollection, "number", v)
		if err != nil {
			return nil, err
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			c := obj.(*models.Customer)
			if !seen[c.ID] {
				seen[c.ID] = true
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (m *Memory) FindCustomerByPhone(ctx context.Context, variants []string) (*models.Customer, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()
	matches, err := m.matchCustomers(txn, variants)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	c := *matches[0]
	return &c, nil
}

func (m *Memory) SetCustomerLiftStatus(ctx context.Context, variants []string, status models.LiftStatus) (int, error) {
	txn := m.db.Txn(true)
	defer txn.Abort()
	matches, err := m.matchCustomers(txn, variants)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, ErrNotFound
	}
	for _, existing := range matches {
		updated := *existing
		updated.LiftStatus = status
		if err := txn.Insert(CustomersCollection, &updated); err != nil {
			return 0, err
		}
	}
	txn.Commit()
	return len(matches), nil
}

func (m *Memory) UpsertCustomer(ctx context.Context, c models.Customer, variants []string) error {
	txn := m.db.Txn(true)
	defer txn.Abort()
	matches, err := m.matchCustomers(txn, variants)
	if err != nil {
		return err
	}
	if len(matches) > 0 {
		c.ID = matches[0].ID
	} else if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := txn.Insert(CustomersCollection, &c); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (m *Memory) ListSchemes(ctx context.Context) ([]models.Scheme, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(SchemesCollection, "id")
	if err != nil {
		return nil, err
	}
	var out []models.Scheme
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, *obj.(*models.Scheme))
	}
	return out, nil
}

func (m *Memory) UpdateSchemeGroups(ctx context.Context, amount int64, groups int) (int, error) {
	txn := m.db.Txn(true)
	defer txn.Abort()
	it, err := txn.Get(SchemesCollection, "id")
	if err != nil {
		return 0, err
	}
	var matches []models.Scheme
	for obj := it.Next(); obj != nil; obj = it.Next() {
		if s := obj.(*models.Scheme); s.Amount == amount {
			matches = append(matches, *s)
		}
	}
	if len(matches) == 0 {
		return 0, ErrNotFound
	}
	for i := range matches {
		matches[i].Groups = groups
		if err := txn.Insert(SchemesCollection, &matches[i]); err != nil {
			return 0, err
		}
	}
	txn.Commit()
	return len(matches), nil
}

func (m *Memory) ListPayments(ctx context.Context, customerID string) ([]models.Payment, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(PaymentsCollection, "customer", customerID)
	if err != nil {
		return nil, err
	}
	var out []models.Payment
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, *obj.(*models.Payment))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// Watch blocks on memdb watch channels for the customers and schemes tables.
func (m *Memory) Watch(ctx context.Context, fn func(collection string)) error {
	for {
		txn := m.db.Txn(false)
		customers, err := txn.Get(CustomersCollection, "id")
		if err != nil {
			txn.Abort()
			return err
		}
		schemes, err := txn.Get(SchemesCollection, "id")
		if err != nil {
			txn.Abort()
			return err
		}
		txn.Abort()

		select {
		case <-ctx.Done():
			return nil
		case <-customers.WatchCh():
			fn(CustomersCollection)
		case <-schemes.WatchCh():
			fn(SchemesCollection)
		}
	}
}

func (m *Memory) Close() error { return nil }
