package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chitsmart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo keeps the same collections and field names as the Firestore backend.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &Mongo{client: client, db: client.Database(dbName)}, nil
}

// documentID renders _id whether it is an ObjectID or a plain string.
func documentID(doc bson.M) string {
	switch id := doc["_id"].(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	}
	return fmt.Sprint(doc["_id"])
}

// plain converts bson types to the ones the models package decodes.
func plain(doc bson.M) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if dt, ok := v.(primitive.DateTime); ok {
			out[k] = dt.Time()
			continue
		}
		out[k] = v
	}
	return out
}

func (m *Mongo) find(ctx context.Context, collection string, filter interface{}, opts ...*options.FindOptions) ([]bson.M, error) {
	cur, err := m.db.Collection(collection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (m *Mongo) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	docs, err := m.find(ctx, CustomersCollection, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	customers := make([]models.Customer, 0, len(docs))
	for _, doc := range docs {
		id := documentID(doc)
		c, ok := models.CustomerFromFields(id, plain(doc))
		if !ok {
			slog.Warn("Skipping customer document with missing or mistyped fields", "id", id)
			continue
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func phoneFilter(variants []string) bson.M {
	return bson.M{"number": bson.M{"$in": variants}}
}

func (m *Mongo) FindCustomerByPhone(ctx context.Context, variants []string) (*models.Customer, error) {
	var doc bson.M
	err := m.db.Collection(CustomersCollection).FindOne(ctx, phoneFilter(variants)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	c, ok := models.CustomerFromFields(documentID(doc), plain(doc))
	if !ok {
		return nil, fmt.Errorf("customer %s has missing or mistyped fields", documentID(doc))
	}
	return &c, nil
}

func (m *Mongo) SetCustomerLiftStatus(ctx context.Context, variants []string, st models.LiftStatus) (int, error) {
	res, err := m.db.Collection(CustomersCollection).UpdateMany(ctx, phoneFilter(variants), bson.M{"$set": bson.M{"liftStatus": string(st)}})
	if err != nil {
		return 0, fmt.Errorf("update lift status: %w", err)
	}
	if res.MatchedCount == 0 {
		return 0, ErrNotFound
	}
	return int(res.MatchedCount), nil
}

func (m *Mongo) UpsertCustomer(ctx context.Context, c models.Customer, variants []string) error {
	filter := phoneFilter(variants)
	if len(variants) == 0 {
		filter = bson.M{"number": c.Number}
	}
	opts := options.Update().SetUpsert(true)
	_, err := m.db.Collection(CustomersCollection).UpdateOne(ctx, filter, bson.M{"$set": c.Fields()}, opts)
	if err != nil {
		return fmt.Errorf("upsert customer %s: %w", c.Number, err)
	}
	return nil
}

func (m *Mongo) ListSchemes(ctx context.Context) ([]models.Scheme, error) {
	docs, err := m.find(ctx, SchemesCollection, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	schemes := make([]models.Scheme, 0, len(docs))
	for _, doc := range docs {
		schemes = append(schemes, models.SchemeFromFields(documentID(doc), plain(doc)))
	}
	return schemes, nil
}

func (m *Mongo) UpdateSchemeGroups(ctx context.Context, amount int64, groups int) (int, error) {
	// Amounts may have been written as int32, int64 or double.
	filter := bson.M{"amount": bson.M{"$in": bson.A{amount, int32(amount), float64(amount)}}}
	res, err := m.db.Collection(SchemesCollection).UpdateMany(ctx, filter, bson.M{"$set": bson.M{"groups": groups}})
	if err != nil {
		return 0, fmt.Errorf("update groups: %w", err)
	}
	if res.MatchedCount == 0 {
		return 0, ErrNotFound
	}
	return int(res.MatchedCount), nil
}

func (m *Mongo) ListPayments(ctx context.Context, customerID string) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	docs, err := m.find(ctx, PaymentsCollection, bson.M{"customerId": customerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	payments := make([]models.Payment, 0, len(docs))
	for _, doc := range docs {
		payments = append(payments, models.PaymentFromFields(documentID(doc), customerID, plain(doc)))
	}
	return payments, nil
}

// Watch opens a database change stream. Change streams need a replica set;
// on a standalone server this returns the driver error straight away.
func (m *Mongo) Watch(ctx context.Context, fn func(collection string)) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ns.coll": bson.M{"$in": bson.A{CustomersCollection, SchemesCollection}}}}},
	}
	stream, err := m.db.Watch(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("change stream: %w", err)
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var event struct {
			NS struct {
				Coll string `bson:"coll"`
			} `bson:"ns"`
		}
		if err := stream.Decode(&event); err != nil {
			slog.Warn("Failed to decode change event", "error", err)
			continue
		}
		fn(event.NS.Coll)
	}
	if ctx.Err() != nil {
		return nil
	}
	return stream.Err()
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
