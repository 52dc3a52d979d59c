package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dkapoor/ledgerlens/internal/domain"
)

const entriesCollection = "entries"

// Mongo implements EntryStore on a MongoDB collection.
type Mongo struct {
	coll *mongo.Collection
}

// Connect establishes a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

// NewMongo creates an EntryStore over the named database.
func NewMongo(client *mongo.Client, database string) *Mongo {
	return &Mongo{coll: client.Database(database).Collection(entriesCollection)}
}

// InsertBatch appends a chunk of rows with an unordered insert so one bad
// document does not abort the rest of the batch.
func (m *Mongo) InsertBatch(ctx context.Context, entries []domain.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(entries))
	for i := range entries {
		docs[i] = entries[i]
	}

	res, err := m.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if res != nil && err != nil {
		// Unordered insert: some documents may have landed anyway.
		return len(res.InsertedIDs), fmt.Errorf("insert batch: %w", err)
	}
	if err != nil {
		return 0, fmt.Errorf("insert batch: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func (m *Mongo) Count(ctx context.Context) (int64, error) {
	n, err := m.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func (m *Mongo) All(ctx context.Context) ([]domain.Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: domain.FieldExcelRowNumber, Value: 1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}})

	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("scan entries: %w", err)
	}
	defer cur.Close(ctx)

	var entries []domain.Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	return entries, nil
}

func (m *Mongo) Page(ctx context.Context, q PageQuery) ([]domain.Entry, int64, error) {
	q = q.Normalize()

	total, err := m.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: q.SortBy, Value: int(q.SortOrder)}}).
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit)).
		SetProjection(bson.D{{Key: "_id", Value: 0}})

	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("page entries: %w", err)
	}
	defer cur.Close(ctx)

	var entries []domain.Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, 0, fmt.Errorf("decode page: %w", err)
	}
	return entries, total, nil
}

var _ EntryStore = (*Mongo)(nil)
