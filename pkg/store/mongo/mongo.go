// Package mongo stores the dataset in MongoDB: one document per family in
// the families collection (keyed by family id) and one per event in the
// events collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/store"
)

// Collection names.
const (
	FamiliesCollection = "families"
	EventsCollection   = "events"
)

const connectTimeout = 10 * time.Second

// Store is a MongoDB-backed store.Store.
type Store struct {
	client   *mongo.Client
	families *mongo.Collection
	events   *mongo.Collection
}

// Open connects to uri and uses database db.
func Open(ctx context.Context, uri, db string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	d := client.Database(db)
	return &Store{
		client:   client,
		families: d.Collection(FamiliesCollection),
		events:   d.Collection(EventsCollection),
	}, nil
}

// SaveFamilies upserts every family by id and removes families no longer
// in the set.
func (s *Store) SaveFamilies(ctx context.Context, fs []family.Family) error {
	if len(fs) == 0 {
		return nil
	}
	opts := options.BulkWrite().SetOrdered(false)
	if _, err := s.families.BulkWrite(ctx, familyWrites(fs), opts); err != nil {
		return fmt.Errorf("mongo: save families: %w", err)
	}
	if _, err := s.families.DeleteMany(ctx, staleFilter(fs)); err != nil {
		return fmt.Errorf("mongo: prune families: %w", err)
	}
	return nil
}

// LoadFamilies returns all families ordered by id.
func (s *Store) LoadFamilies(ctx context.Context) ([]family.Family, error) {
	cur, err := s.families.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: load families: %w", err)
	}
	var out []family.Family
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo: decode families: %w", err)
	}
	return out, nil
}

// SaveEvents replaces the events collection.
func (s *Store) SaveEvents(ctx context.Context, es []family.HistoricalEvent) error {
	if len(es) == 0 {
		return nil
	}
	if _, err := s.events.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("mongo: clear events: %w", err)
	}
	docs := make([]any, len(es))
	for i, e := range es {
		docs[i] = e
	}
	if _, err := s.events.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongo: save events: %w", err)
	}
	return nil
}

// LoadEvents returns all events ordered by year.
func (s *Store) LoadEvents(ctx context.Context) ([]family.HistoricalEvent, error) {
	cur, err := s.events.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "year", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: load events: %w", err)
	}
	var out []family.HistoricalEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo: decode events: %w", err)
	}
	return out, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// familyWrites builds one upserting replace per family.
func familyWrites(fs []family.Family) []mongo.WriteModel {
	models := make([]mongo.WriteModel, len(fs))
	for i, f := range fs {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: f.ID}}).
			SetReplacement(f).
			SetUpsert(true)
	}
	return models
}

// staleFilter matches families whose id is not in fs.
func staleFilter(fs []family.Family) bson.D {
	ids := make(bson.A, len(fs))
	for i, f := range fs {
		ids[i] = f.ID
	}
	return bson.D{{Key: "_id", Value: bson.D{{Key: "$nin", Value: ids}}}}
}

var _ store.Store = (*Store)(nil)
