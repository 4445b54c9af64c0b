package views

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a MongoDB-backed view store for service deployments where
// replicas share saved views.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and uses the "views" collection
// of the given database. A unique index on the view name keeps concurrent
// Puts from creating duplicates.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection("views")
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create views index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Get retrieves a view by name.
func (s *MongoStore) Get(ctx context.Context, name string) (*View, error) {
	var v View
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("find view: %w", err)
	}
	return &v, nil
}

// Put creates or replaces a view.
func (s *MongoStore) Put(ctx context.Context, v *View) error {
	// Keep identity and creation time across replacements.
	var old View
	err := s.coll.FindOne(ctx, bson.M{"name": v.Name}).Decode(&old)
	if err == nil {
		v.ID = old.ID
		v.CreatedAt = old.CreatedAt
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("find view: %w", err)
	}
	v.UpdatedAt = time.Now().UTC()

	_, err = s.coll.ReplaceOne(ctx, bson.M{"name": v.Name}, v, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert view: %w", err)
	}
	return nil
}

// Delete removes a view by name.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("delete view: %w", err)
	}
	if res.DeletedCount == 0 {
		return NotFound(name)
	}
	return nil
}

// List returns all views sorted by name.
func (s *MongoStore) List(ctx context.Context) ([]*View, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}
	defer cur.Close(ctx)

	var views []*View
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode views: %w", err)
	}
	return views, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
