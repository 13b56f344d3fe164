package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI string
	// Database defaults to "dockworks".
	Database string
	// Collection defaults to "state".
	Collection string
}

// MongoStore keeps one document per key in a collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc is the stored form of a state document. Data holds the JSON
// text so key order survives.
type mongoDoc struct {
	Key       string    `bson:"_id"`
	Data      string    `bson:"data"`
	Hash      string    `bson:"hash"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "dockworks"
	}
	if cfg.Collection == "" {
		cfg.Collection = "state"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// mongoErr marks network failures and timeouts retryable.
func mongoErr(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return Retryable(fmt.Errorf("mongo %s: %w", op, err))
	}
	return fmt.Errorf("mongo %s: %w", op, err)
}

func (s *MongoStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, mongoErr("find", err)
	}
	return []byte(doc.Data), nil
}

func (s *MongoStore) Save(ctx context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	doc := mongoDoc{
		Key:       key,
		Data:      string(data),
		Hash:      Hash(data),
		UpdatedAt: time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return mongoErr("replace", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return mongoErr("delete", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, mongoErr("find", err)
	}
	var docs []struct {
		Key string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mongoErr("read cursor", err)
	}
	keys := make([]string, len(docs))
	for i, d := range docs {
		keys[i] = d.Key
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *MongoStore) Backend() string { return "mongo" }

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
