package store

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/samithreddychinni/greedytangle/pkg/errors"
	"github.com/samithreddychinni/greedytangle/pkg/observability"
)

// MongoConfig configures the MongoDB-backed store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Mongo stores replays in a collection, one document per record, with the
// record ID as the document _id.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects and pings the deployment.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.Database == "" {
		cfg.Database = "greedytangle"
	}
	if cfg.Collection == "" {
		cfg.Collection = "replays"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "pinging mongodb")
	}

	return &Mongo{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save upserts the record by ID.
func (m *Mongo) Save(ctx context.Context, rec *Record) error {
	stamp(rec)

	_, err := m.coll.ReplaceOne(ctx,
		bson.M{"_id": rec.ID},
		rec,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "saving replay to mongodb")
	}

	size := 0
	if data, err := json.Marshal(rec); err == nil {
		size = len(data)
	}
	observability.Store().OnSave(ctx, "mongo", rec.ID, size)
	return nil
}

// Get retrieves a record by ID.
func (m *Mongo) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		observability.Store().OnLoad(ctx, "mongo", id, false)
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New(errors.ErrCodeReplayNotFound, "replay %s not found", id)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "reading replay from mongodb")
	}
	observability.Store().OnLoad(ctx, "mongo", id, true)
	return &rec, nil
}

// List returns records newest first.
func (m *Mongo) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing replays from mongodb")
	}
	defer cursor.Close(ctx)

	var out []Record
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decoding replay listing")
	}
	return out, nil
}

// Delete removes a record; missing documents are ignored.
func (m *Mongo) Delete(ctx context.Context, id string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "deleting replay from mongodb")
	}
	return nil
}

// Close disconnects from the deployment.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
