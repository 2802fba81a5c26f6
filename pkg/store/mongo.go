package store

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/scatter/pkg/cache"
	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/sceneio"
)

// Mongo defaults.
const (
	DefaultDatabase   = "scatter"
	DefaultCollection = "scenes"
)

// MongoStore keeps scene documents in a MongoDB collection. The run id is
// the document _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri, pings the server and ensures the
// created_at index exists. An empty database uses DefaultDatabase.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongo")
	}

	s := &MongoStore{client: client, coll: client.Database(database).Collection(DefaultCollection)}
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create index")
	}
	return s, nil
}

// Save upserts doc. Network failures are retried with backoff.
func (s *MongoStore) Save(ctx context.Context, doc sceneio.Document) error {
	if err := errors.ValidateSceneID(doc.RunID); err != nil {
		return err
	}
	return cache.RetryWithBackoff(ctx, func() error {
		_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.RunID}, doc, options.Replace().SetUpsert(true))
		return transient(err)
	})
}

// Get loads the scene with the given id.
func (s *MongoStore) Get(ctx context.Context, id string) (sceneio.Document, error) {
	if err := errors.ValidateSceneID(id); err != nil {
		return sceneio.Document{}, err
	}
	var doc sceneio.Document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return sceneio.Document{}, errors.New(errors.ErrCodeNotFound, "scene %q not found", id)
	}
	if err != nil {
		return sceneio.Document{}, errors.Wrap(errors.ErrCodeInternal, err, "find scene %q", id)
	}
	return doc, nil
}

// List summarizes the most recent scenes.
func (s *MongoStore) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list scenes")
	}
	defer cur.Close(ctx)

	var out []Summary
	for cur.Next(ctx) {
		var doc sceneio.Document
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode scene")
		}
		out = append(out, Summarize(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list scenes")
	}
	return out, nil
}

// Delete removes the scene with the given id.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateSceneID(id); err != nil {
		return err
	}
	var res *mongo.DeleteResult
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		res, err = s.coll.DeleteOne(ctx, bson.M{"_id": id})
		return transient(err)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete scene %q", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "scene %q not found", id)
	}
	return nil
}

// Close disconnects from the server.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// transient marks network and timeout failures as retryable.
func transient(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(err)
	}
	return err
}

var _ Store = (*MongoStore)(nil)
