// Package mongo implements the document store on MongoDB. Each docstore
// collection maps to a Mongo collection; the JSON document is nested under
// the "doc" field so top-level field queries stay driver-agnostic.
//
// RunTransaction uses causally-consistent sessions, which require the server
// to run as a replica set (a single-node replica set is fine for development).
package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuseats/freefood-backend/internal/config"
	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/domain"
)

// Store is the MongoDB-backed document store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB from MongoConfig, pings for fail-fast validation,
// and returns the ready Store.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ docstore.Store = (*Store)(nil)

// envelope is the stored document shape: the JSON payload nested under doc.
type envelope struct {
	ID  string `bson:"_id"`
	Doc bson.M `bson:"doc"`
}

func (s *Store) Put(ctx context.Context, collection, id string, doc any) error {
	return s.put(ctx, collection, id, doc)
}

func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	return s.get(ctx, collection, id, out)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	return s.del(ctx, collection, id)
}

func (s *Store) QueryByField(ctx context.Context, collection, field, value string, limit int, out any) error {
	return s.query(ctx, collection, field, value, limit, out)
}

func (s *Store) ListAll(ctx context.Context, collection string, out any) error {
	return s.query(ctx, collection, "", "", 0, out)
}

// RunTransaction executes fn inside a Mongo multi-document transaction.
// The driver retries transient transaction errors internally; a write
// conflict from a racing transaction surfaces as domain.ErrConflict.
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx docstore.Tx) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo: start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc, s)
	})
	if err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.HasErrorLabel("TransientTransactionError") {
			return fmt.Errorf("mongo: transaction: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Statement implementations (session-aware via ctx)
// ---------------------------------------------------------------------------

func (s *Store) put(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("mongo: marshal %s/%s: %w", collection, id, err)
	}
	var m bson.M
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("mongo: remarshal %s/%s: %w", collection, id, err)
	}

	_, err = s.db.Collection(collection).ReplaceOne(ctx,
		bson.M{"_id": id},
		envelope{ID: id, Doc: m},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return wrapErr(err, "put "+collection+"/"+id)
	}
	return nil
}

func (s *Store) get(ctx context.Context, collection, id string, out any) error {
	var env envelope
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&env)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("mongo: %s/%s: %w", collection, id, domain.ErrNotFound)
		}
		return wrapErr(err, "get "+collection+"/"+id)
	}
	return decodeDoc(env.Doc, out)
}

func (s *Store) del(ctx context.Context, collection, id string) error {
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return wrapErr(err, "delete "+collection+"/"+id)
	}
	return nil
}

func (s *Store) query(ctx context.Context, collection, field, value string, limit int, out any) error {
	filter := bson.M{}
	if field != "" {
		filter["doc."+field] = value
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return wrapErr(err, "query "+collection)
	}
	defer cursor.Close(ctx)

	var docs []json.RawMessage
	for cursor.Next(ctx) {
		var env envelope
		if err := cursor.Decode(&env); err != nil {
			return fmt.Errorf("mongo: decode %s: %w", collection, err)
		}
		raw, err := json.Marshal(env.Doc)
		if err != nil {
			return fmt.Errorf("mongo: remarshal %s: %w", collection, err)
		}
		docs = append(docs, raw)
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("mongo: cursor %s: %w", collection, err)
	}

	arr, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("mongo: marshal result set: %w", err)
	}
	if err := json.Unmarshal(arr, out); err != nil {
		return fmt.Errorf("mongo: decode result set: %w", err)
	}
	return nil
}

// wrapErr maps driver failures onto domain sentinels where one exists.
// Network errors become domain.ErrNetwork so callers can distinguish a
// transient outage from a logic error without importing the driver.
func wrapErr(err error, op string) error {
	if mongo.IsNetworkError(err) {
		return fmt.Errorf("mongo: %s: %w (%v)", op, domain.ErrNetwork, err)
	}
	return fmt.Errorf("mongo: %s: %w", op, err)
}

func decodeDoc(m bson.M, out any) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("mongo: remarshal doc: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("mongo: decode doc: %w", err)
	}
	return nil
}
