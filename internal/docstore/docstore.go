// Package docstore defines the document store boundary consumed by the
// repositories. Documents are schemaless JSON values addressed by
// (collection, id); three backends implement the contract: memory,
// postgres (JSONB) and mongo.
package docstore

import "context"

// Collection names used by the application.
const (
	CollectionEvents      = "events"
	CollectionAccounts    = "accounts"
	CollectionUsernames   = "usernames"
	CollectionLeaderboard = "leaderboard"
)

// Reader is the read half of the store contract.
type Reader interface {
	// Get decodes the document with the given id into out.
	// Returns domain.ErrNotFound if the document does not exist.
	Get(ctx context.Context, collection, id string, out any) error
	// QueryByField decodes into out (a pointer to a slice) every document
	// whose top-level field equals value. limit <= 0 means no limit.
	QueryByField(ctx context.Context, collection, field, value string, limit int, out any) error
	// ListAll decodes every document in the collection into out
	// (a pointer to a slice).
	ListAll(ctx context.Context, collection string, out any) error
}

// Writer is the write half of the store contract.
type Writer interface {
	// Put upserts the full document under the given id.
	Put(ctx context.Context, collection, id string, doc any) error
	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
}

// Tx is the view of the store inside a transaction. All reads and writes
// through a Tx commit or roll back together.
type Tx interface {
	Reader
	Writer
}

// Store is the full document store contract. RunTransaction executes fn
// atomically: reads observe a consistent snapshot and writes are applied
// all-or-nothing. This is what makes the username reserve-or-reject check
// safe under concurrent signups.
type Store interface {
	Reader
	Writer
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
