// Package postgres implements the document store on a single JSONB table.
// Each document lives in documents(collection, id, doc); transactions map
// onto native PostgreSQL transactions at serializable isolation, which is
// what gives the username reservation its read-check-write atomicity.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is the common interface implemented by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the PostgreSQL-backed document store.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store on the given pool. The documents table must already
// exist (see Migrate).
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ docstore.Store = (*Store)(nil)

func (s *Store) Put(ctx context.Context, collection, id string, doc any) error {
	return put(ctx, s.pool, collection, id, doc)
}

func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	return get(ctx, s.pool, collection, id, out)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	return del(ctx, s.pool, collection, id)
}

func (s *Store) QueryByField(ctx context.Context, collection, field, value string, limit int, out any) error {
	return queryByField(ctx, s.pool, collection, field, value, limit, out)
}

func (s *Store) ListAll(ctx context.Context, collection string, out any) error {
	return queryByField(ctx, s.pool, collection, "", "", 0, out)
}

// RunTransaction executes fn within a serializable database transaction.
// On success: commits. On error from fn: rolls back and returns the error.
// On panic from fn: rolls back and re-panics. A serialization failure from
// two racing transactions surfaces as domain.ErrConflict.
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx docstore.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "commit transaction")
	}

	return nil
}

// pgTx adapts a pgx.Tx to the docstore.Tx contract.
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Put(ctx context.Context, collection, id string, doc any) error {
	return put(ctx, t.tx, collection, id, doc)
}

func (t *pgTx) Get(ctx context.Context, collection, id string, out any) error {
	return get(ctx, t.tx, collection, id, out)
}

func (t *pgTx) Delete(ctx context.Context, collection, id string) error {
	return del(ctx, t.tx, collection, id)
}

func (t *pgTx) QueryByField(ctx context.Context, collection, field, value string, limit int, out any) error {
	return queryByField(ctx, t.tx, collection, field, value, limit, out)
}

func (t *pgTx) ListAll(ctx context.Context, collection string, out any) error {
	return queryByField(ctx, t.tx, collection, "", "", 0, out)
}

// ---------------------------------------------------------------------------
// Shared statement implementations
// ---------------------------------------------------------------------------

func put(ctx context.Context, q querier, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("postgres: marshal %s/%s: %w", collection, id, err)
	}

	query, args, err := psql.Insert("documents").
		Columns("collection", "id", "doc", "updated_at").
		Values(collection, id, raw, sq.Expr("now()")).
		Suffix("ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres: build upsert: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return mapError(err, collection+"/"+id)
	}
	return nil
}

func get(ctx context.Context, q querier, collection, id string, out any) error {
	query, args, err := psql.Select("doc").
		From("documents").
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres: build select: %w", err)
	}

	var raw []byte
	if err := q.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		return mapError(err, collection+"/"+id)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("postgres: decode %s/%s: %w", collection, id, err)
	}
	return nil
}

func del(ctx context.Context, q querier, collection, id string) error {
	query, args, err := psql.Delete("documents").
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres: build delete: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return mapError(err, collection+"/"+id)
	}
	return nil
}

func queryByField(ctx context.Context, q querier, collection, field, value string, limit int, out any) error {
	builder := psql.Select("doc").
		From("documents").
		Where(sq.Eq{"collection": collection}).
		OrderBy("id")
	if field != "" {
		builder = builder.Where(sq.Expr("doc->>? = ?", field, value))
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("postgres: build query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return mapError(err, collection)
	}
	defer rows.Close()

	var raws []json.RawMessage
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return mapError(err, collection)
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return mapError(err, collection)
	}

	arr, err := json.Marshal(raws)
	if err != nil {
		return fmt.Errorf("postgres: marshal result set: %w", err)
	}
	if err := json.Unmarshal(arr, out); err != nil {
		return fmt.Errorf("postgres: decode result set: %w", err)
	}
	return nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, where string) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("postgres: %s: %w", where, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("postgres: %s: %w", where, domain.ErrNotFound)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("postgres: %s: %w (%v)", where, domain.ErrNetwork, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("postgres: %s: %w", where, domain.ErrAlreadyExists)
		case "40001": // serialization_failure: a racing transaction won
			return fmt.Errorf("postgres: %s: %w", where, domain.ErrConflict)
		}
	}

	return fmt.Errorf("postgres: %s: %w", where, err)
}
