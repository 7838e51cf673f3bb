package store

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL the PostgresStore expects. It is applied by EnsureSchema.
const Schema = `CREATE TABLE IF NOT EXISTS metafields (
	id         BIGSERIAL PRIMARY KEY,
	owner_id   TEXT        NOT NULL,
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	type       TEXT        NOT NULL DEFAULT 'json',
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (owner_id, namespace, key)
)`

const (
	getMetafieldSQL = `SELECT id, owner_id, namespace, key, type, value, updated_at
FROM metafields WHERE owner_id = $1 AND namespace = $2 AND key = $3`

	upsertMetafieldSQL = `INSERT INTO metafields (owner_id, namespace, key, type, value, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (owner_id, namespace, key)
DO UPDATE SET type = EXCLUDED.type, value = EXCLUDED.value, updated_at = now()
RETURNING id, owner_id, namespace, key, type, value, updated_at`

	deleteMetafieldSQL = `DELETE FROM metafields WHERE owner_id = $1 AND namespace = $2 AND key = $3`
)

// PostgresStore is a PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the metafields table if it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, Schema)
	return err
}

// GetMetafield retrieves a single metafield from the database.
func (p *PostgresStore) GetMetafield(ctx context.Context, ownerID, namespace, key string) (*Metafield, error) {
	row := p.pool.QueryRow(ctx, getMetafieldSQL, ownerID, namespace, key)
	mf, err := scanMetafield(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return mf, nil
}

// SetMetafield creates or overwrites a metafield in the database.
func (p *PostgresStore) SetMetafield(ctx context.Context, params SetParams) (*Metafield, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	row := p.pool.QueryRow(ctx, upsertMetafieldSQL,
		params.OwnerID, params.Namespace, params.Key, params.Type, params.Value)
	return scanMetafield(row)
}

// DeleteMetafield removes a metafield from the database.
func (p *PostgresStore) DeleteMetafield(ctx context.Context, ownerID, namespace, key string) error {
	_, err := p.pool.Exec(ctx, deleteMetafieldSQL, ownerID, namespace, key)
	return err
}

// Close closes the database connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func scanMetafield(row pgx.Row) (*Metafield, error) {
	var (
		id int64
		mf Metafield
	)
	if err := row.Scan(&id, &mf.OwnerID, &mf.Namespace, &mf.Key, &mf.Type, &mf.Value, &mf.UpdatedAt); err != nil {
		return nil, err
	}
	mf.ID = metafieldGID(strconv.FormatInt(id, 10))
	mf.UpdatedAt = mf.UpdatedAt.UTC()
	return &mf, nil
}
