package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
)

// ErrDocumentNotFound is returned when no document has the requested key.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository stores JSON documents keyed by (collection, id).
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// Get retrieves one document.
func (r *DocumentRepository) Get(ctx context.Context, collection, id string) (*model.Document, error) {
	d := &model.Document{}
	err := r.pool.QueryRow(ctx,
		`SELECT collection, id, data, updated_at FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&d.Collection, &d.ID, &d.Data, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s/%s: %w", collection, id, err)
	}
	return d, nil
}

// Put creates or replaces a document.
func (r *DocumentRepository) Put(ctx context.Context, collection, id string, data []byte) (*model.Document, error) {
	d := &model.Document{Collection: collection, ID: id, Data: data}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO documents (collection, id, data, updated_at) VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
		 RETURNING updated_at`,
		collection, id, data,
	).Scan(&d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("put document %s/%s: %w", collection, id, err)
	}
	return d, nil
}

// Update applies fn to the current body of a document under a row lock and
// stores the result. fn receives nil when the document does not exist yet.
func (r *DocumentRepository) Update(ctx context.Context, collection, id string, fn func(current []byte) ([]byte, error)) (*model.Document, error) {
	d := &model.Document{Collection: collection, ID: id}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var current []byte
		err := tx.QueryRow(ctx,
			`SELECT data FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`,
			collection, id,
		).Scan(&current)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		d.Data = next

		return tx.QueryRow(ctx,
			`INSERT INTO documents (collection, id, data, updated_at) VALUES ($1, $2, $3, NOW())
			 ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
			 RETURNING updated_at`,
			collection, id, next,
		).Scan(&d.UpdatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("update document %s/%s: %w", collection, id, err)
	}
	return d, nil
}

// Delete removes a document.
func (r *DocumentRepository) Delete(ctx context.Context, collection, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete document %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrDocumentNotFound)
	}
	return nil
}

// ListByPrefix returns the documents of a collection whose id starts with prefix, ordered by id.
func (r *DocumentRepository) ListByPrefix(ctx context.Context, collection, prefix string) ([]model.Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT collection, id, data, updated_at FROM documents
		 WHERE collection = $1 AND starts_with(id, $2)
		 ORDER BY id ASC`,
		collection, prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents %s/%s*: %w", collection, prefix, err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.Collection, &d.ID, &d.Data, &d.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
