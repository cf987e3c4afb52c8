package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned for lookups of ids the store has never seen or has
// deleted.
var ErrNotFound = errors.New("not found")

// Store keeps entities as JSON documents in sqlite, one row per entity.
// Insertion order is preserved so list pagination is stable.
type Store struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS documents (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL,
	UNIQUE (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_collection ON documents (collection, seq);
`

// NewStore prepares the document table on db.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, storeSchema); err != nil {
		return nil, fmt.Errorf("creating document table: %w", err)
	}
	return &Store{db: db}, nil
}

// Insert stores doc under a fresh server-assigned id and returns the stored
// document. Any client-sent id is discarded.
func (s *Store) Insert(ctx context.Context, collection string, doc map[string]any) (map[string]any, error) {
	doc["id"] = uuid.NewString()
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)",
		collection, doc["id"], string(raw))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns the document stored under id.
func (s *Store) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?",
		collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalDoc(raw)
}

// Replace overwrites the document under id with doc, keeping the id.
func (s *Store) Replace(ctx context.Context, collection, id string, doc map[string]any) (map[string]any, error) {
	doc["id"] = id
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET data = ? WHERE collection = ? AND id = ?",
		string(raw), collection, id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return doc, nil
}

// Merge applies a shallow field merge onto the stored document.
func (s *Store) Merge(ctx context.Context, collection, id string, patch map[string]any) (map[string]any, error) {
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		doc[k] = v
	}
	return s.Replace(ctx, collection, id, doc)
}

// Delete removes the document under id.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?", collection, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWhere removes every document whose field equals value.
func (s *Store) DeleteWhere(ctx context.Context, collection, field, value string) error {
	docs, err := s.scan(ctx, collection)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if doc[field] == value {
			if err := s.Delete(ctx, collection, doc["id"].(string)); err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
		}
	}
	return nil
}

// List returns one page of documents in insertion order, optionally filtered
// by an exact field match. nextOffset is -1 when the page is the last one.
func (s *Store) List(ctx context.Context, collection string, offset, limit int, filterField, filterValue string) (docs []map[string]any, nextOffset int, err error) {
	all, err := s.scan(ctx, collection)
	if err != nil {
		return nil, 0, err
	}
	if filterField != "" {
		filtered := all[:0]
		for _, doc := range all {
			if doc[filterField] == filterValue {
				filtered = append(filtered, doc)
			}
		}
		all = filtered
	}
	if offset >= len(all) {
		return nil, -1, nil
	}
	end := offset + limit
	if end >= len(all) {
		return all[offset:], -1, nil
	}
	return all[offset:end], end, nil
}

func (s *Store) scan(ctx context.Context, collection string) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM documents WHERE collection = ? ORDER BY seq", collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []map[string]any
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		doc, err := unmarshalDoc(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func unmarshalDoc(raw string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("corrupt document: %w", err)
	}
	return doc, nil
}
