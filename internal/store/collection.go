// Package store is the document store the people repository persists to: a
// single collection of JSON documents keyed by a string primary key.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// IDField is the document property holding the primary key
const IDField = "_id"

var (
	ErrNoDocument   = errors.New("no document found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrMissingID    = errors.New("document has no " + IDField)
)

// Document is a stored JSON object
type Document map[string]interface{}

// Collection is a set of documents keyed by IDField. Every write touches a
// single document atomically.
type Collection interface {
	// FindOne returns the document with the given id or ErrNoDocument
	FindOne(ctx context.Context, id string) (Document, error)
	// Find returns every document in insertion order
	Find(ctx context.Context) ([]Document, error)
	// InsertOne stores a new document and returns its id
	InsertOne(ctx context.Context, doc Document) (string, error)
	// UpdateOne sets fields on the document with the given id and returns
	// the number of matched documents
	UpdateOne(ctx context.Context, id string, fields Document) (int64, error)
	// DeleteOne removes the document and returns the number deleted
	DeleteOne(ctx context.Context, id string) (int64, error)
	// DeleteMany removes every document
	DeleteMany(ctx context.Context) (int64, error)
	// Ping checks the store is reachable
	Ping(ctx context.Context) error
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteCollection stores each document as a JSON text row
type SQLiteCollection struct {
	db   *sql.DB
	name string
}

// NewSQLiteCollection returns the named collection, creating its table if
// it does not exist
func NewSQLiteCollection(ctx context.Context, db *sql.DB, name string) (*SQLiteCollection, error) {
	if !identifier.MatchString(name) {
		return nil, fmt.Errorf("invalid collection name %q", name)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s" (
			seq      INTEGER PRIMARY KEY AUTOINCREMENT,
			id       TEXT NOT NULL UNIQUE,
			document TEXT NOT NULL CHECK (json_valid(document))
		)
	`, name)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}

	return &SQLiteCollection{db: db, name: name}, nil
}

// FindOne retrieves a document by id
func (c *SQLiteCollection) FindOne(ctx context.Context, id string) (Document, error) {
	query := fmt.Sprintf(`SELECT document FROM "%s" WHERE id = ?`, c.name)

	var raw string
	err := c.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}

	return decodeDocument(raw)
}

// Find retrieves all the documents
func (c *SQLiteCollection) Find(ctx context.Context) ([]Document, error) {
	query := fmt.Sprintf(`SELECT document FROM "%s" ORDER BY seq`, c.name)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// InsertOne inserts a new document
func (c *SQLiteCollection) InsertOne(ctx context.Context, doc Document) (string, error) {
	id, ok := doc[IDField].(string)
	if !ok || id == "" {
		return "", ErrMissingID
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document %s: %w", id, err)
	}

	query := fmt.Sprintf(`INSERT INTO "%s" (id, document) VALUES (?, ?)`, c.name)
	if _, err := c.db.ExecContext(ctx, query, id, string(data)); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return "", ErrDuplicateKey
		}
		return "", err
	}

	return id, nil
}

// UpdateOne sets fields on the document with the given id. Each field
// replaces the stored value as a whole, objects included.
func (c *SQLiteCollection) UpdateOne(ctx context.Context, id string, fields Document) (int64, error) {
	if len(fields) == 0 {
		return 0, errors.New("no fields to update")
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		if key == IDField {
			return 0, fmt.Errorf("%s cannot be updated", IDField)
		}
		if !identifier.MatchString(key) {
			return 0, fmt.Errorf("invalid field name %q", key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	data, err := json.Marshal(fields)
	if err != nil {
		return 0, fmt.Errorf("encode fields: %w", err)
	}

	// Removing the keys first stops json_patch from merging nested objects
	placeholders := make([]string, len(keys))
	args := make([]interface{}, 0, len(keys)+2)
	for i, key := range keys {
		placeholders[i] = "?"
		args = append(args, "$."+key)
	}
	args = append(args, string(data), id)

	query := fmt.Sprintf(
		`UPDATE "%s" SET document = json_patch(json_remove(document, %s), ?) WHERE id = ?`,
		c.name, strings.Join(placeholders, ", "),
	)

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteOne deletes the document with the given id
func (c *SQLiteCollection) DeleteOne(ctx context.Context, id string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE id = ?`, c.name)

	result, err := c.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteMany deletes all the documents
func (c *SQLiteCollection) DeleteMany(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM "%s"`, c.name)

	result, err := c.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Ping checks the database connection
func (c *SQLiteCollection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func decodeDocument(raw string) (Document, error) {
	decoder := json.NewDecoder(bytes.NewBufferString(raw))
	decoder.UseNumber()

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
