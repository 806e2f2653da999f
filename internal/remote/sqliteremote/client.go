// Package sqliteremote is a remote.Client backed by an embedded SQLite
// database, for deployments with no hosted backend configured. Rows are
// stored as JSON documents so it speaks the same row shapes as the
// PostgREST backend.
package sqliteremote

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/nikoapp/niko-server/internal/remote"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// knownTables guards against table names reaching SQL text unchecked.
var knownTables = map[string]bool{
	"flashcard_sets":    true,
	"flashcards":        true,
	"notes":             true,
	"jobs":              true,
	"exams":             true,
	"events":            true,
	"handwritten_notes": true,
	"weekly_goals":      true,
}

// Client stores entity rows in a local SQLite file.
type Client struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates the database at path, configures pragmas, and runs the
// schema. Pass ":memory:" for an ephemeral database in tests.
func Open(path string, logger *slog.Logger) (*Client, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Client{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (c *Client) Close() error {
	return c.db.Close()
}

// Select implements remote.Client.
func (c *Client) Select(ctx context.Context, table string, filter remote.Filter, order *remote.Order) ([]jsontext.Value, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	query := "SELECT data FROM " + table
	where, args := whereClause(filter)
	query += where
	if order != nil {
		dir := "ASC"
		if order.Descending {
			dir = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY json_extract(data, '$.%s') %s", sanitizeColumn(order.Column), dir)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var out []jsontext.Value
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		out = append(out, jsontext.Value(data))
	}
	return out, rows.Err()
}

// Insert implements remote.Client.
func (c *Client) Insert(ctx context.Context, table string, row any) (jsontext.Value, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	id, err := extractID(data)
	if err != nil {
		return nil, err
	}

	_, err = c.db.ExecContext(ctx,
		"INSERT INTO "+table+" (id, data) VALUES (?, ?)", id, string(data))
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table, err)
	}
	return data, nil
}

// Update implements remote.Client. The patch is merged into the stored
// document field by field; rows that do not match are left alone and a
// nil row is returned.
func (c *Client) Update(ctx context.Context, table string, filter remote.Filter, patch map[string]any) (jsontext.Value, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	rows, err := c.Select(ctx, table, filter, nil)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var first jsontext.Value
	for _, raw := range rows {
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", table, err)
		}
		maps.Copy(doc, patch)

		merged, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode %s row: %w", table, err)
		}
		id, err := extractID(merged)
		if err != nil {
			return nil, err
		}

		_, err = c.db.ExecContext(ctx,
			"UPDATE "+table+" SET data = ? WHERE id = ?", string(merged), id)
		if err != nil {
			return nil, fmt.Errorf("update %s: %w", table, err)
		}
		if first == nil {
			first = merged
		}
	}
	return first, nil
}

// Delete implements remote.Client.
func (c *Client) Delete(ctx context.Context, table string, filter remote.Filter) error {
	if err := checkTable(table); err != nil {
		return err
	}

	where, args := whereClause(filter)
	_, err := c.db.ExecContext(ctx, "DELETE FROM "+table+where, args...)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}

func checkTable(table string) error {
	if !knownTables[table] {
		return fmt.Errorf("unknown table %q", table)
	}
	return nil
}

// whereClause builds a WHERE over json_extract for every filter column.
// The id column is the primary key and is matched directly.
func whereClause(filter remote.Filter) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}

	var conds []string
	var args []any
	for col, val := range filter {
		if col == "id" {
			conds = append(conds, "id = ?")
		} else {
			conds = append(conds, fmt.Sprintf("json_extract(data, '$.%s') = ?", sanitizeColumn(col)))
		}
		args = append(args, val)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// sanitizeColumn strips anything that could escape a JSON path literal.
func sanitizeColumn(col string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return -1
	}, col)
}

func extractID(data []byte) (string, error) {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("decode row id: %w", err)
	}
	if probe.ID == "" {
		return "", fmt.Errorf("row has no id")
	}
	return probe.ID, nil
}
