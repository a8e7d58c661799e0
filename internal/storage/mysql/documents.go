package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"mold-tracker/internal/storage"
)

const (
	CollMolds     = "molds"
	CollPersonnel = "personnel"
	CollMachines  = "machines"
	CollLayouts   = "layouts"
	CollNotes     = "notes"
	CollSessions  = "sessions"
)

var tables = map[string]string{
	CollMolds:     "molds",
	CollPersonnel: "personnel",
	CollMachines:  "machines",
	CollLayouts:   "workshop_layouts",
	CollNotes:     "mold_notes",
	CollSessions:  "sessions",
}

var fieldName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func tableFor(collection string) (string, error) {
	table, ok := tables[collection]
	if !ok {
		return "", fmt.Errorf("%w: %q", storage.ErrUnknownCollection, collection)
	}
	return table, nil
}

// CreateOrReplace writes the whole document. Concurrent writers of the same
// id are not serialized: the last one wins.
func (s *Storage) CreateOrReplace(ctx context.Context, collection, id string, v any) error {
	const op = "storage.mysql.CreateOrReplace"

	table, err := tableFor(collection)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: encode %s/%s: %w", op, collection, id, err)
	}

	stmt := `INSERT INTO ` + table + ` (id, doc) VALUES (?, ?) ON DUPLICATE KEY UPDATE doc = VALUES(doc)`
	if _, err := s.db.ExecContext(ctx, stmt, id, doc); err != nil {
		return fmt.Errorf("%s: write %s/%s: %w", op, collection, id, err)
	}

	return nil
}

// UpdateFields sets top-level document fields without touching the rest.
func (s *Storage) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	const op = "storage.mysql.UpdateFields"

	table, err := tableFor(collection)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !fieldName.MatchString(k) {
			return fmt.Errorf("%s: invalid field name %q", op, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		paths []string
		args  []any
	)
	for _, k := range keys {
		raw, err := json.Marshal(fields[k])
		if err != nil {
			return fmt.Errorf("%s: encode field %s: %w", op, k, err)
		}
		paths = append(paths, "?, CAST(? AS JSON)")
		args = append(args, "$."+k, string(raw))
	}
	args = append(args, id)

	stmt := `UPDATE ` + table + ` SET doc = JSON_SET(doc, ` + strings.Join(paths, ", ") + `) WHERE id = ?`
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("%s: update %s/%s: %w", op, collection, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		// unchanged values also report zero rows
		exists, err := s.exists(ctx, table, id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: %s/%s: %w", op, collection, id, storage.ErrNotFound)
		}
	}

	return nil
}

func (s *Storage) Delete(ctx context.Context, collection, id string) error {
	const op = "storage.mysql.Delete"

	table, err := tableFor(collection)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: delete %s/%s: %w", op, collection, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %s/%s: %w", op, collection, id, storage.ErrNotFound)
	}

	return nil
}

func (s *Storage) Get(ctx context.Context, collection, id string, v any) error {
	const op = "storage.mysql.Get"

	table, err := tableFor(collection)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var doc []byte
	err = s.db.QueryRowContext(ctx, `SELECT doc FROM `+table+` WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %s/%s: %w", op, collection, id, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: read %s/%s: %w", op, collection, id, err)
	}

	if err := json.Unmarshal(doc, v); err != nil {
		return fmt.Errorf("%s: decode %s/%s: %w", op, collection, id, err)
	}

	return nil
}

func (s *Storage) List(ctx context.Context, collection string) ([]storage.RawDocument, error) {
	const op = "storage.mysql.List"

	table, err := tableFor(collection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, doc FROM `+table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: list %s: %w", op, collection, err)
	}
	defer rows.Close()

	return scanDocuments(rows, op)
}

// QueryWhere is a one-shot lookup by a top-level document field.
func (s *Storage) QueryWhere(ctx context.Context, collection, field, value string) ([]storage.RawDocument, error) {
	const op = "storage.mysql.QueryWhere"

	table, err := tableFor(collection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !fieldName.MatchString(field) {
		return nil, fmt.Errorf("%s: invalid field name %q", op, field)
	}

	stmt := `SELECT id, doc FROM ` + table + ` WHERE JSON_UNQUOTE(JSON_EXTRACT(doc, ?)) = ? ORDER BY id`
	rows, err := s.db.QueryContext(ctx, stmt, "$."+field, value)
	if err != nil {
		return nil, fmt.Errorf("%s: query %s.%s: %w", op, collection, field, err)
	}
	defer rows.Close()

	return scanDocuments(rows, op)
}

func (s *Storage) Count(ctx context.Context, collection string) (int, error) {
	const op = "storage.mysql.Count"

	table, err := tableFor(collection)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: count %s: %w", op, collection, err)
	}

	return n, nil
}

func (s *Storage) exists(ctx context.Context, table, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s/%s: %w", table, id, err)
	}
	return true, nil
}

func scanDocuments(rows *sql.Rows, op string) ([]storage.RawDocument, error) {
	var docs []storage.RawDocument
	for rows.Next() {
		var d storage.RawDocument
		if err := rows.Scan(&d.ID, &d.Doc); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return docs, nil
}

func decodeAll[T any](docs []storage.RawDocument, op string) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := json.Unmarshal(d.Doc, &v); err != nil {
			return nil, fmt.Errorf("%s: decode %s: %w", op, d.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}
