package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"mold-tracker/internal/storage"
)

func (s *Storage) GetMoldDocuments(ctx context.Context) ([]storage.RawDocument, error) {
	return s.List(ctx, CollMolds)
}

func (s *Storage) GetAllMolds(ctx context.Context) ([]storage.Mold, error) {
	const op = "storage.mysql.GetAllMolds"

	docs, err := s.List(ctx, CollMolds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return decodeAll[storage.Mold](docs, op)
}

func (s *Storage) GetMold(ctx context.Context, id string) (*storage.Mold, error) {
	const op = "storage.mysql.GetMold"

	var mold storage.Mold
	if err := s.Get(ctx, CollMolds, id, &mold); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &mold, nil
}

// SaveMold replaces the whole mold document, tasks array included. Two
// clients saving the same mold race and the earlier write is lost; per
// operation changes go through MutateMold instead.
func (s *Storage) SaveMold(ctx context.Context, mold storage.Mold) error {
	const op = "storage.mysql.SaveMold"

	if err := s.CreateOrReplace(ctx, CollMolds, mold.ID, mold); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) UpdateMoldFields(ctx context.Context, id string, fields map[string]any) error {
	const op = "storage.mysql.UpdateMoldFields"

	if err := s.UpdateFields(ctx, CollMolds, id, fields); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// MutateMold runs fn on the stored mold while holding its row lock and
// writes the result back in the same transaction. Concurrent mutations of
// one mold are applied one after another instead of overwriting each other.
func (s *Storage) MutateMold(ctx context.Context, id string, fn func(*storage.Mold) error) (*storage.Mold, error) {
	const op = "storage.mysql.MutateMold"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var doc []byte
	err = tx.QueryRowContext(ctx, `SELECT doc FROM molds WHERE id = ? FOR UPDATE`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: mold %s: %w", op, id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: lock mold %s: %w", op, id, conflict(err))
	}

	var mold storage.Mold
	if err := json.Unmarshal(doc, &mold); err != nil {
		return nil, fmt.Errorf("%s: decode mold %s: %w", op, id, err)
	}

	if err := fn(&mold); err != nil {
		return nil, err
	}

	updated, err := json.Marshal(mold)
	if err != nil {
		return nil, fmt.Errorf("%s: encode mold %s: %w", op, id, err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE molds SET doc = ? WHERE id = ?`, updated, id); err != nil {
		return nil, fmt.Errorf("%s: write mold %s: %w", op, id, conflict(err))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit transaction: %w", op, conflict(err))
	}

	return &mold, nil
}

// DeleteMold removes the mold and every note attached to it.
func (s *Storage) DeleteMold(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteMold"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mold_notes WHERE mold_id = ?`, id); err != nil {
		return fmt.Errorf("%s: delete notes of mold %s: %w", op, id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM molds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: delete mold %s: %w", op, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: mold %s: %w", op, id, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}
