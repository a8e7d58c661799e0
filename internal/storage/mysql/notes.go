package mysql

import (
	"context"
	"fmt"

	"mold-tracker/internal/storage"
)

func (s *Storage) GetMoldNotes(ctx context.Context, moldID string) ([]storage.MoldNote, error) {
	const op = "storage.mysql.GetMoldNotes"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, doc FROM mold_notes
		WHERE mold_id = ?
		ORDER BY JSON_UNQUOTE(JSON_EXTRACT(doc, '$.createdAt')), id`, moldID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	docs, err := scanDocuments(rows, op)
	if err != nil {
		return nil, err
	}

	return decodeAll[storage.MoldNote](docs, op)
}

func (s *Storage) SaveMoldNote(ctx context.Context, note storage.MoldNote) error {
	const op = "storage.mysql.SaveMoldNote"

	doc, err := jsonDoc(note)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mold_notes (id, mold_id, doc) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE doc = VALUES(doc)`, note.ID, note.MoldID, doc)
	if err != nil {
		return fmt.Errorf("%s: note %s: %w", op, note.ID, err)
	}

	return nil
}
