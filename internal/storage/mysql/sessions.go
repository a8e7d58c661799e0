package mysql

import (
	"context"
	"encoding/json"
	"fmt"

	"mold-tracker/internal/storage"
)

func (s *Storage) SaveSession(ctx context.Context, sess storage.Session) error {
	const op = "storage.mysql.SaveSession"

	if err := s.CreateOrReplace(ctx, CollSessions, sess.Token, sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	const op = "storage.mysql.DeleteSession"

	if err := s.Delete(ctx, CollSessions, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetAllSessions(ctx context.Context) ([]storage.Session, error) {
	const op = "storage.mysql.GetAllSessions"

	docs, err := s.List(ctx, CollSessions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return decodeAll[storage.Session](docs, op)
}

func jsonDoc(v any) ([]byte, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return doc, nil
}
