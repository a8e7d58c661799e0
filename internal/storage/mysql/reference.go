package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mold-tracker/internal/storage"
)

func (s *Storage) GetAllPersonnel(ctx context.Context) ([]storage.Person, error) {
	const op = "storage.mysql.GetAllPersonnel"

	docs, err := s.List(ctx, CollPersonnel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return decodeAll[storage.Person](docs, op)
}

func (s *Storage) GetPerson(ctx context.Context, id string) (*storage.Person, error) {
	const op = "storage.mysql.GetPerson"

	var p storage.Person
	if err := s.Get(ctx, CollPersonnel, id, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}

func (s *Storage) SavePerson(ctx context.Context, p storage.Person) error {
	const op = "storage.mysql.SavePerson"

	if err := s.CreateOrReplace(ctx, CollPersonnel, p.ID, p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeletePerson(ctx context.Context, id string) error {
	const op = "storage.mysql.DeletePerson"

	if err := s.Delete(ctx, CollPersonnel, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// FindPersonByUsername returns storage.ErrNotFound when nobody has the
// username.
func (s *Storage) FindPersonByUsername(ctx context.Context, username string) (*storage.Person, error) {
	const op = "storage.mysql.FindPersonByUsername"

	docs, err := s.QueryWhere(ctx, CollPersonnel, "username", username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: %q: %w", op, username, storage.ErrNotFound)
	}

	var p storage.Person
	if err := json.Unmarshal(docs[0].Doc, &p); err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w", op, docs[0].ID, err)
	}

	return &p, nil
}

func (s *Storage) CountPersonnel(ctx context.Context) (int, error) {
	return s.Count(ctx, CollPersonnel)
}

func (s *Storage) GetAllMachines(ctx context.Context) ([]storage.Machine, error) {
	const op = "storage.mysql.GetAllMachines"

	docs, err := s.List(ctx, CollMachines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return decodeAll[storage.Machine](docs, op)
}

func (s *Storage) SaveMachine(ctx context.Context, m storage.Machine) error {
	const op = "storage.mysql.SaveMachine"

	if err := s.CreateOrReplace(ctx, CollMachines, m.ID, m); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) UpdateMachineStatus(ctx context.Context, id string, status storage.MachineStatus, reason string, since time.Time) error {
	const op = "storage.mysql.UpdateMachineStatus"

	err := s.UpdateFields(ctx, CollMachines, id, map[string]any{
		"currentStatus":   status,
		"statusReason":    reason,
		"statusStartTime": storage.NewDate(since),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) CountMachines(ctx context.Context) (int, error) {
	return s.Count(ctx, CollMachines)
}
