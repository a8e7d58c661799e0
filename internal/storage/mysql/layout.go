package mysql

import (
	"context"
	"errors"
	"fmt"

	"mold-tracker/internal/constants"
	"mold-tracker/internal/storage"
)

// GetLayout returns an empty layout until the editor saves one.
func (s *Storage) GetLayout(ctx context.Context) (*storage.WorkshopLayout, error) {
	const op = "storage.mysql.GetLayout"

	layout := storage.WorkshopLayout{ID: constants.LayoutID, Placements: []storage.Placement{}}
	err := s.Get(ctx, CollLayouts, constants.LayoutID, &layout)
	if errors.Is(err, storage.ErrNotFound) {
		return &layout, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &layout, nil
}

func (s *Storage) SaveLayout(ctx context.Context, layout storage.WorkshopLayout) error {
	const op = "storage.mysql.SaveLayout"

	layout.ID = constants.LayoutID
	if err := s.CreateOrReplace(ctx, CollLayouts, layout.ID, layout); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
