package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"mold-tracker/internal/service/status"
	"mold-tracker/internal/storage"
)

// CreateMold stores a new mold. Missing ids are generated, every task must
// carry at least one operation, and the status is derived from them.
func (s *Service) CreateMold(ctx context.Context, mold storage.Mold) (*storage.Mold, error) {
	const op = "service.tracker.CreateMold"

	if strings.TrimSpace(mold.MoldName) == "" {
		return nil, fmt.Errorf("%s: %w: mold name is required", op, ErrInvalidInput)
	}
	if mold.Status != "" && !mold.Status.Administrative() {
		mold.Status = ""
	}

	now := s.now()
	if mold.ID == "" {
		mold.ID = uuid.NewString()
	}
	if mold.Tasks == nil {
		mold.Tasks = []storage.Task{}
	}

	for i := range mold.Tasks {
		task := &mold.Tasks[i]
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		if task.TaskNumber == 0 {
			task.TaskNumber = i + 1
		}
		if len(task.Operations) == 0 {
			return nil, fmt.Errorf("%s: %w: task %q has no operations", op, ErrInvalidInput, task.TaskName)
		}
		for j := range task.Operations {
			o := &task.Operations[j]
			if o.Type == "" {
				return nil, fmt.Errorf("%s: %w: operation type is required", op, ErrInvalidInput)
			}
			if o.Status != "" && !o.Status.Valid() {
				return nil, fmt.Errorf("%s: %w: unknown operation status %q", op, ErrInvalidInput, o.Status)
			}
			if o.ID == "" {
				o.ID = uuid.NewString()
			}
			enforceInvariants(o, now)
		}
	}

	mold.Status = status.Derive(mold)

	if err := s.storage.SaveMold(ctx, mold); err != nil {
		s.log.Error("failed to create mold", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publishMolds(ctx)

	return &mold, nil
}

// UpdateOperation patches one operation and writes back the derived mold
// status, all under the mold's row lock. role must be allowed to change every
// field group the patch touches.
func (s *Service) UpdateOperation(ctx context.Context, role storage.Role, moldID, taskID, opID string, patch OperationPatch) (*storage.Mold, error) {
	const op = "service.tracker.UpdateOperation"

	if err := authorize(role, patch.fieldGroups()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	mold, err := s.storage.MutateMold(ctx, moldID, func(m *storage.Mold) error {
		target, err := m.FindOperation(taskID, opID)
		if err != nil {
			return err
		}
		if err := ApplyPatch(target, patch, now); err != nil {
			return err
		}
		m.Status = status.Derive(*m)
		return nil
	})
	if err != nil {
		s.logWriteError(op, moldID, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publishMolds(ctx)

	return mold, nil
}

// AppendOperation adds an operation at the end of a task.
func (s *Service) AppendOperation(ctx context.Context, role storage.Role, moldID, taskID string, operation storage.Operation) (*storage.Mold, error) {
	const op = "service.tracker.AppendOperation"

	if err := authorize(role, newOperationGroups(operation)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if operation.Type == "" {
		return nil, fmt.Errorf("%s: %w: operation type is required", op, ErrInvalidInput)
	}
	if operation.Status != "" && !operation.Status.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown operation status %q", op, ErrInvalidInput, operation.Status)
	}
	if operation.ID == "" {
		operation.ID = uuid.NewString()
	}

	now := s.now()
	mold, err := s.storage.MutateMold(ctx, moldID, func(m *storage.Mold) error {
		task, err := m.FindTask(taskID)
		if err != nil {
			return err
		}
		enforceInvariants(&operation, now)
		task.Operations = append(task.Operations, operation)
		m.Status = status.Derive(*m)
		return nil
	})
	if err != nil {
		s.logWriteError(op, moldID, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publishMolds(ctx)

	return mold, nil
}

// UpdateMold changes mold-level fields. A requested status is accepted only
// when it is administrative or matches what the operations imply.
func (s *Service) UpdateMold(ctx context.Context, role storage.Role, moldID string, patch MoldPatch) (*storage.Mold, error) {
	const op = "service.tracker.UpdateMold"

	if err := authorize(role, patch.fieldGroups()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if patch.MoldName != nil && strings.TrimSpace(*patch.MoldName) == "" {
		return nil, fmt.Errorf("%s: %w: mold name is required", op, ErrInvalidInput)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown mold status %q", op, ErrInvalidInput, *patch.Status)
	}

	mold, err := s.storage.MutateMold(ctx, moldID, func(m *storage.Mold) error {
		patch.apply(m)
		if patch.Status != nil {
			if !status.Consistent(*m, *patch.Status) {
				return fmt.Errorf("%w: %s", ErrInvalidStatus, *patch.Status)
			}
			m.Status = *patch.Status
		}
		return nil
	})
	if err != nil {
		s.logWriteError(op, moldID, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publishMolds(ctx)

	return mold, nil
}

func (s *Service) DeleteMold(ctx context.Context, moldID string) error {
	const op = "service.tracker.DeleteMold"

	if err := s.storage.DeleteMold(ctx, moldID); err != nil {
		s.logWriteError(op, moldID, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.publishMolds(ctx)

	return nil
}

func (s *Service) AddNote(ctx context.Context, moldID, author, text string) (*storage.MoldNote, error) {
	const op = "service.tracker.AddNote"

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w: note text is required", op, ErrInvalidInput)
	}

	if _, err := s.storage.GetMold(ctx, moldID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	note := storage.MoldNote{
		ID:        uuid.NewString(),
		MoldID:    moldID,
		Author:    author,
		Text:      text,
		CreatedAt: storage.NewDate(s.now()),
	}

	if err := s.storage.SaveMoldNote(ctx, note); err != nil {
		s.logWriteError(op, moldID, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &note, nil
}

// Expected client errors are not worth an error log line.
func (s *Service) logWriteError(op, id string, err error) {
	if errors.Is(err, storage.ErrNotFound) ||
		errors.Is(err, storage.ErrTaskNotFound) ||
		errors.Is(err, storage.ErrOperationNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInvalidStatus) {
		return
	}
	s.log.Error("write failed", slog.String("op", op), slog.String("id", id), slog.String("error", err.Error()))
}
