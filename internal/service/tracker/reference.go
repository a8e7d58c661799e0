package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mold-tracker/internal/constants"
	"mold-tracker/internal/storage"
)

// PersonInput is a roster entry as submitted by an admin. Password is plain
// text and only set when it changes.
type PersonInput struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Role     storage.Role `json:"role"`
	Username string       `json:"username"`
	Password string       `json:"password"`
}

func (s *Service) SavePerson(ctx context.Context, in PersonInput) (*storage.Person, error) {
	const op = "service.tracker.SavePerson"

	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%s: %w: name is required", op, ErrInvalidInput)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown role %q", op, ErrInvalidInput, in.Role)
	}

	person := storage.Person{ID: in.ID, Name: in.Name, Role: in.Role}
	var existing *storage.Person
	if person.ID == "" {
		person.ID = uuid.NewString()
	} else {
		found, err := s.storage.GetPerson(ctx, person.ID)
		switch {
		case err == nil:
			existing = found
			person.Username = existing.Username
			person.PasswordHash = existing.PasswordHash
		case !errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if in.Role.CanLogin() {
		if in.Username != "" {
			person.Username = in.Username
		}
		if person.Username != "" {
			other, err := s.storage.FindPersonByUsername(ctx, person.Username)
			switch {
			case err == nil && other.ID != person.ID:
				return nil, fmt.Errorf("%s: %w", op, ErrDuplicateUsername)
			case err != nil && !errors.Is(err, storage.ErrNotFound):
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		if in.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
			if err != nil {
				return nil, fmt.Errorf("%s: hash password: %w", op, err)
			}
			person.PasswordHash = string(hash)
		}
	} else {
		person.Username = ""
		person.PasswordHash = ""
	}

	if err := s.storage.SavePerson(ctx, person); err != nil {
		s.logWriteError(op, person.ID, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// sessions carry the role from login time
	if existing != nil && (existing.Role != person.Role ||
		existing.Username != person.Username ||
		existing.PasswordHash != person.PasswordHash) {
		if err := s.revokeSessions(ctx, person.ID); err != nil {
			s.logWriteError(op, person.ID, err)
			return nil, fmt.Errorf("%s: revoke sessions: %w", op, err)
		}
	}

	s.publishPersonnel(ctx)

	public := person.Public()
	return &public, nil
}

func (s *Service) DeletePerson(ctx context.Context, id string) error {
	const op = "service.tracker.DeletePerson"

	if err := s.storage.DeletePerson(ctx, id); err != nil {
		s.logWriteError(op, id, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.revokeSessions(ctx, id); err != nil {
		s.logWriteError(op, id, err)
		return fmt.Errorf("%s: revoke sessions: %w", op, err)
	}

	s.publishPersonnel(ctx)

	return nil
}

func (s *Service) SaveMachine(ctx context.Context, m storage.Machine) (*storage.Machine, error) {
	const op = "service.tracker.SaveMachine"

	if strings.TrimSpace(m.Name) == "" {
		return nil, fmt.Errorf("%s: %w: machine name is required", op, ErrInvalidInput)
	}
	if m.CurrentStatus == "" {
		m.CurrentStatus = storage.MachineAvailable
	}
	if !m.CurrentStatus.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown machine status %q", op, ErrInvalidInput, m.CurrentStatus)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if !m.StatusStartTime.IsSet() {
		m.StatusStartTime = storage.NewDate(s.now())
	}

	if err := s.storage.SaveMachine(ctx, m); err != nil {
		s.logWriteError(op, m.ID, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publishMachines(ctx)

	return &m, nil
}

func (s *Service) UpdateMachineStatus(ctx context.Context, id string, st storage.MachineStatus, reason string) error {
	const op = "service.tracker.UpdateMachineStatus"

	if !st.Valid() {
		return fmt.Errorf("%s: %w: unknown machine status %q", op, ErrInvalidInput, st)
	}

	if err := s.storage.UpdateMachineStatus(ctx, id, st, reason, s.now()); err != nil {
		s.logWriteError(op, id, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("machine status changed",
		slog.String("op", op),
		slog.String("id", id),
		slog.String("status", string(st)),
	)

	s.publishMachines(ctx)

	return nil
}

// SaveLayout replaces the single floor map.
func (s *Service) SaveLayout(ctx context.Context, layout storage.WorkshopLayout) (*storage.WorkshopLayout, error) {
	const op = "service.tracker.SaveLayout"

	layout.ID = constants.LayoutID
	if layout.Placements == nil {
		layout.Placements = []storage.Placement{}
	}
	for _, p := range layout.Placements {
		if p.MachineID == "" {
			return nil, fmt.Errorf("%s: %w: placement without machine", op, ErrInvalidInput)
		}
		if p.Width <= 0 || p.Height <= 0 {
			return nil, fmt.Errorf("%s: %w: placement size must be positive", op, ErrInvalidInput)
		}
	}

	if err := s.storage.SaveLayout(ctx, layout); err != nil {
		s.logWriteError(op, layout.ID, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publishLayout(ctx)

	return &layout, nil
}
