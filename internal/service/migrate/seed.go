package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mold-tracker/internal/constants"
	"mold-tracker/internal/storage"
)

type ReferenceStorage interface {
	CountPersonnel(ctx context.Context) (int, error)
	SavePerson(ctx context.Context, p storage.Person) error
	CountMachines(ctx context.Context) (int, error)
	SaveMachine(ctx context.Context, m storage.Machine) error
}

// Seeder fills the personnel and machine collections with the bootstrap set,
// but only when a collection is completely empty. It never merges into
// existing data.
type Seeder struct {
	log       *slog.Logger
	storage   ReferenceStorage
	hashCost  int
	now       func() time.Time
	personnel []constants.SeedPerson
	machines  []constants.SeedMachine
}

func NewSeeder(log *slog.Logger, storage ReferenceStorage) *Seeder {
	return &Seeder{
		log:       log,
		storage:   storage,
		hashCost:  bcrypt.DefaultCost,
		now:       time.Now,
		personnel: constants.SeedPersonnel,
		machines:  constants.SeedMachines,
	}
}

// WithHashCost lowers the bcrypt cost, tests use bcrypt.MinCost.
func (s *Seeder) WithHashCost(cost int) *Seeder {
	s.hashCost = cost
	return s
}

func (s *Seeder) SeedPersonnel(ctx context.Context) (bool, error) {
	const op = "service.migrate.Seeder.SeedPersonnel"

	count, err := s.storage.CountPersonnel(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: count personnel: %w", op, err)
	}
	if count > 0 {
		return false, nil
	}

	for _, sp := range s.personnel {
		p := storage.Person{
			ID:       uuid.NewString(),
			Name:     sp.Name,
			Role:     storage.Role(sp.Role),
			Username: sp.Username,
		}
		if sp.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(sp.Password), s.hashCost)
			if err != nil {
				return false, fmt.Errorf("%s: hash password for %s: %w", op, sp.Name, err)
			}
			p.PasswordHash = string(hash)
		}

		if err := s.storage.SavePerson(ctx, p); err != nil {
			return false, fmt.Errorf("%s: save %s: %w", op, sp.Name, err)
		}
	}

	s.log.Info("personnel seeded", slog.Int("count", len(s.personnel)))
	return true, nil
}

func (s *Seeder) SeedMachines(ctx context.Context) (bool, error) {
	const op = "service.migrate.Seeder.SeedMachines"

	count, err := s.storage.CountMachines(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: count machines: %w", op, err)
	}
	if count > 0 {
		return false, nil
	}

	now := storage.NewDate(s.now())
	for _, sm := range s.machines {
		m := storage.Machine{
			ID:              uuid.NewString(),
			Name:            sm.Name,
			CurrentStatus:   storage.MachineAvailable,
			StatusStartTime: now,
		}
		if err := s.storage.SaveMachine(ctx, m); err != nil {
			return false, fmt.Errorf("%s: save %s: %w", op, sm.Name, err)
		}
	}

	s.log.Info("machines seeded", slog.Int("count", len(s.machines)))
	return true, nil
}
