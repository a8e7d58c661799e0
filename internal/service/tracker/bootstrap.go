package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"mold-tracker/internal/service/migrate"
)

type ReferenceSeeder interface {
	SeedPersonnel(ctx context.Context) (bool, error)
	SeedMachines(ctx context.Context) (bool, error)
}

type MoldNormalizer interface {
	Run(ctx context.Context) (migrate.Summary, error)
}

// Bootstrap runs the startup gates: personnel and machines are seeded
// concurrently, and only once both are in place the stored molds are
// normalized. Initial snapshots go out at the end.
func (s *Service) Bootstrap(ctx context.Context, seeder ReferenceSeeder, normalizer MoldNormalizer) error {
	const op = "service.tracker.Bootstrap"

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		seeded, err := seeder.SeedPersonnel(gctx)
		if err != nil {
			return err
		}
		if seeded {
			s.log.Info("personnel seeded", slog.String("op", op))
		}
		return nil
	})

	g.Go(func() error {
		seeded, err := seeder.SeedMachines(gctx)
		if err != nil {
			return err
		}
		if seeded {
			s.log.Info("machines seeded", slog.String("op", op))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: reference data: %w", op, err)
	}

	sum, err := normalizer.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: normalize molds: %w", op, err)
	}
	if sum.Failed > 0 {
		s.log.Warn("some molds could not be normalized", slog.String("op", op), slog.Int("failed", sum.Failed))
	}

	s.PublishAll(ctx)

	return nil
}
