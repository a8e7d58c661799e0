// Package tracker holds the named mutations of the workshop data. Every
// mutation writes through the persistence gateway and then publishes a full
// snapshot of the collection it touched.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mold-tracker/internal/realtime"
	"mold-tracker/internal/storage"
)

type Storage interface {
	GetAllMolds(ctx context.Context) ([]storage.Mold, error)
	GetMold(ctx context.Context, id string) (*storage.Mold, error)
	SaveMold(ctx context.Context, mold storage.Mold) error
	MutateMold(ctx context.Context, id string, fn func(*storage.Mold) error) (*storage.Mold, error)
	DeleteMold(ctx context.Context, id string) error

	GetMoldNotes(ctx context.Context, moldID string) ([]storage.MoldNote, error)
	SaveMoldNote(ctx context.Context, note storage.MoldNote) error

	GetAllPersonnel(ctx context.Context) ([]storage.Person, error)
	GetPerson(ctx context.Context, id string) (*storage.Person, error)
	FindPersonByUsername(ctx context.Context, username string) (*storage.Person, error)
	SavePerson(ctx context.Context, p storage.Person) error
	DeletePerson(ctx context.Context, id string) error

	GetAllMachines(ctx context.Context) ([]storage.Machine, error)
	SaveMachine(ctx context.Context, m storage.Machine) error
	UpdateMachineStatus(ctx context.Context, id string, status storage.MachineStatus, reason string, since time.Time) error

	GetLayout(ctx context.Context) (*storage.WorkshopLayout, error)
	SaveLayout(ctx context.Context, layout storage.WorkshopLayout) error
}

type Publisher interface {
	Publish(topic string, v any) error
}

// SessionRevoker ends the sessions of a person whose access changed.
type SessionRevoker interface {
	RevokePerson(ctx context.Context, personID string) error
}

type Service struct {
	log      *slog.Logger
	storage  Storage
	hub      Publisher
	sessions SessionRevoker
	now      func() time.Time
	hashCost int

	// snapshotMu holds one lock per topic. Loading and publishing a snapshot
	// happen under it, so a snapshot loaded earlier is never published after
	// one loaded later.
	snapshotMu map[string]*sync.Mutex
}

func New(log *slog.Logger, storage Storage, hub Publisher, hashCost int) *Service {
	snapshotMu := make(map[string]*sync.Mutex)
	for _, topic := range []string{realtime.TopicMolds, realtime.TopicPersonnel, realtime.TopicMachines, realtime.TopicLayout} {
		snapshotMu[topic] = &sync.Mutex{}
	}

	return &Service{
		log:        log,
		storage:    storage,
		hub:        hub,
		now:        time.Now,
		hashCost:   hashCost,
		snapshotMu: snapshotMu,
	}
}

func (s *Service) WithSessions(sessions SessionRevoker) *Service {
	s.sessions = sessions
	return s
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// PublishAll pushes the current state of every collection. Used once after
// startup so that the first subscribers get data straight away.
func (s *Service) PublishAll(ctx context.Context) {
	s.publishMolds(ctx)
	s.publishPersonnel(ctx)
	s.publishMachines(ctx)
	s.publishLayout(ctx)
}

// A failed publish never fails the mutation that triggered it; the write is
// already committed.
func (s *Service) publishMolds(ctx context.Context) {
	const op = "service.tracker.publishMolds"

	unlock := s.lockTopic(realtime.TopicMolds)
	defer unlock()

	molds, err := s.storage.GetAllMolds(ctx)
	if err != nil {
		s.log.Error("failed to load molds for snapshot", slog.String("op", op), slog.String("error", err.Error()))
		return
	}
	s.publish(op, realtime.TopicMolds, molds)
}

func (s *Service) publishPersonnel(ctx context.Context) {
	const op = "service.tracker.publishPersonnel"

	unlock := s.lockTopic(realtime.TopicPersonnel)
	defer unlock()

	personnel, err := s.storage.GetAllPersonnel(ctx)
	if err != nil {
		s.log.Error("failed to load personnel for snapshot", slog.String("op", op), slog.String("error", err.Error()))
		return
	}
	public := make([]storage.Person, 0, len(personnel))
	for _, p := range personnel {
		public = append(public, p.Public())
	}
	s.publish(op, realtime.TopicPersonnel, public)
}

func (s *Service) publishMachines(ctx context.Context) {
	const op = "service.tracker.publishMachines"

	unlock := s.lockTopic(realtime.TopicMachines)
	defer unlock()

	machines, err := s.storage.GetAllMachines(ctx)
	if err != nil {
		s.log.Error("failed to load machines for snapshot", slog.String("op", op), slog.String("error", err.Error()))
		return
	}
	s.publish(op, realtime.TopicMachines, machines)
}

func (s *Service) publishLayout(ctx context.Context) {
	const op = "service.tracker.publishLayout"

	unlock := s.lockTopic(realtime.TopicLayout)
	defer unlock()

	layout, err := s.storage.GetLayout(ctx)
	if err != nil {
		s.log.Error("failed to load layout for snapshot", slog.String("op", op), slog.String("error", err.Error()))
		return
	}
	s.publish(op, realtime.TopicLayout, layout)
}

func (s *Service) revokeSessions(ctx context.Context, personID string) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.RevokePerson(ctx, personID)
}

func (s *Service) lockTopic(topic string) func() {
	mu := s.snapshotMu[topic]
	mu.Lock()
	return mu.Unlock
}

func (s *Service) publish(op, topic string, v any) {
	if err := s.hub.Publish(topic, v); err != nil {
		s.log.Error("failed to publish snapshot", slog.String("op", op), slog.String("topic", topic), slog.String("error", err.Error()))
	}
}
