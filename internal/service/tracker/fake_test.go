package tracker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mold-tracker/internal/constants"
	"mold-tracker/internal/storage"
)

// memStore keeps documents as JSON, the way the gateway does, so callers
// never share memory with what is stored.
type memStore struct {
	mu        sync.Mutex
	molds     map[string][]byte
	notes     []storage.MoldNote
	personnel map[string]storage.Person
	machines  map[string]storage.Machine
	layout    *storage.WorkshopLayout
	failSave  error
}

func newMemStore() *memStore {
	return &memStore{
		molds:     map[string][]byte{},
		personnel: map[string]storage.Person{},
		machines:  map[string]storage.Machine{},
	}
}

func (s *memStore) put(m storage.Mold) {
	b, _ := json.Marshal(m)
	s.molds[m.ID] = b
}

func (s *memStore) mold(id string) storage.Mold {
	s.mu.Lock()
	defer s.mu.Unlock()
	var m storage.Mold
	_ = json.Unmarshal(s.molds[id], &m)
	return m
}

func (s *memStore) GetAllMolds(ctx context.Context) ([]storage.Mold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []storage.Mold{}
	for _, b := range s.molds {
		var m storage.Mold
		_ = json.Unmarshal(b, &m)
		out = append(out, m)
	}
	return out, nil
}

func (s *memStore) GetMold(ctx context.Context, id string) (*storage.Mold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.molds[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	var m storage.Mold
	_ = json.Unmarshal(b, &m)
	return &m, nil
}

func (s *memStore) SaveMold(ctx context.Context, mold storage.Mold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave != nil {
		return s.failSave
	}
	s.put(mold)
	return nil
}

func (s *memStore) MutateMold(ctx context.Context, id string, fn func(*storage.Mold) error) (*storage.Mold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.molds[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	var m storage.Mold
	_ = json.Unmarshal(b, &m)
	if err := fn(&m); err != nil {
		return nil, err
	}
	s.put(m)
	return &m, nil
}

func (s *memStore) DeleteMold(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.molds[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.molds, id)
	return nil
}

func (s *memStore) GetMoldNotes(ctx context.Context, moldID string) ([]storage.MoldNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.MoldNote
	for _, n := range s.notes {
		if n.MoldID == moldID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *memStore) SaveMoldNote(ctx context.Context, note storage.MoldNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, note)
	return nil
}

func (s *memStore) GetAllPersonnel(ctx context.Context) ([]storage.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []storage.Person{}
	for _, p := range s.personnel {
		out = append(out, p)
	}
	return out, nil
}

func (s *memStore) GetPerson(ctx context.Context, id string) (*storage.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.personnel[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) FindPersonByUsername(ctx context.Context, username string) (*storage.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.personnel {
		if p.Username == username {
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memStore) SavePerson(ctx context.Context, p storage.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personnel[p.ID] = p
	return nil
}

func (s *memStore) DeletePerson(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.personnel[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.personnel, id)
	return nil
}

func (s *memStore) GetAllMachines(ctx context.Context) ([]storage.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []storage.Machine{}
	for _, m := range s.machines {
		out = append(out, m)
	}
	return out, nil
}

func (s *memStore) SaveMachine(ctx context.Context, m storage.Machine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machines[m.ID] = m
	return nil
}

func (s *memStore) UpdateMachineStatus(ctx context.Context, id string, st storage.MachineStatus, reason string, since time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.machines[id]
	if !ok {
		return storage.ErrNotFound
	}
	m.CurrentStatus = st
	m.StatusReason = reason
	m.StatusStartTime = storage.NewDate(since)
	s.machines[id] = m
	return nil
}

func (s *memStore) GetLayout(ctx context.Context) (*storage.WorkshopLayout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.layout == nil {
		return &storage.WorkshopLayout{ID: constants.LayoutID, Placements: []storage.Placement{}}, nil
	}
	l := *s.layout
	return &l, nil
}

func (s *memStore) SaveLayout(ctx context.Context, layout storage.WorkshopLayout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout = &layout
	return nil
}

type published struct {
	topic string
	value any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(topic string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic: topic, value: v})
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.topic)
	}
	return out
}

var fixedNow = time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

func newTestService() (*Service, *memStore, *recordingPublisher) {
	st := newMemStore()
	pub := &recordingPublisher{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(log, st, pub, bcrypt.MinCost).WithClock(func() time.Time { return fixedNow })
	return svc, st, pub
}
