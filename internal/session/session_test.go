package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mold-tracker/internal/storage"
)

type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) FindPersonByUsername(ctx context.Context, username string) (*storage.Person, error) {
	args := m.Called(ctx, username)
	p, _ := args.Get(0).(*storage.Person)
	return p, args.Error(1)
}

func (m *MockPersister) SaveSession(ctx context.Context, sess storage.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *MockPersister) DeleteSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockPersister) GetAllSessions(ctx context.Context) ([]storage.Session, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]storage.Session)
	return s, args.Error(1)
}

func newStore(p Persister) *Store {
	return NewStore(slog.New(slog.NewTextHandler(io.Discard, nil)), p, 0)
}

func person(t *testing.T, role storage.Role, password string) *storage.Person {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &storage.Person{ID: "p-1", Name: "Selin", Role: role, Username: "selin", PasswordHash: string(hash)}
}

func TestLogin_Success(t *testing.T) {
	p := new(MockPersister)
	p.On("FindPersonByUsername", mock.Anything, "selin").Return(person(t, storage.RoleSupervisor, "pw"), nil)
	p.On("SaveSession", mock.Anything, mock.AnythingOfType("storage.Session")).Return(nil)

	store := newStore(p)

	sess, err := store.Login(context.Background(), "selin", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "p-1", sess.PersonID)
	assert.Equal(t, storage.RoleSupervisor, sess.Role)

	got, ok := store.Get(sess.Token)
	require.True(t, ok)
	assert.Equal(t, sess, got)

	p.AssertExpectations(t)
}

func TestLogin_Rejections(t *testing.T) {
	cases := []struct {
		name     string
		found    *storage.Person
		findErr  error
		password string
	}{
		{name: "unknown user", findErr: storage.ErrNotFound, password: "pw"},
		{name: "wrong password", found: person(t, storage.RoleAdmin, "pw"), password: "nope"},
		{name: "machine operator", found: person(t, storage.RoleMachineOperator, "pw"), password: "pw"},
		{name: "no hash", found: &storage.Person{ID: "p-2", Role: storage.RoleAdmin, Username: "selin"}, password: "pw"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := new(MockPersister)
			p.On("FindPersonByUsername", mock.Anything, "selin").Return(tc.found, tc.findErr)

			_, err := newStore(p).Login(context.Background(), "selin", tc.password)

			assert.ErrorIs(t, err, ErrInvalidCredentials)
			p.AssertNotCalled(t, "SaveSession", mock.Anything, mock.Anything)
		})
	}
}

func TestLogin_EmptyInput(t *testing.T) {
	p := new(MockPersister)

	_, err := newStore(p).Login(context.Background(), "", "")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	p.AssertNotCalled(t, "FindPersonByUsername", mock.Anything, mock.Anything)
}

func TestLogin_StorageError(t *testing.T) {
	p := new(MockPersister)
	p.On("FindPersonByUsername", mock.Anything, "selin").Return(nil, errors.New("timeout"))

	_, err := newStore(p).Login(context.Background(), "selin", "pw")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	p := new(MockPersister)
	p.On("FindPersonByUsername", mock.Anything, "selin").Return(person(t, storage.RoleAdmin, "pw"), nil)
	p.On("SaveSession", mock.Anything, mock.Anything).Return(nil)
	p.On("DeleteSession", mock.Anything, mock.Anything).Return(nil)

	store := newStore(p)
	sess, err := store.Login(context.Background(), "selin", "pw")
	require.NoError(t, err)

	require.NoError(t, store.Logout(context.Background(), sess.Token))

	_, ok := store.Get(sess.Token)
	assert.False(t, ok)
	assert.ErrorIs(t, store.Logout(context.Background(), sess.Token), ErrUnknownSession)
	p.AssertNumberOfCalls(t, "DeleteSession", 1)
}

func TestRehydrate(t *testing.T) {
	p := new(MockPersister)
	p.On("GetAllSessions", mock.Anything).Return([]storage.Session{
		{Token: "a", PersonID: "p-1", Role: storage.RoleAdmin},
		{Token: "b", PersonID: "p-2", Role: storage.RoleCamOperator},
		{Token: "c", PersonID: "p-3", Role: storage.RoleMachineOperator},
		{Token: "", PersonID: "p-4", Role: storage.RoleAdmin},
	}, nil)

	store := newStore(p)

	n, err := store.Rehydrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, ok := store.Get("b")
	assert.True(t, ok)
	_, ok = store.Get("c")
	assert.False(t, ok)
}

func TestRevokePerson(t *testing.T) {
	p := new(MockPersister)
	p.On("GetAllSessions", mock.Anything).Return([]storage.Session{
		{Token: "a", PersonID: "p-1", Role: storage.RoleAdmin},
		{Token: "b", PersonID: "p-1", Role: storage.RoleAdmin},
		{Token: "c", PersonID: "p-2", Role: storage.RoleSupervisor},
	}, nil)
	p.On("DeleteSession", mock.Anything, "a").Return(nil)
	p.On("DeleteSession", mock.Anything, "b").Return(storage.ErrNotFound)

	store := newStore(p)
	_, err := store.Rehydrate(context.Background())
	require.NoError(t, err)

	require.NoError(t, store.RevokePerson(context.Background(), "p-1"))

	for _, token := range []string{"a", "b"} {
		_, ok := store.Get(token)
		assert.False(t, ok, token)
	}
	_, ok := store.Get("c")
	assert.True(t, ok)

	require.NoError(t, store.RevokePerson(context.Background(), "p-unknown"))
	p.AssertNumberOfCalls(t, "DeleteSession", 2)
}

func TestRevokePerson_PersistError(t *testing.T) {
	p := new(MockPersister)
	p.On("GetAllSessions", mock.Anything).Return([]storage.Session{{Token: "a", PersonID: "p-1", Role: storage.RoleAdmin}}, nil)
	p.On("DeleteSession", mock.Anything, "a").Return(errors.New("db down"))

	store := newStore(p)
	_, err := store.Rehydrate(context.Background())
	require.NoError(t, err)

	assert.Error(t, store.RevokePerson(context.Background(), "p-1"))
	_, ok := store.Get("a")
	assert.False(t, ok)
}

func TestSessionExpiry(t *testing.T) {
	loginAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	p := new(MockPersister)
	p.On("GetAllSessions", mock.Anything).Return([]storage.Session{
		{Token: "old", PersonID: "p-1", Role: storage.RoleAdmin, CreatedAt: loginAt.Add(-48 * time.Hour)},
		{Token: "fresh", PersonID: "p-2", Role: storage.RoleAdmin, CreatedAt: loginAt},
	}, nil)

	store := NewStore(slog.New(slog.NewTextHandler(io.Discard, nil)), p, 24*time.Hour)
	now := loginAt.Add(time.Hour)
	store.now = func() time.Time { return now }

	n, err := store.Rehydrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok := store.Get("fresh")
	assert.True(t, ok)

	now = loginAt.Add(25 * time.Hour)
	_, ok = store.Get("fresh")
	assert.False(t, ok)
}
