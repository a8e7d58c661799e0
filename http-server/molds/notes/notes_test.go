package notes

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mold-tracker/internal/middleware/auth"
	"mold-tracker/internal/storage"
)

type MockNotes struct {
	mock.Mock
}

func (m *MockNotes) GetMoldNotes(ctx context.Context, moldID string) ([]storage.MoldNote, error) {
	args := m.Called(ctx, moldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.MoldNote), args.Error(1)
}

func (m *MockNotes) AddNote(ctx context.Context, moldID, author, text string) (*storage.MoldNote, error) {
	args := m.Called(ctx, moldID, author, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.MoldNote), args.Error(1)
}

func newRouter(m *MockNotes) http.Handler {
	router := chi.NewRouter()
	router.Get("/api/molds/{id}/notes", GetNotes(slog.Default(), m))
	router.Post("/api/molds/{id}/notes", AddNote(slog.Default(), m))
	return router
}

func TestGetNotes_EmptyIsArray(t *testing.T) {
	m := new(MockNotes)
	m.On("GetMoldNotes", mock.Anything, "m-1").Return(nil, nil)

	rr := httptest.NewRecorder()
	newRouter(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/molds/m-1/notes", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestAddNote_UsesSessionName(t *testing.T) {
	m := new(MockNotes)
	m.On("AddNote", mock.Anything, "m-1", "Sena", "bushing replaced").
		Return(&storage.MoldNote{ID: "n-1", MoldID: "m-1", Author: "Sena", Text: "bushing replaced"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/molds/m-1/notes", strings.NewReader(`{"text":"bushing replaced"}`))
	req = req.WithContext(auth.WithSession(req.Context(), storage.Session{Name: "Sena", Role: storage.RoleSupervisor}))
	rr := httptest.NewRecorder()

	newRouter(m).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var note storage.MoldNote
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &note))
	assert.Equal(t, "n-1", note.ID)
	m.AssertExpectations(t)
}

func TestAddNote_UnknownMold(t *testing.T) {
	m := new(MockNotes)
	m.On("AddNote", mock.Anything, "gone", "", "x").Return(nil, storage.ErrNotFound)

	rr := httptest.NewRecorder()
	newRouter(m).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/molds/gone/notes", strings.NewReader(`{"text":"x"}`)))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
