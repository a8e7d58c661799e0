package remove

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"mold-tracker/internal/storage"
)

type MockMoldDeleter struct {
	mock.Mock
}

func (m *MockMoldDeleter) DeleteMold(ctx context.Context, moldID string) error {
	args := m.Called(ctx, moldID)
	return args.Error(0)
}

func TestDeleteMold(t *testing.T) {
	deleter := new(MockMoldDeleter)
	deleter.On("DeleteMold", mock.Anything, "m-1").Return(nil)
	deleter.On("DeleteMold", mock.Anything, "gone").Return(fmt.Errorf("storage.mysql.DeleteMold: %w", storage.ErrNotFound))

	router := chi.NewRouter()
	router.Delete("/api/molds/{id}", DeleteMold(slog.Default(), deleter))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/molds/m-1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "deleted")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/molds/gone", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	deleter.AssertExpectations(t)
}
