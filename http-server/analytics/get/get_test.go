package get

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mold-tracker/internal/service/analytics"
	"mold-tracker/internal/storage"
)

type MockAnalyticsProvider struct {
	mock.Mock
}

func (m *MockAnalyticsProvider) GetAllMolds(ctx context.Context) ([]storage.Mold, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Mold), args.Error(1)
}

func (m *MockAnalyticsProvider) GetMold(ctx context.Context, id string) (*storage.Mold, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Mold), args.Error(1)
}

func (m *MockAnalyticsProvider) GetPerson(ctx context.Context, id string) (*storage.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Person), args.Error(1)
}

func clock() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

func day(y int, m time.Month, d int) storage.Date {
	return storage.NewDate(time.Date(y, m, d, 9, 0, 0, 0, time.UTC))
}

func fixture() []storage.Mold {
	rating := 8.0
	return []storage.Mold{{
		ID: "m-1", MoldName: "Cap", Status: storage.MoldCompleted, MoldDeadline: day(2024, 3, 10),
		Tasks: []storage.Task{{ID: "t-1", Operations: []storage.Operation{
			{
				ID: "o-1", Type: "CNC", Status: storage.OpCompleted, AssignedOperator: "Cem",
				MachineName: "CNC-01", StartDate: day(2024, 3, 1), FinishDate: day(2024, 3, 8),
				DurationInHours: 12.5, SupervisorRating: &rating,
			},
		}}},
	}}
}

func newRouter(p AnalyticsProvider) http.Handler {
	log := slog.Default()
	router := chi.NewRouter()
	router.Get("/api/analytics/years", Years(log, p, clock))
	router.Get("/api/analytics/yearly", Yearly(log, p, clock))
	router.Get("/api/analytics/person/{id}", Person(log, p))
	router.Get("/api/analytics/mold/{id}", Mold(log, p))
	return router
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestYears(t *testing.T) {
	p := new(MockAnalyticsProvider)
	p.On("GetAllMolds", mock.Anything).Return(fixture(), nil)

	rr := get(newRouter(p), "/api/analytics/years")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[2025,2024]", strings.TrimSpace(rr.Body.String()))
}

func TestYearly(t *testing.T) {
	p := new(MockAnalyticsProvider)
	p.On("GetAllMolds", mock.Anything).Return(fixture(), nil)

	rr := get(newRouter(p), "/api/analytics/yearly?year=2024")
	require.Equal(t, http.StatusOK, rr.Code)

	var stats analytics.YearlyStats
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &stats))
	assert.Equal(t, 2024, stats.Year)
	assert.Equal(t, 1, stats.TotalOps)
	assert.Equal(t, 12.5, stats.TotalHours)
	assert.Equal(t, 1, stats.Monthly[2].Ops)
	assert.Equal(t, 1, stats.CompletedMoldsInYear)

	rr = get(newRouter(p), "/api/analytics/yearly")
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &stats))
	assert.Equal(t, 2025, stats.Year)
	assert.Equal(t, 0, stats.TotalOps)
}

func TestYearly_InvalidYear(t *testing.T) {
	p := new(MockAnalyticsProvider)

	rr := get(newRouter(p), "/api/analytics/yearly?year=abc")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	p.AssertNotCalled(t, "GetAllMolds", mock.Anything)
}

func TestPerson(t *testing.T) {
	p := new(MockAnalyticsProvider)
	p.On("GetAllMolds", mock.Anything).Return(fixture(), nil)
	p.On("GetPerson", mock.Anything, "p-1").Return(&storage.Person{ID: "p-1", Name: "Cem", Role: storage.RoleCamOperator}, nil)

	rr := get(newRouter(p), "/api/analytics/person/p-1")
	require.Equal(t, http.StatusOK, rr.Code)

	var perf analytics.PersonPerformance
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &perf))
	assert.Len(t, perf.Operations, 1)
	require.NotNil(t, perf.AverageRating)
	assert.Equal(t, 8.0, *perf.AverageRating)
}

func TestPerson_NotFound(t *testing.T) {
	p := new(MockAnalyticsProvider)
	p.On("GetAllMolds", mock.Anything).Return(fixture(), nil).Maybe()
	p.On("GetPerson", mock.Anything, "gone").Return(nil, storage.ErrNotFound)

	rr := get(newRouter(p), "/api/analytics/person/gone")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMold(t *testing.T) {
	p := new(MockAnalyticsProvider)
	m := fixture()[0]
	p.On("GetMold", mock.Anything, "m-1").Return(&m, nil)

	rr := get(newRouter(p), "/api/analytics/mold/m-1")
	require.Equal(t, http.StatusOK, rr.Code)

	var report analytics.MoldReport
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &report))
	assert.Equal(t, 12.5, report.TotalManHours)
	assert.Equal(t, analytics.DeadlineEarly, report.Deadline.Kind)
	assert.Equal(t, 2, report.Deadline.Days)
	assert.Equal(t, 7, report.TotalDurationDays)
	assert.Equal(t, 12.5, report.MachineHourDistribution["CNC-01"])
}
