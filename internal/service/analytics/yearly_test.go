package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mold-tracker/internal/storage"
)

func TestYearly_TotalsPerYear(t *testing.T) {
	molds := []storage.Mold{
		mold("a", storage.MoldMachining,
			done("o1", "CNC", day(2024, time.January, 10), 10),
			done("o2", "CNC", day(2024, time.March, 5), 20),
		),
		mold("b", storage.MoldMachining,
			done("o3", "EROSION", day(2024, time.March, 20), 5),
			done("o4", "CNC", day(2023, time.December, 30), 100),
			storage.Operation{ID: "o5", Status: storage.OpInProgress, DurationInHours: 7},
		),
	}

	y2024 := Yearly(molds, 2024)
	assert.Equal(t, 35.0, y2024.TotalHours)
	assert.Equal(t, 3, y2024.TotalOps)
	assert.Equal(t, MonthBucket{Ops: 1, Hours: 10}, y2024.Monthly[0])
	assert.Equal(t, MonthBucket{Ops: 2, Hours: 25}, y2024.Monthly[2])
	assert.Equal(t, 2, y2024.MaxMonthlyOps)

	y2023 := Yearly(molds, 2023)
	assert.Equal(t, 100.0, y2023.TotalHours)
	assert.Equal(t, 1, y2023.TotalOps)
	assert.Equal(t, 1, y2023.Monthly[11].Ops)
}

func TestYearly_EmptyYearHasHistogramFloor(t *testing.T) {
	stats := Yearly(nil, 2020)
	assert.Equal(t, 0, stats.TotalOps)
	assert.Equal(t, 1, stats.MaxMonthlyOps)
}

func TestYearly_IgnoresUnfinishedAndNonNumericDurations(t *testing.T) {
	completedNoDate := storage.Operation{ID: "x", Status: storage.OpCompleted, DurationInHours: 50}
	finishedButOpen := storage.Operation{ID: "y", Status: storage.OpWaitingSupervisorReview, FinishDate: day(2024, 2, 1), DurationInHours: 9}
	zero := done("z", "CNC", day(2024, 2, 2), 0)

	stats := Yearly([]storage.Mold{mold("a", storage.MoldMachining, completedNoDate, finishedButOpen, zero)}, 2024)
	assert.Equal(t, 1, stats.TotalOps)
	assert.Equal(t, 0.0, stats.TotalHours)
}

func TestYearly_CompletedMoldsUseLatestFinish(t *testing.T) {
	molds := []storage.Mold{
		// finished 2024 overall
		mold("a", storage.MoldCompleted, done("o1", "CNC", day(2023, 11, 1), 1), done("o2", "CNC", day(2024, 1, 3), 1)),
		// not completed
		mold("b", storage.MoldMachining, done("o3", "CNC", day(2024, 2, 1), 1)),
		// completed in 2023
		mold("c", storage.MoldCompleted, done("o4", "CNC", day(2023, 6, 1), 1)),
	}

	assert.Equal(t, 1, Yearly(molds, 2024).CompletedMoldsInYear)
	assert.Equal(t, 1, Yearly(molds, 2023).CompletedMoldsInYear)
}

func TestYearly_OrderIndependent(t *testing.T) {
	a := mold("a", storage.MoldCompleted, done("o1", "CNC", day(2024, 1, 10), 1.1), done("o2", "CNC", day(2024, 1, 11), 2.2))
	b := mold("b", storage.MoldMachining, done("o3", "CNC", day(2024, 5, 1), 3.3))

	assert.Equal(t, Yearly([]storage.Mold{a, b}, 2024), Yearly([]storage.Mold{b, a}, 2024))
}

func TestAvailableYears(t *testing.T) {
	molds := []storage.Mold{
		mold("a", storage.MoldCompleted, done("o1", "CNC", day(2022, 1, 1), 1), done("o2", "CNC", day(2024, 1, 1), 1)),
		mold("b", storage.MoldMachining, storage.Operation{ID: "o3", Status: storage.OpInProgress}),
	}

	assert.Equal(t, []int{2026, 2024, 2022}, AvailableYears(molds, 2026))
	assert.Equal(t, []int{2024, 2022}, AvailableYears(molds, 2024))
	assert.Equal(t, []int{2025}, AvailableYears(nil, 2025))
}
