package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mold-tracker/internal/constants"
	"mold-tracker/internal/storage"
)

func TestForMold_HourDistribution(t *testing.T) {
	c1 := done("o1", "CNC", day(2024, 1, 5), 8)
	c1.MachineName = "CNC-01"
	c2 := done("o2", "CNC", day(2024, 1, 6), 12)
	c2.MachineName = constants.UnsetMachinePlaceholder
	e1 := done("o3", "EROSION", day(2024, 1, 7), 5)
	open := storage.Operation{ID: "o4", Type: "GRINDING", Status: storage.OpInProgress, DurationInHours: 99, MachineName: "GR-01"}

	report := ForMold(mold("a", storage.MoldMachining, c1, c2, e1, open))

	assert.Equal(t, map[string]float64{"CNC": 20, "EROSION": 5}, report.OpHourDistribution)
	assert.Equal(t, 25.0, report.TotalManHours)
	assert.Equal(t, map[string]int{"CNC": 2, "EROSION": 1, "GRINDING": 1}, report.OpDistribution)
	assert.Equal(t, map[string]float64{"CNC-01": 8, constants.UnassignedMachineBucket: 17}, report.MachineHourDistribution)
}

func TestForMold_Dates(t *testing.T) {
	o1 := done("o1", "CNC", storage.NewDate(time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)), 1)
	o1.StartDate = storage.NewDate(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	o2 := storage.Operation{ID: "o2", Status: storage.OpInProgress, StartDate: storage.NewDate(time.Date(2023, 12, 31, 8, 0, 0, 0, time.UTC))}
	o3 := storage.Operation{ID: "o3", Status: storage.OpNotStarted}

	report := ForMold(mold("a", storage.MoldMachining, o1, o2, o3))

	require.NotNil(t, report.FirstStartDate)
	require.NotNil(t, report.LastFinishDate)
	assert.Equal(t, 2023, report.FirstStartDate.Year())
	assert.Equal(t, 3, report.LastFinishDate.Day())
	// 3 days 2 hours rounds up
	assert.Equal(t, 4, report.TotalDurationDays)
}

func TestForMold_MissingBounds(t *testing.T) {
	report := ForMold(mold("a", storage.MoldNotStarted, storage.Operation{ID: "o1", Status: storage.OpNotStarted}))

	assert.Nil(t, report.FirstStartDate)
	assert.Nil(t, report.LastFinishDate)
	assert.Zero(t, report.TotalDurationDays)
	assert.Nil(t, report.AverageQuality)
	assert.Equal(t, DeadlineStatus{Kind: DeadlineUndetermined}, report.Deadline)
}

func TestForMold_Deadline(t *testing.T) {
	tests := []struct {
		name     string
		deadline storage.Date
		finish   storage.Date
		want     DeadlineStatus
	}{
		{"three days early", day(2024, 5, 10), day(2024, 5, 7), DeadlineStatus{Kind: DeadlineEarly, Days: 3}},
		{"four days late", day(2024, 5, 10), day(2024, 5, 14), DeadlineStatus{Kind: DeadlineLate, Days: 4}},
		{"on the day", day(2024, 5, 10), day(2024, 5, 10), DeadlineStatus{Kind: DeadlineEarly, Days: 0}},
		{"no finish yet", day(2024, 5, 10), storage.Date{}, DeadlineStatus{Kind: DeadlineInProgress}},
		{"no deadline", storage.Date{}, day(2024, 5, 10), DeadlineStatus{Kind: DeadlineUndetermined}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ops []storage.Operation
			if tt.finish.IsSet() {
				ops = append(ops, done("o1", "CNC", tt.finish, 1))
			}
			m := mold("a", storage.MoldMachining, ops...)
			m.MoldDeadline = tt.deadline

			assert.Equal(t, tt.want, ForMold(m).Deadline)
		})
	}
}

func TestForMold_AverageQuality(t *testing.T) {
	o1 := done("o1", "CNC", day(2024, 1, 1), 1)
	o1.SupervisorRating = rating(9)
	o2 := done("o2", "CNC", day(2024, 1, 2), 1)
	o2.SupervisorRating = rating(6)
	o3 := done("o3", "CNC", day(2024, 1, 3), 1)
	pending := storage.Operation{ID: "o4", Status: storage.OpWaitingSupervisorReview, SupervisorRating: rating(1)}

	report := ForMold(mold("a", storage.MoldMachining, o1, o2, o3, pending))
	require.NotNil(t, report.AverageQuality)
	assert.Equal(t, 7.5, *report.AverageQuality)
}
