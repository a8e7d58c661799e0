package analytics

import (
	"math"
	"time"

	"mold-tracker/internal/constants"
	"mold-tracker/internal/storage"
)

type DeadlineKind string

const (
	DeadlineEarly        DeadlineKind = "EARLY"
	DeadlineLate         DeadlineKind = "LATE"
	DeadlineInProgress   DeadlineKind = "IN_PROGRESS"
	DeadlineUndetermined DeadlineKind = "UNDETERMINED"
)

// DeadlineStatus compares the deadline with the last finish. Days is the
// absolute number of days early or late; EARLY with 0 days is on time.
type DeadlineStatus struct {
	Kind DeadlineKind `json:"kind"`
	Days int          `json:"days"`
}

type MoldReport struct {
	MoldID                  string             `json:"moldId"`
	MoldName                string             `json:"moldName"`
	FirstStartDate          *time.Time         `json:"firstStartDate"`
	LastFinishDate          *time.Time         `json:"lastFinishDate"`
	TotalDurationDays       int                `json:"totalDurationDays"`
	TotalManHours           float64            `json:"totalManHours"`
	AverageQuality          *float64           `json:"averageQuality"`
	Deadline                DeadlineStatus     `json:"deadlineStatus"`
	OpDistribution          map[string]int     `json:"opDistribution"`
	OpHourDistribution      map[string]float64 `json:"opHourDistribution"`
	MachineHourDistribution map[string]float64 `json:"machineHourDistribution"`
}

func ForMold(mold storage.Mold) MoldReport {
	report := MoldReport{
		MoldID:                  mold.ID,
		MoldName:                mold.MoldName,
		OpDistribution:          map[string]int{},
		OpHourDistribution:      map[string]float64{},
		MachineHourDistribution: map[string]float64{},
	}

	var (
		firstStart, lastFinish storage.Date
		ratings                []float64
	)

	for _, op := range mold.AllOperations() {
		report.OpDistribution[op.Type]++

		if op.StartDate.IsSet() && (!firstStart.IsSet() || op.StartDate.Before(firstStart.Time)) {
			firstStart = op.StartDate
		}

		if !op.Completed() {
			continue
		}

		if op.FinishDate.IsSet() && op.FinishDate.After(lastFinish.Time) {
			lastFinish = op.FinishDate
		}

		hours := float64(op.DurationInHours)
		report.TotalManHours += hours
		report.OpHourDistribution[op.Type] += hours
		report.MachineHourDistribution[machineBucket(op.MachineName)] += hours

		if op.SupervisorRating != nil {
			ratings = append(ratings, *op.SupervisorRating)
		}
	}

	report.FirstStartDate = firstStart.Ptr()
	report.LastFinishDate = lastFinish.Ptr()
	if firstStart.IsSet() && lastFinish.IsSet() {
		days := math.Ceil(lastFinish.Sub(firstStart.Time).Hours() / 24)
		report.TotalDurationDays = int(math.Max(days, 0))
	}

	report.TotalManHours = round(report.TotalManHours, 2)
	for k, v := range report.OpHourDistribution {
		report.OpHourDistribution[k] = round(v, 2)
	}
	for k, v := range report.MachineHourDistribution {
		report.MachineHourDistribution[k] = round(v, 2)
	}

	report.AverageQuality = mean(ratings)
	report.Deadline = deadlineStatus(mold.MoldDeadline, lastFinish)

	return report
}

func deadlineStatus(deadline, lastFinish storage.Date) DeadlineStatus {
	switch {
	case deadline.IsSet() && lastFinish.IsSet():
		diff := daysBetween(lastFinish.Time, deadline.Time)
		if diff >= 0 {
			return DeadlineStatus{Kind: DeadlineEarly, Days: diff}
		}
		return DeadlineStatus{Kind: DeadlineLate, Days: -diff}
	case deadline.IsSet():
		return DeadlineStatus{Kind: DeadlineInProgress}
	default:
		return DeadlineStatus{Kind: DeadlineUndetermined}
	}
}

func machineBucket(name string) string {
	if name == "" || name == constants.UnsetMachinePlaceholder {
		return constants.UnassignedMachineBucket
	}
	return name
}
