package analytics

import (
	"sort"

	"mold-tracker/internal/storage"
)

type MonthBucket struct {
	Ops   int     `json:"ops"`
	Hours float64 `json:"hours"`
}

type YearlyStats struct {
	Year                 int             `json:"year"`
	TotalHours           float64         `json:"totalHours"`
	TotalOps             int             `json:"totalOps"`
	CompletedMoldsInYear int             `json:"completedMoldsInYear"`
	Monthly              [12]MonthBucket `json:"monthlyData"`
	// MaxMonthlyOps scales the histogram; it is never below 1.
	MaxMonthlyOps int `json:"maxMonthlyOps"`
}

// Yearly aggregates the operations completed in year.
func Yearly(molds []storage.Mold, year int) YearlyStats {
	stats := YearlyStats{Year: year}

	for _, m := range molds {
		var lastFinish storage.Date
		for _, op := range m.AllOperations() {
			if op.FinishDate.IsSet() && op.FinishDate.After(lastFinish.Time) {
				lastFinish = op.FinishDate
			}

			if !op.Completed() || !op.FinishDate.IsSet() || op.FinishDate.Year() != year {
				continue
			}

			hours := float64(op.DurationInHours)
			stats.TotalOps++
			stats.TotalHours += hours

			month := op.FinishDate.Month() - 1
			stats.Monthly[month].Ops++
			stats.Monthly[month].Hours += hours
		}

		if m.Status == storage.MoldCompleted && lastFinish.IsSet() && lastFinish.Year() == year {
			stats.CompletedMoldsInYear++
		}
	}

	stats.TotalHours = round(stats.TotalHours, 2)
	stats.MaxMonthlyOps = 1
	for i := range stats.Monthly {
		stats.Monthly[i].Hours = round(stats.Monthly[i].Hours, 2)
		if stats.Monthly[i].Ops > stats.MaxMonthlyOps {
			stats.MaxMonthlyOps = stats.Monthly[i].Ops
		}
	}

	return stats
}

// AvailableYears is currentYear plus every year some operation finished in,
// newest first.
func AvailableYears(molds []storage.Mold, currentYear int) []int {
	seen := map[int]bool{currentYear: true}
	for _, m := range molds {
		for _, op := range m.AllOperations() {
			if op.FinishDate.IsSet() {
				seen[op.FinishDate.Year()] = true
			}
		}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	return years
}
