// Package analytics computes the read-only views shown on the dashboards.
// Every function is pure: it only reads the collections it is given.
package analytics

import (
	"math"
	"sort"
	"time"

	"mold-tracker/internal/storage"
)

// OperationRef locates an operation inside the mold tree for list views.
type OperationRef struct {
	MoldID    string            `json:"moldId"`
	MoldName  string            `json:"moldName"`
	TaskID    string            `json:"taskId"`
	TaskName  string            `json:"taskName"`
	Operation storage.Operation `json:"operation"`
}

func collect(molds []storage.Mold, keep func(storage.Operation) bool) []OperationRef {
	refs := []OperationRef{}
	for _, m := range molds {
		for _, t := range m.Tasks {
			for _, op := range t.Operations {
				if !keep(op) {
					continue
				}
				refs = append(refs, OperationRef{
					MoldID:    m.ID,
					MoldName:  m.MoldName,
					TaskID:    t.ID,
					TaskName:  t.TaskName,
					Operation: op,
				})
			}
		}
	}
	return refs
}

func refLess(a, b OperationRef) bool {
	if a.MoldID != b.MoldID {
		return a.MoldID < b.MoldID
	}
	if a.TaskID != b.TaskID {
		return a.TaskID < b.TaskID
	}
	return a.Operation.ID < b.Operation.ID
}

// sortByFinishDesc puts the most recently finished first.
func sortByFinishDesc(refs []OperationRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		fi, fj := refs[i].Operation.FinishDate.Time, refs[j].Operation.FinishDate.Time
		if !fi.Equal(fj) {
			return fi.After(fj)
		}
		return refLess(refs[i], refs[j])
	})
}

// sortByDueDate puts the earliest due first and undated work last.
func sortByDueDate(refs []OperationRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		di, dj := refs[i].Operation.EstimatedDueDate, refs[j].Operation.EstimatedDueDate
		switch {
		case di.IsSet() && !dj.IsSet():
			return true
		case !di.IsSet() && dj.IsSet():
			return false
		case !di.Equal(dj.Time):
			return di.Before(dj.Time)
		}
		return refLess(refs[i], refs[j])
	})
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// mean returns nil when there is nothing to average, so "no ratings" never
// reads as a rating of 0.
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := round(sum/float64(len(values)), 1)
	return &avg
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween is the number of calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(math.Round(calendarDay(b).Sub(calendarDay(a)).Hours() / 24))
}
