package analytics

import (
	"time"

	"mold-tracker/internal/storage"
)

func day(y int, m time.Month, d int) storage.Date {
	return storage.NewDate(time.Date(y, m, d, 12, 0, 0, 0, time.UTC))
}

func rating(v float64) *float64 {
	return &v
}

func done(id, typ string, finish storage.Date, hours float64) storage.Operation {
	return storage.Operation{
		ID:                 id,
		Type:               typ,
		Status:             storage.OpCompleted,
		ProgressPercentage: 100,
		FinishDate:         finish,
		DurationInHours:    storage.Hours(hours),
	}
}

func mold(id string, status storage.MoldStatus, ops ...storage.Operation) storage.Mold {
	return storage.Mold{
		ID:       id,
		MoldName: "Mold " + id,
		Status:   status,
		Tasks:    []storage.Task{{ID: id + "-t1", TaskName: "Core", Operations: ops}},
	}
}
