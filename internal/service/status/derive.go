// Package status rolls operation statuses up into task and mold statuses.
package status

import "mold-tracker/internal/storage"

// EmptyOperationsStatus is the aggregate of a task or mold that has no
// operations at all. Older clients disagreed on this case (one path said
// NOT_STARTED, another IN_PROGRESS); it is pinned here.
const EmptyOperationsStatus = storage.OpNotStarted

// Aggregate reduces a set of operation statuses to NOT_STARTED, IN_PROGRESS
// or COMPLETED. The result depends only on which statuses occur, not on
// their order.
func Aggregate(statuses []storage.OperationStatus) storage.OperationStatus {
	if len(statuses) == 0 {
		return EmptyOperationsStatus
	}

	allCompleted, allNotStarted := true, true
	for _, s := range statuses {
		switch s {
		case storage.OpInProgress, storage.OpWaitingSupervisorReview:
			return storage.OpInProgress
		case storage.OpCompleted:
			allNotStarted = false
		case storage.OpNotStarted:
			allCompleted = false
		default:
			// unknown values count as work that has not started
			allCompleted = false
		}
	}

	switch {
	case allCompleted:
		return storage.OpCompleted
	case allNotStarted:
		return storage.OpNotStarted
	default:
		return storage.OpInProgress
	}
}

func statusesOf(ops []storage.Operation) []storage.OperationStatus {
	out := make([]storage.OperationStatus, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.Status)
	}
	return out
}

func TaskStatus(task storage.Task) storage.OperationStatus {
	return Aggregate(statusesOf(task.Operations))
}

// MoldAggregate is the aggregate over every operation of every task.
func MoldAggregate(mold storage.Mold) storage.OperationStatus {
	return Aggregate(statusesOf(mold.AllOperations()))
}

// MoldStatus maps an aggregate into the mold vocabulary. A running mold keeps
// the workshop stage it is already in; administrative statuses are never
// overridden.
func MoldStatus(aggregate storage.OperationStatus, current storage.MoldStatus) storage.MoldStatus {
	if current.Administrative() {
		return current
	}

	switch aggregate {
	case storage.OpCompleted:
		return storage.MoldCompleted
	case storage.OpNotStarted:
		return storage.MoldNotStarted
	default:
		if current.InProgressStage() {
			return current
		}
		return storage.MoldMachining
	}
}

// Derive returns the status the mold should carry given its operations.
// Derive(m) with m.Status set to Derive(m) yields the same value again.
func Derive(mold storage.Mold) storage.MoldStatus {
	return MoldStatus(MoldAggregate(mold), mold.Status)
}

// Consistent reports whether s may be persisted for mold: either the
// derivation produces it or it is an administrative status.
func Consistent(mold storage.Mold, s storage.MoldStatus) bool {
	if s.Administrative() {
		return true
	}
	candidate := mold
	candidate.Status = s
	return Derive(candidate) == s
}
