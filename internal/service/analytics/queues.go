package analytics

import (
	"sort"

	"mold-tracker/internal/storage"
)

// ActiveOperations is the shop-floor view: everything being worked on.
func ActiveOperations(molds []storage.Mold) []OperationRef {
	refs := collect(molds, func(op storage.Operation) bool {
		return op.Status == storage.OpInProgress
	})
	sortByDueDate(refs)
	return refs
}

// CamQueue is the open work assigned to one CAM operator.
func CamQueue(molds []storage.Mold, operator string) []OperationRef {
	refs := collect(molds, func(op storage.Operation) bool {
		return op.AssignedOperator == operator && !op.Completed()
	})
	sortByDueDate(refs)
	return refs
}

// ReviewQueue lists operations waiting for a supervisor.
func ReviewQueue(molds []storage.Mold) []OperationRef {
	refs := collect(molds, func(op storage.Operation) bool {
		return op.Status == storage.OpWaitingSupervisorReview
	})
	sortByDueDate(refs)
	return refs
}

// History lists completed operations, most recent first.
func History(molds []storage.Mold) []OperationRef {
	refs := collect(molds, storage.Operation.Completed)
	sortByFinishDesc(refs)
	return refs
}

// ByPriority orders molds for the list view: ranked molds first by rank,
// then unranked ones by name. The input slice is not modified.
func ByPriority(molds []storage.Mold) []storage.Mold {
	out := append([]storage.Mold(nil), molds...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Priority, out[j].Priority
		switch {
		case pi != nil && pj == nil:
			return true
		case pi == nil && pj != nil:
			return false
		case pi != nil && pj != nil && *pi != *pj:
			return *pi < *pj
		}
		if out[i].MoldName != out[j].MoldName {
			return out[i].MoldName < out[j].MoldName
		}
		return out[i].ID < out[j].ID
	})
	return out
}
