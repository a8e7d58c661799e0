package analytics

import "mold-tracker/internal/storage"

type PersonPerformance struct {
	PersonID   string         `json:"personId"`
	Name       string         `json:"name"`
	Role       storage.Role   `json:"role"`
	Operations []OperationRef `json:"operations"`
	RatedCount int            `json:"ratedCount"`
	// AverageRating is nil when none of the operations was rated.
	AverageRating *float64 `json:"averageRating"`
}

// ForPerson collects the completed work of a person and averages the ratings
// they received. CAM operators, supervisors and admins are matched on the
// assigned operator and rated by the supervisor; machine operators are
// matched on the machine operator and rated by the CAM operator. Other roles
// do not own operations.
func ForPerson(molds []storage.Mold, person storage.Person) PersonPerformance {
	perf := PersonPerformance{
		PersonID:   person.ID,
		Name:       person.Name,
		Role:       person.Role,
		Operations: []OperationRef{},
	}

	var (
		match  func(storage.Operation) bool
		rating func(storage.Operation) *float64
	)
	switch person.Role {
	case storage.RoleCamOperator, storage.RoleSupervisor, storage.RoleAdmin:
		match = func(op storage.Operation) bool { return op.AssignedOperator == person.Name }
		rating = func(op storage.Operation) *float64 { return op.SupervisorRating }
	case storage.RoleMachineOperator:
		match = func(op storage.Operation) bool { return op.MachineOperatorName == person.Name }
		rating = func(op storage.Operation) *float64 { return op.CamOperatorRatingForMachineOp }
	default:
		return perf
	}

	perf.Operations = collect(molds, func(op storage.Operation) bool {
		return op.Completed() && match(op)
	})
	sortByFinishDesc(perf.Operations)

	var ratings []float64
	for _, ref := range perf.Operations {
		if r := rating(ref.Operation); r != nil {
			ratings = append(ratings, *r)
		}
	}
	perf.RatedCount = len(ratings)
	perf.AverageRating = mean(ratings)

	return perf
}
