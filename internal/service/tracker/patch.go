package tracker

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"mold-tracker/internal/access"
	"mold-tracker/internal/storage"
)

// OperationPatch carries the fields a client wants to change; nil means
// leave as is.
type OperationPatch struct {
	Type                *string                  `json:"type"`
	Status              *storage.OperationStatus `json:"status"`
	ProgressPercentage  *int                     `json:"progressPercentage"`
	AssignedOperator    *string                  `json:"assignedOperator"`
	MachineName         *string                  `json:"machineName"`
	MachineOperatorName *string                  `json:"machineOperatorName"`
	EstimatedDueDate    *storage.Date            `json:"estimatedDueDate"`
	StartDate           *storage.Date            `json:"startDate"`
	FinishDate          *storage.Date            `json:"finishDate"`
	DurationInHours     *storage.Hours           `json:"durationInHours"`

	SupervisorRating  *float64 `json:"supervisorRating"`
	SupervisorComment *string  `json:"supervisorComment"`

	CamOperatorRatingForMachineOp  *float64 `json:"camOperatorRatingForMachineOp"`
	CamOperatorCommentForMachineOp *string  `json:"camOperatorCommentForMachineOp"`
}

// fieldGroups lists the groups the patch touches.
func (p OperationPatch) fieldGroups() []access.FieldGroup {
	var groups []access.FieldGroup
	if p.Status != nil || p.ProgressPercentage != nil || p.StartDate != nil ||
		p.FinishDate != nil || p.DurationInHours != nil {
		groups = append(groups, access.FieldsProgress)
	}
	if p.Type != nil || p.AssignedOperator != nil || p.MachineName != nil ||
		p.MachineOperatorName != nil || p.EstimatedDueDate != nil {
		groups = append(groups, access.FieldsPlanning)
	}
	if p.SupervisorRating != nil || p.SupervisorComment != nil {
		groups = append(groups, access.FieldsReview)
	}
	if p.CamOperatorRatingForMachineOp != nil || p.CamOperatorCommentForMachineOp != nil {
		groups = append(groups, access.FieldsCamReview)
	}
	return groups
}

// newOperationGroups lists the groups an appended operation needs. Adding
// work is planning; anything beyond a fresh operation needs the matching group too.
func newOperationGroups(o storage.Operation) []access.FieldGroup {
	groups := []access.FieldGroup{access.FieldsPlanning}
	if (o.Status != "" && o.Status != storage.OpNotStarted) || o.ProgressPercentage != 0 ||
		o.StartDate.IsSet() || o.FinishDate.IsSet() || o.DurationInHours != 0 {
		groups = append(groups, access.FieldsProgress)
	}
	if o.SupervisorRating != nil || o.SupervisorComment != "" {
		groups = append(groups, access.FieldsReview)
	}
	if o.CamOperatorRatingForMachineOp != nil || o.CamOperatorCommentForMachineOp != "" {
		groups = append(groups, access.FieldsCamReview)
	}
	return groups
}

func authorize(role storage.Role, groups []access.FieldGroup) error {
	for _, g := range groups {
		if !access.CanEdit(role, g) {
			return fmt.Errorf("%w: %s fields", ErrForbidden, g)
		}
	}
	return nil
}

func validRating(r *float64) bool {
	return r == nil || (*r >= 0 && *r <= 10)
}

// ApplyPatch changes op and then restores the operation invariants.
func ApplyPatch(op *storage.Operation, p OperationPatch, now time.Time) error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown operation status %q", ErrInvalidInput, *p.Status)
	}
	if p.ProgressPercentage != nil && (*p.ProgressPercentage < 0 || *p.ProgressPercentage > 100) {
		return fmt.Errorf("%w: progress must be between 0 and 100", ErrInvalidInput)
	}
	if !validRating(p.SupervisorRating) || !validRating(p.CamOperatorRatingForMachineOp) {
		return fmt.Errorf("%w: rating must be between 0 and 10", ErrInvalidInput)
	}
	if p.Type != nil && *p.Type == "" {
		return fmt.Errorf("%w: operation type is required", ErrInvalidInput)
	}

	wasCompleted := op.Completed()

	setString(&op.Type, p.Type)
	setString(&op.AssignedOperator, p.AssignedOperator)
	setString(&op.MachineName, p.MachineName)
	setString(&op.MachineOperatorName, p.MachineOperatorName)
	setString(&op.SupervisorComment, p.SupervisorComment)
	setString(&op.CamOperatorCommentForMachineOp, p.CamOperatorCommentForMachineOp)

	if p.Status != nil {
		op.Status = *p.Status
	}
	if p.ProgressPercentage != nil {
		op.ProgressPercentage = *p.ProgressPercentage
	}
	if p.EstimatedDueDate != nil {
		op.EstimatedDueDate = *p.EstimatedDueDate
	}
	if p.StartDate != nil {
		op.StartDate = *p.StartDate
	}
	if p.FinishDate != nil {
		op.FinishDate = *p.FinishDate
	}
	if p.DurationInHours != nil {
		op.DurationInHours = *p.DurationInHours
	} else if wasCompleted && !op.Completed() {
		// reopened; the next completion measures again
		op.DurationInHours = 0
	}
	if p.SupervisorRating != nil {
		op.SupervisorRating = p.SupervisorRating
		op.SupervisorReviewDate = storage.NewDate(now)
	}
	if p.CamOperatorRatingForMachineOp != nil {
		op.CamOperatorRatingForMachineOp = p.CamOperatorRatingForMachineOp
		op.CamOperatorReviewDate = storage.NewDate(now)
	}

	enforceInvariants(op, now)
	return nil
}

// enforceInvariants keeps finishDate, progress and duration in line with the
// status: a completed operation always has a finish date and 100%, anything
// else has no finish date.
func enforceInvariants(op *storage.Operation, now time.Time) {
	if op.Status == "" {
		op.Status = storage.OpNotStarted
	}

	switch op.Status {
	case storage.OpCompleted:
		op.ProgressPercentage = 100
		if !op.FinishDate.IsSet() {
			op.FinishDate = storage.NewDate(now)
		}
		if op.DurationInHours == 0 && op.StartDate.IsSet() && op.FinishDate.After(op.StartDate.Time) {
			hours := op.FinishDate.Sub(op.StartDate.Time).Hours()
			op.DurationInHours = storage.Hours(math.Round(hours*10) / 10)
		}
	case storage.OpInProgress, storage.OpWaitingSupervisorReview:
		op.FinishDate = storage.Date{}
		if !op.StartDate.IsSet() {
			op.StartDate = storage.NewDate(now)
		}
	default:
		op.FinishDate = storage.Date{}
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// OptionalInt tells "absent" apart from an explicit null.
type OptionalInt struct {
	Set   bool
	Value *int
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MoldPatch changes mold-level fields; tasks are never touched by it.
type MoldPatch struct {
	MoldName        *string             `json:"moldName"`
	Customer        *string             `json:"customer"`
	Status          *storage.MoldStatus `json:"status"`
	Priority        OptionalInt         `json:"priority"`
	MoldDeadline    *storage.Date       `json:"moldDeadline"`
	TrialReportURL  *string             `json:"trialReportUrl"`
	ProductImageURL *string             `json:"productImageUrl"`
	ProjectManager  *string             `json:"projectManager"`
	MoldDesigner    *string             `json:"moldDesigner"`
}

func (p MoldPatch) fieldGroups() []access.FieldGroup {
	if p.MoldName != nil || p.Customer != nil || p.Status != nil || p.Priority.Set ||
		p.MoldDeadline != nil || p.TrialReportURL != nil || p.ProductImageURL != nil ||
		p.ProjectManager != nil || p.MoldDesigner != nil {
		return []access.FieldGroup{access.FieldsMold}
	}
	return nil
}

func (p MoldPatch) apply(m *storage.Mold) {
	setString(&m.MoldName, p.MoldName)
	setString(&m.Customer, p.Customer)
	setString(&m.TrialReportURL, p.TrialReportURL)
	setString(&m.ProductImageURL, p.ProductImageURL)
	setString(&m.ProjectManager, p.ProjectManager)
	setString(&m.MoldDesigner, p.MoldDesigner)

	if p.Priority.Set {
		m.Priority = p.Priority.Value
	}
	if p.MoldDeadline != nil {
		m.MoldDeadline = *p.MoldDeadline
	}
}
