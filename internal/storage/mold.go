package storage

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Operation is one schedulable piece of machining work.
//
// Operators and machines are referenced by display name, not by id; nothing
// enforces that the names exist in the roster.
type Operation struct {
	ID                  string          `json:"id"`
	Type                string          `json:"type"`
	Status              OperationStatus `json:"status"`
	ProgressPercentage  int             `json:"progressPercentage"`
	AssignedOperator    string          `json:"assignedOperator"`
	MachineName         string          `json:"machineName"`
	MachineOperatorName string          `json:"machineOperatorName"`
	EstimatedDueDate    Date            `json:"estimatedDueDate"`
	StartDate           Date            `json:"startDate"`
	FinishDate          Date            `json:"finishDate"`
	DurationInHours     Hours           `json:"durationInHours"`

	SupervisorRating     *float64 `json:"supervisorRating"`
	SupervisorReviewDate Date     `json:"supervisorReviewDate"`
	SupervisorComment    string   `json:"supervisorComment"`

	CamOperatorRatingForMachineOp  *float64 `json:"camOperatorRatingForMachineOp"`
	CamOperatorCommentForMachineOp string   `json:"camOperatorCommentForMachineOp"`
	CamOperatorReviewDate          Date     `json:"camOperatorReviewDate"`

	// Extra keeps members this version does not know, so that saving a
	// record never drops them.
	Extra map[string]json.RawMessage `json:"-"`
}

var (
	operationKeys = jsonKeys(reflect.TypeOf(Operation{}))
	taskKeys      = jsonKeys(reflect.TypeOf(Task{}))
	moldKeys      = jsonKeys(reflect.TypeOf(Mold{}))
)

// UnmarshalJSON reads progress and ratings leniently: numeric strings are
// accepted, and anything unreadable becomes 0 or "not rated".
func (o *Operation) UnmarshalJSON(b []byte) error {
	type Alias Operation
	aux := struct {
		*Alias
		ProgressPercentage            json.RawMessage `json:"progressPercentage"`
		SupervisorRating              json.RawMessage `json:"supervisorRating"`
		CamOperatorRatingForMachineOp json.RawMessage `json:"camOperatorRatingForMachineOp"`
	}{Alias: (*Alias)(o)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return fmt.Errorf("storage.Operation: %w", err)
	}

	o.ProgressPercentage = loosePercent(aux.ProgressPercentage)
	o.SupervisorRating = looseRating(aux.SupervisorRating)
	o.CamOperatorRatingForMachineOp = looseRating(aux.CamOperatorRatingForMachineOp)

	extra, err := unknownFields(b, operationKeys)
	if err != nil {
		return fmt.Errorf("storage.Operation: %w", err)
	}
	o.Extra = extra
	return nil
}

func (o Operation) MarshalJSON() ([]byte, error) {
	type Alias Operation
	return withExtra(Alias(o), o.Extra)
}

func (o Operation) Completed() bool {
	return o.Status == OpCompleted
}

// Active is true while someone is working on the operation or it waits for review.
func (o Operation) Active() bool {
	return o.Status == OpInProgress || o.Status == OpWaitingSupervisorReview
}

type Task struct {
	ID         string      `json:"id"`
	TaskName   string      `json:"taskName"`
	TaskNumber int         `json:"taskNumber"`
	Operations []Operation `json:"operations"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (t *Task) UnmarshalJSON(b []byte) error {
	type Alias Task
	if err := json.Unmarshal(b, (*Alias)(t)); err != nil {
		return fmt.Errorf("storage.Task: %w", err)
	}

	extra, err := unknownFields(b, taskKeys)
	if err != nil {
		return fmt.Errorf("storage.Task: %w", err)
	}
	t.Extra = extra
	return nil
}

func (t Task) MarshalJSON() ([]byte, error) {
	type Alias Task
	return withExtra(Alias(t), t.Extra)
}

type Mold struct {
	ID              string     `json:"id"`
	MoldName        string     `json:"moldName"`
	Customer        string     `json:"customer"`
	Status          MoldStatus `json:"status"`
	Priority        *int       `json:"priority"`
	MoldDeadline    Date       `json:"moldDeadline"`
	TrialReportURL  string     `json:"trialReportUrl"`
	ProductImageURL string     `json:"productImageUrl"`
	ProjectManager  string     `json:"projectManager"`
	MoldDesigner    string     `json:"moldDesigner"`
	Tasks           []Task     `json:"tasks"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (m *Mold) UnmarshalJSON(b []byte) error {
	type Alias Mold
	if err := json.Unmarshal(b, (*Alias)(m)); err != nil {
		return fmt.Errorf("storage.Mold: %w", err)
	}

	extra, err := unknownFields(b, moldKeys)
	if err != nil {
		return fmt.Errorf("storage.Mold: %w", err)
	}
	m.Extra = extra
	return nil
}

func (m Mold) MarshalJSON() ([]byte, error) {
	type Alias Mold
	return withExtra(Alias(m), m.Extra)
}

// AllOperations flattens the operations of every task, in task order.
// Tasks without operations contribute nothing.
func (m Mold) AllOperations() []Operation {
	var ops []Operation
	for _, t := range m.Tasks {
		ops = append(ops, t.Operations...)
	}
	return ops
}

func (m *Mold) FindTask(taskID string) (*Task, error) {
	for i := range m.Tasks {
		if m.Tasks[i].ID == taskID {
			return &m.Tasks[i], nil
		}
	}
	return nil, ErrTaskNotFound
}

func (m *Mold) FindOperation(taskID, opID string) (*Operation, error) {
	task, err := m.FindTask(taskID)
	if err != nil {
		return nil, err
	}
	for i := range task.Operations {
		if task.Operations[i].ID == opID {
			return &task.Operations[i], nil
		}
	}
	return nil, ErrOperationNotFound
}

// MoldNote is a freeform side record attached to a mold. Notes go away with
// their mold.
type MoldNote struct {
	ID        string `json:"id"`
	MoldID    string `json:"moldId"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt Date   `json:"createdAt"`
}
