// Package migrate upgrades stored molds to the canonical shape and seeds
// reference data on an empty installation.
package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"mold-tracker/internal/constants"
	"mold-tracker/internal/service/status"
	"mold-tracker/internal/storage"
)

// Mold fields introduced after the first release. Records written before them
// get the zero value ("" or null) written explicitly.
var optionalMoldFields = []string{
	"moldDeadline",
	"priority",
	"trialReportUrl",
	"productImageUrl",
	"projectManager",
	"moldDesigner",
}

// NormalizeDocument decodes a stored mold document and brings it to the
// canonical shape. The bool is false when the document already was canonical,
// in which case the returned mold carries exactly the stored values.
//
// A legacy task has no "operations" key; its flat operation fields are moved
// verbatim onto a single synthesized CNC operation.
func NormalizeDocument(raw []byte) (storage.Mold, bool, error) {
	const op = "service.migrate.NormalizeDocument"

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return storage.Mold{}, false, fmt.Errorf("%s: decode document: %w", op, err)
	}

	var mold storage.Mold
	if err := json.Unmarshal(raw, &mold); err != nil {
		return storage.Mold{}, false, fmt.Errorf("%s: decode mold: %w", op, err)
	}

	changed := false
	for _, key := range optionalMoldFields {
		if _, ok := fields[key]; !ok {
			changed = true
		}
	}

	var rawTasks []json.RawMessage
	if tasksRaw, ok := fields["tasks"]; ok && !isNull(tasksRaw) {
		if err := json.Unmarshal(tasksRaw, &rawTasks); err != nil {
			return storage.Mold{}, false, fmt.Errorf("%s: decode tasks: %w", op, err)
		}
	}
	if mold.Tasks == nil {
		mold.Tasks = []storage.Task{}
		changed = true
	}

	for i, rt := range rawTasks {
		var taskFields map[string]json.RawMessage
		if err := json.Unmarshal(rt, &taskFields); err != nil {
			return storage.Mold{}, false, fmt.Errorf("%s: decode task %d: %w", op, i, err)
		}
		if ops, ok := taskFields["operations"]; ok && !isNull(ops) {
			continue
		}

		legacy, err := legacyOperation(mold.Tasks[i].ID, rt)
		if err != nil {
			return storage.Mold{}, false, fmt.Errorf("%s: task %q: %w", op, mold.Tasks[i].ID, err)
		}
		mold.Tasks[i].Operations = []storage.Operation{legacy}
		// the flat fields now live on the operation
		mold.Tasks[i].Extra = nil
		changed = true
	}

	if mold.Status == "" || string(mold.Status) == constants.LegacyDefaultMoldStatus {
		if derived := status.Derive(mold); derived != mold.Status {
			mold.Status = derived
			changed = true
		}
	}

	return mold, changed, nil
}

// Keys of the legacy task record that stay on the task.
var legacyTaskKeys = []string{"taskName", "taskNumber", "operations"}

// legacyOperation reads the flat task record as an operation. Every field the
// legacy task carried lands on the operation under the same name, including
// the ones the operation does not model.
func legacyOperation(taskID string, raw json.RawMessage) (storage.Operation, error) {
	var legacy storage.Operation
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return storage.Operation{}, fmt.Errorf("decode legacy fields: %w", err)
	}
	for _, k := range legacyTaskKeys {
		delete(legacy.Extra, k)
	}
	if len(legacy.Extra) == 0 {
		legacy.Extra = nil
	}

	legacy.ID = taskID + "-op-1"
	legacy.Type = constants.LegacyOperationType
	if legacy.Status == "" {
		legacy.Status = storage.OpNotStarted
	}

	return legacy, nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

type MoldDocuments interface {
	GetMoldDocuments(ctx context.Context) ([]storage.RawDocument, error)
	SaveMold(ctx context.Context, mold storage.Mold) error
}

type Normalizer struct {
	log     *slog.Logger
	storage MoldDocuments
}

func NewNormalizer(log *slog.Logger, storage MoldDocuments) *Normalizer {
	return &Normalizer{log: log, storage: storage}
}

type Summary struct {
	Scanned  int `json:"scanned"`
	Migrated int `json:"migrated"`
	Failed   int `json:"failed"`
}

// Run normalizes every stored mold. Molds are handled one by one: a mold that
// fails to decode or save is logged and skipped, nothing is rolled back.
func (n *Normalizer) Run(ctx context.Context) (Summary, error) {
	const op = "service.migrate.Normalizer.Run"

	docs, err := n.storage.GetMoldDocuments(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: load molds: %w", op, err)
	}

	var sum Summary
	for _, doc := range docs {
		sum.Scanned++

		mold, changed, err := NormalizeDocument(doc.Doc)
		if err != nil {
			sum.Failed++
			n.log.Error("mold normalization failed", slog.String("op", op), slog.String("mold_id", doc.ID), slog.String("error", err.Error()))
			continue
		}
		if mold.ID != doc.ID {
			mold.ID = doc.ID
			changed = true
		}
		if !changed {
			continue
		}

		if err := n.storage.SaveMold(ctx, mold); err != nil {
			sum.Failed++
			n.log.Error("saving normalized mold failed", slog.String("op", op), slog.String("mold_id", doc.ID), slog.String("error", err.Error()))
			continue
		}
		sum.Migrated++
	}

	n.log.Info("mold normalization finished",
		slog.Int("scanned", sum.Scanned),
		slog.Int("migrated", sum.Migrated),
		slog.Int("failed", sum.Failed),
	)

	return sum, nil
}
