package order

import (
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

const maxStageNameLength = 64

// Stage is the two-party handshake for one declared stage: the workshop marks
// it done, then the commissioner confirms.
//
// Lifecycle:
//
//	declared ──(Mark by accepting workshop)──> marked ──(Confirm by commissioner)──> confirmed
//
// A stage is confirmed only after it was marked; RestoreStage enforces this
// for persisted rows as well.
type Stage struct {
	name        string
	markedBy    *kernel.UUID
	markedAt    *time.Time
	confirmedAt *time.Time
}

// RestoreStage rebuilds a persisted stage. A confirmation without a mark is
// rejected.
func RestoreStage(name string, markedBy *kernel.UUID, markedAt, confirmedAt *time.Time) (Stage, error) {
	if name == "" {
		return Stage{}, errs.NewValueIsRequiredError("stage name")
	}
	if (markedBy == nil) != (markedAt == nil) {
		return Stage{}, errs.NewInvariantViolationError(fmt.Sprintf("stage %q mark is incomplete", name))
	}
	if confirmedAt != nil && markedAt == nil {
		return Stage{}, errs.NewInvariantViolationError(fmt.Sprintf("stage %q is confirmed without a mark", name))
	}
	return Stage{name: name, markedBy: markedBy, markedAt: markedAt, confirmedAt: confirmedAt}, nil
}

// Name returns the declared stage name.
func (s Stage) Name() string {
	return s.name
}

// IsMarked reports whether a workshop marked the stage as completed.
func (s Stage) IsMarked() bool {
	return s.markedAt != nil
}

// IsConfirmed reports whether the commissioner confirmed the stage.
func (s Stage) IsConfirmed() bool {
	return s.confirmedAt != nil
}

// MarkedBy returns the workshop that marked the stage, or nil.
func (s Stage) MarkedBy() *kernel.UUID {
	return s.markedBy
}

// MarkedAt returns when the stage was marked, or nil.
func (s Stage) MarkedAt() *time.Time {
	return s.markedAt
}

// ConfirmedAt returns when the stage was confirmed, or nil.
func (s Stage) ConfirmedAt() *time.Time {
	return s.confirmedAt
}

// StageTracker holds the stage set declared at order creation, in declaration
// order. The set never changes afterwards.
//
// StageTracker is a value: Mark and Confirm return an updated copy that
// shares nothing mutable with the receiver.
type StageTracker struct {
	stages []Stage
}

// NewStageTracker declares the stages of a new order. Names are trimmed and
// must be non-empty, at most 64 bytes and distinct.
//
// Example:
//
//	stages, err := order.NewStageTracker([]string{"Design", "Build", "Delivery"})
func NewStageTracker(names []string) (StageTracker, error) {
	if len(names) == 0 {
		return StageTracker{}, errs.NewValueIsRequiredError("stages")
	}

	seen := make(map[string]struct{}, len(names))
	stages := make([]Stage, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return StageTracker{}, errs.NewValueIsRequiredError("stage name")
		}
		if len(name) > maxStageNameLength {
			return StageTracker{}, errs.NewValueIsOutOfRangeError("stage name length", len(name), 1, maxStageNameLength)
		}
		if _, dup := seen[name]; dup {
			return StageTracker{}, errs.NewValueIsInvalidErrorWithCause("stages", fmt.Errorf("stage %q is declared twice", name))
		}
		seen[name] = struct{}{}
		stages = append(stages, Stage{name: name})
	}
	return StageTracker{stages: stages}, nil
}

// RestoreStageTracker rebuilds a persisted tracker from stages in declaration
// order.
func RestoreStageTracker(stages []Stage) (StageTracker, error) {
	if len(stages) == 0 {
		return StageTracker{}, errs.NewValueIsRequiredError("stages")
	}
	return StageTracker{stages: append([]Stage(nil), stages...)}, nil
}

// Stages returns a copy of the declared stages.
func (t StageTracker) Stages() []Stage {
	return append([]Stage(nil), t.stages...)
}

// Names returns the declared stage names in declaration order.
func (t StageTracker) Names() []string {
	names := make([]string, len(t.stages))
	for i, s := range t.stages {
		names[i] = s.name
	}
	return names
}

// Stage looks up a declared stage by name. The second result is false for
// names that were never declared.
func (t StageTracker) Stage(name string) (Stage, bool) {
	idx := t.indexOf(name)
	if idx < 0 {
		return Stage{}, false
	}
	return t.stages[idx], true
}

// Mark records the workshop side of the handshake. Marking an already marked
// stage reports changed == false and returns the tracker unchanged.
func (t StageTracker) Mark(name string, workshopID kernel.UUID, now time.Time) (next StageTracker, changed bool, err error) {
	idx := t.indexOf(name)
	if idx < 0 {
		return t, false, errs.NewPreconditionFailedError("mark stage completion", fmt.Sprintf("stage %q is not declared", name))
	}
	if t.stages[idx].IsMarked() {
		return t, false, nil
	}

	next = t.clone()
	by, at := workshopID, now
	next.stages[idx].markedBy = &by
	next.stages[idx].markedAt = &at
	return next, true, nil
}

// Confirm records the commissioner side of the handshake. It requires a prior
// mark and fails if the stage is already confirmed.
func (t StageTracker) Confirm(name string, now time.Time) (StageTracker, error) {
	const op = "confirm stage completion"

	idx := t.indexOf(name)
	if idx < 0 {
		return t, errs.NewPreconditionFailedError(op, fmt.Sprintf("stage %q is not declared", name))
	}
	if !t.stages[idx].IsMarked() {
		return t, errs.NewPreconditionFailedError(op, fmt.Sprintf("stage %q has not been marked as completed", name))
	}
	if t.stages[idx].IsConfirmed() {
		return t, errs.NewPreconditionFailedError(op, fmt.Sprintf("stage %q is already confirmed", name))
	}

	next := t.clone()
	at := now
	next.stages[idx].confirmedAt = &at
	return next, nil
}

// AllCompleted is true once every declared stage is marked and confirmed.
func (t StageTracker) AllCompleted() bool {
	if len(t.stages) == 0 {
		return false
	}
	for _, s := range t.stages {
		if !s.IsMarked() || !s.IsConfirmed() {
			return false
		}
	}
	return true
}

func (t StageTracker) indexOf(name string) int {
	for i, s := range t.stages {
		if s.name == name {
			return i
		}
	}
	return -1
}

func (t StageTracker) clone() StageTracker {
	return StageTracker{stages: append([]Stage(nil), t.stages...)}
}
