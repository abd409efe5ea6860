package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/pkg/errs"

	"github.com/govalues/decimal"
)

const maxTitleLength = 255

// Request describes the work an order asks for: what is to be built, by when
// and for how much. It is a value object owned by Order; edits produce a new
// Request with Version incremented by one.
//
// Invariants:
//   - the title is non-empty after trimming and at most 255 bytes
//   - the budget is strictly positive
//   - the deadline was in the future when it was set
type Request struct {
	title       string
	description string
	deadline    time.Time
	budget      decimal.Decimal
	version     int64
}

// NewRequest validates the initial request. The deadline is checked
// against now so an order cannot be created already expired.
//
// All field errors are reported together, joined with errors.Join.
//
// Example:
//
//	req, err := order.NewRequest("Oak table", "2m, oiled", deadline, decimal.MustParse("1500"), clock.Now())
//	if err != nil {
//	    return err
//	}
func NewRequest(title, description string, deadline time.Time, budget decimal.Decimal, now time.Time) (Request, error) {
	r := Request{description: description, version: 1}
	if err := errors.Join(
		r.setTitle(title),
		r.setDeadline(deadline, now),
		r.setBudget(budget),
	); err != nil {
		return Request{}, err
	}
	return r, nil
}

// RestoreRequest rebuilds a persisted request without the deadline check.
func RestoreRequest(title, description string, deadline time.Time, budget decimal.Decimal, version int64) (Request, error) {
	r := Request{description: description, deadline: deadline.UTC(), version: version}
	if version < 1 {
		return Request{}, errs.NewValueIsOutOfRangeError("request version", version, 1, "unbounded")
	}
	if err := errors.Join(r.setTitle(title), r.setBudget(budget)); err != nil {
		return Request{}, err
	}
	return r, nil
}

// Title returns the trimmed title.
func (r Request) Title() string {
	return r.title
}

// Description returns the free-form description. It may be empty.
func (r Request) Description() string {
	return r.description
}

// Deadline returns the deadline in UTC. Invitations still unanswered at this
// instant expire.
func (r Request) Deadline() time.Time {
	return r.deadline
}

// Budget returns the amount the commissioner pays on completion. Bonus
// points are derived from it.
func (r Request) Budget() decimal.Decimal {
	return r.budget
}

// Version starts at 1 and grows by one per accepted edit.
func (r Request) Version() int64 {
	return r.version
}

// IsExpired reports whether the deadline is at or before now.
func (r Request) IsExpired(now time.Time) bool {
	return !now.Before(r.deadline)
}

func (r Request) withBudget(budget decimal.Decimal) (Request, error) {
	next := r
	if err := next.setBudget(budget); err != nil {
		return Request{}, err
	}
	next.version++
	return next, nil
}

func (r Request) withDescription(description string) Request {
	next := r
	next.description = description
	next.version++
	return next
}

func (r Request) withDeadline(deadline, now time.Time) (Request, error) {
	next := r
	if err := next.setDeadline(deadline, now); err != nil {
		return Request{}, err
	}
	next.version++
	return next, nil
}

func (r *Request) setTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}
	if len(title) > maxTitleLength {
		return errs.NewValueIsOutOfRangeError("title length", len(title), 1, maxTitleLength)
	}
	r.title = title
	return nil
}

func (r *Request) setDeadline(deadline, now time.Time) error {
	if deadline.IsZero() {
		return errs.NewValueIsRequiredError("deadline")
	}
	if !deadline.After(now) {
		return errs.NewValueIsInvalidErrorWithCause("deadline is invalid", fmt.Errorf("%s is not in the future", deadline.Format(time.RFC3339)))
	}
	r.deadline = deadline.UTC()
	return nil
}

func (r *Request) setBudget(budget decimal.Decimal) error {
	if !budget.IsPos() {
		return errs.NewValueIsInvalidErrorWithCause("budget is invalid", fmt.Errorf("%s is not greater than 0", budget))
	}
	r.budget = budget
	return nil
}
