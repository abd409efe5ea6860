package order

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/govalues/decimal"
)

const (
	// ReasonAllInvitationsDeclined is the cancel reason recorded when every
	// invited workshop declined.
	ReasonAllInvitationsDeclined = "all_invitations_declined"
	// ReasonInvitationsExpired is the cancel reason recorded when the request
	// deadline passed with invitations still pending.
	ReasonInvitationsExpired = "invitations_expired"
)

// ErrOrderIsNotConstructed is returned by every command on a zero Order.
// Use NewOrder or RestoreOrder to obtain a usable value.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root of the workflow.
//
// An Order is never mutated in place. Each command method returns the next
// snapshot along with the events it produced; a failed command returns the
// receiver unchanged and no events. The caller persists the new snapshot and
// the events in one unit of work, using Version for optimistic locking.
//
// Invariants:
//   - IsTerminated is true exactly when State is Cancelled
//   - Tracker agrees with the statuses of Invitations
//   - the stage set is fixed at creation
//
// Example:
//
//	o, events, err := order.NewOrder(id, commissionerID, request, workshops, stages, now)
//	if err != nil {
//	    return err
//	}
//	o, more, err := o.AcceptInvitation(workshops[0], now)
//
// See the package documentation for the lifecycle.
type Order struct {
	id             kernel.UUID
	commissionerID kernel.UUID
	state          State
	isTerminated   bool
	cancelledBy    Party
	cancelReason   string
	request        Request
	invitations    []Invitation
	tracker        InvitationTracker
	stages         StageTracker
	version        int64
	createdAt      time.Time
	lastUpdatedAt  time.Time
	isConstructed  bool
}

// NewOrder is the OrderInit command. Every workshop in workshopIDs receives an
// invitation, and stageNames fixes the stage set for the lifetime of the order.
func NewOrder(
	id, commissionerID kernel.UUID,
	request Request,
	workshopIDs []kernel.UUID,
	stageNames []string,
	now time.Time,
) (Order, []event.Event, error) {
	o := Order{
		state:         PendingWorkshopInvitations,
		request:       request,
		version:       1,
		createdAt:     now.UTC(),
		lastUpdatedAt: now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCommissionerID(commissionerID),
		o.setRequest(request),
		o.setInvitations(workshopIDs),
		o.setStages(stageNames),
	); err != nil {
		return Order{}, nil, err
	}

	initialized := event.OrderInitialized{
		Envelope:       o.envelope(event.OrderInitializedName, now),
		CommissionerID: o.commissionerID,
		Title:          request.Title(),
		Description:    request.Description(),
		Deadline:       request.Deadline(),
		Budget:         request.Budget(),
		WorkshopIDs:    append([]kernel.UUID(nil), workshopIDs...),
		Stages:         o.stages.Names(),
	}
	return o, []event.Event{initialized}, nil
}

// RestoreParams is the persisted form of an Order.
type RestoreParams struct {
	ID             kernel.UUID
	CommissionerID kernel.UUID
	State          State
	IsTerminated   bool
	CancelledBy    Party
	CancelReason   string
	Request        Request
	Invitations    []Invitation
	Tracker        InvitationTracker
	Stages         StageTracker
	Version        int64
	CreatedAt      time.Time
	LastUpdatedAt  time.Time
}

// RestoreOrder rebuilds an order read from storage and checks that the stored
// counters agree with the stored invitations.
func RestoreOrder(p RestoreParams) (Order, error) {
	if err := errors.Join(p.ID.Validate(), p.CommissionerID.Validate(), p.State.Validate()); err != nil {
		return Order{}, err
	}
	if p.Version < 1 {
		return Order{}, errs.NewValueIsOutOfRangeError("order version", p.Version, 1, "unbounded")
	}
	if (p.State == Cancelled) != p.IsTerminated {
		return Order{}, errs.NewInvariantViolationError("an order is terminated exactly when it is cancelled")
	}

	responses, declines := 0, 0
	for _, inv := range p.Invitations {
		switch inv.Status() {
		case InvitationAccepted:
			responses++
		case InvitationDeclined:
			responses++
			declines++
		case InvitationPending:
		}
	}
	if p.Tracker.Total() != len(p.Invitations) || p.Tracker.Responses() != responses || p.Tracker.Declines() != declines {
		return Order{}, errs.NewInvariantViolationError(fmt.Sprintf(
			"invitation tracker %d/%d/%d does not match %d invitations",
			p.Tracker.Total(), p.Tracker.Responses(), p.Tracker.Declines(), len(p.Invitations)))
	}

	return Order{
		id:             p.ID,
		commissionerID: p.CommissionerID,
		state:          p.State,
		isTerminated:   p.IsTerminated,
		cancelledBy:    p.CancelledBy,
		cancelReason:   p.CancelReason,
		request:        p.Request,
		invitations:    append([]Invitation(nil), p.Invitations...),
		tracker:        p.Tracker,
		stages:         p.Stages,
		version:        p.Version,
		createdAt:      p.CreatedAt,
		lastUpdatedAt:  p.LastUpdatedAt,
		isConstructed:  true,
	}, nil
}

// Validate reports ErrOrderIsNotConstructed for a zero Order.
func (o Order) Validate() error {
	if !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identity. Two snapshots of the same order at
// different versions are equal.
func (o Order) IsEqual(other Order) bool {
	return o.id.IsEqual(other.id)
}

// ID returns the order identifier. It is also the partition key of every
// event the order emits.
func (o Order) ID() kernel.UUID {
	return o.id
}

// CommissionerID returns the user who created the order.
func (o Order) CommissionerID() kernel.UUID {
	return o.commissionerID
}

// State returns the current lifecycle state.
func (o Order) State() State {
	return o.state
}

// IsTerminated is true once the order is cancelled. A completed order is not
// terminated, but it accepts no further commands either.
func (o Order) IsTerminated() bool {
	return o.isTerminated
}

// CancelledBy is NoParty unless the order is cancelled.
func (o Order) CancelledBy() Party {
	return o.cancelledBy
}

// CancelReason is empty unless the order is cancelled. System cancellations
// use one of the Reason constants.
func (o Order) CancelReason() string {
	return o.cancelReason
}

// Request returns the current revision of the order request.
func (o Order) Request() Request {
	return o.request
}

// Invitations returns a copy in invitation order.
func (o Order) Invitations() []Invitation {
	return append([]Invitation(nil), o.invitations...)
}

// Tracker returns the invitation response counters.
func (o Order) Tracker() InvitationTracker {
	return o.tracker
}

// Stages returns the stage tracker.
func (o Order) Stages() StageTracker {
	return o.stages
}

// Version starts at 1 and grows by one with every accepted command.
func (o Order) Version() int64 {
	return o.version
}

// CreatedAt is the UTC time the order was initialized.
func (o Order) CreatedAt() time.Time {
	return o.createdAt
}

// LastUpdatedAt is the UTC time of the last accepted command.
func (o Order) LastUpdatedAt() time.Time {
	return o.lastUpdatedAt
}

// AcceptInvitation records an acceptance from an invited workshop.
func (o Order) AcceptInvitation(workshopID kernel.UUID, now time.Time) (Order, []event.Event, error) {
	return o.respond(workshopID, true, now)
}

// DeclineInvitation records a decline from an invited workshop.
func (o Order) DeclineInvitation(workshopID kernel.UUID, now time.Time) (Order, []event.Event, error) {
	return o.respond(workshopID, false, now)
}

func (o Order) respond(workshopID kernel.UUID, accepted bool, now time.Time) (Order, []event.Event, error) {
	op := "decline invitation"
	if accepted {
		op = "accept invitation"
	}

	if err := o.ensureActive(op); err != nil {
		return o, nil, err
	}
	idx := o.invitationIndex(workshopID)
	if idx < 0 {
		return o, nil, errs.NewPreconditionFailedError(op, fmt.Sprintf("workshop %s was not invited", workshopID))
	}
	if o.invitations[idx].Status() != InvitationPending {
		return o, nil, errs.NewPreconditionFailedError(op, fmt.Sprintf("workshop %s has already responded", workshopID))
	}
	tracker, err := o.tracker.Record(accepted)
	if err != nil {
		return o, nil, err
	}

	next := o.next(now)
	next.invitations[idx] = next.invitations[idx].respond(accepted, now)
	next.tracker = tracker

	var events []event.Event
	if accepted {
		events = append(events, event.InvitationAccepted{
			Envelope:       next.envelope(event.InvitationAcceptedName, now),
			CommissionerID: next.commissionerID,
			WorkshopID:     workshopID,
		})
	} else {
		events = append(events, event.InvitationDeclined{
			Envelope:       next.envelope(event.InvitationDeclinedName, now),
			CommissionerID: next.commissionerID,
			WorkshopID:     workshopID,
		})
	}

	if !tracker.Complete() {
		return next, events, nil
	}

	events = append(events, event.AllResponsesReceived{
		Envelope:          next.envelope(event.AllResponsesReceivedName, now),
		CommissionerID:    next.commissionerID,
		Total:             tracker.Total(),
		Declines:          tracker.Declines(),
		AcceptedWorkshops: next.AcceptedWorkshops(),
	})

	if tracker.Exhausted() {
		next.state = Cancelled
		next.isTerminated = true
		next.cancelledBy = PartySystem
		next.cancelReason = ReasonAllInvitationsDeclined
		events = append(events, event.AllInvitationsDeclined{
			Envelope:       next.envelope(event.AllInvitationsDeclinedName, now),
			CommissionerID: next.commissionerID,
		})
		return next, events, nil
	}

	next.state = AwaitingStageConfirmations
	return next, events, nil
}

// AcceptedWorkshops lists workshops that accepted, in invitation order.
func (o Order) AcceptedWorkshops() []kernel.UUID {
	var ids []kernel.UUID
	for _, inv := range o.invitations {
		if inv.Status() == InvitationAccepted {
			ids = append(ids, inv.WorkshopID())
		}
	}
	return ids
}

// MarkStageCompletion is issued by an accepting workshop. Marking a stage that
// is already marked returns the order unchanged and no events.
func (o Order) MarkStageCompletion(workshopID kernel.UUID, stage string, now time.Time) (Order, []event.Event, error) {
	const op = "mark stage completion"

	if err := o.ensureAwaitingStages(op); err != nil {
		return o, nil, err
	}
	idx := o.invitationIndex(workshopID)
	if idx < 0 || o.invitations[idx].Status() != InvitationAccepted {
		return o, nil, errs.NewPreconditionFailedError(op, fmt.Sprintf("workshop %s has not accepted the invitation", workshopID))
	}

	stages, changed, err := o.stages.Mark(stage, workshopID, now)
	if err != nil {
		return o, nil, err
	}
	if !changed {
		return o, nil, nil
	}

	next := o.next(now)
	next.stages = stages
	return next, []event.Event{event.StageMarkedAsCompleted{
		Envelope:   next.envelope(event.StageMarkedAsCompletedName, now),
		WorkshopID: workshopID,
		Stage:      stage,
	}}, nil
}

// ConfirmStageCompletion is issued by the commissioner. Confirming the last
// outstanding stage completes the order.
func (o Order) ConfirmStageCompletion(commissionerID kernel.UUID, stage string, now time.Time) (Order, []event.Event, error) {
	const op = "confirm stage completion"

	if err := o.ensureAwaitingStages(op); err != nil {
		return o, nil, err
	}
	if err := o.ensureCommissioner(op, commissionerID); err != nil {
		return o, nil, err
	}

	stages, err := o.stages.Confirm(stage, now)
	if err != nil {
		return o, nil, err
	}

	next := o.next(now)
	next.stages = stages
	events := []event.Event{event.StageConfirmed{
		Envelope:       next.envelope(event.StageConfirmedName, now),
		CommissionerID: next.commissionerID,
		Stage:          stage,
	}}

	if !stages.AllCompleted() {
		return next, events, nil
	}

	next.state = Completed
	events = append(events,
		event.OrderMarkedAsCompleted{
			Envelope:       next.envelope(event.OrderMarkedAsCompletedName, now),
			CommissionerID: next.commissionerID,
		},
		event.OrderCompleted{
			Envelope:       next.envelope(event.OrderCompletedName, now),
			CommissionerID: next.commissionerID,
			Budget:         next.request.Budget(),
		},
	)
	return next, events, nil
}

// Cancel terminates the order. The commissioner and any invited workshop may
// cancel; PartySystem is reserved for policies and needs no actor.
func (o Order) Cancel(party Party, actorID kernel.UUID, reason string, now time.Time) (Order, []event.Event, error) {
	const op = "cancel order"

	if err := party.Validate(); err != nil {
		return o, nil, err
	}
	if err := o.ensureActive(op); err != nil {
		return o, nil, err
	}

	var actor *kernel.UUID
	switch party {
	case PartyCommissioner:
		if err := o.ensureCommissioner(op, actorID); err != nil {
			return o, nil, err
		}
		actor = &actorID
	case PartyWorkshop:
		if o.invitationIndex(actorID) < 0 {
			return o, nil, errs.NewPreconditionFailedError(op, fmt.Sprintf("workshop %s was not invited", actorID))
		}
		actor = &actorID
	case PartySystem, NoParty:
	}

	next := o.next(now)
	next.state = Cancelled
	next.isTerminated = true
	next.cancelledBy = party
	next.cancelReason = reason

	return next, []event.Event{event.OrderCancelled{
		Envelope:       next.envelope(event.OrderCancelledName, now),
		CommissionerID: next.commissionerID,
		CancelledBy:    party.String(),
		ActorID:        actor,
		Reason:         reason,
		PreviousState:  o.state.String(),
	}}, nil
}

// ExpireInvitations cancels an order whose invitations are still unresolved at
// the request deadline.
func (o Order) ExpireInvitations(now time.Time) (Order, []event.Event, error) {
	const op = "expire invitations"

	if err := o.ensureActive(op); err != nil {
		return o, nil, err
	}
	if o.state != PendingWorkshopInvitations {
		return o, nil, errs.NewPreconditionFailedError(op, fmt.Sprintf("order is %s", o.state))
	}
	if !o.request.IsExpired(now) {
		return o, nil, errs.NewPreconditionFailedError(op, "deadline has not passed")
	}
	return o.Cancel(PartySystem, kernel.UUID{}, ReasonInvitationsExpired, now)
}

// EditBudget replaces the request budget.
func (o Order) EditBudget(commissionerID kernel.UUID, budget decimal.Decimal, now time.Time) (Order, []event.Event, error) {
	return o.editRequest(commissionerID, "budget", now, func(r Request) (Request, error) {
		return r.withBudget(budget)
	})
}

// EditDescription replaces the request description.
func (o Order) EditDescription(commissionerID kernel.UUID, description string, now time.Time) (Order, []event.Event, error) {
	return o.editRequest(commissionerID, "description", now, func(r Request) (Request, error) {
		return r.withDescription(description), nil
	})
}

// EditDeadline moves the request deadline. The new deadline must be after now.
func (o Order) EditDeadline(commissionerID kernel.UUID, deadline time.Time, now time.Time) (Order, []event.Event, error) {
	return o.editRequest(commissionerID, "deadline", now, func(r Request) (Request, error) {
		return r.withDeadline(deadline, now)
	})
}

func (o Order) editRequest(
	commissionerID kernel.UUID,
	field string,
	now time.Time,
	edit func(Request) (Request, error),
) (Order, []event.Event, error) {
	op := "edit request " + field

	if err := o.ensureActive(op); err != nil {
		return o, nil, err
	}
	if err := o.ensureCommissioner(op, commissionerID); err != nil {
		return o, nil, err
	}
	request, err := edit(o.request)
	if err != nil {
		return o, nil, err
	}

	next := o.next(now)
	next.request = request
	return next, []event.Event{event.RequestEdited{
		Envelope:       next.envelope(event.RequestEditedName, now),
		CommissionerID: next.commissionerID,
		Field:          field,
		Title:          request.Title(),
		Description:    request.Description(),
		Deadline:       request.Deadline(),
		Budget:         request.Budget(),
		RequestVersion: request.Version(),
	}}, nil
}

func (o Order) ensureActive(op string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.isTerminated {
		return errs.NewPreconditionFailedError(op, "order is terminated")
	}
	if o.state == Completed {
		return errs.NewPreconditionFailedError(op, "order is completed")
	}
	return nil
}

func (o Order) ensureAwaitingStages(op string) error {
	if err := o.ensureActive(op); err != nil {
		return err
	}
	if o.state != AwaitingStageConfirmations {
		return errs.NewPreconditionFailedError(op, fmt.Sprintf("order is %s", o.state))
	}
	return nil
}

func (o Order) ensureCommissioner(op string, actorID kernel.UUID) error {
	if !o.commissionerID.IsEqual(actorID) {
		return errs.NewPreconditionFailedError(op, fmt.Sprintf("%s is not the commissioner of the order", actorID))
	}
	return nil
}

func (o Order) invitationIndex(workshopID kernel.UUID) int {
	for i, inv := range o.invitations {
		if inv.WorkshopID().IsEqual(workshopID) {
			return i
		}
	}
	return -1
}

// next copies the order for a transition and advances its version.
func (o Order) next(now time.Time) Order {
	n := o
	n.invitations = append([]Invitation(nil), o.invitations...)
	n.version = o.version + 1
	n.lastUpdatedAt = now.UTC()
	return n
}

func (o Order) envelope(name event.Name, now time.Time) event.Envelope {
	return event.NewEnvelope(name, o.id, o.version, o.id.String(), now)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCommissionerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("commissionerId", err)
	}
	o.commissionerID = id
	return nil
}

func (o *Order) setRequest(request Request) error {
	if request.Version() < 1 {
		return errs.NewValueIsRequiredError("request")
	}
	o.request = request
	return nil
}

func (o *Order) setInvitations(workshopIDs []kernel.UUID) error {
	tracker, err := NewInvitationTracker(len(workshopIDs))
	if err != nil {
		return err
	}

	invitations := make([]Invitation, 0, len(workshopIDs))
	for _, id := range workshopIDs {
		if err = id.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("workshopId", err)
		}
		for _, inv := range invitations {
			if inv.workshopID.IsEqual(id) {
				return errs.NewValueIsInvalidErrorWithCause("workshopIds", fmt.Errorf("workshop %s is invited twice", id))
			}
		}
		invitations = append(invitations, Invitation{workshopID: id, status: InvitationPending})
	}

	o.invitations = invitations
	o.tracker = tracker
	return nil
}

func (o *Order) setStages(names []string) error {
	stages, err := NewStageTracker(names)
	if err != nil {
		return err
	}
	o.stages = stages
	return nil
}
