package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/bonus"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/inbox"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/projection"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"
)

// IngestEventCommandHandler is the idempotent projector of the bonus service.
//
// Handle returns, unwrapped enough for errors.Is:
//   - errs.ErrInvariantViolation for a malformed event, a producer bug
//   - event.ErrUnsupportedSchemaVersion after recording the rejection
//   - event.ErrUnknownEventName for events this build does not know
//
// Everything else happens in one transaction. The inbox insert comes first,
// so a redelivered event finds its entry and changes nothing.
type IngestEventCommandHandler struct {
	uowFactory IngestUoWFactory
	engine     services.VipPolicyEngine
	clock      kernel.Clock
}

// NewIngestEventCommandHandler creates a IngestEventCommandHandler.
func NewIngestEventCommandHandler(
	uowFactory IngestUoWFactory,
	engine services.VipPolicyEngine,
	clock kernel.Clock,
) IngestEventCommandHandler {
	return IngestEventCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		clock:      clock,
	}
}

// Handle decodes one consumed payload and applies it at most once per
// consumer. Unknown schema versions are recorded as rejected and acknowledged.
func (h *IngestEventCommandHandler) Handle(ctx context.Context, cmd IngestEventCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	e, err := event.Decode(cmd.Payload())
	if errors.Is(err, event.ErrUnsupportedSchemaVersion) {
		if rejectErr := h.reject(ctx, cmd, err); rejectErr != nil {
			return rejectErr
		}
		return err
	}
	if err != nil {
		return err
	}

	now := h.clock.Now()
	entry, err := inbox.NewEntry(cmd.Consumer(), e.Meta(), inbox.Processed, "", now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	fresh, err := uow.InboxRepository().Register(ctx, entry)
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	if err = h.project(ctx, uow, e); err != nil {
		return err
	}
	if err = h.accrue(ctx, uow, e, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *IngestEventCommandHandler) reject(ctx context.Context, cmd IngestEventCommand, cause error) error {
	env, err := event.Peek(cmd.Payload())
	if err != nil {
		return err
	}
	entry, err := inbox.NewEntry(cmd.Consumer(), env, inbox.Rejected, cause.Error(), h.clock.Now())
	if err != nil {
		return errs.NewInvariantViolationErrorWithCause("rejected event has no identity", err)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err = uow.InboxRepository().Register(ctx, entry); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (h *IngestEventCommandHandler) project(ctx context.Context, uow IngestUoW, e event.Event) error {
	switch e.(type) {
	case event.GradeAttained, event.VipAccquired, event.VipLost:
		return nil
	}

	repo := uow.CommissionerOrderRepository()
	row, found, err := repo.Get(ctx, e.Meta().AggregateID)
	if err != nil {
		return err
	}
	next, changed := row.Apply(e)
	if !changed {
		return nil
	}
	if !found {
		return repo.Insert(ctx, next)
	}
	return repo.Upsert(ctx, next)
}

// accrue turns order outcomes into points and records the derived grade and
// VIP events in the bonus outbox.
func (h *IngestEventCommandHandler) accrue(ctx context.Context, uow IngestUoW, e event.Event, now time.Time) error {
	var (
		commissionerID kernel.UUID
		delta          int64
	)
	switch ev := e.(type) {
	case event.OrderCompleted:
		points, err := bonus.PointsForCompletedOrder(ev.Budget)
		if err != nil {
			return errs.NewInvariantViolationErrorWithCause("OrderCompleted budget", err)
		}
		commissionerID, delta = ev.CommissionerID, points
	case event.OrderCancelled:
		if ev.CancelledBy != "Commissioner" || ev.PreviousState != projection.StateAwaiting {
			return nil
		}
		commissionerID, delta = ev.CommissionerID, -bonus.CancellationPenalty
	default:
		return nil
	}
	if delta == 0 {
		return nil
	}

	profiles := uow.BonusProfileRepository()
	profile, err := profiles.Get(ctx, commissionerID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		profile, err = bonus.NewProfile(commissionerID)
	}
	if err != nil {
		return err
	}

	policy, err := uow.VipPolicyRepository().Current(ctx)
	if err != nil {
		return err
	}

	next, events, err := h.engine.Evaluate(profile, bonus.AddPoints(profile.Points(), delta), policy, e.Meta().CorrelationID, now)
	if err != nil {
		return err
	}
	if next.Version() == profile.Version() {
		return nil
	}
	if err = profiles.Save(ctx, next); err != nil {
		return err
	}
	return appendEvents(ctx, uow.OutboxRepository(), events, now)
}
