// Package http exposes the workflow and bonus use cases over echo. Routes and
// parameter binding come from the generated servers packages.
package http

import (
	"context"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/generated/servers/workflowapi"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/labstack/echo/v4"
)

type (
	InitOrderHandler interface {
		Handle(ctx context.Context, cmd commands.InitOrderCommand) error
	}
	RespondToInvitationHandler interface {
		Handle(ctx context.Context, cmd commands.RespondToInvitationCommand) error
	}
	MarkStageCompletionHandler interface {
		Handle(ctx context.Context, cmd commands.MarkStageCompletionCommand) error
	}
	ConfirmStageCompletionHandler interface {
		Handle(ctx context.Context, cmd commands.ConfirmStageCompletionCommand) error
	}
	CancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) error
	}
	EditRequestHandler interface {
		Handle(ctx context.Context, cmd commands.EditRequestCommand) error
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	GetDeadOutboxMessagesHandler interface {
		Handle(
			ctx context.Context,
			query queries.GetDeadOutboxMessagesQuery,
		) (queries.GetDeadOutboxMessagesQueryResponse, error)
	}
)

// WorkflowHandlers are the use cases served by the order workflow service.
type WorkflowHandlers struct {
	InitOrder              InitOrderHandler
	RespondToInvitation    RespondToInvitationHandler
	MarkStageCompletion    MarkStageCompletionHandler
	ConfirmStageCompletion ConfirmStageCompletionHandler
	CancelOrder            CancelOrderHandler
	EditRequest            EditRequestHandler
	GetOrder               GetOrderHandler
	GetDeadOutboxMessages  GetDeadOutboxMessagesHandler
}

// WorkflowServer implements workflowapi.ServerInterface.
type WorkflowServer struct {
	h WorkflowHandlers
}

var _ workflowapi.ServerInterface = (*WorkflowServer)(nil)

func NewWorkflowServer(handlers WorkflowHandlers) *WorkflowServer {
	return &WorkflowServer{h: handlers}
}

// InitOrder handles POST /api/v1/orders.
func (s *WorkflowServer) InitOrder(ctx echo.Context) error {
	var body workflowapi.InitOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	commissionerID, err := kernel.UUIDFromGoogle(body.CommissionerId)
	if err != nil {
		return writeError(ctx, err)
	}
	budget, err := decimal.Parse(body.Budget)
	if err != nil {
		return badRequest(ctx, "Invalid budget: "+err.Error())
	}
	workshopIDs := make([]kernel.UUID, 0, len(body.WorkshopIds))
	for _, id := range body.WorkshopIds {
		workshopID, idErr := kernel.UUIDFromGoogle(id)
		if idErr != nil {
			return writeError(ctx, idErr)
		}
		workshopIDs = append(workshopIDs, workshopID)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewInitOrderCommand(
		orderID,
		commissionerID,
		body.Title,
		deref(body.Description),
		body.Deadline,
		budget,
		workshopIDs,
		body.Stages,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.h.InitOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, workflowapi.OrderCreated{OrderId: orderID.Google()})
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *WorkflowServer) GetOrder(ctx echo.Context, orderID workflowapi.OrderId) error {
	id, err := kernel.UUIDFromGoogle(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(view))
}

// AcceptInvitation handles POST /api/v1/orders/{orderId}/invitations/{workshopId}/accept.
func (s *WorkflowServer) AcceptInvitation(ctx echo.Context, orderID workflowapi.OrderId, workshopID workflowapi.WorkshopId) error {
	return s.respond(ctx, orderID, workshopID, commands.NewAcceptWorkshopInvitationCommand)
}

// DeclineInvitation handles POST /api/v1/orders/{orderId}/invitations/{workshopId}/decline.
func (s *WorkflowServer) DeclineInvitation(ctx echo.Context, orderID workflowapi.OrderId, workshopID workflowapi.WorkshopId) error {
	return s.respond(ctx, orderID, workshopID, commands.NewDeclineWorkshopInvitationCommand)
}

func (s *WorkflowServer) respond(
	ctx echo.Context,
	orderID, workshopID uuid.UUID,
	newCommand func(orderID, workshopID kernel.UUID, expectedVersion int64) (commands.RespondToInvitationCommand, error),
) error {
	var body workflowapi.VersionedRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	oid, wid, err := twoIDs(orderID, workshopID)
	if err != nil {
		return writeError(ctx, err)
	}
	cmd, err := newCommand(oid, wid, expected(body.ExpectedVersion))
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.h.RespondToInvitation.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// MarkStage handles POST /api/v1/orders/{orderId}/stages/{stage}/mark.
func (s *WorkflowServer) MarkStage(ctx echo.Context, orderID workflowapi.OrderId, stage workflowapi.StageName) error {
	var body workflowapi.MarkStageJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	oid, wid, err := twoIDs(orderID, body.WorkshopId)
	if err != nil {
		return writeError(ctx, err)
	}
	cmd, err := commands.NewMarkStageCompletionCommand(oid, wid, stage, expected(body.ExpectedVersion))
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.h.MarkStageCompletion.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmStage handles POST /api/v1/orders/{orderId}/stages/{stage}/confirm.
func (s *WorkflowServer) ConfirmStage(ctx echo.Context, orderID workflowapi.OrderId, stage workflowapi.StageName) error {
	var body workflowapi.ConfirmStageJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	oid, cid, err := twoIDs(orderID, body.CommissionerId)
	if err != nil {
		return writeError(ctx, err)
	}
	cmd, err := commands.NewConfirmStageCompletionCommand(oid, cid, stage, expected(body.ExpectedVersion))
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.h.ConfirmStageCompletion.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel. Only the
// commissioner and the workshops cancel over HTTP; System cancellation comes
// from invitation expiry.
func (s *WorkflowServer) CancelOrder(ctx echo.Context, orderID workflowapi.OrderId) error {
	var body workflowapi.CancelOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var party order.Party
	switch body.Party {
	case workflowapi.Commissioner:
		party = order.PartyCommissioner
	case workflowapi.Workshop:
		party = order.PartyWorkshop
	default:
		return badRequest(ctx, "Invalid party: "+string(body.Party))
	}

	oid, actorID, err := twoIDs(orderID, body.ActorId)
	if err != nil {
		return writeError(ctx, err)
	}
	cmd, err := commands.NewCancelOrderCommand(oid, party, actorID, deref(body.Reason), expected(body.ExpectedVersion))
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.h.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// EditRequest handles PATCH /api/v1/orders/{orderId}/request. Exactly one
// request field changes per call.
func (s *WorkflowServer) EditRequest(ctx echo.Context, orderID workflowapi.OrderId) error {
	var body workflowapi.EditRequestJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	oid, cid, err := twoIDs(orderID, body.CommissionerId)
	if err != nil {
		return writeError(ctx, err)
	}
	version := expected(body.ExpectedVersion)

	var cmd commands.EditRequestCommand
	switch {
	case body.Budget != nil && body.Description == nil && body.Deadline == nil:
		budget, parseErr := decimal.Parse(*body.Budget)
		if parseErr != nil {
			return badRequest(ctx, "Invalid budget: "+parseErr.Error())
		}
		cmd, err = commands.NewEditRequestBudgetCommand(oid, cid, budget, version)
	case body.Description != nil && body.Budget == nil && body.Deadline == nil:
		cmd, err = commands.NewEditRequestDescriptionCommand(oid, cid, *body.Description, version)
	case body.Deadline != nil && body.Budget == nil && body.Description == nil:
		cmd, err = commands.NewEditRequestDeadlineCommand(oid, cid, *body.Deadline, version)
	default:
		return badRequest(ctx, "Exactly one of budget, description, deadline must be set")
	}
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.h.EditRequest.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetDeadOutboxMessages handles GET /api/v1/outbox/dead.
func (s *WorkflowServer) GetDeadOutboxMessages(ctx echo.Context, params workflowapi.GetDeadOutboxMessagesParams) error {
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}
	query, err := queries.NewGetDeadOutboxMessagesQuery(limit)
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.h.GetDeadOutboxMessages.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	out := make([]workflowapi.DeadMessage, len(resp.Messages))
	for i, m := range resp.Messages {
		out[i] = workflowapi.DeadMessage{
			Seq:         m.Seq,
			EventId:     m.EventID.Google(),
			EventName:   m.EventName,
			AggregateId: m.AggregateID.Google(),
			Attempts:    m.Attempts,
			LastError:   m.LastError,
			DeadAt:      m.DeadAt,
		}
	}
	return ctx.JSON(http.StatusOK, out)
}

func toOrder(view queries.GetOrderQueryResponse) workflowapi.Order {
	out := workflowapi.Order{
		Id:             view.ID.Google(),
		CommissionerId: view.CommissionerID.Google(),
		State:          view.State,
		Version:        view.Version,
		Request: workflowapi.Request{
			Title:       view.Request.Title,
			Description: view.Request.Description,
			Deadline:    view.Request.Deadline,
			Budget:      view.Request.Budget.String(),
			Version:     view.Request.Version,
		},
		Invitations: make([]workflowapi.Invitation, len(view.Invitations.Items)),
		Stages:      make([]workflowapi.Stage, len(view.Stages)),
	}
	if view.CancelledBy != "" {
		out.CancelledBy = &view.CancelledBy
		out.CancelReason = &view.CancelReason
	}
	for i, inv := range view.Invitations.Items {
		out.Invitations[i] = workflowapi.Invitation{
			WorkshopId:  inv.WorkshopID.Google(),
			Status:      inv.Status,
			RespondedAt: inv.RespondedAt,
		}
	}
	for i, st := range view.Stages {
		out.Stages[i] = workflowapi.Stage{Name: st.Name, MarkedAt: st.MarkedAt, ConfirmedAt: st.ConfirmedAt}
		if st.MarkedBy != nil {
			by := st.MarkedBy.Google()
			out.Stages[i].MarkedBy = &by
		}
	}
	return out
}

func twoIDs(a, b uuid.UUID) (kernel.UUID, kernel.UUID, error) {
	first, err := kernel.UUIDFromGoogle(a)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	second, err := kernel.UUIDFromGoogle(b)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return first, second, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
