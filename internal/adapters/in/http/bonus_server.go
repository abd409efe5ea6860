package http

import (
	"context"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/generated/servers/bonusapi"

	"github.com/labstack/echo/v4"
)

type (
	GetBonusProfileHandler interface {
		Handle(ctx context.Context, query queries.GetBonusProfileQuery) (queries.GetBonusProfileQueryResponse, error)
	}
	GetCommissionerOrdersHandler interface {
		Handle(
			ctx context.Context,
			query queries.GetCommissionerOrdersQuery,
		) (queries.GetCommissionerOrdersQueryResponse, error)
	}
	UpdateVipPolicyHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateVipPolicyCommand) error
	}
)

// BonusServer implements bonusapi.ServerInterface.
type BonusServer struct {
	getBonusProfile       GetBonusProfileHandler
	getCommissionerOrders GetCommissionerOrdersHandler
	updateVipPolicy       UpdateVipPolicyHandler
}

var _ bonusapi.ServerInterface = (*BonusServer)(nil)

func NewBonusServer(
	getBonusProfile GetBonusProfileHandler,
	getCommissionerOrders GetCommissionerOrdersHandler,
	updateVipPolicy UpdateVipPolicyHandler,
) *BonusServer {
	return &BonusServer{
		getBonusProfile:       getBonusProfile,
		getCommissionerOrders: getCommissionerOrders,
		updateVipPolicy:       updateVipPolicy,
	}
}

// GetBonusProfile handles GET /api/v1/commissioners/{commissionerId}/bonus-profile.
func (s *BonusServer) GetBonusProfile(ctx echo.Context, commissionerID bonusapi.CommissionerId) error {
	id, err := kernel.UUIDFromGoogle(commissionerID)
	if err != nil {
		return writeError(ctx, err)
	}
	query, err := queries.NewGetBonusProfileQuery(id)
	if err != nil {
		return writeError(ctx, err)
	}

	profile, err := s.getBonusProfile.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, bonusapi.BonusProfile{
		CommissionerId: profile.CommissionerID.Google(),
		Points:         profile.Points,
		Grade:          profile.Grade,
		IsVip:          profile.IsVip,
		Version:        profile.Version,
	})
}

// ListCommissionerOrders handles GET /api/v1/commissioners/{commissionerId}/orders.
func (s *BonusServer) ListCommissionerOrders(
	ctx echo.Context,
	commissionerID bonusapi.CommissionerId,
	params bonusapi.ListCommissionerOrdersParams,
) error {
	id, err := kernel.UUIDFromGoogle(commissionerID)
	if err != nil {
		return writeError(ctx, err)
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}
	query, err := queries.NewGetCommissionerOrdersQuery(id, deref(params.State), limit)
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.getCommissionerOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	out := make([]bonusapi.CommissionerOrder, len(resp.Orders))
	for i, o := range resp.Orders {
		out[i] = bonusapi.CommissionerOrder{
			OrderId:          o.OrderID.Google(),
			State:            o.State,
			Title:            o.Title,
			Budget:           o.Budget.String(),
			Deadline:         o.Deadline,
			Workshops:        o.Workshops,
			AggregateVersion: o.AggregateVersion,
		}
	}
	return ctx.JSON(http.StatusOK, out)
}

// ReplaceVipPolicy handles PUT /api/v1/vip-policy.
func (s *BonusServer) ReplaceVipPolicy(ctx echo.Context) error {
	var body bonusapi.ReplaceVipPolicyJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewUpdateVipPolicyCommand(body.Name, body.VipThreshold)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.updateVipPolicy.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
