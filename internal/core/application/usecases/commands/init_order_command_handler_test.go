package commands_test

import (
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/pkg/errs"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newInitCommand(t *testing.T, workshops ...kernel.UUID) commands.InitOrderCommand {
	t.Helper()
	if len(workshops) == 0 {
		workshops = []kernel.UUID{kernel.NewUUID()}
	}
	cmd, err := commands.NewInitOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), "Oak table", "2m, oiled",
		testNow.Add(72*time.Hour), decimal.MustParse("1500"), workshops, []string{"Design", "Delivery"},
	)
	require.NoError(t, err)
	return cmd
}

func TestNewInitOrderCommand_RejectsMissingParts(t *testing.T) {
	_, err := commands.NewInitOrderCommand(
		kernel.UUID{}, kernel.NewUUID(), "t", "", testNow.Add(time.Hour), decimal.One, nil, nil,
	)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestInitOrderCommand_Validate_WhenNotConstructed_ShouldReturnError(t *testing.T) {
	var cmd commands.InitOrderCommand

	err := cmd.Validate()

	assert.Equal(t, commands.ErrInitOrderCommandIsNotConstructed, err)
}

func TestInitOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newInitCommand(t)

	orders := new(MockOrderRepository)
	outboxRepo := new(MockOutboxRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Add", ctx, mock.MatchedBy(func(o order.Order) bool {
			return o.ID().IsEqual(cmd.OrderID()) && o.Version() == 1
		})).Return(nil).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		outboxRepo.On("Append", ctx, mock.MatchedBy(func(ms []*outbox.Message) bool {
			return len(ms) == 1 && ms[0].EventName() == event.OrderInitializedName
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewInitOrderCommandHandler(factory, kernel.FixedClock(testNow))
	err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	orders.AssertExpectations(t)
	outboxRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestInitOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockOrderUoWFactory)
	h := commands.NewInitOrderCommandHandler(factory, kernel.FixedClock(testNow))

	err := h.Handle(t.Context(), commands.InitOrderCommand{})

	require.ErrorIs(t, err, commands.ErrInitOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestInitOrderCommandHandler_Handle_DuplicateWorkshopsRejectedBeforeTransaction(t *testing.T) {
	w := kernel.NewUUID()
	cmd := newInitCommand(t, w, w)
	factory := new(MockOrderUoWFactory)
	h := commands.NewInitOrderCommandHandler(factory, kernel.FixedClock(testNow))

	err := h.Handle(t.Context(), cmd)

	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}

func TestInitOrderCommandHandler_Handle_AppendErrorRollsBack(t *testing.T) {
	ctx := t.Context()
	cmd := newInitCommand(t)

	orders := new(MockOrderRepository)
	outboxRepo := new(MockOutboxRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Add", ctx, mock.Anything).Return(nil).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		outboxRepo.On("Append", ctx, mock.Anything).Return(errors.New("append error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewInitOrderCommandHandler(factory, kernel.FixedClock(testNow))
	err := h.Handle(ctx, cmd)

	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", ctx)
	uow.AssertExpectations(t)
}

func TestInitOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := newInitCommand(t)

	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewInitOrderCommandHandler(factory, kernel.FixedClock(testNow))
	err := h.Handle(ctx, cmd)

	require.Error(t, err)
	uow.AssertExpectations(t)
}
