package postgres_test

import (
	"context"
	"errors"
	"log/slog"
	"time"

	postgresadapter "orderflow/internal/adapters/out/postgres"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

type downBroker struct{}

func (downBroker) Publish(ctx context.Context, _ ...ports.BrokerMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.New("broker down")
}

type outboxFactory func() commands.OutboxUoW

func (f outboxFactory) Create() commands.OutboxUoW { return f() }

// The retry budget of one message is longer than the base transaction
// timeout; the failure must still be recorded.
func (suite *UnitOfWorkIntegrationTestSuite) TestPublisherRecordsFailureAfterLongRetries() {
	ctx := suite.T().Context()
	_, events := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.inTx(func(uow ports.UnitOfWork) error {
		return uow.OutboxRepository().Append(ctx, suite.toMessages(events)...)
	}))

	retry := commands.RetryPolicy{
		InitialInterval: 20 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
		MaxElapsed:      300 * time.Millisecond,
		AttemptTimeout:  50 * time.Millisecond,
	}
	const batchSize, baseTimeout = 1, 100 * time.Millisecond
	suite.Require().Greater(retry.DeliveryBudget(), baseTimeout)

	factory := postgresadapter.NewGormUnitOfWorkFactory(suite.db, retry.TxTimeout(batchSize, baseTimeout))
	h := commands.NewPublishOutboxCommandHandler(
		outboxFactory(func() commands.OutboxUoW { return factory.Create() }),
		downBroker{}, services.NewTopicRouter(), kernel.FixedClock(now), retry, slog.New(slog.DiscardHandler),
	)
	cmd, err := commands.NewPublishOutboxCommand(batchSize)
	suite.Require().NoError(err)

	err = h.Handle(ctx, cmd)
	suite.Require().ErrorIs(err, errs.ErrTransient)

	suite.Require().NoError(suite.inTx(func(uow ports.UnitOfWork) error {
		pending, err := uow.OutboxRepository().LockPending(ctx, 10)
		suite.Require().Len(pending, 1)
		suite.Equal(1, pending[0].Attempts())
		suite.Contains(pending[0].LastError(), "broker down")
		suite.Nil(pending[0].PublishedAt())
		return err
	}))
}
