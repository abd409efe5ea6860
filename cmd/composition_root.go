package cmd

import (
	"log/slog"
	"os"
	"time"

	httpadapter "orderflow/internal/adapters/in/http"
	kafkain "orderflow/internal/adapters/in/kafka"
	kafkaout "orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, cfg.TxTimeout),
		clock:      kernel.SystemClock(),
		logger:     logger,
	}
}

func NewLogger(cfg Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateInitOrderCommandHandler() commands.InitOrderCommandHandler {
	return commands.NewInitOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateRespondToInvitationCommandHandler() commands.RespondToInvitationCommandHandler {
	return commands.NewRespondToInvitationCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateMarkStageCompletionCommandHandler() commands.MarkStageCompletionCommandHandler {
	return commands.NewMarkStageCompletionCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateConfirmStageCompletionCommandHandler() commands.ConfirmStageCompletionCommandHandler {
	return commands.NewConfirmStageCompletionCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateEditRequestCommandHandler() commands.EditRequestCommandHandler {
	return commands.NewEditRequestCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateExpireInvitationsCommandHandler() commands.ExpireInvitationsCommandHandler {
	return commands.NewExpireInvitationsCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) publishRetryPolicy() commands.RetryPolicy {
	return commands.RetryPolicy{
		InitialInterval: c.cfg.Outbox.RetryInitialInterval,
		MaxInterval:     c.cfg.Outbox.RetryMaxInterval,
		MaxElapsed:      c.cfg.Outbox.RetryMaxElapsed,
		AttemptTimeout:  c.cfg.Outbox.PublishTimeout,
	}
}

// PublisherTxTimeout bounds the publisher transaction. It outlasts every
// delivery retry of a full batch plus the regular transaction timeout.
func (c *CompositionRoot) PublisherTxTimeout() time.Duration {
	return c.publishRetryPolicy().TxTimeout(c.cfg.Outbox.BatchSize, c.cfg.TxTimeout)
}

func (c *CompositionRoot) CreatePublishOutboxCommandHandler(
	publisher ports.MessagePublisher,
) (commands.PublishOutboxCommandHandler, error) {
	retry := c.publishRetryPolicy()
	if err := retry.Validate(); err != nil {
		return commands.PublishOutboxCommandHandler{}, err
	}

	publisherUoW := postgres.NewGormUnitOfWorkFactory(c.gormDB, c.PublisherTxTimeout())
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return publisherUoW.Create()
	})
	return commands.NewPublishOutboxCommandHandler(f, publisher, services.NewTopicRouter(), c.clock, retry, c.logger), nil
}

func (c *CompositionRoot) CreateIngestEventCommandHandler() commands.IngestEventCommandHandler {
	var f commands.IngestUoWFactory = FuncIngestUoWFactory(func() commands.IngestUoW {
		return c.uowFactory.Create()
	})
	return commands.NewIngestEventCommandHandler(f, services.NewVipPolicyEngine(), c.clock)
}

func (c *CompositionRoot) CreateUpdateVipPolicyCommandHandler() commands.UpdateVipPolicyCommandHandler {
	var f commands.PolicyUoWFactory = FuncPolicyUoWFactory(func() commands.PolicyUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateVipPolicyCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeadOutboxMessagesQueryHandler() queries.GetDeadOutboxMessagesQueryHandler {
	return queries.NewGetDeadOutboxMessagesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetBonusProfileQueryHandler() queries.GetBonusProfileQueryHandler {
	return queries.NewGetBonusProfileQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCommissionerOrdersQueryHandler() queries.GetCommissionerOrdersQueryHandler {
	return queries.NewGetCommissionerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateWorkflowServer() *httpadapter.WorkflowServer {
	initOrder := c.CreateInitOrderCommandHandler()
	respond := c.CreateRespondToInvitationCommandHandler()
	mark := c.CreateMarkStageCompletionCommandHandler()
	confirm := c.CreateConfirmStageCompletionCommandHandler()
	cancel := c.CreateCancelOrderCommandHandler()
	edit := c.CreateEditRequestCommandHandler()

	return httpadapter.NewWorkflowServer(httpadapter.WorkflowHandlers{
		InitOrder:              &initOrder,
		RespondToInvitation:    &respond,
		MarkStageCompletion:    &mark,
		ConfirmStageCompletion: &confirm,
		CancelOrder:            &cancel,
		EditRequest:            &edit,
		GetOrder:               c.CreateGetOrderQueryHandler(),
		GetDeadOutboxMessages:  c.CreateGetDeadOutboxMessagesQueryHandler(),
	})
}

func (c *CompositionRoot) CreateBonusServer() *httpadapter.BonusServer {
	updatePolicy := c.CreateUpdateVipPolicyCommandHandler()
	return httpadapter.NewBonusServer(
		c.CreateGetBonusProfileQueryHandler(),
		c.CreateGetCommissionerOrdersQueryHandler(),
		&updatePolicy,
	)
}

func (c *CompositionRoot) CreateKafkaProducer() *kafkaout.Producer {
	return kafkaout.NewProducer(kafkaout.ProducerConfig{
		Brokers:      c.cfg.Kafka.Brokers,
		BatchTimeout: c.cfg.Kafka.BatchTimeout,
		WriteTimeout: c.cfg.Kafka.WriteTimeout,
	})
}

// CreateConsumerGroup subscribes the ingestion handler to every configured topic.
func (c *CompositionRoot) CreateConsumerGroup() *kafkain.Group {
	handler := c.CreateIngestEventCommandHandler()
	readerCfg := kafkain.ReaderConfig{
		Brokers: c.cfg.Kafka.Brokers,
		GroupID: c.cfg.Kafka.ConsumerGroup,
		MaxWait: c.cfg.Kafka.MaxWait,
	}
	retry := kafkain.RetryConfig{
		InitialInterval: c.cfg.Kafka.RetryInitialInterval,
		MaxInterval:     c.cfg.Kafka.RetryMaxInterval,
	}

	consumers := make([]*kafkain.Consumer, 0, len(c.cfg.Kafka.Topics))
	for _, topic := range c.cfg.Kafka.Topics {
		reader := kafkain.NewReader(readerCfg, topic)
		consumers = append(consumers,
			kafkain.NewConsumer(c.cfg.Kafka.ConsumerGroup, topic, reader, &handler, retry, c.logger))
	}
	return kafkain.NewGroup(consumers...)
}

// CreateWorkflowJobManager schedules the workflow outbox publisher and the
// invitation expiry.
func (c *CompositionRoot) CreateWorkflowJobManager(publisher ports.MessagePublisher) (*jobs.JobManager, error) {
	publish, err := c.CreatePublishOutboxCommandHandler(publisher)
	if err != nil {
		return nil, err
	}
	publisherJob, err := jobs.NewOutboxPublisherJob(&publish, c.cfg.Outbox.PollInterval, c.cfg.Outbox.BatchSize, c.logger)
	if err != nil {
		return nil, err
	}

	expire := c.CreateExpireInvitationsCommandHandler()
	expiryJob, err := jobs.NewExpireInvitationsJob(&expire, c.cfg.Expiry.Interval, c.cfg.Expiry.BatchSize, c.logger)
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(c.logger, publisherJob, expiryJob), nil
}

// CreateBonusJobManager schedules the bonus outbox publisher.
func (c *CompositionRoot) CreateBonusJobManager(publisher ports.MessagePublisher) (*jobs.JobManager, error) {
	publish, err := c.CreatePublishOutboxCommandHandler(publisher)
	if err != nil {
		return nil, err
	}
	publisherJob, err := jobs.NewOutboxPublisherJob(&publish, c.cfg.Outbox.PollInterval, c.cfg.Outbox.BatchSize, c.logger)
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(c.logger, publisherJob), nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}

type FuncIngestUoWFactory func() commands.IngestUoW

func (f FuncIngestUoWFactory) Create() commands.IngestUoW {
	return f()
}

type FuncPolicyUoWFactory func() commands.PolicyUoW

func (f FuncPolicyUoWFactory) Create() commands.PolicyUoW {
	return f()
}
