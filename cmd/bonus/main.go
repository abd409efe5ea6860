// Command bonus runs the bonus service: it ingests workflow events from
// Kafka, maintains the commissioner projection and bonus profiles, and
// publishes VIP grants through its own outbox.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"orderflow/cmd"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/generated/servers/bonusapi"

	"github.com/labstack/gommon/log"
)

func main() {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := cmd.NewLogger(cfg).With("service", "bonus")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DB.DSN(), cfg.DB.Pool())
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	if err := postgres.Migrate(ctx, db, postgres.BonusSchema); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	app := cmd.NewCompositionRoot(cfg, db, logger)

	producer := app.CreateKafkaProducer()
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Error("close kafka producer", "error", err)
		}
	}()

	jobManager, err := app.CreateBonusJobManager(producer)
	if err != nil {
		log.Fatalf("create jobs: %v", err)
	}
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("start jobs: %v", err)
	}
	defer jobManager.StopAll()

	group := app.CreateConsumerGroup()
	defer func() {
		if err := group.Close(); err != nil {
			logger.Error("close consumers", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	groupErr := make(chan error, 1)
	go func() {
		groupErr <- group.Run(ctx)
		cancel()
	}()

	e := cmd.NewEcho()
	bonusapi.RegisterHandlers(e, app.CreateBonusServer())

	if err := cmd.ServeHTTP(ctx, e, cfg.HTTPPort, logger); err != nil {
		logger.Error("server stopped", "error", err)
	}
	cancel()

	// A consumer that hit a programmer error takes the process down.
	if err := <-groupErr; err != nil {
		jobManager.StopAll()
		log.Fatalf("consumer group stopped: %v", err)
	}
}
