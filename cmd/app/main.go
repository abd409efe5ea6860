// Command app runs the order workflow service: the HTTP API, the outbox
// publisher and the invitation expiry job.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"orderflow/cmd"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/generated/servers/workflowapi"

	"github.com/labstack/gommon/log"
)

func main() {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := cmd.NewLogger(cfg).With("service", "workflow")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DB.DSN(), cfg.DB.Pool())
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	if err := postgres.Migrate(ctx, db, postgres.WorkflowSchema); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	app := cmd.NewCompositionRoot(cfg, db, logger)

	producer := app.CreateKafkaProducer()
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Error("close kafka producer", "error", err)
		}
	}()

	jobManager, err := app.CreateWorkflowJobManager(producer)
	if err != nil {
		log.Fatalf("create jobs: %v", err)
	}
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("start jobs: %v", err)
	}
	defer jobManager.StopAll()

	e := cmd.NewEcho()
	workflowapi.RegisterHandlers(e, app.CreateWorkflowServer())

	if err := cmd.ServeHTTP(ctx, e, cfg.HTTPPort, logger); err != nil {
		logger.Error("server stopped", "error", err)
	}
}
