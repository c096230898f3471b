package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderflow/cmd"
	httpin "orderflow/internal/adapters/in/http"
	kafkain "orderflow/internal/adapters/in/kafka"
	kafkaout "orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/postgres/migrations"
	"orderflow/internal/adapters/out/rabbitmq"
	"orderflow/internal/adapters/out/temporal"
	"orderflow/internal/pkg/tracing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "orderflow",
		Usage: "order lifecycle coordinator",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "optional dotenv file"},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API, event consumer, workflow worker and jobs",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "down", Usage: "roll back the most recent migration"},
				},
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDB(cfg cmd.Config) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func migrate(c *cli.Context) error {
	cfg, err := cmd.LoadConfig(c.String("env-file"))
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if c.Bool("down") {
		return migrations.Down(c.Context, sqlDB)
	}
	return migrations.Up(c.Context, sqlDB)
}

func serve(c *cli.Context) error {
	cfg, err := cmd.LoadConfig(c.String("env-file"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ExporterURL: cfg.OtelExporterURL,
		ServiceName: cfg.ServiceName,
		SampleRate:  cfg.OtelSampleRate,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}

	producer, err := kafkaout.NewClient(cfg.Brokers(), cfg.KafkaEventsTopic, cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer producer.Close()
	if err = kafkaout.EnsureTopic(ctx, producer, cfg.KafkaEventsTopic, cfg.KafkaPartitions); err != nil {
		return err
	}

	consumer, err := kafkain.NewClient(cfg.Brokers(), cfg.KafkaConsumerGroup, cfg.KafkaEventsTopic)
	if err != nil {
		return fmt.Errorf("create kafka consumer: %w", err)
	}

	temporalClient, err := temporal.Dial(cfg.TemporalHost, cfg.TemporalNamespace)
	if err != nil {
		return fmt.Errorf("connect to temporal: %w", err)
	}
	defer temporalClient.Close()

	amqpClient, err := rabbitmq.Dial(cfg.RabbitMQURL)
	if err != nil {
		return err
	}
	defer func() { _ = amqpClient.Close() }()
	notifier, err := rabbitmq.NewNotificationChannel(amqpClient.Channel(), cfg.RabbitMQArrivalsExchange)
	if err != nil {
		return err
	}

	root := cmd.NewCompositionRoot(cfg, db, cmd.Clients{
		Producer: producer,
		Consumer: consumer,
		Temporal: temporalClient,
		Notifier: notifier,
	}, logger)

	temporalWorker := root.CreateTemporalWorker()
	if err = temporalWorker.Start(); err != nil {
		return fmt.Errorf("start temporal worker: %w", err)
	}
	defer temporalWorker.Stop()

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	eventConsumer := root.CreateEventConsumer()
	defer eventConsumer.Close()

	e := newEcho(root.CreateHTTPServer())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return eventConsumer.Run(gctx)
	})
	g.Go(func() error {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newEcho(server *httpin.Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	server.Register(e)
	return e
}
