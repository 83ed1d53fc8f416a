package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"styledecor-server/config"
	"styledecor-server/database"
	"styledecor-server/events"
	"styledecor-server/handlers"
	"styledecor-server/logger"
	"styledecor-server/metrics"
	"styledecor-server/middleware"
	"styledecor-server/payment"
	"styledecor-server/router"
)

type paymentEvents interface {
	payment.EventPublisher
	Close() error
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	store, err := database.Connect(ctx, &cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn("cannot disconnect from the db", zap.Error(err))
		}
	}()
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	publisher, err := newPublisher(cfg.Events, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	registry := metrics.NewRegistry()
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	provider := payment.NewStripeProvider(payment.StripeOptions{
		SecretKey: cfg.StripeSecret,
		Timeout:   cfg.ProviderTimeout,
	}, log)
	orchestrator := payment.NewOrchestrator(provider, store, store, publisher, paymentMetrics, payment.Options{
		SiteDomain:     cfg.SiteDomain,
		Currency:       cfg.Currency,
		StorageTimeout: cfg.StorageTimeout,
	}, log)

	h := handlers.New(store, store, store, orchestrator, cfg.StorageTimeout, log)

	app := router.NewApp()
	router.SetupRoutes(app, h, middleware.Identify(cfg.SigningKey), metrics.Handler(registry), log)

	listenErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr()))
		listenErr <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newPublisher(cfg config.Events, log *zap.Logger) (paymentEvents, error) {
	if !cfg.KafkaEnabled() {
		log.Info("no kafka brokers configured, payment events disabled")
		return events.NopPublisher{}, nil
	}
	producer, err := events.NewSyncProducer(cfg.KafkaBrokers)
	if err != nil {
		return nil, err
	}
	log.Info("publishing payment events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.PaymentTopic))
	return events.NewPaymentPublisher(producer, cfg.PaymentTopic, log), nil
}
