package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/omnichannel/internal/db"
	"github.com/jmehdipour/omnichannel/internal/kafka"
	"github.com/jmehdipour/omnichannel/internal/metrics"
	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/repository"
	"github.com/jmehdipour/omnichannel/internal/webhook"
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Receive platform events",
}

var webhookServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server and reconcile its subscriptions",
	Args:  cobra.NoArgs,
	RunE:  runWebhook,
}

func init() {
	webhookCmd.AddCommand(webhookServeCmd)
}

func runWebhook(cmd *cobra.Command, args []string) error {
	a, err := load()
	if err != nil {
		return err
	}
	defer syncLogger(a.Log)
	cfg := a.Config
	log := a.Log.Named("webhook")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := webhook.Options{
		Host:    cfg.Webhook.Host,
		Port:    cfg.Webhook.Port,
		Path:    cfg.Webhook.Path,
		URL:     cfg.Webhook.URL,
		Headers: cfg.Webhook.Headers,
		Logger:  log,
		OnError: func(err error) { log.Warn("event not processed", zap.Error(err)) },
		MessageEventHandler: func(_ context.Context, e model.MessageEvent) error {
			log.Info("message",
				zap.String("id", e.ID),
				zap.String("channel", e.Channel.String()),
				zap.String("direction", string(e.Direction)),
				zap.String("from", e.Message.From),
				zap.Int("contents", len(e.Message.Contents)),
			)
			return nil
		},
	}
	if cfg.Webhook.Channel != "" {
		ch, ok := model.ParseChannel(cfg.Webhook.Channel)
		if !ok {
			return fmt.Errorf("webhook.channel: unknown channel %q", cfg.Webhook.Channel)
		}
		opts.Channel = ch
	}
	if opts.URL != "" {
		c, err := a.Client()
		if err != nil {
			return err
		}
		opts.Client = c
	}

	statusLog := func(e model.MessageStatusEvent) {
		log.Info("message status",
			zap.String("id", e.ID),
			zap.String("message_id", e.MessageID),
			zap.String("code", e.MessageStatus.Code.String()),
		)
	}
	opts.MessageStatusEventHandler = func(_ context.Context, e model.MessageStatusEvent) error {
		statusLog(e)
		return nil
	}
	if cfg.Webhook.TrackStatus {
		mdb, err := db.NewMySQL(ctx, cfg.MySQL)
		if err != nil {
			return fmt.Errorf("mysql: %w", err)
		}
		defer mdb.Close()
		messages := repository.NewMessagesRepository(mdb)
		opts.MessageStatusEventHandler = func(ctx context.Context, e model.MessageStatusEvent) error {
			statusLog(e)
			found, err := messages.UpdateStatus(ctx, e.MessageID, e.MessageStatus)
			if err != nil {
				return err
			}
			if !found {
				log.Debug("status for unknown message", zap.String("message_id", e.MessageID))
			}
			return nil
		}
	}

	if cfg.Webhook.DedupTTL > 0 || cfg.Webhook.RateLimitRPS > 0 {
		rdb, err := db.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rdb.Close()
		if cfg.Webhook.DedupTTL > 0 {
			opts.Deduper = webhook.NewRedisDeduper(rdb, "", cfg.Webhook.DedupTTL)
		}
		if cfg.Webhook.RateLimitRPS > 0 {
			opts.RateLimit = &webhook.RateLimitConfig{Redis: rdb, RPS: cfg.Webhook.RateLimitRPS}
		}
	}

	if cfg.Webhook.Archive {
		chdb, err := db.NewClickHouse(ctx, cfg.ClickHouse)
		if err != nil {
			return fmt.Errorf("clickhouse: %w", err)
		}
		defer chdb.Close()
		opts.Sinks = append(opts.Sinks, repository.NewEventsRepository(chdb))
	}
	if cfg.Kafka.EventsTopic != "" && len(cfg.Kafka.Brokers) > 0 {
		pub := kafka.NewEventPublisher(kafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic))
		defer pub.Close()
		opts.Sinks = append(opts.Sinks, pub)
	}

	srv := webhook.NewServer(opts)
	if err := srv.Init(ctx); err != nil {
		if srv.Addr() == nil {
			return err
		}
		// the listener is up; subscriptions can be fixed without a restart
		log.Error("subscription reconciliation failed", zap.Error(err))
	}
	for t, r := range srv.Reconciliation() {
		log.Info("subscription", zap.String("event_type", t.String()), zap.String("state", string(r.State)))
	}

	select {
	case <-ctx.Done():
	case err := <-srv.Done():
		if err != nil {
			return fmt.Errorf("webhook server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Close(shutdownCtx)
}
