package worker

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/omnichannel/internal/app"
	"github.com/jmehdipour/omnichannel/internal/db"
	"github.com/jmehdipour/omnichannel/internal/kafka"
	"github.com/jmehdipour/omnichannel/internal/metrics"
	"github.com/jmehdipour/omnichannel/internal/repository"
	"github.com/jmehdipour/omnichannel/internal/worker"
)

var senderCmd = &cobra.Command{
	Use:   "sender",
	Short: "Consume queued envelopes and send them",
	Args:  cobra.NoArgs,
	RunE:  runSender,
}

func runSender(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	a, err := app.Load(cfgPath)
	if err != nil {
		return err
	}
	defer func() { _ = a.Log.Sync() }()
	cfg := a.Config
	log := a.Log.Named("sender")

	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is empty")
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := a.Client()
	if err != nil {
		return err
	}

	consumer := kafka.NewConsumer(kafka.ReaderConfig(cfg.Kafka, cfg.Kafka.OutboundTopic))
	defer consumer.Close()

	w := worker.NewSender(consumer, c, log)
	if cfg.Worker.WorkerCount > 0 {
		w.Workers = cfg.Worker.WorkerCount
	}

	if cfg.Worker.RecordSends {
		mdb, err := db.NewMySQL(ctx, cfg.MySQL)
		if err != nil {
			return fmt.Errorf("mysql: %w", err)
		}
		defer mdb.Close()
		w.Store = repository.NewMessagesRepository(mdb)
	}
	if cfg.Kafka.DLQTopic != "" {
		dlq := kafka.NewDeadLetter(kafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.DLQTopic))
		defer dlq.Close()
		w.DLQ = dlq
	}

	log.Info("sender started",
		zap.String("topic", cfg.Kafka.OutboundTopic),
		zap.String("group", cfg.Kafka.GroupID),
		zap.Int("workers", w.Workers),
		zap.Bool("record_sends", cfg.Worker.RecordSends),
		zap.String("dlq", cfg.Kafka.DLQTopic),
	)
	return w.Run(ctx)
}
