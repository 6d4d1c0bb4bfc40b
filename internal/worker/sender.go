package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jmehdipour/omnichannel/internal/dispatcher"
	"github.com/jmehdipour/omnichannel/internal/kafka"
	"github.com/jmehdipour/omnichannel/internal/metrics"
	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/repository"
	"github.com/jmehdipour/omnichannel/internal/util"
)

var ErrNoEnvelope = errors.New("envelope has no contents")

type Fetcher interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

// Channels resolves a send handle per channel. *client.Client implements it.
type Channels interface {
	Channel(c model.Channel) (*dispatcher.Dispatcher, error)
}

type OutcomeStore interface {
	InsertOutcomes(ctx context.Context, recs []repository.MessageRecord) error
}

type DeadLetter interface {
	Forward(ctx context.Context, m kafka.Message, reason error) error
}

// Sender:
// - fetches envelopes from Kafka,
// - sends each through the channel handle (no retries),
// - batches the outcomes into the messages store.
//
// Offsets are committed after the send, so delivery is at-least-once.
type Sender struct {
	// Dependencies
	Consumer Fetcher
	Channels Channels
	Store    OutcomeStore // optional
	DLQ      DeadLetter   // optional
	Logger   *zap.Logger

	// Behavior
	Workers   int           // goroutines processing envelopes
	BatchSize int           // max buffered outcomes per flush
	BatchWait time.Duration // max time before a flush
}

func NewSender(consumer Fetcher, channels Channels, log *zap.Logger) *Sender {
	return &Sender{
		Consumer:  consumer,
		Channels:  channels,
		Logger:    log,
		Workers:   8,
		BatchSize: 100,
		BatchWait: 500 * time.Millisecond,
	}
}

// Run blocks until ctx is cancelled and every in-flight envelope has been
// settled and flushed.
func (w *Sender) Run(ctx context.Context) error {
	if w.Consumer == nil || w.Channels == nil {
		return errors.New("sender: consumer and channels are required")
	}
	if w.Workers <= 0 {
		w.Workers = 8
	}
	if w.BatchSize <= 0 {
		w.BatchSize = 100
	}
	if w.BatchWait <= 0 {
		w.BatchWait = 500 * time.Millisecond
	}
	if w.Logger == nil {
		w.Logger = zap.NewNop()
	}

	outcomes := make(chan repository.MessageRecord, w.BatchSize*2)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		w.runBatchWriter(outcomes)
	}()

	msgCh := make(chan kafka.Message, w.Workers*2)

	// Fetcher goroutine
	go func() {
		defer close(msgCh)
		for {
			m, err := w.Consumer.Fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				w.Logger.Warn("kafka fetch", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(200 * time.Millisecond):
				}
				continue
			}
			select {
			case msgCh <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < w.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range msgCh {
				w.processOne(ctx, m, outcomes)
			}
		}()
	}

	wg.Wait()
	close(outcomes)
	<-writerDone

	w.Logger.Info("sender stopped")
	return nil
}

func (w *Sender) processOne(ctx context.Context, m kafka.Message, out chan<- repository.MessageRecord) {
	// Left uncommitted so it is redelivered after restart.
	if ctx.Err() != nil {
		return
	}

	env, err := decodeEnvelope(m.Value)
	if err != nil {
		metrics.WorkerMessages.WithLabelValues("poison", "").Inc()
		w.Logger.Warn("bad envelope", zap.Error(err), zap.Int64("offset", m.Offset))
		if w.DLQ != nil {
			if err := w.DLQ.Forward(ctx, m, err); err != nil {
				w.Logger.Error("dead letter", zap.Error(err))
			}
		}
		w.commit(ctx, m)
		return
	}

	ch := env.Channel.String()
	metrics.WorkerMessages.WithLabelValues("received", ch).Inc()

	msg, sendErr := w.send(ctx, env)
	if sendErr != nil {
		metrics.WorkerMessages.WithLabelValues("failed", ch).Inc()
		w.Logger.Warn("send failed", zap.String("envelope_id", env.ID), zap.String("channel", ch), zap.Error(sendErr))
	} else {
		metrics.WorkerMessages.WithLabelValues("sent", ch).Inc()
		w.Logger.Debug("sent", zap.String("envelope_id", env.ID), zap.String("message_id", msg.ID))
	}

	out <- repository.NewMessageRecord(env, msg, sendErr)
	w.commit(ctx, m)
}

func (w *Sender) send(ctx context.Context, env model.Envelope) (*model.Message, error) {
	d, err := w.Channels.Channel(env.Channel)
	if err != nil {
		return nil, fmt.Errorf("channel %q: %w", env.Channel, err)
	}
	return d.SendRequest(ctx, env.Request())
}

func (w *Sender) commit(ctx context.Context, m kafka.Message) {
	if err := w.Consumer.Commit(ctx, m); err != nil {
		w.Logger.Warn("kafka commit", zap.Error(err), zap.Int64("offset", m.Offset))
	}
}

// decodeEnvelope fills in an id when the producer left it out.
func decodeEnvelope(b []byte) (model.Envelope, error) {
	var env model.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	if len(env.Contents) == 0 {
		return env, ErrNoEnvelope
	}
	if env.ID == "" {
		env.ID = util.NewID()
	}
	return env, nil
}

// runBatchWriter flushes outcomes by size or time until in is closed.
func (w *Sender) runBatchWriter(in <-chan repository.MessageRecord) {
	tick := time.NewTicker(w.BatchWait)
	defer tick.Stop()

	batch := make([]repository.MessageRecord, 0, w.BatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if w.Store != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := w.Store.InsertOutcomes(ctx, batch)
			cancel()
			if err != nil {
				w.Logger.Error("store outcomes", zap.Error(err), zap.Int("count", len(batch)))
			} else {
				w.Logger.Debug("flushed outcomes", zap.Int("count", len(batch)))
			}
		}
		batch = batch[:0]
	}

	for {
		select {
		case rec, ok := <-in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, rec)
			if len(batch) >= w.BatchSize {
				flush()
			}
		case <-tick.C:
			flush()
		}
	}
}
