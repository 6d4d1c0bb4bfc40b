package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jmehdipour/omnichannel/internal/model"
)

// Writer is the part of kafka.Writer the producers use.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// EventPublisher streams every received webhook event to a topic, keyed by
// event id so redeliveries land on the same partition.
type EventPublisher struct {
	w Writer
}

func NewEventPublisher(w Writer) *EventPublisher { return &EventPublisher{w: w} }

func (p *EventPublisher) Record(ctx context.Context, rec model.EventRecord) error {
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.ID),
		Value: rec.Payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(rec.Type)},
			{Key: "channel", Value: []byte(rec.Channel)},
		},
	})
}

func (p *EventPublisher) Close() error { return p.w.Close() }

// EnvelopePublisher queues outbound envelopes for the sender worker.
type EnvelopePublisher struct {
	w Writer
}

func NewEnvelopePublisher(w Writer) *EnvelopePublisher { return &EnvelopePublisher{w: w} }

func (p *EnvelopePublisher) Publish(ctx context.Context, envs ...model.Envelope) error {
	msgs := make([]kafka.Message, 0, len(envs))
	for _, env := range envs {
		b, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("encode envelope %s: %w", env.ID, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(env.To), Value: b})
	}
	return p.w.WriteMessages(ctx, msgs...)
}

func (p *EnvelopePublisher) Close() error { return p.w.Close() }

// DeadLetter forwards messages the worker could not decode.
type DeadLetter struct {
	w Writer
}

func NewDeadLetter(w Writer) *DeadLetter { return &DeadLetter{w: w} }

func (d *DeadLetter) Forward(ctx context.Context, m Message, reason error) error {
	return d.w.WriteMessages(ctx, kafka.Message{
		Key:   m.Key,
		Value: m.Value,
		Headers: []kafka.Header{
			{Key: "error", Value: []byte(reason.Error())},
			{Key: "source_topic", Value: []byte(m.Topic)},
		},
	})
}

func (d *DeadLetter) Close() error { return d.w.Close() }
