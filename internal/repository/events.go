package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/omnichannel/internal/model"
)

// EventRow is one archived webhook delivery.
type EventRow struct {
	ID             string    `db:"id"`
	Type           string    `db:"type"`
	Channel        string    `db:"channel"`
	SubscriptionID string    `db:"subscription_id"`
	EventTimestamp string    `db:"event_timestamp"`
	Payload        string    `db:"payload"`
	ReceivedAt     time.Time `db:"received_at"`
}

func NewEventRow(rec model.EventRecord, receivedAt time.Time) EventRow {
	return EventRow{
		ID:             rec.ID,
		Type:           rec.Type.String(),
		Channel:        rec.Channel.String(),
		SubscriptionID: rec.SubscriptionID,
		EventTimestamp: rec.Timestamp,
		Payload:        string(rec.Payload),
		ReceivedAt:     receivedAt.UTC(),
	}
}

// EventsRepository archives webhook events in ClickHouse.
type EventsRepository interface {
	Record(ctx context.Context, rec model.EventRecord) error
	Recent(ctx context.Context, eventType model.EventType, channel model.Channel, limit int) ([]EventRow, error)
}

type eventsRepository struct {
	ch  *sqlx.DB // ClickHouse connection
	now func() time.Time
}

func NewEventsRepository(ch *sqlx.DB) EventsRepository {
	return &eventsRepository{ch: ch, now: time.Now}
}

func (r *eventsRepository) Record(ctx context.Context, rec model.EventRecord) error {
	const q = `
		INSERT INTO events (id, type, channel, subscription_id, event_timestamp, payload, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	row := NewEventRow(rec, r.now())
	_, err := r.ch.ExecContext(ctx, q,
		row.ID, row.Type, row.Channel, row.SubscriptionID, row.EventTimestamp, row.Payload, row.ReceivedAt,
	)
	return err
}

func (r *eventsRepository) Recent(ctx context.Context, eventType model.EventType, channel model.Channel, limit int) ([]EventRow, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}

	q := `
		SELECT id, type, channel, subscription_id, event_timestamp, payload, received_at
		FROM events
		WHERE 1 = 1
	`
	var args []any

	if eventType != "" {
		q += " AND type = ?"
		args = append(args, eventType.String())
	}
	if channel != "" {
		q += " AND channel = ?"
		args = append(args, channel.String())
	}

	q += " ORDER BY received_at DESC LIMIT ?"
	args = append(args, limit)

	var rows []EventRow
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
