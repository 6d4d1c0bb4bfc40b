package repository

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/omnichannel/internal/model"
)

// MessageRecord is one row of the messages table: an outbound envelope and
// the latest status known for it.
type MessageRecord struct {
	EnvelopeID        string    `db:"envelope_id"`
	MessageID         *string   `db:"message_id"`
	Channel           string    `db:"channel"`
	Sender            string    `db:"sender"`
	Recipient         string    `db:"recipient"`
	Contents          int       `db:"contents"`
	Status            string    `db:"status"`
	StatusDescription string    `db:"status_description"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// NewMessageRecord describes the outcome of sending env. msg is nil when the
// send failed, in which case sendErr explains why.
func NewMessageRecord(env model.Envelope, msg *model.Message, sendErr error) MessageRecord {
	rec := MessageRecord{
		EnvelopeID: env.ID,
		Channel:    env.Channel.String(),
		Sender:     env.From,
		Recipient:  env.To,
		Contents:   len(env.Contents),
		Status:     model.StatusAccepted.String(),
	}
	if sendErr != nil {
		rec.Status = model.StatusFailed.String()
		rec.StatusDescription = truncate(sendErr.Error(), 255)
		return rec
	}
	if msg != nil && msg.ID != "" {
		id := msg.ID
		rec.MessageID = &id
	}
	return rec
}

type MessagesRepository interface {
	InsertOutcomes(ctx context.Context, recs []MessageRecord) error
	UpdateStatus(ctx context.Context, messageID string, status model.MessageStatus) (bool, error)
	GetByMessageID(ctx context.Context, messageID string) (*MessageRecord, error)
}

type MessagesRepositoryImpl struct {
	db *sqlx.DB
}

func NewMessagesRepository(db *sqlx.DB) *MessagesRepositoryImpl {
	return &MessagesRepositoryImpl{db: db}
}

func (r *MessagesRepositoryImpl) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	t, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}
	return t.Commit()
}

// InsertOutcomes writes a batch in one transaction. Redelivered envelopes
// overwrite their earlier row.
func (r *MessagesRepositoryImpl) InsertOutcomes(ctx context.Context, recs []MessageRecord) error {
	if len(recs) == 0 {
		return nil
	}
	const q = `
		INSERT INTO messages
		    (envelope_id, message_id, channel, sender, recipient, contents, status, status_description, created_at, updated_at)
		VALUES
		    (:envelope_id, :message_id, :channel, :sender, :recipient, :contents, :status, :status_description, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
		    message_id = VALUES(message_id),
		    status = VALUES(status),
		    status_description = VALUES(status_description),
		    updated_at = NOW()
	`
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, rec := range recs {
			if _, err := tx.NamedExecContext(ctx, q, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateStatus records the latest platform status for messageID. It reports
// whether a row matched.
func (r *MessagesRepositoryImpl) UpdateStatus(ctx context.Context, messageID string, status model.MessageStatus) (bool, error) {
	const q = `UPDATE messages SET status = ?, status_description = ?, updated_at = NOW() WHERE message_id = ?`
	res, err := r.db.ExecContext(ctx, q, status.Code.String(), truncate(status.Description, 255), messageID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MessagesRepositoryImpl) GetByMessageID(ctx context.Context, messageID string) (*MessageRecord, error) {
	const q = `
		SELECT envelope_id, message_id, channel, sender, recipient, contents, status, status_description, created_at, updated_at
		FROM messages
		WHERE message_id = ?
	`
	var rec MessageRecord
	if err := r.db.GetContext(ctx, &rec, q, messageID); err != nil {
		return nil, err
	}
	return &rec, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
