// Package dispatcher submits messages on one channel.
package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jmehdipour/omnichannel/internal/channel"
	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/transport"
)

var (
	ErrNoContents  = errors.New("at least one content is required")
	ErrMissingFrom = errors.New("from is required")
	ErrMissingTo   = errors.New("to is required")
	ErrNoTransport = errors.New("dispatcher has no transport")
)

// Dispatcher is a channel handle: it validates every content item against the
// channel and then issues exactly one request.
type Dispatcher struct {
	validator *channel.Validator
	transport transport.Transport
	log       *zap.Logger
}

// New returns the handle for channel c. With a nil t the handle only checks
// requests; SendRequest fails with ErrNoTransport after validation.
func New(c model.Channel, t transport.Transport, log *zap.Logger) (*Dispatcher, error) {
	v, err := channel.NewValidator(c)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Dispatcher{validator: v, transport: t, log: log.With(zap.String("channel", c.String()))}, nil
}

func (d *Dispatcher) Channel() model.Channel { return d.validator.Channel() }

func (d *Dispatcher) Validator() *channel.Validator { return d.validator }

func (d *Dispatcher) Send(ctx context.Context, from, to string, contents ...model.Content) (*model.Message, error) {
	return d.SendRequest(ctx, model.MessageRequest{From: from, To: to, Contents: contents})
}

// SendRequest rejects the whole request, before any network call, when any
// item fails validation.
func (d *Dispatcher) SendRequest(ctx context.Context, req model.MessageRequest) (*model.Message, error) {
	if err := d.Check(req); err != nil {
		return nil, err
	}
	if d.transport == nil {
		return nil, ErrNoTransport
	}

	body, err := d.transport.Send(ctx, transport.Post(d.path(), req))
	if err != nil {
		return nil, err
	}

	msg := &model.Message{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, msg); err != nil {
			return nil, fmt.Errorf("decode message response: %w", err)
		}
	}

	d.log.Debug("message sent", zap.String("message_id", msg.ID), zap.Int("contents", len(req.Contents)))
	return msg, nil
}

// Check runs every local validation SendRequest performs.
func (d *Dispatcher) Check(req model.MessageRequest) error {
	if req.From == "" {
		return ErrMissingFrom
	}
	if req.To == "" {
		return ErrMissingTo
	}
	if len(req.Contents) == 0 {
		return ErrNoContents
	}
	return d.validator.ValidateAll(req.Contents)
}

func (d *Dispatcher) path() string {
	return "/v2/channels/" + d.Channel().String() + "/messages"
}
