// Package client is the entry point to the messaging API: channel handles,
// subscriptions, templates, reports and message batches.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jmehdipour/omnichannel/internal/dispatcher"
	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/transport"
)

var ErrMissingID = errors.New("id is required")

type Client struct {
	transport transport.Transport
	log       *zap.Logger

	mu       sync.Mutex
	channels map[model.Channel]*dispatcher.Dispatcher
}

func New(t transport.Transport, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{transport: t, log: log, channels: map[model.Channel]*dispatcher.Dispatcher{}}
}

// Channel returns the send handle for c. Handles are cached per channel.
func (c *Client) Channel(ch model.Channel) (*dispatcher.Dispatcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.channels[ch]; ok {
		return d, nil
	}

	d, err := dispatcher.New(ch, c.transport, c.log)
	if err != nil {
		return nil, err
	}
	c.channels[ch] = d
	return d, nil
}

func (c *Client) Transport() transport.Transport { return c.transport }

// call sends r and decodes a non-empty response into out, when out is non-nil.
func (c *Client) call(ctx context.Context, r transport.Request, out any) error {
	body, err := c.transport.Send(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.Method, r.Path, err)
	}
	return nil
}
