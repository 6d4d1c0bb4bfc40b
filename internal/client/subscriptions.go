package client

import (
	"context"
	"net/url"

	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/transport"
)

const subscriptionsPath = "/v2/subscriptions"

func (c *Client) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	var out []model.Subscription
	if err := c.call(ctx, transport.Get(subscriptionsPath), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSubscription(ctx context.Context, s model.Subscription) (*model.Subscription, error) {
	out := &model.Subscription{}
	if err := c.call(ctx, transport.Post(subscriptionsPath, s), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*model.Subscription, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	out := &model.Subscription{}
	if err := c.call(ctx, transport.Get(subscriptionPath(id)), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateSubscription(ctx context.Context, id string, p model.PartialSubscription) (*model.Subscription, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	out := &model.Subscription{}
	if err := c.call(ctx, transport.Patch(subscriptionPath(id), p), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteSubscription(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	return c.call(ctx, transport.Delete(subscriptionPath(id)), nil)
}

func subscriptionPath(id string) string {
	return subscriptionsPath + "/" + url.PathEscape(id)
}
