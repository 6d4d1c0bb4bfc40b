package client

import (
	"context"
	"net/url"

	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/transport"
)

const templatesPath = "/v2/templates"

func (c *Client) ListTemplates(ctx context.Context) ([]model.Template, error) {
	var out []model.Template
	if err := c.call(ctx, transport.Get(templatesPath), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	out := &model.Template{}
	if err := c.call(ctx, transport.Get(templatePath(id)), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTemplate(ctx context.Context, t model.Template) (*model.Template, error) {
	out := &model.Template{}
	if err := c.call(ctx, transport.Post(templatesPath, t), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateTemplate(ctx context.Context, id string, p model.PartialTemplate) (*model.Template, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	out := &model.Template{}
	if err := c.call(ctx, transport.Patch(templatePath(id), p), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	return c.call(ctx, transport.Delete(templatePath(id)), nil)
}

func templatePath(id string) string {
	return templatesPath + "/" + url.PathEscape(id)
}
