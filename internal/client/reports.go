package client

import (
	"context"
	"errors"

	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/transport"
)

var (
	ErrMissingStartDate = errors.New("startDate is required")
	ErrMissingEndDate   = errors.New("endDate is required")
)

func (c *Client) FlowReportEntries(ctx context.Context, f model.FlowReportFilters) ([]model.FlowReportEntry, error) {
	if f.StartDate == "" {
		return nil, ErrMissingStartDate
	}

	r := transport.Get("/v2/reports/flow/entries")
	r.Query = f.Query()

	var out []model.FlowReportEntry
	if err := c.call(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MessageReportEntries(ctx context.Context, f model.MessageReportFilters) ([]model.MessageReportEntry, error) {
	if f.StartDate == "" {
		return nil, ErrMissingStartDate
	}
	if f.EndDate == "" {
		return nil, ErrMissingEndDate
	}

	r := transport.Get("/v2/reports/message/entries")
	r.Query = f.Query()

	var out []model.MessageReportEntry
	if err := c.call(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}
