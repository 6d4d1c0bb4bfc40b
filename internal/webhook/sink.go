package webhook

import (
	"context"

	"github.com/jmehdipour/omnichannel/internal/model"
)

// EventSink receives every accepted event after handler dispatch.
type EventSink interface {
	Record(ctx context.Context, rec model.EventRecord) error
}

type SinkFunc func(ctx context.Context, rec model.EventRecord) error

func (f SinkFunc) Record(ctx context.Context, rec model.EventRecord) error { return f(ctx, rec) }
