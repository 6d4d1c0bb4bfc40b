// Package reconcile makes sure the webhook subscriptions a server needs exist
// on the platform, creating only the missing ones.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/jmehdipour/omnichannel/internal/metrics"
	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/transport"
)

// SubscriptionClient is satisfied by *client.Client. A nil pointer stored in
// the interface counts as no client.
type SubscriptionClient interface {
	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)
	CreateSubscription(ctx context.Context, s model.Subscription) (*model.Subscription, error)
}

type State string

const (
	StateSkipped       State = "SKIPPED"
	StateAlreadyActive State = "ALREADY_ACTIVE"
	StateCreated       State = "CREATED"
	StateFailed        State = "FAILED"
)

type Options struct {
	Client  SubscriptionClient
	URL     string
	Channel model.Channel
	// Headers are sent along with every delivery of created subscriptions.
	Headers map[string]string
	// WantMessage and WantStatus tell which event types have a handler.
	WantMessage bool
	WantStatus  bool
	Logger      *zap.Logger
}

// Enabled reports whether o carries everything reconciliation needs.
func (o Options) Enabled() bool {
	return !isNil(o.Client) && o.URL != "" && o.Channel != "" && (o.WantMessage || o.WantStatus)
}

func isNil(c SubscriptionClient) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Result is the outcome for one event type.
type Result struct {
	State        State
	Subscription *model.Subscription
	Err          error
}

type Report map[model.EventType]Result

func (r Report) State(t model.EventType) State {
	res, ok := r[t]
	if !ok {
		return StateSkipped
	}
	return res.State
}

// Reconcile lists subscriptions once and creates each wanted one that has no
// active match. A conflict on create counts as already active. Failures of
// one event type do not stop the other; they are joined in the returned error.
func Reconcile(ctx context.Context, o Options) (Report, error) {
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}

	report := Report{}
	if !o.Enabled() {
		log.Debug("subscription reconciliation skipped")
		return report, nil
	}

	log = log.With(zap.String("url", o.URL), zap.String("channel", o.Channel.String()))

	existing, err := o.Client.ListSubscriptions(ctx)
	if err != nil {
		for _, t := range o.wanted() {
			report[t] = Result{State: StateFailed, Err: err}
			metrics.ReconcileTotal.WithLabelValues(t.String(), string(StateFailed)).Inc()
		}
		return report, fmt.Errorf("list subscriptions: %w", err)
	}

	var errs []error
	for _, t := range o.wanted() {
		res := reconcileOne(ctx, o, t, existing)
		report[t] = res
		metrics.ReconcileTotal.WithLabelValues(t.String(), string(res.State)).Inc()

		fields := []zap.Field{zap.String("event_type", t.String()), zap.String("state", string(res.State))}
		if res.Err != nil {
			log.Error("subscription reconcile failed", append(fields, zap.Error(res.Err))...)
			errs = append(errs, fmt.Errorf("%s subscription: %w", t, res.Err))
			continue
		}
		log.Info("subscription reconciled", fields...)
	}

	return report, errors.Join(errs...)
}

func reconcileOne(ctx context.Context, o Options, t model.EventType, existing []model.Subscription) Result {
	for i := range existing {
		if existing[i].EventType == t && existing[i].Matches(o.URL, o.Channel) {
			return Result{State: StateAlreadyActive, Subscription: &existing[i]}
		}
	}

	created, err := o.Client.CreateSubscription(ctx, o.desired(t))
	switch {
	case err == nil:
		return Result{State: StateCreated, Subscription: created}
	case transport.IsConflict(err):
		// Someone else created it between list and create.
		return Result{State: StateAlreadyActive}
	default:
		return Result{State: StateFailed, Err: err}
	}
}

func (o Options) wanted() []model.EventType {
	var out []model.EventType
	if o.WantMessage {
		out = append(out, model.EventTypeMessage)
	}
	if o.WantStatus {
		out = append(out, model.EventTypeMessageStatus)
	}
	return out
}

func (o Options) desired(t model.EventType) model.Subscription {
	webhook := model.Webhook{URL: o.URL, Headers: o.Headers}
	criteria := model.Criteria{Channel: o.Channel}
	if t == model.EventTypeMessageStatus {
		return model.NewMessageStatusSubscription(webhook, criteria)
	}
	return model.NewMessageSubscription(webhook, criteria)
}
