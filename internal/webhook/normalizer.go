package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmehdipour/omnichannel/internal/model"
)

type MessageHandler func(ctx context.Context, e model.MessageEvent) error

type MessageStatusHandler func(ctx context.Context, e model.MessageStatusEvent) error

type Outcome string

const (
	OutcomeHandled   Outcome = "handled"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeFailed    Outcome = "failed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
)

// HandlerError wraps a failure returned (or panicked) by a registered handler.
type HandlerError struct {
	EventType model.EventType
	EventID   string
	Err       error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s event %s: %v", e.EventType, e.EventID, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Normalizer classifies one inbound payload and routes it to the handler
// registered for its type. It holds no state besides the handlers and may be
// used concurrently.
type Normalizer struct {
	OnMessage MessageHandler
	OnStatus  MessageStatusHandler
}

// Classify reads the fields every event carries.
func Classify(body []byte) (model.EventRecord, error) {
	var ev model.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return model.EventRecord{}, fmt.Errorf("decode event: %w", err)
	}
	return model.EventRecord{Event: ev, Payload: body}, nil
}

// Dispatch invokes at most one handler, synchronously. Unknown types and types
// without a handler are ignored. Handler errors and panics come back as
// *HandlerError.
func (n *Normalizer) Dispatch(ctx context.Context, rec model.EventRecord) (Outcome, error) {
	switch rec.Type {
	case model.EventTypeMessage:
		if n.OnMessage == nil {
			return OutcomeIgnored, nil
		}
		var ev model.MessageEvent
		if err := decodeEvent(rec, &ev); err != nil {
			return OutcomeRejected, err
		}
		ev.Raw = rec.Payload
		return n.invoke(rec, func() error { return n.OnMessage(ctx, ev) })

	case model.EventTypeMessageStatus:
		if n.OnStatus == nil {
			return OutcomeIgnored, nil
		}
		var ev model.MessageStatusEvent
		if err := decodeEvent(rec, &ev); err != nil {
			return OutcomeRejected, err
		}
		ev.Raw = rec.Payload
		return n.invoke(rec, func() error { return n.OnStatus(ctx, ev) })

	default:
		return OutcomeIgnored, nil
	}
}

// decodeEvent fills the typed view of rec. A member whose JSON type does not
// match its field is left zero; the handler still gets the event and can read
// the member from Raw.
func decodeEvent(rec model.EventRecord, v any) error {
	err := json.Unmarshal(rec.Payload, v)
	var typeErr *json.UnmarshalTypeError
	if err == nil || errors.As(err, &typeErr) {
		return nil
	}
	return fmt.Errorf("decode %s event: %w", rec.Type, err)
}

// Normalize is Classify followed by Dispatch.
func (n *Normalizer) Normalize(ctx context.Context, body []byte) (model.EventRecord, Outcome, error) {
	rec, err := Classify(body)
	if err != nil {
		return rec, OutcomeRejected, err
	}
	out, err := n.Dispatch(ctx, rec)
	return rec, out, err
}

func (n *Normalizer) invoke(rec model.EventRecord, call func() error) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = OutcomeFailed
			err = &HandlerError{EventType: rec.Type, EventID: rec.ID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := call(); err != nil {
		return OutcomeFailed, &HandlerError{EventType: rec.Type, EventID: rec.ID, Err: err}
	}
	return OutcomeHandled, nil
}
