package model

import "encoding/json"

// Event holds the fields every webhook delivery carries.
type Event struct {
	ID             string    `json:"id"`
	Timestamp      string    `json:"timestamp"`
	Type           EventType `json:"type"`
	SubscriptionID string    `json:"subscriptionId"`
	Channel        Channel   `json:"channel"`
}

type MessageEvent struct {
	Event
	Direction Direction `json:"direction"`
	Message   Message   `json:"message"`
	// Raw is the delivery exactly as received.
	Raw json.RawMessage `json:"-"`
}

type MessageStatusEvent struct {
	Event
	MessageID     string          `json:"messageId"`
	ContentIndex  int             `json:"contentIndex"`
	MessageStatus MessageStatus   `json:"messageStatus"`
	Raw           json.RawMessage `json:"-"`
}

// EventRecord is an inbound delivery as received, for archiving and streaming.
type EventRecord struct {
	Event
	Payload []byte `json:"-"`
}
