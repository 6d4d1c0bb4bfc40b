package model

import "time"

type EventType string

const (
	EventTypeMessage       EventType = "MESSAGE"
	EventTypeMessageStatus EventType = "MESSAGE_STATUS"
)

func (t EventType) String() string { return string(t) }

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionInactive SubscriptionStatus = "INACTIVE"
)

type Webhook struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

type Criteria struct {
	Channel   Channel   `json:"channel"`
	Direction Direction `json:"direction,omitempty"`
}

type Subscription struct {
	ID        string             `json:"id,omitempty"`
	EventType EventType          `json:"eventType"`
	Webhook   Webhook            `json:"webhook"`
	Criteria  Criteria           `json:"criteria"`
	Status    SubscriptionStatus `json:"status"`
	CreatedAt *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt *time.Time         `json:"updatedAt,omitempty"`
}

// Matches reports whether s is an active subscription delivering to url for channel.
func (s Subscription) Matches(url string, channel Channel) bool {
	return s.Status == SubscriptionActive && s.Webhook.URL == url && s.Criteria.Channel == channel
}

// PartialSubscription carries the fields an update may change.
type PartialSubscription struct {
	Webhook *Webhook           `json:"webhook,omitempty"`
	Status  SubscriptionStatus `json:"status,omitempty"`
}

func NewMessageSubscription(webhook Webhook, criteria Criteria) Subscription {
	return Subscription{EventType: EventTypeMessage, Webhook: webhook, Criteria: criteria, Status: SubscriptionActive}
}

// NewMessageStatusSubscription ignores criteria.Direction; status events have none.
func NewMessageStatusSubscription(webhook Webhook, criteria Criteria) Subscription {
	criteria.Direction = ""
	return Subscription{EventType: EventTypeMessageStatus, Webhook: webhook, Criteria: criteria, Status: SubscriptionActive}
}
