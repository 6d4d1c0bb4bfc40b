package model

import (
	"encoding/json"
	"errors"
	"reflect"
)

type MessageStatusCode string

const (
	StatusRejected     MessageStatusCode = "REJECTED"
	StatusSent         MessageStatusCode = "SENT"
	StatusDelivered    MessageStatusCode = "DELIVERED"
	StatusNotDelivered MessageStatusCode = "NOT_DELIVERED"
	StatusRead         MessageStatusCode = "READ"
	// StatusFailed is local only: the send never reached the platform.
	StatusFailed MessageStatusCode = "FAILED"
	// StatusAccepted is local only: the platform assigned an id.
	StatusAccepted MessageStatusCode = "ACCEPTED"
)

func (s MessageStatusCode) String() string { return string(s) }

func (s MessageStatusCode) Valid() bool {
	switch s {
	case StatusRejected, StatusSent, StatusDelivered, StatusNotDelivered, StatusRead, StatusFailed, StatusAccepted:
		return true
	}
	return false
}

// MessageRequest is the envelope submitted per send. Content order is kept as
// supplied; status events refer back to it by contentIndex.
type MessageRequest struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Contents Contents `json:"contents"`
}

// Message is the platform's view of a message: the request plus assigned fields.
type Message struct {
	ID        string    `json:"id,omitempty"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Direction Direction `json:"direction,omitempty"`
	Channel   Channel   `json:"channel,omitempty"`
	Contents  Contents  `json:"contents"`
	Timestamp string    `json:"timestamp,omitempty"`
	// Extra keeps members the platform sent that Message does not declare.
	Extra Extra `json:"-"`
}

func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	var a alias
	err := json.Unmarshal(data, &a)
	a.Extra = undeclared(data, reflect.TypeOf(a))
	*m = Message(a)
	return tolerateTypes(err)
}

func (m Message) MarshalJSON() ([]byte, error) {
	type alias Message
	b, err := json.Marshal(alias(m))
	if err != nil {
		return nil, err
	}
	return withExtra(b, m.Extra)
}

type MessageStatus struct {
	Timestamp   string            `json:"timestamp"`
	Code        MessageStatusCode `json:"code"`
	Description string            `json:"description,omitempty"`
	Cause       string            `json:"cause,omitempty"`
	// Extra keeps members such as causes that MessageStatus does not declare.
	Extra Extra `json:"-"`
}

func (s *MessageStatus) UnmarshalJSON(data []byte) error {
	type alias MessageStatus
	var a alias
	err := json.Unmarshal(data, &a)
	a.Extra = undeclared(data, reflect.TypeOf(a))
	*s = MessageStatus(a)
	return tolerateTypes(err)
}

func (s MessageStatus) MarshalJSON() ([]byte, error) {
	type alias MessageStatus
	b, err := json.Marshal(alias(s))
	if err != nil {
		return nil, err
	}
	return withExtra(b, s.Extra)
}

// tolerateTypes drops member type mismatches: the mismatched field stays zero
// and the rest of the object still decodes.
func tolerateTypes(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return nil
	}
	return err
}
