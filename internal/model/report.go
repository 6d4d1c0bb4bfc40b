package model

import (
	"net/url"
	"strings"
)

type MessageType string

const (
	MessageTypeMessage      MessageType = "message"
	MessageTypeNotification MessageType = "notification"
)

type FlowReportFilters struct {
	StartDate  string
	EndDate    string
	FlowID     string
	DispatchID string
	SessionID  string
}

func (f FlowReportFilters) Query() url.Values {
	q := url.Values{}
	set(q, "startDate", f.StartDate)
	set(q, "endDate", f.EndDate)
	set(q, "flowId", f.FlowID)
	set(q, "dispatchId", f.DispatchID)
	set(q, "sessionId", f.SessionID)
	return q
}

type MessageReportFilters struct {
	StartDate string
	EndDate   string
	Channels  []Channel
	Type      MessageType
}

func (f MessageReportFilters) Query() url.Values {
	q := url.Values{}
	set(q, "startDate", f.StartDate)
	set(q, "endDate", f.EndDate)
	if len(f.Channels) > 0 {
		names := make([]string, len(f.Channels))
		for i, c := range f.Channels {
			names[i] = c.String()
		}
		q.Set("channels", strings.Join(names, ","))
	}
	set(q, "type", string(f.Type))
	return q
}

func set(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

type FlowReportEntry struct {
	FlowID              string         `json:"flowId"`
	DispatchID          string         `json:"dispatchId"`
	SessionID           string         `json:"sessionId"`
	FirstEventTimestamp string         `json:"firstEventTimestamp"`
	LastEventTimestamp  string         `json:"lastEventTimestamp"`
	Variables           map[string]any `json:"variables,omitempty"`
}

type MessageReportEntry struct {
	Channel           string `json:"channel"`
	Type              string `json:"type"`
	DirectionInTotal  int    `json:"directionInTotal"`
	DirectionOutTotal int    `json:"directionOutTotal"`
	Total             int    `json:"total"`
}
