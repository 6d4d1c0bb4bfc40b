package model

// Envelope is the outbound payload consumed from Kafka by the sender worker.
type Envelope struct {
	ID       string   `json:"id"` // producer id, kept for correlation
	Channel  Channel  `json:"channel"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Contents Contents `json:"contents"`
}

func (e Envelope) Request() MessageRequest {
	return MessageRequest{From: e.From, To: e.To, Contents: e.Contents}
}
