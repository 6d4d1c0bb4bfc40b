package model

// BatchContentKind selects which field a batch content item carries.
type BatchContentKind string

const (
	BatchText     BatchContentKind = "text"     // SMS
	BatchTemplate BatchContentKind = "template" // WhatsApp
)

type BatchContent struct {
	Type       ContentType `json:"type"`
	Text       string      `json:"text,omitempty"`
	TemplateID string      `json:"templateId,omitempty"`
}

// BatchContents builds one homogeneous item per value, in order. A single
// value yields a one-element slice.
func BatchContents(kind BatchContentKind, values ...string) []BatchContent {
	out := make([]BatchContent, 0, len(values))
	for _, v := range values {
		switch kind {
		case BatchTemplate:
			out = append(out, BatchContent{Type: ContentTypeTemplate, TemplateID: v})
		default:
			out = append(out, BatchContent{Type: ContentTypeText, Text: v})
		}
	}
	return out
}

type BatchMessage struct {
	From     string         `json:"from"`
	Contents []BatchContent `json:"contents"`
}

// ColumnMapper maps template variable names to CSV column headers.
type ColumnMapper map[string]string

type MessageBatch struct {
	ID           string       `json:"id,omitempty"`
	Name         string       `json:"name"`
	Channel      Channel      `json:"channel"`
	Message      BatchMessage `json:"message"`
	ColumnMapper ColumnMapper `json:"columnMapper"`
	CreatedAt    string       `json:"createdAt,omitempty"`
	UpdatedAt    string       `json:"updatedAt,omitempty"`
}

func NewSMSMessageBatch(name, from string, columns ColumnMapper, texts ...string) MessageBatch {
	return MessageBatch{
		Name:         name,
		Channel:      ChannelSMS,
		Message:      BatchMessage{From: from, Contents: BatchContents(BatchText, texts...)},
		ColumnMapper: columns,
	}
}

func NewWhatsAppMessageBatch(name, from string, columns ColumnMapper, templateIDs ...string) MessageBatch {
	return MessageBatch{
		Name:         name,
		Channel:      ChannelWhatsApp,
		Message:      BatchMessage{From: from, Contents: BatchContents(BatchTemplate, templateIDs...)},
		ColumnMapper: columns,
	}
}
