package model

type TemplateStatus string

const (
	TemplateWaitingReview             TemplateStatus = "WAITING_REVIEW"
	TemplateRejected                  TemplateStatus = "REJECTED"
	TemplateWaitingWhatsAppSubmission TemplateStatus = "WAITING_WHATSAPP_SUBMISSION"
	TemplateWaitingWhatsAppReview     TemplateStatus = "WAITING_WHATSAPP_REVIEW"
	TemplateApproved                  TemplateStatus = "APPROVED"
	TemplateCanceled                  TemplateStatus = "CANCELED"
)

type TemplateComponent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type TemplateButtonItem struct {
	Type        string `json:"type"`
	Text        string `json:"text"`
	URL         string `json:"url,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Payload     string `json:"payload,omitempty"`
}

type TemplateButtons struct {
	Type  string               `json:"type"`
	Items []TemplateButtonItem `json:"items"`
}

type TemplateComponents struct {
	Header  *TemplateComponent `json:"header,omitempty"`
	Body    TemplateComponent  `json:"body"`
	Footer  *TemplateComponent `json:"footer,omitempty"`
	Buttons *TemplateButtons   `json:"buttons,omitempty"`
}

type TemplateComment struct {
	ID        string `json:"id,omitempty"`
	Author    string `json:"author"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type TemplateSuggestion struct {
	ID        string `json:"id,omitempty"`
	Status    string `json:"status"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type TemplateChannel struct {
	Type     string         `json:"type"`   // WHATSAPP | FACEBOOK | SMS
	Status   string         `json:"status"` // APPROVED | REFUSED | PENDING | CANCELED
	SenderID string         `json:"senderId"`
	WhatsApp map[string]any `json:"whatsapp,omitempty"`
}

type Template struct {
	ID                string               `json:"id,omitempty"`
	Name              string               `json:"name"`
	Locale            string               `json:"locale"`
	Channel           string               `json:"channel"`
	Category          string               `json:"category"`
	TextReference     string               `json:"textReference,omitempty"`
	Components        TemplateComponents   `json:"components"`
	SenderID          string               `json:"senderId"`
	Status            TemplateStatus       `json:"status,omitempty"`
	NotificationEmail string               `json:"notificationEmail,omitempty"`
	Comments          []TemplateComment    `json:"comments,omitempty"`
	Suggestions       []TemplateSuggestion `json:"suggestions,omitempty"`
	Channels          []TemplateChannel    `json:"channels,omitempty"`
	CreatedAt         string               `json:"createdAt,omitempty"`
	UpdatedAt         string               `json:"updatedAt,omitempty"`
}

type PartialTemplate struct {
	Components        *TemplateComponents `json:"components,omitempty"`
	NotificationEmail string              `json:"notificationEmail,omitempty"`
}
