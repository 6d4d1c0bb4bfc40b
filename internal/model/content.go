package model

import (
	"encoding/json"
	"fmt"
)

type ContentType string

const (
	ContentTypeText          ContentType = "text"
	ContentTypeFile          ContentType = "file"
	ContentTypeTemplate      ContentType = "template"
	ContentTypeContacts      ContentType = "contacts"
	ContentTypeLocation      ContentType = "location"
	ContentTypeJSON          ContentType = "json"
	ContentTypeEmail         ContentType = "email"
	ContentTypeCard          ContentType = "card"
	ContentTypeCarousel      ContentType = "carousel"
	ContentTypeReplyableText ContentType = "replyable_text"
)

// String renders an absent tag as "undefined" so error messages stay readable.
func (t ContentType) String() string {
	if t == "" {
		return "undefined"
	}
	return string(t)
}

// Content is one unit of message payload. The set of implementations is closed:
// every variant lives in this package.
type Content interface {
	Type() ContentType
	// Validate checks the fields the variant requires.
	Validate() error
	isContent()
}

// ContentTypeOf returns the tag of c, or "" when c is nil.
func ContentTypeOf(c Content) ContentType {
	if c == nil {
		return ""
	}
	return c.Type()
}

// ValidationError reports a content item missing a field its variant requires.
type ValidationError struct {
	Content ContentType
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s content: %s %s", e.Content, e.Field, e.Reason)
}

func required(t ContentType, field string) error {
	return &ValidationError{Content: t, Field: field, Reason: "is required"}
}

// ---- text ----

type TextContent struct {
	Text    string `json:"text"`
	Payload string `json:"payload,omitempty"`
}

func NewTextContent(text string) TextContent { return TextContent{Text: text} }

func (TextContent) Type() ContentType { return ContentTypeText }
func (TextContent) isContent()        {}

func (c TextContent) Validate() error {
	if c.Text == "" {
		return required(ContentTypeText, "text")
	}
	return nil
}

func (c TextContent) MarshalJSON() ([]byte, error) {
	type alias TextContent
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		alias
	}{ContentTypeText, alias(c)})
}

// ---- file ----

type FileContent struct {
	FileURL      string `json:"fileUrl"`
	FileMimeType string `json:"fileMimeType"`
	FileCaption  string `json:"fileCaption,omitempty"`
}

func NewFileContent(url, mimeType, caption string) FileContent {
	return FileContent{FileURL: url, FileMimeType: mimeType, FileCaption: caption}
}

func (FileContent) Type() ContentType { return ContentTypeFile }
func (FileContent) isContent()        {}

func (c FileContent) Validate() error {
	if c.FileURL == "" {
		return required(ContentTypeFile, "fileUrl")
	}
	if c.FileMimeType == "" {
		return required(ContentTypeFile, "fileMimeType")
	}
	return nil
}

func (c FileContent) MarshalJSON() ([]byte, error) {
	type alias FileContent
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		alias
	}{ContentTypeFile, alias(c)})
}

// ---- template ----

type TemplateContent struct {
	TemplateID string            `json:"templateId"`
	Fields     map[string]string `json:"fields"`
}

func NewTemplateContent(templateID string, fields map[string]string) TemplateContent {
	if fields == nil {
		fields = map[string]string{}
	}
	return TemplateContent{TemplateID: templateID, Fields: fields}
}

func (TemplateContent) Type() ContentType { return ContentTypeTemplate }
func (TemplateContent) isContent()        {}

func (c TemplateContent) Validate() error {
	if c.TemplateID == "" {
		return required(ContentTypeTemplate, "templateId")
	}
	return nil
}

func (c TemplateContent) MarshalJSON() ([]byte, error) {
	type alias TemplateContent
	a := alias(c)
	if a.Fields == nil {
		a.Fields = map[string]string{}
	}
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		alias
	}{ContentTypeTemplate, a})
}

// ---- contacts ----

type ContactAddress struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Type        string `json:"type,omitempty"` // HOME | WORK
}

type ContactEmail struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"type,omitempty"`
}

type ContactIM struct {
	Service string `json:"service"`
	UserID  string `json:"userId"`
}

type ContactName struct {
	FormattedName string `json:"formattedName"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName,omitempty"`
	MiddleName    string `json:"middleName,omitempty"`
	Suffix        string `json:"suffix,omitempty"`
	Prefix        string `json:"prefix,omitempty"`
}

type ContactOrg struct {
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Title      string `json:"title,omitempty"`
}

type ContactPhone struct {
	Phone string `json:"phone,omitempty"`
	Type  string `json:"type,omitempty"` // CELL | MAIN | IPHONE | HOME | WORK
	WaID  string `json:"waId,omitempty"`
}

type ContactURL struct {
	URL  string `json:"url,omitempty"`
	Type string `json:"type,omitempty"`
}

type Contact struct {
	Addresses    []ContactAddress `json:"addresses,omitempty"`
	Birthday     string           `json:"birthday,omitempty"`
	ContactImage string           `json:"contactImage,omitempty"`
	Emails       []ContactEmail   `json:"emails,omitempty"`
	IMs          []ContactIM      `json:"ims,omitempty"`
	Name         *ContactName     `json:"name,omitempty"`
	Org          *ContactOrg      `json:"org,omitempty"`
	Phones       []ContactPhone   `json:"phones,omitempty"`
	URLs         []ContactURL     `json:"urls,omitempty"`
}

type ContactsContent struct {
	Contacts []Contact `json:"contacts"`
}

func NewContactsContent(contacts ...Contact) ContactsContent {
	return ContactsContent{Contacts: contacts}
}

func (ContactsContent) Type() ContentType { return ContentTypeContacts }
func (ContactsContent) isContent()        {}

func (c ContactsContent) Validate() error {
	if len(c.Contacts) == 0 {
		return required(ContentTypeContacts, "contacts")
	}
	return nil
}

func (c ContactsContent) MarshalJSON() ([]byte, error) {
	type alias ContactsContent
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		alias
	}{ContentTypeContacts, alias(c)})
}

// ---- location ----

type LocationContent struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Name      string  `json:"name,omitempty"`
	// Address is only displayed when Name is present.
	Address string `json:"address,omitempty"`
	URL     string `json:"url,omitempty"`
}

func NewLocationContent(longitude, latitude float64, name, address, url string) LocationContent {
	return LocationContent{Longitude: longitude, Latitude: latitude, Name: name, Address: address, URL: url}
}

func (LocationContent) Type() ContentType { return ContentTypeLocation }
func (LocationContent) isContent()        {}

func (c LocationContent) Validate() error {
	if c.Longitude < -180 || c.Longitude > 180 {
		return &ValidationError{Content: ContentTypeLocation, Field: "longitude", Reason: "is out of range"}
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return &ValidationError{Content: ContentTypeLocation, Field: "latitude", Reason: "is out of range"}
	}
	return nil
}

func (c LocationContent) MarshalJSON() ([]byte, error) {
	type alias LocationContent
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		alias
	}{ContentTypeLocation, alias(c)})
}

// ---- json ----

type JSONContent struct {
	Payload any `json:"payload"`
}

func NewJSONContent(payload any) JSONContent { return JSONContent{Payload: payload} }

func (JSONContent) Type() ContentType { return ContentTypeJSON }
func (JSONContent) isContent()        {}

func (c JSONContent) Validate() error {
	if c.Payload == nil {
		return required(ContentTypeJSON, "payload")
	}
	return nil
}

func (c JSONContent) MarshalJSON() ([]byte, error) {
	type alias JSONContent
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		alias
	}{ContentTypeJSON, alias(c)})
}

// ---- email ----

type EmailAttachment struct {
	FileURL      string `json:"fileUrl"`
	FileMimeType string `json:"fileMimeType"`
	FileName     string `json:"fileName,omitempty"`
}

type EmailContent struct {
	Subject     string            `json:"subject"`
	HTML        string            `json:"html,omitempty"`
	Text        string            `json:"text,omitempty"`
	Attachments []EmailAttachment `json:"attachments,omitempty"`
	CC          []string          `json:"cc,omitempty"`
	BCC         []string          `json:"bcc,omitempty"`
}

func NewEmailContent(subject, html, text string, attachments ...EmailAttachment) EmailContent {
	return EmailContent{Subject: subject, HTML: html, Text: text, Attachments: attachments}
}

func (EmailContent) Type() ContentType { return ContentTypeEmail }
func (EmailContent) isContent()        {}

func (c EmailContent) Validate() error {
	if c.Subject == "" {
		return required(ContentTypeEmail, "subject")
	}
	for _, a := range c.Attachments {
		if a.FileURL == "" {
			return required(ContentTypeEmail, "attachments.fileUrl")
		}
	}
	return nil
}

func (c EmailContent) MarshalJSON() ([]byte, error) {
	type alias EmailContent
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		alias
	}{ContentTypeEmail, alias(c)})
}

// ---- card / carousel / replyable text ----

type Media struct {
	URL         string `json:"url"`
	Disposition string `json:"disposition,omitempty"` // ON_THE_LEFT | ON_THE_RIGHT | ON_THE_TOP
	Height      string `json:"height,omitempty"`      // SHORT | MEDIUM | TALL
	Caption     string `json:"caption,omitempty"`
}

type Button struct {
	Type        string `json:"type"` // text | link | dial
	Text        string `json:"text"`
	URL         string `json:"url,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Payload     string `json:"payload,omitempty"`
}

type CardContent struct {
	Title             string   `json:"title,omitempty"`
	Text              string   `json:"text,omitempty"`
	Media             *Media   `json:"media,omitempty"`
	Buttons           []Button `json:"buttons,omitempty"`
	QuickReplyButtons []Button `json:"quickReplyButtons,omitempty"`
}

func (CardContent) Type() ContentType { return ContentTypeCard }
func (CardContent) isContent()        {}

func (c CardContent) Validate() error {
	if c.Title == "" && c.Text == "" && c.Media == nil {
		return &ValidationError{Content: ContentTypeCard, Field: "title|text|media", Reason: "needs at least one value"}
	}
	if c.Media != nil && c.Media.URL == "" {
		return required(ContentTypeCard, "media.url")
	}
	return nil
}

func (c CardContent) MarshalJSON() ([]byte, error) {
	type alias CardContent
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		alias
	}{ContentTypeCard, alias(c)})
}

type CardWidth string

const (
	CardWidthSmall  CardWidth = "SMALL"
	CardWidthMedium CardWidth = "MEDIUM"
)

type CarouselContent struct {
	CardWidth         CardWidth     `json:"cardWidth,omitempty"`
	Cards             []CardContent `json:"cards"`
	QuickReplyButtons []Button      `json:"quickReplyButtons,omitempty"`
}

func NewCarouselContent(width CardWidth, cards ...CardContent) CarouselContent {
	return CarouselContent{CardWidth: width, Cards: cards}
}

func (CarouselContent) Type() ContentType { return ContentTypeCarousel }
func (CarouselContent) isContent()        {}

func (c CarouselContent) Validate() error {
	if len(c.Cards) == 0 {
		return required(ContentTypeCarousel, "cards")
	}
	for i, card := range c.Cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("carousel card %d: %w", i, err)
		}
	}
	return nil
}

func (c CarouselContent) MarshalJSON() ([]byte, error) {
	type alias CarouselContent
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		alias
	}{ContentTypeCarousel, alias(c)})
}

type ReplyableTextContent struct {
	Text              string   `json:"text"`
	QuickReplyButtons []Button `json:"quickReplyButtons,omitempty"`
}

func NewReplyableTextContent(text string, quickReplies ...Button) ReplyableTextContent {
	return ReplyableTextContent{Text: text, QuickReplyButtons: quickReplies}
}

func (ReplyableTextContent) Type() ContentType { return ContentTypeReplyableText }
func (ReplyableTextContent) isContent()        {}

func (c ReplyableTextContent) Validate() error {
	if c.Text == "" {
		return required(ContentTypeReplyableText, "text")
	}
	return nil
}

func (c ReplyableTextContent) MarshalJSON() ([]byte, error) {
	type alias ReplyableTextContent
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		alias
	}{ContentTypeReplyableText, alias(c)})
}

// ---- raw ----

// RawContent carries a content item verbatim. Its tag is whatever the "type"
// field holds; an empty object has no tag.
type RawContent map[string]any

func (c RawContent) Type() ContentType {
	s, _ := c["type"].(string)
	return ContentType(s)
}

func (RawContent) isContent() {}

// Validate requires a tag. A catalogued tag is also checked the way its
// variant would be.
func (c RawContent) Validate() error {
	t := c.Type()
	if t == "" {
		return required("", "type")
	}
	if !t.Known() {
		return nil
	}
	b, err := json.Marshal(map[string]any(c))
	if err != nil {
		return &ValidationError{Content: t, Field: "value", Reason: fmt.Sprintf("is malformed (%v)", err)}
	}
	v, err := decodeVariant(t, b)
	if err != nil {
		return &ValidationError{Content: t, Field: "value", Reason: fmt.Sprintf("is malformed (%v)", err)}
	}
	return v.Validate()
}

func (c RawContent) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(c))
}
