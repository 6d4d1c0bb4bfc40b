// Package channel holds the per-channel content rules: which content types a
// channel accepts and how it is named in error messages.
package channel

import (
	"errors"
	"fmt"

	"github.com/jmehdipour/omnichannel/internal/model"
)

var ErrUnsupportedChannel = errors.New("unsupported channel")

type profile struct {
	displayName string
	supported   []model.ContentType
}

var profiles = map[model.Channel]profile{
	model.ChannelSMS: {"SMS", []model.ContentType{
		model.ContentTypeText,
	}},
	model.ChannelWhatsApp: {"WhatsApp", []model.ContentType{
		model.ContentTypeText,
		model.ContentTypeFile,
		model.ContentTypeTemplate,
		model.ContentTypeContacts,
		model.ContentTypeLocation,
	}},
	model.ChannelFacebook:  {"Facebook", []model.ContentType{model.ContentTypeText, model.ContentTypeFile}},
	model.ChannelInstagram: {"Instagram", []model.ContentType{model.ContentTypeText, model.ContentTypeFile}},
	model.ChannelTelegram:  {"Telegram", []model.ContentType{model.ContentTypeText, model.ContentTypeFile}},
	model.ChannelRCS:       {"RCS", []model.ContentType{model.ContentTypeText, model.ContentTypeFile}},
	model.ChannelGBM: {"GBM", []model.ContentType{
		model.ContentTypeText,
		model.ContentTypeFile,
		model.ContentTypeCard,
		model.ContentTypeCarousel,
		model.ContentTypeReplyableText,
	}},
	model.ChannelEmail: {"E-mail", []model.ContentType{
		model.ContentTypeEmail,
	}},
}

// UnsupportedContentError is returned when a channel does not accept a content type.
type UnsupportedContentError struct {
	ContentType model.ContentType
	Channel     model.Channel
	DisplayName string
}

func (e *UnsupportedContentError) Error() string {
	return fmt.Sprintf("Content of type %s is not supported in %s channel", e.ContentType, e.DisplayName)
}

// Validator decides whether content may be sent on one channel. It is
// immutable after construction and safe for concurrent use.
type Validator struct {
	channel     model.Channel
	displayName string
	supported   map[model.ContentType]struct{}
}

func NewValidator(c model.Channel) (*Validator, error) {
	s, ok := profiles[c]
	if !ok {
		return nil, ErrUnsupportedChannel
	}
	set := make(map[model.ContentType]struct{}, len(s.supported))
	for _, t := range s.supported {
		set[t] = struct{}{}
	}
	return &Validator{channel: c, displayName: s.displayName, supported: set}, nil
}

func (v *Validator) Channel() model.Channel { return v.channel }
func (v *Validator) DisplayName() string    { return v.displayName }

func (v *Validator) Supports(t model.ContentType) bool {
	_, ok := v.supported[t]
	return ok
}

// SupportedTypes returns the accepted content types in catalog order.
func (v *Validator) SupportedTypes() []model.ContentType {
	out := make([]model.ContentType, 0, len(v.supported))
	for _, t := range model.ContentTypes() {
		if v.Supports(t) {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks the content tag against the channel, then the variant's own
// required fields.
func (v *Validator) Validate(c model.Content) error {
	t := model.ContentTypeOf(c)
	if !v.Supports(t) {
		return &UnsupportedContentError{ContentType: t, Channel: v.channel, DisplayName: v.displayName}
	}
	return c.Validate()
}

// ValidateAll stops at the first failing item.
func (v *Validator) ValidateAll(contents []model.Content) error {
	for _, c := range contents {
		if err := v.Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// DisplayName returns the human name of c, or "" for unknown channels.
func DisplayName(c model.Channel) string {
	return profiles[c].displayName
}
