package model

import "strings"

type Channel string

const (
	ChannelSMS       Channel = "sms"
	ChannelWhatsApp  Channel = "whatsapp"
	ChannelFacebook  Channel = "facebook"
	ChannelInstagram Channel = "instagram"
	ChannelTelegram  Channel = "telegram"
	ChannelRCS       Channel = "rcs"
	ChannelGBM       Channel = "gbm"
	ChannelEmail     Channel = "email"
)

func (c Channel) String() string { return string(c) }

// Channels lists every channel the platform accepts, in a stable order.
func Channels() []Channel {
	return []Channel{
		ChannelSMS,
		ChannelWhatsApp,
		ChannelFacebook,
		ChannelInstagram,
		ChannelTelegram,
		ChannelRCS,
		ChannelGBM,
		ChannelEmail,
	}
}

// ParseChannel normalizes input (case, surrounding spaces).
// Returns (value, true) if valid; otherwise ("", false).
func ParseChannel(s string) (Channel, bool) {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, true
	}
	return "", false
}

func (c Channel) Valid() bool {
	for _, known := range Channels() {
		if c == known {
			return true
		}
	}
	return false
}

type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)
