package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContentTyped(t *testing.T) {
	c, err := DecodeContent([]byte(`{"type":"file","fileUrl":"http://domain.com/a.png","fileMimeType":"image/png","fileCaption":"Some image"}`))
	require.NoError(t, err)
	assert.Equal(t, FileContent{FileURL: "http://domain.com/a.png", FileMimeType: "image/png", FileCaption: "Some image"}, c)

	c, err = DecodeContent([]byte(`{"type":"template","templateId":"t1","fields":{"name":"Ana"}}`))
	require.NoError(t, err)
	assert.Equal(t, NewTemplateContent("t1", map[string]string{"name": "Ana"}), c)
}

func TestDecodeContentUnknownTagStaysRaw(t *testing.T) {
	c, err := DecodeContent([]byte(`{"type":"sticker","url":"http://x"}`))
	require.NoError(t, err)
	raw, ok := c.(RawContent)
	require.True(t, ok)
	assert.Equal(t, ContentType("sticker"), raw.Type())
	assert.Equal(t, "http://x", raw["url"])

	c, err = DecodeContent([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, ContentType(""), c.Type())
}

func TestDecodeContentRejectsMalformed(t *testing.T) {
	_, err := DecodeContent([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestContentsRoundTripKeepsOrder(t *testing.T) {
	in := Contents{
		NewTextContent("first"),
		NewFileContent("http://x/b.pdf", "application/pdf", ""),
		NewJSONContent(map[string]any{"visitor": map[string]any{"name": "Some name"}}),
		NewTextContent("last"),
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out Contents
	require.NoError(t, json.Unmarshal(b, &out))
	require.Len(t, out, 4)
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, in[1], out[1])
	assert.Equal(t, ContentTypeJSON, out[2].Type())
	assert.Equal(t, in[3], out[3])
}

func TestMessageDecodesContents(t *testing.T) {
	body := `{"id":"m1","from":"FROM","to":"TO","direction":"IN","channel":"whatsapp",
		"contents":[{"type":"text","text":"Some message"},{"type":"location","longitude":1.5,"latitude":2.5}]}`
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(body), &msg))
	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, DirectionIn, msg.Direction)
	assert.Equal(t, ChannelWhatsApp, msg.Channel)
	assert.Equal(t, Contents{NewTextContent("Some message"), LocationContent{Longitude: 1.5, Latitude: 2.5}}, msg.Contents)
}

func TestEveryCatalogTagKnown(t *testing.T) {
	for _, ct := range ContentTypes() {
		assert.True(t, ct.Known(), ct)
	}
	assert.False(t, ContentType("sticker").Known())
}

func TestDecodeContentFallsBackToRaw(t *testing.T) {
	c, err := DecodeContent([]byte(`{"type":"location","longitude":"-46.6","latitude":-23.5}`))
	require.NoError(t, err)
	assert.Equal(t, RawContent{"type": "location", "longitude": "-46.6", "latitude": -23.5}, c)

	c, err = DecodeContent([]byte(`{"type":"file","fileUrl":"u","fileMimeType":"image/png","fileName":"a.png"}`))
	require.NoError(t, err)
	assert.Equal(t, RawContent{"type": "file", "fileUrl": "u", "fileMimeType": "image/png", "fileName": "a.png"}, c)

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"file","fileUrl":"u","fileMimeType":"image/png","fileName":"a.png"}`, string(b))
}

func TestMessageKeepsUndeclaredMembers(t *testing.T) {
	body := `{"id":"m1","from":"a","to":"b","contents":[],"visitor":{"name":"Ana"}}`
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(body), &msg))
	assert.JSONEq(t, `{"name":"Ana"}`, string(msg.Extra["visitor"]))

	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(b))

	var plain Message
	require.NoError(t, json.Unmarshal([]byte(`{"id":"m2","from":"a","to":"b","contents":[]}`), &plain))
	assert.Nil(t, plain.Extra)
}
