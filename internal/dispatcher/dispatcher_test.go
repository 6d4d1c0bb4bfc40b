package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/omnichannel/internal/channel"
	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/transport"
)

type fakeTransport struct {
	calls    []transport.Request
	response []byte
	err      error
}

func (f *fakeTransport) Send(_ context.Context, r transport.Request) ([]byte, error) {
	f.calls = append(f.calls, r)
	return f.response, f.err
}

func TestSendText(t *testing.T) {
	ft := &fakeTransport{response: []byte(`{"id":"m1","from":"a","to":"b","direction":"OUT","channel":"sms","contents":[{"type":"text","text":"hi"}]}`)}
	d, err := New(model.ChannelSMS, ft, nil)
	require.NoError(t, err)

	msg, err := d.Send(context.Background(), "a", "b", model.NewTextContent("hi"))
	require.NoError(t, err)

	require.Len(t, ft.calls, 1)
	assert.Equal(t, "POST", ft.calls[0].Method)
	assert.Equal(t, "/v2/channels/sms/messages", ft.calls[0].Path)

	b, err := json.Marshal(ft.calls[0].Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"a","to":"b","contents":[{"type":"text","text":"hi"}]}`, string(b))

	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, model.DirectionOut, msg.Direction)
	assert.Equal(t, model.Contents{model.NewTextContent("hi")}, msg.Contents)
}

func TestSendRejectsUnsupportedBeforeNetwork(t *testing.T) {
	ft := &fakeTransport{}
	d, err := New(model.ChannelSMS, ft, nil)
	require.NoError(t, err)

	_, err = d.Send(context.Background(), "a", "b", model.NewTemplateContent("t1", map[string]string{}))
	assert.EqualError(t, err, "Content of type template is not supported in SMS channel")
	assert.Empty(t, ft.calls)
}

func TestSendIsAllOrNothing(t *testing.T) {
	ft := &fakeTransport{}
	d, err := New(model.ChannelWhatsApp, ft, nil)
	require.NoError(t, err)

	_, err = d.Send(context.Background(), "a", "b",
		model.NewTextContent("ok"),
		model.NewEmailContent("subject", "", "body"),
	)

	var uerr *channel.UnsupportedContentError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, model.ContentTypeEmail, uerr.ContentType)
	assert.Empty(t, ft.calls)
}

func TestSendInputErrors(t *testing.T) {
	ft := &fakeTransport{}
	d, err := New(model.ChannelSMS, ft, nil)
	require.NoError(t, err)

	_, err = d.Send(context.Background(), "", "b", model.NewTextContent("x"))
	assert.ErrorIs(t, err, ErrMissingFrom)

	_, err = d.Send(context.Background(), "a", "", model.NewTextContent("x"))
	assert.ErrorIs(t, err, ErrMissingTo)

	_, err = d.Send(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrNoContents)

	_, err = d.Send(context.Background(), "a", "b", model.NewTextContent(""))
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)

	assert.Empty(t, ft.calls)
}

func TestSendSurfacesTransportError(t *testing.T) {
	terr := &transport.Error{HTTPStatusCode: 400, Message: "Unsuccessful request", Body: map[string]any{"code": "VALIDATION_ERROR"}}
	ft := &fakeTransport{err: terr}
	d, err := New(model.ChannelSMS, ft, nil)
	require.NoError(t, err)

	_, err = d.Send(context.Background(), "a", "b", model.NewTextContent("hi"))
	assert.True(t, errors.Is(err, terr))
	assert.Len(t, ft.calls, 1)
}

func TestNewUnknownChannel(t *testing.T) {
	_, err := New(model.Channel("fax"), &fakeTransport{}, nil)
	assert.ErrorIs(t, err, channel.ErrUnsupportedChannel)
}

func TestCheckOnlyHandle(t *testing.T) {
	d, err := New(model.ChannelWhatsApp, nil, nil)
	require.NoError(t, err)

	req := model.MessageRequest{From: "a", To: "b", Contents: model.Contents{model.NewTextContent("hi")}}
	require.NoError(t, d.Check(req))

	_, err = d.SendRequest(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoTransport)

	req.Contents = model.Contents{model.NewTextContent("")}
	_, err = d.SendRequest(context.Background(), req)
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}
