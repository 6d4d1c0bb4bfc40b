package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/omnichannel/internal/channel"
	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/transport"
)

type recorded struct {
	method string
	path   string
	query  string
	body   []byte
}

// newTestClient serves every request with the reply registered for "METHOD path".
func newTestClient(t *testing.T, replies map[string]string) (*Client, *[]recorded) {
	t.Helper()
	var got []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = append(got, recorded{r.Method, r.URL.Path, r.URL.RawQuery, b})
		reply, ok := replies[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	tr, err := transport.NewHTTP(transport.Config{BaseURL: srv.URL, Token: "tok"})
	require.NoError(t, err)
	return New(tr, nil), &got
}

func TestChannelHandleCached(t *testing.T) {
	c, _ := newTestClient(t, nil)

	a, err := c.Channel(model.ChannelWhatsApp)
	require.NoError(t, err)
	b, err := c.Channel(model.ChannelWhatsApp)
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = c.Channel(model.Channel("fax"))
	assert.EqualError(t, err, "unsupported channel")
	assert.ErrorIs(t, err, channel.ErrUnsupportedChannel)
}

func TestSubscriptionsCRUD(t *testing.T) {
	sub := `{"id":"s1","eventType":"MESSAGE","webhook":{"url":"https://x"},"criteria":{"channel":"whatsapp"},"status":"ACTIVE"}`
	c, got := newTestClient(t, map[string]string{
		"GET /v2/subscriptions":       "[" + sub + "]",
		"POST /v2/subscriptions":      sub,
		"GET /v2/subscriptions/s1":    sub,
		"PATCH /v2/subscriptions/s1":  `{"id":"s1","eventType":"MESSAGE","webhook":{"url":"https://y"},"criteria":{"channel":"whatsapp"},"status":"INACTIVE"}`,
		"DELETE /v2/subscriptions/s1": "",
	})
	ctx := context.Background()

	list, err := c.ListSubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Matches("https://x", model.ChannelWhatsApp))

	created, err := c.CreateSubscription(ctx, model.NewMessageSubscription(
		model.Webhook{URL: "https://x"}, model.Criteria{Channel: model.ChannelWhatsApp},
	))
	require.NoError(t, err)
	assert.Equal(t, "s1", created.ID)
	assert.JSONEq(t,
		`{"eventType":"MESSAGE","webhook":{"url":"https://x"},"criteria":{"channel":"whatsapp"},"status":"ACTIVE"}`,
		string((*got)[1].body))

	one, err := c.GetSubscription(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.EventTypeMessage, one.EventType)

	updated, err := c.UpdateSubscription(ctx, "s1", model.PartialSubscription{Status: model.SubscriptionInactive})
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionInactive, updated.Status)
	assert.JSONEq(t, `{"status":"INACTIVE"}`, string((*got)[3].body))

	require.NoError(t, c.DeleteSubscription(ctx, "s1"))
	assert.Equal(t, "DELETE", (*got)[4].method)

	_, err = c.GetSubscription(ctx, "")
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestTemplatesCRUD(t *testing.T) {
	tpl := `{"id":"t1","name":"welcome","locale":"pt_BR","channel":"WHATSAPP","category":"ACCOUNT_UPDATE","components":{"body":{"type":"TEXT_TEMPLATE","text":"Hi {{name}}"}},"senderId":"s","status":"APPROVED"}`
	c, got := newTestClient(t, map[string]string{
		"GET /v2/templates":       "[" + tpl + "]",
		"POST /v2/templates":      tpl,
		"GET /v2/templates/t1":    tpl,
		"PATCH /v2/templates/t1":  tpl,
		"DELETE /v2/templates/t1": "",
	})
	ctx := context.Background()

	list, err := c.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.TemplateApproved, list[0].Status)
	assert.Equal(t, "Hi {{name}}", list[0].Components.Body.Text)

	_, err = c.CreateTemplate(ctx, model.Template{Name: "welcome"})
	require.NoError(t, err)

	_, err = c.GetTemplate(ctx, "t1")
	require.NoError(t, err)

	_, err = c.UpdateTemplate(ctx, "t1", model.PartialTemplate{NotificationEmail: "ops@example.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"notificationEmail":"ops@example.com"}`, string((*got)[3].body))

	require.NoError(t, c.DeleteTemplate(ctx, "t1"))
	assert.Len(t, *got, 5)
}

func TestReports(t *testing.T) {
	c, got := newTestClient(t, map[string]string{
		"GET /v2/reports/flow/entries":    `[{"flowId":"f1","dispatchId":"d1","sessionId":"s1","firstEventTimestamp":"a","lastEventTimestamp":"b"}]`,
		"GET /v2/reports/message/entries": `[{"channel":"SMS","type":"message","directionInTotal":1,"directionOutTotal":2,"total":3}]`,
	})
	ctx := context.Background()

	_, err := c.FlowReportEntries(ctx, model.FlowReportFilters{})
	assert.ErrorIs(t, err, ErrMissingStartDate)

	flows, err := c.FlowReportEntries(ctx, model.FlowReportFilters{StartDate: "2024-01-01", FlowID: "f1"})
	require.NoError(t, err)
	require.Len(t, flows, 1)
	assert.Equal(t, "d1", flows[0].DispatchID)
	assert.Equal(t, "flowId=f1&startDate=2024-01-01", (*got)[0].query)

	_, err = c.MessageReportEntries(ctx, model.MessageReportFilters{StartDate: "2024-01-01"})
	assert.ErrorIs(t, err, ErrMissingEndDate)

	msgs, err := c.MessageReportEntries(ctx, model.MessageReportFilters{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		Channels:  []model.Channel{model.ChannelSMS, model.ChannelWhatsApp},
	})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, 3, msgs[0].Total)
	assert.Equal(t, "channels=sms%2Cwhatsapp&endDate=2024-01-31&startDate=2024-01-01", (*got)[1].query)
}

func TestSendMessageBatchFile(t *testing.T) {
	var batchPart map[string]any
	var contacts string
	var filename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		_ = json.Unmarshal([]byte(r.FormValue("batch")), &batchPart)
		f, h, err := r.FormFile("contacts")
		if !assert.NoError(t, err) {
			return
		}
		b, _ := io.ReadAll(f)
		contacts, filename = string(b), h.Filename
		_, _ = w.Write([]byte(`{"id":"b1","name":"promo","channel":"sms","message":{"from":"me","contents":[{"type":"text","text":"Hi"}]},"columnMapper":{"recipient_sms":"phone"}}`))
	}))
	t.Cleanup(srv.Close)

	tr, err := transport.NewHTTP(transport.Config{BaseURL: srv.URL, Token: "tok"})
	require.NoError(t, err)
	c := New(tr, nil)

	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("phone\n5511999999999\n"), 0o600))

	batch := model.NewSMSMessageBatch("promo", "me", model.ColumnMapper{"recipient_sms": "phone"}, "Hi")
	out, err := c.SendMessageBatchFile(context.Background(), batch, path)
	require.NoError(t, err)

	assert.Equal(t, "b1", out.ID)
	assert.Equal(t, "people.csv", filename)
	assert.Equal(t, "phone\n5511999999999\n", contacts)
	assert.Equal(t, "promo", batchPart["name"])
	assert.Equal(t, "sms", batchPart["channel"])
}

func TestSendMessageBatchNeedsContents(t *testing.T) {
	c, got := newTestClient(t, nil)
	_, err := c.SendMessageBatch(context.Background(), model.NewSMSMessageBatch("x", "me", nil), nil, "")
	assert.ErrorIs(t, err, ErrNoBatchContents)
	assert.Empty(t, *got)
}

func TestHTTPErrorSurfacesUnchanged(t *testing.T) {
	c, _ := newTestClient(t, nil)
	_, err := c.ListTemplates(context.Background())
	assert.Equal(t, http.StatusNotFound, transport.StatusCode(err))
}
