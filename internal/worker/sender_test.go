package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/omnichannel/internal/client"
	"github.com/jmehdipour/omnichannel/internal/kafka"
	"github.com/jmehdipour/omnichannel/internal/repository"
	"github.com/jmehdipour/omnichannel/internal/transport"
)

type fakeFetcher struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	allDone   chan struct{}
	want      int
}

func newFakeFetcher(values ...string) *fakeFetcher {
	f := &fakeFetcher{allDone: make(chan struct{}), want: len(values)}
	for i, v := range values {
		f.queue = append(f.queue, kafka.Message{Offset: int64(i), Value: []byte(v)})
	}
	return f
}

func (f *fakeFetcher) Fetch(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if len(f.queue) > 0 {
		m := f.queue[0]
		f.queue = f.queue[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeFetcher) Commit(_ context.Context, m kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, m.Offset)
	if len(f.committed) == f.want {
		close(f.allDone)
	}
	return nil
}

type memStore struct {
	mu   sync.Mutex
	recs map[string]repository.MessageRecord
}

func (s *memStore) InsertOutcomes(_ context.Context, recs []repository.MessageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recs == nil {
		s.recs = map[string]repository.MessageRecord{}
	}
	for _, r := range recs {
		s.recs[r.EnvelopeID] = r
	}
	return nil
}

type memDLQ struct {
	mu      sync.Mutex
	reasons []error
}

func (d *memDLQ) Forward(_ context.Context, _ kafka.Message, reason error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reasons = append(d.reasons, reason)
	return nil
}

func TestSenderProcessesEnvelopes(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	tr := transport.Func(func(_ context.Context, r transport.Request) ([]byte, error) {
		mu.Lock()
		paths = append(paths, r.Path)
		mu.Unlock()
		b, _ := json.Marshal(r.Body)
		var req struct{ To string }
		_ = json.Unmarshal(b, &req)
		if req.To == "down" {
			return nil, &transport.Error{HTTPStatusCode: 503, Message: "Unsuccessful request"}
		}
		return []byte(`{"id":"m-` + req.To + `"}`), nil
	})

	fetcher := newFakeFetcher(
		`{"id":"e1","channel":"sms","from":"acme","to":"1","contents":[{"type":"text","text":"hi"}]}`,
		`{"id":"e2","channel":"sms","from":"acme","to":"2","contents":[{"type":"template","templateId":"t1"}]}`,
		`{"id":"e3","channel":"whatsapp","from":"acme","to":"down","contents":[{"type":"text","text":"hi"}]}`,
		`{"id":"e4","channel":"pager","from":"acme","to":"4","contents":[{"type":"text","text":"hi"}]}`,
		`not json`,
		`{"id":"e6","channel":"sms","from":"acme","to":"6","contents":[]}`,
	)
	store := &memStore{}
	dlq := &memDLQ{}

	w := NewSender(fetcher, client.New(tr, nil), nil)
	w.Store = store
	w.DLQ = dlq
	w.Workers = 3
	w.BatchWait = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-fetcher.allDone:
	case <-time.After(5 * time.Second):
		t.Fatal("envelopes not committed")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sender did not stop")
	}

	assert.ElementsMatch(t, []string{"/v2/channels/sms/messages", "/v2/channels/whatsapp/messages"}, paths)
	assert.ElementsMatch(t, []int64{0, 1, 2, 3, 4, 5}, fetcher.committed)
	assert.Len(t, dlq.reasons, 2)

	require.Len(t, store.recs, 4)
	require.NotNil(t, store.recs["e1"].MessageID)
	assert.Equal(t, "m-1", *store.recs["e1"].MessageID)
	assert.Equal(t, "ACCEPTED", store.recs["e1"].Status)

	assert.Equal(t, "FAILED", store.recs["e2"].Status)
	assert.Equal(t, "Content of type template is not supported in SMS channel", store.recs["e2"].StatusDescription)
	assert.Equal(t, "FAILED", store.recs["e3"].Status)
	assert.Equal(t, "FAILED", store.recs["e4"].Status)
	assert.Contains(t, store.recs["e4"].StatusDescription, "unsupported channel")
}

func TestDecodeEnvelopeAssignsID(t *testing.T) {
	env, err := decodeEnvelope([]byte(`{"channel":"sms","from":"a","to":"b","contents":[{"type":"text","text":"x"}]}`))
	require.NoError(t, err)
	assert.Len(t, env.ID, 26)

	_, err = decodeEnvelope([]byte(`{"id":"x","contents":[]}`))
	assert.True(t, errors.Is(err, ErrNoEnvelope))
}

func TestRunNeedsDependencies(t *testing.T) {
	assert.Error(t, (&Sender{}).Run(context.Background()))
}
