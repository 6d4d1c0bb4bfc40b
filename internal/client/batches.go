package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/transport"
)

var ErrNoBatchContents = errors.New("batch message needs at least one content")

// SendMessageBatch uploads the batch definition together with the contacts CSV.
func (c *Client) SendMessageBatch(ctx context.Context, b model.MessageBatch, contacts io.Reader, filename string) (*model.MessageBatch, error) {
	if len(b.Message.Contents) == 0 {
		return nil, ErrNoBatchContents
	}
	if filename == "" {
		filename = "contacts.csv"
	}

	def, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}

	r := transport.Request{
		Method: http.MethodPost,
		Path:   "/v2/message-batches",
		Form: []transport.FormPart{
			{Name: "batch", ContentType: "application/json", Data: bytes.NewReader(def)},
			{Name: "contacts", Filename: filename, ContentType: "text/csv", Data: contacts},
		},
	}

	out := &model.MessageBatch{}
	if err := c.call(ctx, r, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SendMessageBatchFile(ctx context.Context, b model.MessageBatch, path string) (*model.MessageBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open contacts: %w", err)
	}
	defer f.Close()

	return c.SendMessageBatch(ctx, b, f, filepath.Base(path))
}
