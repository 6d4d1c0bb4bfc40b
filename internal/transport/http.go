package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jmehdipour/omnichannel/internal/metrics"
	"github.com/jmehdipour/omnichannel/internal/util"
)

const (
	DefaultBaseURL = "https://api.zenvia.com"

	HeaderAPIToken  = "X-API-TOKEN"
	HeaderRequestID = "X-Request-ID"
)

var ErrMissingToken = errors.New("transport: api token is required")

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// Headers are merged into every request. Per-request headers win.
	Headers map[string]string
	// Breaker is disabled when nil.
	Breaker *Breaker
	Client  *http.Client
	Logger  *zap.Logger
}

type HTTPTransport struct {
	baseURL string
	token   string
	headers map[string]string
	client  *http.Client
	br      *Breaker
	log     *zap.Logger
}

func NewHTTP(cfg Config) (*HTTPTransport, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout}
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &HTTPTransport{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		headers: headers,
		client:  cfg.Client,
		br:      cfg.Breaker,
		log:     cfg.Logger,
	}, nil
}

func (t *HTTPTransport) Send(ctx context.Context, r Request) ([]byte, error) {
	requestID := util.NewID()
	log := t.log.With(
		zap.String("method", r.Method),
		zap.String("path", r.Path),
		zap.String("request_id", requestID),
	)

	req, err := t.newRequest(ctx, r, requestID)
	if err != nil {
		log.Error("build request", zap.Error(err))
		return nil, technical(err)
	}

	if err := t.br.Allow(); err != nil {
		log.Warn("circuit open")
		return nil, &Error{Message: err.Error(), Cause: err}
	}

	log.Debug("request")
	start := time.Now()

	body, status, err := t.do(req)
	elapsed := time.Since(start)
	metrics.TransportDuration.WithLabelValues(r.Method).Observe(elapsed.Seconds())

	if err != nil {
		t.br.Report(false)
		metrics.TransportRequests.WithLabelValues(r.Method, "error").Inc()
		log.Error("request failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return nil, technical(err)
	}

	metrics.TransportRequests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()

	t.br.Report(status < http.StatusInternalServerError)

	if status/100 != 2 {
		log.Warn("unsuccessful response", zap.Int("status", status), zap.Duration("elapsed", elapsed))
		return nil, &Error{
			HTTPStatusCode: status,
			Message:        "Unsuccessful request",
			Body:           decodeBody(body),
		}
	}

	log.Debug("response", zap.Int("status", status), zap.Duration("elapsed", elapsed))
	return body, nil
}

func (t *HTTPTransport) newRequest(ctx context.Context, r Request, requestID string) (*http.Request, error) {
	target := t.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + url.Values(r.Query).Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case len(r.Form) > 0:
		buf, ct, err := encodeForm(r.Form)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case r.Body != nil:
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set(HeaderAPIToken, t.token)
	req.Header.Set(HeaderRequestID, requestID)

	return req, nil
}

func (t *HTTPTransport) do(req *http.Request) ([]byte, int, error) {
	res, err := t.client.Do(req)
	if err != nil {
		return nil, 0, err
	}

	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	return b, res.StatusCode, nil
}

func encodeForm(parts []FormPart) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		disposition := fmt.Sprintf(`form-data; name=%q`, p.Name)
		if p.Filename != "" {
			disposition += fmt.Sprintf(`; filename=%q`, p.Filename)
		}
		h.Set("Content-Disposition", disposition)
		if p.ContentType != "" {
			h.Set("Content-Type", p.ContentType)
		}

		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("form part %s: %w", p.Name, err)
		}
		if p.Data == nil {
			continue
		}
		if _, err := io.Copy(pw, p.Data); err != nil {
			return nil, "", fmt.Errorf("form part %s: %w", p.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// decodeBody keeps error bodies inspectable: JSON becomes a generic value,
// anything else stays a string.
func decodeBody(b []byte) any {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return string(b)
	}
	return v
}
