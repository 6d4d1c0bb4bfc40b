// Package webhook receives platform events over HTTP, routes them to the
// registered handlers and keeps the matching subscriptions in place.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jmehdipour/omnichannel/internal/metrics"
	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/reconcile"
)

const (
	DefaultPort = 3000
	DefaultPath = "/"
)

var ErrAlreadyStarted = errors.New("webhook: server already started")

type Options struct {
	Host string
	Port int
	Path string

	MessageEventHandler       MessageHandler
	MessageStatusEventHandler MessageStatusHandler

	// Client, URL and Channel enable subscription reconciliation on Init.
	Client  reconcile.SubscriptionClient
	URL     string
	Channel model.Channel
	// Headers go into created subscriptions and, when set, are required on
	// inbound requests.
	Headers map[string]string

	// OnError receives handler, dedup and sink failures. The request is still
	// acknowledged.
	OnError   func(error)
	Deduper   Deduper
	Sinks     []EventSink
	RateLimit *RateLimitConfig
	Logger    *zap.Logger
}

type Server struct {
	opts Options
	e    *echo.Echo
	norm *Normalizer
	log  *zap.Logger

	mu     sync.Mutex
	ln     net.Listener
	done   chan error
	report reconcile.Report
}

func NewServer(o Options) *Server {
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.Path == "" {
		o.Path = DefaultPath
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	s := &Server{
		opts: o,
		norm: &Normalizer{OnMessage: o.MessageEventHandler, OnStatus: o.MessageStatusEventHandler},
		log:  o.Logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	e.Use(echoMid.Recover(), echoMid.BodyLimit("4M"))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	var mws []echo.MiddlewareFunc
	if len(o.Headers) > 0 {
		mws = append(mws, RequireHeaders(o.Headers))
	}
	if o.RateLimit != nil {
		mws = append(mws, RateLimit(*o.RateLimit))
	}
	e.POST(o.Path, s.receive, mws...)

	s.e = e
	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.e }

// Init starts listening, then reconciles subscriptions when configured. A
// listen failure leaves nothing running. A reconciliation failure is returned
// while the server keeps serving.
func (s *Server) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.ln != nil {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}

	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("webhook listen %s: %w", addr, err)
	}

	s.ln = ln
	s.done = make(chan error, 1)
	s.e.Listener = ln
	s.mu.Unlock()

	go func() {
		err := s.e.Start("")
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()

	s.log.Info("webhook listening", zap.String("addr", ln.Addr().String()), zap.String("path", s.opts.Path))

	report, err := reconcile.Reconcile(ctx, reconcile.Options{
		Client:      s.opts.Client,
		URL:         s.opts.URL,
		Channel:     s.opts.Channel,
		Headers:     s.opts.Headers,
		WantMessage: s.opts.MessageEventHandler != nil,
		WantStatus:  s.opts.MessageStatusEventHandler != nil,
		Logger:      s.log,
	})

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("webhook subscriptions: %w", err)
	}
	return nil
}

// Done yields the serve loop's exit error once the server stops.
func (s *Server) Done() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) Reconciliation() reconcile.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Close stops accepting connections and waits for in-flight requests until
// ctx is done.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	started := s.ln != nil
	s.mu.Unlock()
	if !started {
		return nil
	}
	return s.e.Shutdown(ctx)
}

func (s *Server) receive(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		s.fail("", OutcomeRejected, fmt.Errorf("read webhook body: %w", err))
		return c.NoContent(http.StatusOK)
	}

	rec, err := Classify(body)
	if err != nil {
		s.fail("", OutcomeRejected, err)
		return c.NoContent(http.StatusOK)
	}

	log := s.log.With(zap.String("event_id", rec.ID), zap.String("event_type", rec.Type.String()))

	if s.opts.Deduper != nil && rec.ID != "" {
		seen, err := s.opts.Deduper.Seen(ctx, rec.ID)
		if err != nil {
			s.notify(fmt.Errorf("dedup event %s: %w", rec.ID, err))
		} else if seen {
			log.Debug("duplicate event")
			metrics.WebhookEvents.WithLabelValues(rec.Type.String(), string(OutcomeDuplicate)).Inc()
			return c.NoContent(http.StatusOK)
		}
	}

	outcome, err := s.norm.Dispatch(ctx, rec)
	if err != nil {
		s.fail(rec.Type, outcome, err)
	} else {
		log.Debug("event received", zap.String("outcome", string(outcome)))
		metrics.WebhookEvents.WithLabelValues(rec.Type.String(), string(outcome)).Inc()
	}

	for _, sink := range s.opts.Sinks {
		if err := sink.Record(ctx, rec); err != nil {
			s.notify(fmt.Errorf("record event %s: %w", rec.ID, err))
		}
	}

	return c.NoContent(http.StatusOK)
}

func (s *Server) fail(t model.EventType, outcome Outcome, err error) {
	metrics.WebhookEvents.WithLabelValues(t.String(), string(outcome)).Inc()
	s.notify(err)
}

func (s *Server) notify(err error) {
	s.log.Error("webhook event", zap.Error(err))
	if s.opts.OnError != nil {
		s.opts.OnError(err)
	}
}
