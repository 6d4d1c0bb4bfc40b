// Package app turns a loaded config into the shared pieces every command
// needs: a logger and an API client.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jmehdipour/omnichannel/internal/client"
	"github.com/jmehdipour/omnichannel/internal/config"
	"github.com/jmehdipour/omnichannel/internal/logger"
	"github.com/jmehdipour/omnichannel/internal/transport"
)

type App struct {
	Config config.Config
	Log    *zap.Logger
}

func Load(path string) (*App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &App{Config: cfg, Log: log}, nil
}

func (a *App) Transport() (*transport.HTTPTransport, error) {
	api := a.Config.API

	var br *transport.Breaker
	if api.Breaker.Enabled {
		br = transport.NewBreaker(api.Breaker.FailThreshold, api.Breaker.OpenFor)
	}

	return transport.NewHTTP(transport.Config{
		BaseURL: api.BaseURL,
		Token:   api.Token,
		Timeout: api.Timeout,
		Headers: api.CustomHeaders,
		Breaker: br,
		Logger:  a.Log.Named("transport"),
	})
}

func (a *App) Client() (*client.Client, error) {
	t, err := a.Transport()
	if err != nil {
		return nil, err
	}
	return client.New(t, a.Log), nil
}
