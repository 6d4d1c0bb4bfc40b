// Package transport performs authenticated calls against the messaging API.
package transport

import (
	"context"
	"io"
	"net/http"
)

// Transport sends one request and returns the raw response body.
// Implementations never retry.
type Transport interface {
	Send(ctx context.Context, req Request) ([]byte, error)
}

type Request struct {
	Method string
	Path   string
	// Query is appended to Path when non-empty.
	Query map[string][]string
	// Body is encoded as JSON. Ignored when Form is set.
	Body    any
	Form    []FormPart
	Headers map[string]string
}

// FormPart is one part of a multipart/form-data body.
type FormPart struct {
	Name        string
	Filename    string
	ContentType string
	Data        io.Reader
}

func Get(path string) Request { return Request{Method: http.MethodGet, Path: path} }

func Post(path string, body any) Request {
	return Request{Method: http.MethodPost, Path: path, Body: body}
}

func Patch(path string, body any) Request {
	return Request{Method: http.MethodPatch, Path: path, Body: body}
}

func Delete(path string) Request { return Request{Method: http.MethodDelete, Path: path} }

// Func adapts a function to Transport.
type Func func(ctx context.Context, req Request) ([]byte, error)

func (f Func) Send(ctx context.Context, req Request) ([]byte, error) { return f(ctx, req) }
