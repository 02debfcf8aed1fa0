package lambda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// Invoker adapts invocation envelopes to an http.Handler.
type Invoker struct {
	handler http.Handler
	logger  *zap.Logger
}

// NewInvoker creates a new Invoker.
func NewInvoker(handler http.Handler, logger *zap.Logger) *Invoker {
	return &Invoker{handler: handler, logger: logger}
}

// Invoke decodes payload as an Event and serves it. It always returns an
// envelope; failures become 500 envelopes.
func (i *Invoker) Invoke(ctx context.Context, payload []byte) Response {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		i.logger.Error("Failed to decode event", zap.Error(err))
		return internalError(err.Error())
	}
	return i.Handle(ctx, event)
}

// Handle serves one decoded event.
func (i *Invoker) Handle(ctx context.Context, event Event) (resp Response) {
	defer func() {
		if rec := recover(); rec != nil {
			i.logger.Error("Recovered from panic during invocation",
				zap.String("path", event.RawPath),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			resp = internalError(fmt.Sprint(rec))
		}
	}()

	req, err := newRequest(ctx, event)
	if err != nil {
		i.logger.Error("Failed to build request", zap.String("path", event.RawPath), zap.Error(err))
		return internalError(err.Error())
	}

	w := newEnvelopeWriter()
	i.handler.ServeHTTP(w, req)
	return NewResponse(w.status(), w.body.String())
}

// newRequest converts event into a server request. Method defaults to
// GET and path to "/".
func newRequest(ctx context.Context, event Event) (*http.Request, error) {
	method := event.RequestContext.HTTP.Method
	if method == "" {
		method = http.MethodGet
	}
	path := event.RawPath
	if path == "" {
		path = "/"
	}

	values, err := ParseQueryParameters(event.QueryStringParameters)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, "/", nil)
	if err != nil {
		return nil, err
	}
	req.URL = &url.URL{Path: path, RawQuery: values.Encode()}
	req.RequestURI = req.URL.RequestURI()
	for k, v := range event.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// envelopeWriter buffers a handler's response.
type envelopeWriter struct {
	header http.Header
	code   int
	body   bytes.Buffer
}

func newEnvelopeWriter() *envelopeWriter {
	return &envelopeWriter{header: http.Header{}}
}

func (w *envelopeWriter) Header() http.Header { return w.header }

func (w *envelopeWriter) Write(b []byte) (int, error) {
	if w.code == 0 {
		w.code = http.StatusOK
	}
	return w.body.Write(b)
}

func (w *envelopeWriter) WriteHeader(code int) {
	if w.code == 0 {
		w.code = code
	}
}

func (w *envelopeWriter) status() int {
	if w.code == 0 {
		return http.StatusOK
	}
	return w.code
}
