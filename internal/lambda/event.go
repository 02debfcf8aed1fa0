// Package lambda serves function-URL style invocation envelopes through
// the same router as the HTTP transport.
package lambda

import (
	"encoding/json"
	"net/http"
)

// Event is the subset of a function URL invocation that is read.
type Event struct {
	RawPath               string            `json:"rawPath"`
	RequestContext        RequestContext    `json:"requestContext"`
	QueryStringParameters json.RawMessage   `json:"queryStringParameters"`
	Headers               map[string]string `json:"headers"`
}

// RequestContext carries the HTTP method of an invocation.
type RequestContext struct {
	HTTP struct {
		Method string `json:"method"`
	} `json:"http"`
}

// Response is the invocation result envelope.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// NewResponse builds an envelope. Every envelope is labelled JSON.
func NewResponse(status int, body string) Response {
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

// internalError builds the 500 envelope for failures outside the router.
func internalError(message string) Response {
	body, _ := json.Marshal(map[string]string{
		"error":   "Internal server error",
		"message": message,
	})
	return NewResponse(http.StatusInternalServerError, string(body))
}
