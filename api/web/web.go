// Package web holds the small framework every handler in the API is
// built on: a handler signature that returns errors instead of writing
// them, middleware chaining, and JSON request/response helpers.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Handler is the signature all API endpoints implement. Returned
// errors are turned into HTTP responses by the errors middleware.
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// Middleware wraps a Handler with behaviour that runs before or after
// it.
type Middleware func(Handler) Handler

// WrapMiddleware applies mw around handler so that mw[0] is the
// outermost layer. Nil entries are skipped.
func WrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if m := mw[i]; m != nil {
			handler = m(handler)
		}
	}
	return handler
}

// Respond marshals data as JSON and writes it with the given status.
// The payload is marshalled before any header is written so a failure
// can still surface as a proper error response.
func Respond(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error {
	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshalling response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

// maxBodyBytes caps request bodies to keep a client from streaming an
// arbitrarily large payload into the decoder.
const maxBodyBytes = 1 << 20

// Decode reads the request body as JSON into val, rejecting unknown
// fields and bodies over maxBodyBytes.
func Decode(w http.ResponseWriter, r *http.Request, val any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(val)
}

// Param returns the named route variable from the request URL.
func Param(r *http.Request, key string) string {
	return mux.Vars(r)[key]
}
