// Package weberr decorates errors with the information the errors
// middleware needs to render them: an HTTP response and structured log
// fields. Decorations wrap the original error so errors.Is/As still
// see through them.
package weberr

import "errors"

// Opt decorates an error with additional behaviour.
type Opt func(error) error

// Wrap applies every opt to err in order.
func Wrap(err error, opts ...Opt) error {
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

// WithResponse attaches the body and status code to send back to the
// client when the error reaches the middleware.
func WithResponse(body any, status int) Opt {
	return func(err error) error {
		return &responseError{error: err, body: body, status: status}
	}
}

// WithFields attaches key/value pairs to include in the error log
// line.
func WithFields(fields map[string]any) Opt {
	return func(err error) error {
		return &fieldsError{error: err, fields: fields}
	}
}

// Response extracts the client response attached to err, if any.
func Response(err error) (body any, status int, ok bool) {
	var re *responseError
	if errors.As(err, &re) {
		return re.body, re.status, true
	}
	return nil, 0, false
}

// Fields extracts the log fields attached to err, if any.
func Fields(err error) (fields map[string]any, ok bool) {
	var fe *fieldsError
	if errors.As(err, &fe) {
		return fe.fields, true
	}
	return nil, false
}

type responseError struct {
	error
	body   any
	status int
}

func (e *responseError) Unwrap() error { return e.error }

type fieldsError struct {
	error
	fields map[string]any
}

func (e *fieldsError) Unwrap() error { return e.error }
