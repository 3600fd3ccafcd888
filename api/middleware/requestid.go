package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/hdtran/marketplace/api/web"
	"github.com/hdtran/marketplace/random"
)

// RequestIDHeader is honoured when the caller already carries an id,
// so requests can be correlated across services.
const RequestIDHeader = "X-Request-Id"

// maxRequestIDLen caps ids taken from the header.
const maxRequestIDLen = 128

type reqIDCtxKey int

const reqIDKey reqIDCtxKey = 1

var (
	reqPrefix = random.String(10)
	reqSeq    int64
)

// RequestID tags every request with an id, either the one supplied in
// the header or a generated prefix-sequence pair unique to this
// process.
func RequestID() web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			id := r.Header.Get(RequestIDHeader)
			switch {
			case id == "":
				id = fmt.Sprintf("%s-%d", reqPrefix, atomic.AddInt64(&reqSeq, 1))
			case len(id) > maxRequestIDLen:
				id = id[:maxRequestIDLen]
			}
			return handler(context.WithValue(ctx, reqIDKey, id), w, r)
		}
	}
}

// ContextRequestID returns the id stored by RequestID, or the empty
// string.
func ContextRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(reqIDKey).(string); ok {
		return id
	}
	return ""
}
