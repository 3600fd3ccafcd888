package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/hdtran/marketplace/api/web"
	"github.com/sirupsen/logrus"
	"github.com/zenazn/goji/web/mutil"
)

// Logger writes one line when a request starts and one when it
// completes, carrying the request id when present.
func Logger(log logrus.FieldLogger) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			entry := log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"remoteaddr": r.RemoteAddr,
			})
			if rid := ContextRequestID(ctx); rid != "" {
				entry = entry.WithField("req_id", rid)
			}

			entry.Info("started")
			start := time.Now().UTC()

			// Wrap the writer to capture the status the handler set.
			lw := mutil.WrapWriter(w)
			err := handler(ctx, lw, r)

			entry.WithFields(logrus.Fields{
				"statuscode": lw.Status(),
				"bytes":      lw.BytesWritten(),
				"duration":   time.Since(start).String(),
			}).Info("completed")

			return err
		}
	}
}
