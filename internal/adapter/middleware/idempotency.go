package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"loan-backoffice/internal/metrics"
	"loan-backoffice/pkg/logger"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestAt      = "X-Request-At"
	HeaderReplay         = "Idempotent-Replay"

	provisionalLockTTL = 60 * time.Second
	maxClockSkew       = 10 * time.Minute
	storeTimeout       = 2 * time.Second
)

// captureWriter tees the handler's response so it can be stored for replay.
type captureWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func reject(c echo.Context, code int, outcome, msg string) error {
	metrics.ObserveIdempotency(outcome)
	return c.JSON(code, map[string]string{"error": msg})
}

// Idempotency makes a mutating route safe to retry. The first request with a
// given Idempotency-Key runs the handler and its response is kept for ttl;
// later requests from the same actor on the same path with the same body get
// that response back with Idempotent-Replay: true. A different body is a 409,
// as is a retry while the first request is still running. 5xx responses are
// dropped so the caller may retry with the same key.
func Idempotency(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	store := newReplayStore(rdb, ttl)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method == http.MethodGet || req.Method == http.MethodHead || req.Method == http.MethodOptions {
				return next(c)
			}

			clientKey, at, err := replayHeaders(req.Header, nowUTC())
			if err != nil {
				return reject(c, http.StatusBadRequest, "rejected", err.Error())
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			var actorID uint64
			if a, ok := ActorFrom(c); ok {
				actorID = a.UserID
			}
			key := replayKey(req.Method, req.URL.Path, actorID, clientKey)
			entry := replayEntry{BodyHash: bodyHash(body), Key: clientKey, RequestAt: at, SavedAt: nowUTC()}
			log := logger.FromContext(req.Context())

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()
			claimed, err := store.claim(ctx, key, entry)
			if err != nil {
				log.Errorw("idempotency claim failed", "key", key, "error", err)
				return reject(c, http.StatusServiceUnavailable, "unavailable", "idempotency store unavailable")
			}
			if !claimed {
				prev, err := store.load(ctx, key)
				if err != nil {
					log.Warnw("idempotency entry unreadable", "key", key, "error", err)
				}
				switch {
				case prev.BodyHash != "" && prev.BodyHash != entry.BodyHash:
					return reject(c, http.StatusConflict, "mismatch", HeaderIdempotencyKey+" reused with different body")
				case prev.replayable():
					metrics.ObserveIdempotency("replayed")
					c.Response().Header().Set(HeaderReplay, "true")
					return c.Blob(prev.Status, echo.MIMEApplicationJSON, prev.Body)
				default:
					return reject(c, http.StatusConflict, "in_progress", "request is already in progress")
				}
			}

			w := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			// The request context may already be gone; the key must not stay locked.
			bg := context.Background()
			if w.status >= http.StatusInternalServerError {
				if err := store.release(bg, key); err != nil {
					log.Warnw("idempotency release failed", "key", key, "error", err)
				}
				metrics.ObserveIdempotency("released")
				return nil
			}
			entry.Status, entry.Body, entry.SavedAt = w.status, w.buf.Bytes(), nowUTC()
			if err := store.finish(bg, key, entry); err != nil {
				log.Warnw("idempotency save failed", "key", key, "error", err)
				return nil
			}
			metrics.ObserveIdempotency("stored")
			return nil
		}
	}
}
