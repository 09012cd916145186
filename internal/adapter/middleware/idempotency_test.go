package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/internal/metrics"
)

const testKey = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

// helper: new Echo with a fixed actor, the middleware and a simple route
func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			SetActor(c, identity.Actor{UserID: 7, Role: identity.RoleAgent, BranchID: 1})
			return next(c)
		}
	})
	e.Use(Idempotency(rdb, ttl))
	e.POST("/transactions", handler)
	e.GET("/transactions", handler) // for non-mutating bypass test
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

func validHeaders() map[string]string {
	return map[string]string{
		HeaderIdempotencyKey: testKey,
		HeaderRequestAt:      time.Now().UTC().Format(time.RFC3339),
	}
}

// okCreatedHandler gives the middleware a response worth storing.
func okCreatedHandler(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]any{"ok": true})
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	rec := doReq(t, e, http.MethodGet, "/transactions", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, okCreatedHandler)

	now := time.Now().UTC()
	cases := []struct {
		name string
		hdr  map[string]string
	}{
		{"missing key", map[string]string{HeaderRequestAt: now.Format(time.RFC3339)}},
		{"invalid key", map[string]string{HeaderIdempotencyKey: "NOT-VALID", HeaderRequestAt: now.Format(time.RFC3339)}},
		{"uppercase hex key", map[string]string{HeaderIdempotencyKey: strings.Repeat("A", 32), HeaderRequestAt: now.Format(time.RFC3339)}},
		{"missing request-at", map[string]string{HeaderIdempotencyKey: testKey}},
		{"invalid request-at", map[string]string{HeaderIdempotencyKey: testKey, HeaderRequestAt: "not-a-time"}},
		{"skewed request-at", map[string]string{
			HeaderIdempotencyKey: testKey,
			HeaderRequestAt:      now.Add(-maxClockSkew - time.Minute).Format(time.RFC3339),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doReq(t, e, http.MethodPost, "/transactions", mkJSONBody(t, map[string]int{"x": 1}), tc.hdr)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	var calls int32
	e := setupEcho(rdb, 2*time.Minute, func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return okCreatedHandler(c)
	})

	replayed := metrics.IdempotencyOutcomesTotal.WithLabelValues("replayed")
	before := counterValue(t, replayed)
	h := validHeaders()
	body := map[string]any{"loanRequestId": 1, "amount": 50000}

	rec1 := doReq(t, e, http.MethodPost, "/transactions", mkJSONBody(t, body), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}

	// Second request with SAME headers & body -> replay stored response, handler not called
	rec2 := doReq(t, e, http.MethodPost, "/transactions", mkJSONBody(t, body), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if rec2.Header().Get(HeaderReplay) != "true" {
		t.Fatalf("replay header missing")
	}
	if got := counterValue(t, replayed) - before; got != 1 {
		t.Fatalf("replayed outcomes = %v, want 1", got)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("handler called %d times, want 1", n)
	}
}

func Test_UUIDKeyAccepted(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, time.Minute, okCreatedHandler)

	h := validHeaders()
	h[HeaderIdempotencyKey] = "3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88"
	rec := doReq(t, e, http.MethodPost, "/transactions", mkJSONBody(t, map[string]int{"x": 1}), h)
	if rec.Code != http.StatusCreated {
		t.Fatalf("uuid key => want 201, got %d", rec.Code)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 2*time.Minute, okCreatedHandler)

	body := []byte(`{"x":1}`)

	// a pending entry from a request that has not finished yet
	key := replayKey(http.MethodPost, "/transactions", 7, testKey)
	entry := replayEntry{BodyHash: bodyHash(body), Key: testKey, RequestAt: nowUTC(), SavedAt: nowUTC()}
	if ok, err := newReplayStore(rdb, time.Minute).claim(context.Background(), key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/transactions", bytes.NewReader(body), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameKey_DifferentBody(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 2*time.Minute, okCreatedHandler)

	body1 := []byte(`{"x":1}`)
	body2 := []byte(`{"x":2}`)

	key := replayKey(http.MethodPost, "/transactions", 7, testKey)
	final := replayEntry{Status: http.StatusCreated, Body: []byte(`{"ok":true}`), BodyHash: bodyHash(body1), Key: testKey}
	if err := newReplayStore(rdb, 5*time.Minute).finish(context.Background(), key, final); err != nil {
		t.Fatalf("seed final failed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/transactions", bytes.NewReader(body2), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same key => want 409, got %d", rec.Code)
	}
}

func Test_KeyIsScopedByActor(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, time.Minute, okCreatedHandler)

	// another actor already used the same key with another body
	other := replayKey(http.MethodPost, "/transactions", 8, testKey)
	if err := newReplayStore(rdb, time.Minute).finish(context.Background(), other, replayEntry{
		Status: http.StatusCreated, Body: []byte(`{"other":true}`), BodyHash: bodyHash([]byte(`{"y":1}`)),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/transactions", bytes.NewReader([]byte(`{"x":1}`)), validHeaders())
	if rec.Code != http.StatusCreated || strings.Contains(rec.Body.String(), "other") {
		t.Fatalf("want a fresh 201, got %d %s", rec.Code, rec.Body.String())
	}
}

func Test_ServerErrorIsNotStored(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	var calls int32
	e := setupEcho(rdb, time.Minute, func(c echo.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return okCreatedHandler(c)
	})

	body := []byte(`{"x":1}`)
	rec := doReq(t, e, http.MethodPost, "/transactions", bytes.NewReader(body), validHeaders())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("first => want 500, got %d", rec.Code)
	}
	if mr.Exists(replayKey(http.MethodPost, "/transactions", 7, testKey)) {
		t.Fatalf("key must be released after a server error")
	}
	rec = doReq(t, e, http.MethodPost, "/transactions", bytes.NewReader(body), validHeaders())
	if rec.Code != http.StatusCreated {
		t.Fatalf("retry => want 201, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	// Create a client that points to a closed address → SetNX error
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	e := setupEcho(rdb, time.Minute, okCreatedHandler)

	rec := doReq(t, e, http.MethodPost, "/transactions", bytes.NewReader([]byte(`{}`)), validHeaders())
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
