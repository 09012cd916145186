package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"loan-backoffice/pkg/id"
)

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

// replayKey scopes a client key to the method, the request path and the actor.
func replayKey(method, path string, actorID uint64, key string) string {
	var sb strings.Builder
	sb.WriteString("idemp:lb:")
	sb.WriteString(strings.ToLower(method))
	sb.WriteByte(':')
	sb.WriteString(path)
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatUint(actorID, 10))
	sb.WriteByte(':')
	sb.WriteString(key)
	return sb.String()
}

// validKey accepts a hyphenated UUID or 32 lowercase hex characters.
func validKey(k string) bool {
	if id.IsID32(k) {
		return true
	}
	if len(k) != 36 {
		return false
	}
	_, err := uuid.Parse(k)
	return err == nil
}

// parseRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339 with
// a zone ("Z" or an offset). Timestamps without a zone are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}

// replayHeaders validates the two idempotency headers. The returned error
// message is safe to show to the caller.
func replayHeaders(h http.Header, now time.Time) (string, time.Time, error) {
	key := strings.TrimSpace(h.Get(HeaderIdempotencyKey))
	switch {
	case key == "":
		return "", time.Time{}, errors.New("missing " + HeaderIdempotencyKey)
	case !validKey(key):
		return "", time.Time{}, errors.New("invalid " + HeaderIdempotencyKey + " format")
	}
	at, err := parseRequestAt(h.Get(HeaderRequestAt))
	if err != nil {
		return "", time.Time{}, err
	}
	if skew := now.Sub(at); skew > maxClockSkew || skew < -maxClockSkew {
		return "", time.Time{}, errors.New(HeaderRequestAt + " too skewed")
	}
	return key, at, nil
}
