package logger

import (
	"context"
	"testing"
)

func TestNew_UnknownLevelFallsBack(t *testing.T) {
	l, err := New(Config{Level: "loud"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !l.Desugar().Core().Enabled(0) { // info
		t.Fatal("info level should be enabled")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != Default() {
		t.Fatal("empty context should yield the default logger")
	}
	l := Nop().With("request_id", "abc")
	ctx := WithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Fatal("FromContext did not return the stored logger")
	}
	Info(ctx, "hello", "k", "v")
}
