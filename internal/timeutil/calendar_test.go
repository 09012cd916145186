package timeutil

import (
	"testing"
	"time"
)

func TestCalendar_TodayUsesZone(t *testing.T) {
	bogota := time.FixedZone("COT", -5*60*60)
	// 03:00 UTC on the 10th is still the 9th in Bogota.
	c := Fixed(bogota, time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC))
	if got := c.Today(); got != "2025-03-09" {
		t.Fatalf("Today = %s, want 2025-03-09", got)
	}
}

func TestCalendar_Bounds(t *testing.T) {
	bogota := time.FixedZone("COT", -5*60*60)
	c := Fixed(bogota, time.Now())
	from, to, err := c.Bounds("2025-03-09")
	if err != nil {
		t.Fatalf("Bounds: %v", err)
	}
	if want := time.Date(2025, 3, 9, 5, 0, 0, 0, time.UTC); !from.Equal(want) {
		t.Fatalf("from = %v, want %v", from, want)
	}
	if to.Sub(from) != 24*time.Hour {
		t.Fatalf("span = %v", to.Sub(from))
	}
	if _, _, err := c.Bounds("09/03/2025"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCalendar_DaysBetween(t *testing.T) {
	c := Fixed(time.UTC, time.Now())
	now := time.Date(2025, 5, 21, 8, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -20).Add(5 * time.Hour)
	if got := c.DaysBetween(due, now); got != 20 {
		t.Fatalf("DaysBetween = %d, want 20", got)
	}
}

func TestNewCalendar_BadZone(t *testing.T) {
	if _, err := NewCalendar("Mars/Olympus"); err == nil {
		t.Fatal("expected error")
	}
	c, err := NewCalendar("")
	if err != nil || c.Loc != time.UTC {
		t.Fatalf("empty zone should be UTC, got %v %v", c, err)
	}
}
