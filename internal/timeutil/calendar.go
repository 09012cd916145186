package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of business dates.
const DateLayout = "2006-01-02"

// Calendar pins "today" and day boundaries to the branch network's timezone.
// Persisted timestamps stay UTC; only day bucketing uses Loc.
type Calendar struct {
	Loc *time.Location
	now func() time.Time
}

// NewCalendar loads the named zone; an empty name means UTC.
func NewCalendar(zone string) (*Calendar, error) {
	loc := time.UTC
	if zone != "" {
		l, err := time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", zone, err)
		}
		loc = l
	}
	return &Calendar{Loc: loc, now: time.Now}, nil
}

// Fixed returns a calendar whose clock always reads t. Used by tests.
func Fixed(loc *time.Location, t time.Time) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{Loc: loc, now: func() time.Time { return t }}
}

// Now returns the current instant in UTC, truncated to whole seconds.
func (c *Calendar) Now() time.Time { return c.now().UTC().Truncate(time.Second) }

// Today is the current business date.
func (c *Calendar) Today() string { return c.DayOf(c.Now()) }

// DayOf formats t as a business date.
func (c *Calendar) DayOf(t time.Time) string { return t.In(c.Loc).Format(DateLayout) }

// ParseDay validates a YYYY-MM-DD business date.
func (c *Calendar) ParseDay(day string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, day, c.Loc)
}

// Bounds returns the UTC half-open interval [from, to) covering the business date.
func (c *Calendar) Bounds(day string) (time.Time, time.Time, error) {
	start, err := c.ParseDay(day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start.UTC(), start.AddDate(0, 0, 1).UTC(), nil
}

// DaysBetween counts calendar days from a to b in the business zone (b after a is positive).
func (c *Calendar) DaysBetween(a, b time.Time) int {
	da, _ := c.ParseDay(c.DayOf(a))
	db, _ := c.ParseDay(c.DayOf(b))
	ua := time.Date(da.Year(), da.Month(), da.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(db.Year(), db.Month(), db.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
