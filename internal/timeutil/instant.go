// Package timeutil provides the opaque instant and duration value types
// the scheduler's core operates on, both thin wrappers over
// time.Time / time.Duration rather than independent representations.
// The wrappers exist only to pin everything to UTC and to provide
// minute truncation where the scheduler's semantics need it.
package timeutil

import (
	"fmt"
	"time"
)

// Instant is a UTC wall-clock instant, millisecond precision.
type Instant struct {
	t time.Time
}

// NewInstant wraps a time.Time, normalizing it to UTC.
func NewInstant(t time.Time) Instant {
	return Instant{t: t.UTC()}
}

// Now returns the current instant.
func Now() Instant { return NewInstant(time.Now()) }

// Zero reports whether i is the zero Instant.
func (i Instant) IsZero() bool { return i.t.IsZero() }

func (i Instant) Minute() int  { return i.t.Minute() }
func (i Instant) Hour() int    { return i.t.Hour() }
func (i Instant) Day() int     { return i.t.Day() }
func (i Instant) Month() int   { return int(i.t.Month()) }
func (i Instant) Weekday() int { return int(i.t.Weekday()) } // Sunday=0

// Time returns the underlying time.Time.
func (i Instant) Time() time.Time { return i.t }

// UnixMilli returns the instant as milliseconds since the Unix epoch.
func (i Instant) UnixMilli() int64 { return i.t.UnixMilli() }

// FromUnixMilli builds an Instant from epoch milliseconds.
func FromUnixMilli(ms int64) Instant {
	return NewInstant(time.UnixMilli(ms))
}

// TruncateToMinute zeroes the seconds/nanoseconds component.
func (i Instant) TruncateToMinute() Instant {
	return NewInstant(i.t.Truncate(time.Minute))
}

// Add returns i advanced by d.
func (i Instant) Add(d time.Duration) Instant {
	return NewInstant(i.t.Add(d))
}

// AddMinutes returns i advanced by n minutes.
func (i Instant) AddMinutes(n int) Instant {
	return NewInstant(i.t.Add(time.Duration(n) * time.Minute))
}

func (i Instant) Before(o Instant) bool { return i.t.Before(o.t) }
func (i Instant) After(o Instant) bool  { return i.t.After(o.t) }
func (i Instant) Equal(o Instant) bool  { return i.t.Equal(o.t) }

// Sub returns the duration i-o.
func (i Instant) Sub(o Instant) time.Duration { return i.t.Sub(o.t) }

// String formats the instant as ISO-8601 with millisecond precision, UTC.
func (i Instant) String() string {
	return i.t.Format("2006-01-02T15:04:05.000Z")
}

// MarshalJSON renders the instant as an ISO-8601 string, or null if zero.
func (i Instant) MarshalJSON() ([]byte, error) {
	if i.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + i.String() + `"`), nil
}

// UnmarshalJSON parses an ISO-8601 string, treating "null" as the zero
// Instant.
func (i *Instant) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*i = Instant{}
		return nil
	}
	// Strip surrounding quotes.
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	t, err := ParseISO8601(s)
	if err != nil {
		return err
	}
	*i = t
	return nil
}

// ParseISO8601 parses a millisecond-precision ISO-8601 UTC instant.
func ParseISO8601(s string) (Instant, error) {
	for _, layout := range []string{
		"2006-01-02T15:04:05.000Z",
		time.RFC3339,
		time.RFC3339Nano,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewInstant(t), nil
		}
	}
	return Instant{}, fmt.Errorf("not an ISO-8601 instant: %q", s)
}

// Max returns the later of a and b; a zero Instant is treated as earlier
// than any non-zero Instant (matching the nil semantics of an optional
// instant field).
func Max(a, b Instant) Instant {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	if a.After(b) {
		return a
	}
	return b
}
