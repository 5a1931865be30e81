package timeutil

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration is a non-negative duration, in milliseconds.
type Duration struct {
	d time.Duration
}

// NewDuration builds a Duration, rejecting negative values.
func NewDuration(d time.Duration) (Duration, error) {
	if d < 0 {
		return Duration{}, fmt.Errorf("duration must be non-negative, got %s", d)
	}
	return Duration{d: d}, nil
}

// MustDuration is NewDuration, panicking on a negative value. Intended
// for constants and tests, never for user input.
func MustDuration(d time.Duration) Duration {
	v, err := NewDuration(d)
	if err != nil {
		panic(err)
	}
	return v
}

// FromMillis builds a Duration from a non-negative millisecond count.
func FromMillis(ms int64) (Duration, error) {
	return NewDuration(time.Duration(ms) * time.Millisecond)
}

func (d Duration) Duration() time.Duration { return d.d }
func (d Duration) Milliseconds() int64     { return d.d.Milliseconds() }
func (d Duration) String() string          { return d.d.String() }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Milliseconds())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return err
	}
	v, err := FromMillis(ms)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
