package bucket

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Kind string

const (
	KindDelayed       Kind = "delayed"
	KindScheduledHour Kind = "scheduled_hour"
)

var ErrInvalidTiming = errors.New("invalid timing")

// Timing is the firing rule of a bucket. It is fixed for the whole lifetime of
// the bucket once the bucket is created.
type Timing struct {
	Kind           Kind   `json:"kind" mapstructure:"kind"`
	DelayMinutes   int    `json:"delay_minutes,omitempty" mapstructure:"delay_minutes"`
	Hour           int    `json:"hour,omitempty" mapstructure:"hour"`
	TimeZone       string `json:"time_zone,omitempty" mapstructure:"time_zone"`
	MaxWaitMinutes int    `json:"max_wait_minutes,omitempty" mapstructure:"max_wait_minutes"`
}

func Delayed(minutes int) Timing {
	return Timing{Kind: KindDelayed, DelayMinutes: minutes}
}

func ScheduledHour(hour int, timeZone string) Timing {
	return Timing{Kind: KindScheduledHour, Hour: hour, TimeZone: timeZone}
}

func (t Timing) Validate() error {
	switch t.Kind {
	case KindDelayed:
		if t.DelayMinutes < 0 {
			return fmt.Errorf("%w: delay_minutes must not be negative", ErrInvalidTiming)
		}
	case KindScheduledHour:
		if t.Hour < 0 || t.Hour > 23 {
			return fmt.Errorf("%w: hour must be between 0 and 23", ErrInvalidTiming)
		}
		if _, err := t.location(); err != nil {
			return fmt.Errorf("%w: unknown time zone %q", ErrInvalidTiming, t.TimeZone)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTiming, t.Kind)
	}
	if t.MaxWaitMinutes < 0 {
		return fmt.Errorf("%w: max_wait_minutes must not be negative", ErrInvalidTiming)
	}
	return nil
}

// FireAt computes the fire time of a bucket receiving an event at now.
// For a delayed rule this is now+delay; for a scheduled hour rule it is the
// next occurrence of the hour, strictly after now, in the rule's time zone.
func (t Timing) FireAt(now time.Time) (time.Time, error) {
	switch t.Kind {
	case KindDelayed:
		return now.Add(time.Duration(t.DelayMinutes) * time.Minute), nil
	case KindScheduledHour:
		loc, err := t.location()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: unknown time zone %q", ErrInvalidTiming, t.TimeZone)
		}
		local := now.In(loc)
		next := time.Date(local.Year(), local.Month(), local.Day(), t.Hour, 0, 0, 0, loc)
		if !next.After(now) {
			next = time.Date(local.Year(), local.Month(), local.Day()+1, t.Hour, 0, 0, 0, loc)
		}
		return next, nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidTiming, t.Kind)
	}
}

// Deadline is the latest fire time of a bucket created at createdAt, or nil
// when the rule has no accumulation cap.
func (t Timing) Deadline(createdAt time.Time) *time.Time {
	if t.MaxWaitMinutes <= 0 {
		return nil
	}
	d := createdAt.Add(time.Duration(t.MaxWaitMinutes) * time.Minute)
	return &d
}

// MovesOnAppend reports whether appending a member pushes the fire time.
func (t Timing) MovesOnAppend() bool {
	return t.Kind == KindDelayed
}

func (t Timing) String() string {
	switch t.Kind {
	case KindDelayed:
		return fmt.Sprintf("delayed(%dm)", t.DelayMinutes)
	case KindScheduledHour:
		tz := t.TimeZone
		if tz == "" {
			tz = "UTC"
		}
		return fmt.Sprintf("scheduled_hour(%02d:00 %s)", t.Hour, tz)
	default:
		return string(t.Kind)
	}
}

func (t Timing) location() (*time.Location, error) {
	if t.TimeZone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(t.TimeZone)
}

func (t Timing) Value() (driver.Value, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Timing) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("expected []byte, got %T", value)
	}
}
