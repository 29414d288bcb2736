package model

import (
	"errors"
	"time"
)

// ActivitySource records which timestamp an Activity was resolved from.
type ActivitySource int

const (
	FromEvents ActivitySource = iota + 1
	FromCreatedDate
)

func (s ActivitySource) String() string {
	switch s {
	case FromEvents:
		return "events"
	case FromCreatedDate:
		return "created_date"
	default:
		return "unknown"
	}
}

// Activity is the most recent recorded activity of an ingest.
type Activity struct {
	At     time.Time
	Source ActivitySource
}

// ErrNoTimestamp is returned when neither the events nor the payload carry a
// usable createdDate.
var ErrNoTimestamp = errors.New("no usable createdDate")

// ResolveLastActivity picks the latest event createdDate. If the events array
// is absent, empty, or any entry lacks a createdDate, the payload createdDate
// is used instead.
func ResolveLastActivity(rec IngestRecord) (Activity, error) {
	if latest, ok := latestEvent(rec.Events); rec.EventsPresent && ok {
		return Activity{At: latest.Time(), Source: FromEvents}, nil
	}
	if rec.CreatedDate == nil {
		return Activity{}, ErrNoTimestamp
	}
	return Activity{At: rec.CreatedDate.Time(), Source: FromCreatedDate}, nil
}

func latestEvent(events []Event) (Millis, bool) {
	if len(events) == 0 {
		return 0, false
	}
	var latest Millis
	for i, e := range events {
		if e.CreatedDate == nil {
			return 0, false
		}
		if i == 0 || *e.CreatedDate > latest {
			latest = *e.CreatedDate
		}
	}
	return latest, true
}

// Time converts m to a time.Time.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

// Elapsed returns how long ago the activity happened relative to now.
// Activity in the future (clock skew) counts as zero.
func Elapsed(now time.Time, a Activity) time.Duration {
	d := now.Sub(a.At)
	if d < 0 {
		return 0
	}
	return d
}
