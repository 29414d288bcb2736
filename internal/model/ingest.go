package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status is the pipeline state reported for an ingest.
type Status string

const (
	StatusAccepted   Status = "Accepted"
	StatusFailed     Status = "Failed"
	StatusCompleted  Status = "Completed"
	StatusProcessing Status = "Processing"
)

// KnownStatuses lists the recognised statuses in chart order.
var KnownStatuses = []Status{StatusAccepted, StatusProcessing, StatusCompleted, StatusFailed}

// Known reports whether s is one of KnownStatuses.
func (s Status) Known() bool {
	for _, k := range KnownStatuses {
		if s == k {
			return true
		}
	}
	return false
}

// Millis is a timestamp in milliseconds since the Unix epoch. Dumps carry it
// either as a JSON number or as a numeric string.
type Millis int64

func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return m.parse(strings.TrimSpace(s))
	}
	return m.parse(string(data))
}

func (m *Millis) parse(s string) error {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*m = Millis(v)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid millisecond timestamp %q", s)
	}
	*m = Millis(int64(f))
	return nil
}

// Event is one entry in an ingest's event history.
type Event struct {
	CreatedDate *Millis `json:"createdDate"`
	Description *string `json:"description"`
}

// IngestRecord is one line of an ingests dump.
type IngestRecord struct {
	ID     string
	Status Status
	Events []Event
	// EventsPresent is false when the payload has no usable events array
	// (absent, null, or not an array).
	EventsPresent bool
	CreatedDate   *Millis
}

type wireRecord struct {
	ID      *string      `json:"id"`
	Payload *wirePayload `json:"payload"`
}

type wirePayload struct {
	Status      *string         `json:"status"`
	Events      json.RawMessage `json:"events"`
	CreatedDate *Millis         `json:"createdDate"`
}

// UnmarshalJSON decodes the {"id": ..., "payload": {...}} dump layout.
// Missing id, payload or status is an error; a malformed events array is not,
// because activity resolution falls back to the payload createdDate.
func (r *IngestRecord) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == nil {
		return fmt.Errorf("record has no id")
	}
	if w.Payload == nil {
		return fmt.Errorf("record %s has no payload", *w.ID)
	}
	if w.Payload.Status == nil {
		return fmt.Errorf("record %s has no status", *w.ID)
	}

	*r = IngestRecord{
		ID:          *w.ID,
		Status:      Status(*w.Payload.Status),
		CreatedDate: w.Payload.CreatedDate,
	}
	r.Events, r.EventsPresent = decodeEvents(w.Payload.Events)
	return nil
}

func decodeEvents(raw json.RawMessage) ([]Event, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	events := make([]Event, len(items))
	for i, item := range items {
		// Entries that are not objects stay zero-valued and so lack a createdDate.
		var e Event
		if err := json.Unmarshal(item, &e); err == nil {
			events[i] = e
		}
	}
	return events, true
}

// LastDescription returns the description of the final event, if any.
func (r IngestRecord) LastDescription() (string, bool) {
	if len(r.Events) == 0 {
		return "", false
	}
	last := r.Events[len(r.Events)-1]
	if last.Description == nil {
		return "", false
	}
	return *last.Description, true
}
