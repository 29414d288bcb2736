package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellcomecollection/ssreport/internal/model"
)

var testNow = time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)

// record builds a dump line whose last activity was ago before testNow.
func record(t *testing.T, id string, status model.Status, ago time.Duration, desc string) model.IngestRecord {
	t.Helper()
	ms := testNow.Add(-ago).UnixMilli()
	line := fmt.Sprintf(`{"id":%q,"payload":{"status":%q,"createdDate":%d,"events":[{"createdDate":%d,"description":%q}]}}`,
		id, status, ms-1000, ms, desc)
	var rec model.IngestRecord
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	return rec
}

func iterate(recs []model.IngestRecord) func() (model.IngestRecord, error) {
	i := 0
	return func() (model.IngestRecord, error) {
		if i >= len(recs) {
			return model.IngestRecord{}, io.EOF
		}
		i++
		return recs[i-1], nil
	}
}

func TestAggregate_TallyAndDetails(t *testing.T) {
	recs := []model.IngestRecord{
		record(t, "a1", model.StatusAccepted, time.Minute, "accepted"),
		record(t, "f1", model.StatusFailed, 2*time.Hour, "Unpacking failed - There is no archive at /x"),
		record(t, "p1", model.StatusProcessing, 30*time.Second, "working"),
		record(t, "c1", model.StatusCompleted, time.Hour, "done"),
		record(t, "c2", model.StatusCompleted, time.Hour, "done"),
	}

	agg, err := Aggregate(testNow, iterate(recs))
	require.NoError(t, err)

	assert.Equal(t, map[model.Status]int{
		model.StatusAccepted:   1,
		model.StatusFailed:     1,
		model.StatusCompleted:  2,
		model.StatusProcessing: 1,
	}, agg.Tally)
	assert.Empty(t, agg.Other)

	require.Len(t, agg.Failed, 1)
	assert.Equal(t, FailedIngest{ID: "f1", Elapsed: 2 * time.Hour, Description: "Unpacking failed - There is no archive at /x"}, agg.Failed[0])
	require.Len(t, agg.Processing, 1)
	assert.Equal(t, 30*time.Second, agg.Processing[0].Elapsed)
}

func TestAggregate_KnownTotalExcludesUnknownStatuses(t *testing.T) {
	statuses := []model.Status{
		model.StatusAccepted, "Paused", model.StatusFailed, model.StatusCompleted,
		model.StatusProcessing, "Paused", "Deleted", model.StatusCompleted,
	}
	var recs []model.IngestRecord
	for i, s := range statuses {
		recs = append(recs, record(t, fmt.Sprintf("id-%d", i), s, time.Duration(i)*time.Minute, "x"))
	}

	agg, err := Aggregate(testNow, iterate(recs))
	require.NoError(t, err)

	assert.Equal(t, len(recs)-3, agg.KnownTotal())
	assert.Equal(t, map[model.Status]int{"Paused": 2, "Deleted": 1}, agg.Other)
}

func TestAggregate_FailedWithoutEvents(t *testing.T) {
	var rec model.IngestRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":"f","payload":{"status":"Failed","createdDate":1,"events":[]}}`), &rec))

	agg, err := Aggregate(testNow, iterate([]model.IngestRecord{rec}))
	require.NoError(t, err)
	require.Len(t, agg.Failed, 1)
	assert.Equal(t, NoDescription, agg.Failed[0].Description)
}

func TestAggregate_DuplicateIDKeepsFirstPosition(t *testing.T) {
	recs := []model.IngestRecord{
		record(t, "f1", model.StatusFailed, time.Hour, "old"),
		record(t, "f2", model.StatusFailed, time.Hour, "other"),
		record(t, "f1", model.StatusFailed, time.Minute, "new"),
	}
	agg, err := Aggregate(testNow, iterate(recs))
	require.NoError(t, err)

	require.Len(t, agg.Failed, 2)
	assert.Equal(t, "f1", agg.Failed[0].ID)
	assert.Equal(t, "new", agg.Failed[0].Description)
	assert.Equal(t, 3, agg.Tally[model.StatusFailed])
}

func TestAggregate_NoTimestampIsFatal(t *testing.T) {
	var rec model.IngestRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":"bad","payload":{"status":"Accepted"}}`), &rec))

	_, err := Aggregate(testNow, iterate([]model.IngestRecord{rec}))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNoTimestamp)
	assert.Contains(t, err.Error(), "bad")
}

func TestAggregate_PropagatesReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Aggregate(testNow, func() (model.IngestRecord, error) {
		return model.IngestRecord{}, boom
	})
	assert.ErrorIs(t, err, boom)
}
