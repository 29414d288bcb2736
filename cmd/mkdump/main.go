// mkdump writes a synthetic ingests dump for exercising ssreport.
// Usage: go run ./cmd/mkdump --out testdata/ingests.json --count 500 --seed 42
package main

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/wellcomecollection/ssreport/internal/model"
)

type event struct {
	CreatedDate int64  `json:"createdDate"`
	Description string `json:"description,omitempty"`
}

type payload struct {
	Status      model.Status `json:"status"`
	CreatedDate int64        `json:"createdDate"`
	Events      *[]event     `json:"events,omitempty"`
}

type record struct {
	ID      string  `json:"id"`
	Payload payload `json:"payload"`
}

func main() {
	out := flag.String("out", "testdata/ingests.json", "output dump (.gz suffix compresses)")
	count := flag.Int("count", 500, "number of ingests")
	seed := flag.Int64("seed", 0, "random seed (0 picks one)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(*seed)
	now := time.Now()

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(*out, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	tally := make(map[model.Status]int)
	for i := 0; i < *count; i++ {
		rec := fakeRecord(faker, now)
		tally[rec.Payload.Status]++
		if err := enc.Encode(rec); err != nil {
			fmt.Fprintf(os.Stderr, "write: %v\n", err)
			os.Exit(1)
		}
	}

	if err := bw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "flush: %v\n", err)
		os.Exit(1)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close gzip: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Wrote %d ingests to %s (seed %d)\n", *count, *out, *seed)
	for _, s := range model.KnownStatuses {
		fmt.Printf("  %-10s %d\n", s, tally[s])
	}
}

// statusWeights skews towards Completed, as in a healthy storage service.
var statusWeights = []struct {
	status model.Status
	weight int
}{
	{model.StatusCompleted, 70},
	{model.StatusAccepted, 10},
	{model.StatusProcessing, 10},
	{model.StatusFailed, 10},
}

func pickStatus(f *gofakeit.Faker) model.Status {
	n := f.Number(1, 100)
	for _, sw := range statusWeights {
		if n <= sw.weight {
			return sw.status
		}
		n -= sw.weight
	}
	return model.StatusCompleted
}

func fakeRecord(f *gofakeit.Faker, now time.Time) record {
	status := pickStatus(f)
	created := now.Add(-time.Duration(f.Number(60, 30*24*60*60)) * time.Second)

	rec := record{
		ID: f.UUID(),
		Payload: payload{
			Status:      status,
			CreatedDate: created.UnixMilli(),
		},
	}

	switch n := f.Number(1, 10); {
	case n == 1:
		// events absent
	case n == 2:
		rec.Payload.Events = &[]event{}
	default:
		events := fakeEvents(f, created, now, status)
		rec.Payload.Events = &events
	}
	return rec
}

func fakeEvents(f *gofakeit.Faker, created, now time.Time, status model.Status) []event {
	n := f.Number(1, 4)
	span := now.Sub(created)
	events := make([]event, n)
	for i := range events {
		at := created.Add(span * time.Duration(i+1) / time.Duration(n+1))
		events[i] = event{
			CreatedDate: at.UnixMilli(),
			Description: f.Sentence(4),
		}
	}
	if status == model.StatusFailed {
		events[n-1].Description = failureDescription(f)
	}
	return events
}

func failureDescription(f *gofakeit.Faker) string {
	switch f.Number(1, 3) {
	case 1:
		return fmt.Sprintf("Unpacking failed - There is no archive at s3://%s/%s.tar.gz",
			"wellcomecollection-storage-"+f.Word(), f.Word())
	case 2:
		return "Verification (Amazon Glacier) failed - " + f.Sentence(5)
	default:
		return fmt.Sprintf("%s failed - %s", f.RandomString([]string{"Replicating", "Assigning version", "Unpacking"}), f.Sentence(3))
	}
}
