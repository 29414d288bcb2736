package ingestread

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wellcomecollection/ssreport/internal/model"
)

const maxLineSize = 32 * 1024 * 1024

// Reader streams IngestRecords from a newline-delimited JSON dump, skipping
// records whose ID is excluded.
type Reader struct {
	file     *os.File
	gz       *gzip.Reader
	sc       *bufio.Scanner
	exclude  Exclusions
	err      error
	lines    int
	excluded int
}

// Open opens a dump for streaming. Paths ending in .gz are gunzipped.
func Open(path string, exclude Exclusions) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ingests dump: %w", err)
	}

	r := &Reader{file: f, exclude: exclude}
	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip dump: %w", err)
		}
		r.gz = gz
		src = gz
	}

	r.sc = bufio.NewScanner(src)
	r.sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return r, nil
}

// idOnly is enough of a line to decide whether it is excluded. Excluded
// lines are skipped without being checked further.
type idOnly struct {
	ID *string `json:"id"`
}

// Next returns the next non-excluded record, or io.EOF when the dump is
// exhausted. A kept line that does not decode is an error and ends the stream.
func (r *Reader) Next() (model.IngestRecord, error) {
	if r.err != nil {
		return model.IngestRecord{}, r.err
	}
	for {
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				r.err = fmt.Errorf("read ingests dump: %w", err)
				return model.IngestRecord{}, r.err
			}
			r.err = io.EOF
			return model.IngestRecord{}, io.EOF
		}
		r.lines++

		line := r.sc.Bytes()
		if len(r.exclude) > 0 {
			var head idOnly
			if err := json.Unmarshal(line, &head); err != nil {
				r.err = fmt.Errorf("line %d: %w", r.lines, err)
				return model.IngestRecord{}, r.err
			}
			if head.ID != nil && r.exclude.Contains(*head.ID) {
				r.excluded++
				continue
			}
		}

		var rec model.IngestRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			r.err = fmt.Errorf("line %d: %w", r.lines, err)
			return model.IngestRecord{}, r.err
		}
		return rec, nil
	}
}

// Lines returns the number of lines consumed so far.
func (r *Reader) Lines() int {
	return r.lines
}

// Excluded returns the number of records skipped as known failures.
func (r *Reader) Excluded() int {
	return r.excluded
}

// Close releases all resources.
func (r *Reader) Close() error {
	if r.gz != nil {
		if err := r.gz.Close(); err != nil {
			r.file.Close()
			return err
		}
	}
	return r.file.Close()
}

// Each opens path, calls fn for every non-excluded record, and closes the file
// before returning. Iteration stops at the first error from the reader or fn.
func Each(path string, exclude Exclusions, fn func(model.IngestRecord) error) (lines, excluded int, err error) {
	r, err := Open(path, exclude)
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()

	for {
		rec, err := r.Next()
		if err == io.EOF {
			return r.Lines(), r.Excluded(), nil
		}
		if err != nil {
			return r.Lines(), r.Excluded(), err
		}
		if err := fn(rec); err != nil {
			return r.Lines(), r.Excluded(), err
		}
	}
}
