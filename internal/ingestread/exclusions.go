package ingestread

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Exclusions is the set of ingest IDs left out of every count and listing.
type Exclusions map[string]struct{}

// NewExclusions builds a set from the given IDs.
func NewExclusions(ids ...string) Exclusions {
	ex := make(Exclusions, len(ids))
	for _, id := range ids {
		ex[id] = struct{}{}
	}
	return ex
}

// Contains reports whether id is excluded. A nil set excludes nothing.
func (e Exclusions) Contains(id string) bool {
	_, ok := e[id]
	return ok
}

// LoadKnownFailures reads one ingest ID per line, trimming whitespace and
// ignoring blank lines. found is false when the file does not exist, in which
// case the returned set is empty and err is nil.
func LoadKnownFailures(path string) (ex Exclusions, found bool, err error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Exclusions{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open known failures: %w", err)
	}
	defer f.Close()

	ex = Exclusions{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		id := strings.TrimSpace(sc.Text())
		if id == "" {
			continue
		}
		ex[id] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, true, fmt.Errorf("read known failures: %w", err)
	}
	return ex, true, nil
}
