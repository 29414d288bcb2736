package ingestread

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellcomecollection/ssreport/internal/model"
)

const sampleDump = `{"id":"i1","payload":{"status":"Accepted","createdDate":1000}}
{"id":"i2","payload":{"status":"Failed","createdDate":1000,"events":[{"createdDate":2000,"description":"boom"}]}}
{"id":"i3","payload":{"status":"Processing","createdDate":3000}}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readAll(t *testing.T, r *Reader) []model.IngestRecord {
	t.Helper()
	var out []model.IngestRecord
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestReader_All(t *testing.T) {
	r, err := Open(writeFile(t, "dump.json", sampleDump), nil)
	require.NoError(t, err)
	defer r.Close()

	recs := readAll(t, r)
	require.Len(t, recs, 3)
	assert.Equal(t, "i1", recs[0].ID)
	assert.Equal(t, model.StatusFailed, recs[1].Status)
	assert.Equal(t, 3, r.Lines())
	assert.Equal(t, 0, r.Excluded())

	// stays at EOF
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_SkipsExcluded(t *testing.T) {
	r, err := Open(writeFile(t, "dump.json", sampleDump), NewExclusions("i2"))
	require.NoError(t, err)
	defer r.Close()

	recs := readAll(t, r)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.NotEqual(t, "i2", rec.ID)
	}
	assert.Equal(t, 1, r.Excluded())
}

func TestReader_ExcludedLineIsNotValidated(t *testing.T) {
	dump := `{"id":"known","status_dump":"partial"}
{"id":"i1","payload":{"status":"Accepted","createdDate":1000}}
`
	r, err := Open(writeFile(t, "dump.json", dump), NewExclusions("known"))
	require.NoError(t, err)
	defer r.Close()

	recs := readAll(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, "i1", recs[0].ID)
	assert.Equal(t, 1, r.Excluded())
	assert.Equal(t, 2, r.Lines())
}

func TestReader_IncompleteKeptLineIsFatal(t *testing.T) {
	dump := `{"id":"other","status_dump":"partial"}` + "\n"
	r, err := Open(writeFile(t, "dump.json", dump), NewExclusions("known"))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
	assert.Contains(t, err.Error(), "no payload")
}

func TestReader_MalformedLineIsFatal(t *testing.T) {
	dump := sampleDump + "not json\n" + `{"id":"i4","payload":{"status":"Accepted","createdDate":1}}` + "\n"
	r, err := Open(writeFile(t, "dump.json", dump), nil)
	require.NoError(t, err)
	defer r.Close()

	for i := 0; i < 3; i++ {
		_, err := r.Next()
		require.NoError(t, err)
	}
	_, err = r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")

	// the error is sticky; nothing after the bad line is yielded
	_, err2 := r.Next()
	assert.Equal(t, err, err2)
}

func TestReader_BlankLineIsFatal(t *testing.T) {
	r, err := Open(writeFile(t, "dump.json", "\n"+sampleDump), nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	assert.Error(t, err)
}

func TestReader_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleDump))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	r, err := Open(path, nil)
	require.NoError(t, err)
	defer r.Close()
	assert.Len(t, readAll(t, r), 3)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.json"), nil)
	assert.Error(t, err)
}

func TestEach(t *testing.T) {
	var ids []string
	lines, excluded, err := Each(writeFile(t, "dump.json", sampleDump), NewExclusions("i3"), func(rec model.IngestRecord) error {
		ids = append(ids, rec.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"i1", "i2"}, ids)
	assert.Equal(t, 3, lines)
	assert.Equal(t, 1, excluded)
}

func TestEach_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	_, _, err := Each(writeFile(t, "dump.json", sampleDump), nil, func(model.IngestRecord) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestLoadKnownFailures(t *testing.T) {
	path := writeFile(t, "known_failures.txt", "  a1 \n\nb2\n\t c3\t\n")
	ex, found, err := LoadKnownFailures(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, ex, 3)
	for _, id := range []string{"a1", "b2", "c3"} {
		assert.True(t, ex.Contains(id), id)
	}
	assert.False(t, ex.Contains(""))
}

func TestLoadKnownFailures_Missing(t *testing.T) {
	ex, found, err := LoadKnownFailures(filepath.Join(t.TempDir(), "known_failures.txt"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, ex)
}

func TestExclusions_Nil(t *testing.T) {
	var ex Exclusions
	assert.False(t, ex.Contains(strings.Repeat("x", 3)))
}

func TestDigestFile(t *testing.T) {
	path := writeFile(t, "dump.json", "abc")

	d, err := DigestFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", d.SHA256)
	assert.Equal(t, int64(3), d.Bytes)

	_, err = DigestFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
