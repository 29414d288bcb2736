package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellcomecollection/ssreport/internal/exitcode"
	"github.com/wellcomecollection/ssreport/internal/parquetexport"
	"github.com/wellcomecollection/ssreport/internal/report"
)

func TestPhaseExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&report.PhaseError{Phase: report.PhaseExclusions, Err: errors.New("x")}, exitcode.InputError},
		{&report.PhaseError{Phase: report.PhaseRead, Err: errors.New("x")}, exitcode.InputError},
		{&report.PhaseError{Phase: report.PhaseRender, Err: errors.New("x")}, exitcode.RenderError},
		{errors.New("plain"), exitcode.InputError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, phaseExitCode(tt.err), tt.err.Error())
	}
}

func TestExport_ReturnsExitCode(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)

	dump := filepath.Join(dir, "ingests.json")
	require.NoError(t, os.WriteFile(dump, []byte(
		`{"id":"a1","payload":{"status":"Accepted","createdDate":1559390400000}}`+"\n"+
			`{"id":"f1","payload":{"status":"Failed","createdDate":1559390400000}}`+"\n"), 0644))

	exportOut = filepath.Join(dir, "out", "ingests.parquet")
	t.Cleanup(func() { exportOut = "ingests.parquet" })

	assert.Equal(t, exitcode.InputError, export(filepath.Join(dir, "missing.json")))

	require.Equal(t, exitcode.Success, export(dump))
	rows, err := parquetexport.ReadAll(exportOut)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

// chdirForTest changes the working directory for the duration of the test
// and restores it on cleanup (equivalent to testing.T.Chdir, Go 1.24+).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
