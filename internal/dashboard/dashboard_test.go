package dashboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		output string
		want   Outcome
	}{
		{"Manifests match!", OutcomeMatch},
		{"\n  Manifests match!\n", OutcomeMatch},
		{"checking...\nManifests match!\n", OutcomeError},
		{"b123\nManifests differ!\n- a.txt\n+ b.txt", OutcomeDiffer},
		{"Traceback (most recent call last):", OutcomeError},
		{"", OutcomeError},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.output), "%q", tt.output)
		})
	}
}

func writeLogs(t *testing.T, logs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range logs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))
	return dir
}

func TestCollect(t *testing.T) {
	dir := writeLogs(t, map[string]string{
		"b2.log":     "Manifests differ!\n",
		"b1.log":     "Manifests match!\n",
		"b3.log":     "boom",
		"b4.log.log": "Manifests match!",
	})

	entries, err := Collect(dir)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "b1", entries[0].Name)
	assert.Equal(t, OutcomeMatch, entries[0].Outcome)
	assert.Equal(t, "b2", entries[1].Name)
	assert.Equal(t, OutcomeDiffer, entries[1].Outcome)
	assert.Equal(t, "b3", entries[2].Name)
	assert.Equal(t, OutcomeError, entries[2].Outcome)
	assert.Equal(t, "b4", entries[3].Name, "every .log is dropped")
}

func TestCollect_MissingDir(t *testing.T) {
	_, err := Collect(filepath.Join(t.TempDir(), "output"))
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	entries := []Entry{
		{Name: "b1", Output: "Manifests match!", Outcome: OutcomeMatch},
		{Name: "b2", Output: "Manifests differ!\n<tag> & more", Outcome: OutcomeDiffer},
		{Name: "b3", Output: "crashed", Outcome: OutcomeError},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, entries))
	html := buf.String()

	assert.Contains(t, html, "1 matched, 1 differ, 1 errored")
	assert.Contains(t, html, `<div class="alert alert-success" role="alert">
  b1
</div>`)
	assert.Contains(t, html, `<div class="alert alert-warning" style="max-width: 18rem;">
  b2
</div>`)
	assert.Contains(t, html, `<div class="alert alert-danger" style="max-width: 18rem;">
  b3
</div>`)
	assert.Contains(t, html, "<pre><code>crashed</code></pre>")
	assert.Contains(t, html, "&lt;tag&gt; &amp; more")
	assert.Equal(t, 2, strings.Count(html, "<pre><code>"), "matched logs show no output")
}
