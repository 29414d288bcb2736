package ingestread

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Digest identifies a dump file in logs and run summaries.
type Digest struct {
	SHA256 string
	Bytes  int64
}

// DigestFile hashes the file at path as stored on disk, so a gzipped dump is
// identified by its compressed bytes.
func DigestFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("open dump for digest: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return Digest{}, fmt.Errorf("digest dump: %w", err)
	}
	return Digest{SHA256: hex.EncodeToString(h.Sum(nil)), Bytes: n}, nil
}
