package transfer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sysbutler/butler/internal/logging"
)

// testLogger returns a logger that discards output, keeping test logs clean.
func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	return logging.NewConsoleLogger(io.Discard)
}

// writeFile creates a file of the given size filled with a repeating pattern.
func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data := bytes.Repeat([]byte{'x'}, size)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// makeTree builds a small directory tree and returns the total byte size of
// its regular files.
func makeTree(t *testing.T, root string, files map[string]int) uint64 {
	t.Helper()
	var total uint64
	for rel, size := range files {
		writeFile(t, filepath.Join(root, rel), size)
		total += uint64(size)
	}
	return total
}

// waitFor polls cond until it is true or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Timeout waiting for %s", what)
}

// waitTerminal blocks until the job reaches Completed or Failed.
func waitTerminal(t *testing.T, job *Job) {
	t.Helper()
	waitFor(t, "job "+job.ID+" to finish", func() bool {
		return job.Status().IsTerminal()
	})
}

// treeListing maps relative path -> size for every regular file under root.
func treeListing(t *testing.T, root string) map[string]int64 {
	t.Helper()
	listing := make(map[string]int64)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		listing[rel] = info.Size()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return listing
}
