// Package leadlog appends structured records to daily-rotated,
// append-only files. The lead log is the system of record for accepted
// submissions: a write failure here must surface to the caller so the
// response can be degraded instead of claiming full success.
package leadlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Writer struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
	}
	return &Writer{dir: dir, now: time.Now}, nil
}

// Append marshals the record and appends it as a single line to the
// category's file for the current calendar date. The whole line is
// written in one call so concurrent appends never interleave bytes.
func (w *Writer) Append(category string, record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %v", category, err)
	}
	line := append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	name := fmt.Sprintf("%s-%s.log", category, w.now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(w.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %v", name, err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("failed to append to log file %s: %v", name, err)
	}

	return nil
}

// FileName returns the path a category resolves to today, mostly for
// operational tooling and tests.
func (w *Writer) FileName(category string) string {
	name := fmt.Sprintf("%s-%s.log", category, w.now().Format("2006-01-02"))
	return filepath.Join(w.dir, name)
}
