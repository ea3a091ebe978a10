package chain

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// CostLogWriter appends one JSON line per completed chain run to a
// single file shared across all conversations. Write failures are the
// caller's to log and swallow — a cost-log outage must never fail an
// otherwise-successful chain run.
type CostLogWriter struct {
	path string
	mu   sync.Mutex
}

// NewCostLogWriter returns a writer targeting path.
func NewCostLogWriter(path string) *CostLogWriter {
	return &CostLogWriter{path: path}
}

// Write appends one record as a line of JSON.
func (w *CostLogWriter) Write(record CostLogRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return newIOErr("create cost log directory", err)
		}
	}
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return newIOErr("open cost log", err)
	}
	defer f.Close()

	b, err := json.Marshal(record)
	if err != nil {
		return newIOErr("marshal cost log record", err)
	}
	bw := bufio.NewWriter(f)
	if _, err := bw.Write(append(b, '\n')); err != nil {
		return newIOErr("write cost log record", err)
	}
	return bw.Flush()
}
