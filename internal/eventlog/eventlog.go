// Package eventlog is the append-only JSONL record of what the host asked
// the model and the tool servers, one object per line:
//
//	{"ts":"2025-01-02T03:04:05.678Z","kind":"mcp_request","server":"auto_advisor",...}
package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultPath is relative to the working directory.
const DefaultPath = "logs/host.jsonl"

const tsLayout = "2006-01-02T15:04:05.000Z07:00"

// Log owns the event file.
type Log struct {
	path   string
	mu     sync.Mutex
	file   *os.File
	logger *slog.Logger
}

// Open creates the parent directory and opens path for appending.
func Open(path string) (*Log, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create event log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	l := &Log{path: path, file: f}
	l.logger = New(&lockedWriter{mu: &l.mu, w: f})
	return l, nil
}

// New returns an event logger writing JSONL records to w. The record
// message becomes "kind", the time "ts"; levels are dropped.
func New(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{ReplaceAttr: replace}))
}

// Discard is an event logger that writes nowhere.
func Discard() *slog.Logger { return New(io.Discard) }

func replace(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		return slog.String("ts", a.Value.Time().UTC().Format(tsLayout))
	case slog.MessageKey:
		return slog.Attr{Key: "kind", Value: a.Value}
	case slog.LevelKey:
		return slog.Attr{}
	}
	return a
}

// Logger is the slog view of the log; the message is the event kind.
func (l *Log) Logger() *slog.Logger { return l.logger }

// Path is the file being written.
func (l *Log) Path() string { return l.path }

// Event appends one record.
func (l *Log) Event(kind string, attrs ...any) {
	l.logger.Info(kind, attrs...)
}

// Tail returns the last n records of the log.
func (l *Log) Tail(n int) ([]map[string]any, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Tail(l.path, n)
}

// Close closes the file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// Tail reads the last n records of the JSONL file at path. A missing file
// yields no records; lines that are not JSON objects are skipped.
func Tail(path string, n int) ([]map[string]any, error) {
	if n <= 0 {
		return nil, nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	ring := make([]string, 0, n)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}

	out := make([]map[string]any, 0, len(ring))
	for _, line := range ring {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil || rec == nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Timestamp parses a record's ts field.
func Timestamp(rec map[string]any) (time.Time, bool) {
	s, _ := rec["ts"].(string)
	t, err := time.Parse(tsLayout, s)
	return t, err == nil
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
