// pattern: Imperative Shell

package logging

import (
	"bytes"
	"encoding/json"
	"sync"
	"time"
)

// Recorder is a zapcore.WriteSyncer that keeps the most recent decoded JSON
// log lines in memory. Once full, each write evicts the oldest entry.
type Recorder struct {
	mu       sync.Mutex
	entries  []LogEntry
	capacity int
}

// NewRecorder keeps at most capacity entries. A non-positive capacity keeps
// one.
func NewRecorder(capacity int) *Recorder {
	return &Recorder{capacity: max(capacity, 1)}
}

// Write decodes each newline-separated JSON object in p. Undecodable lines
// are ignored so a bad line never fails the logger.
func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for line := range bytes.SplitSeq(p, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		entry, err := decodeEntry(line)
		if err != nil {
			continue
		}
		if len(r.entries) == r.capacity {
			r.entries = r.entries[1:]
		}
		r.entries = append(r.entries, entry)
	}
	return len(p), nil
}

// Sync is a no-op.
func (r *Recorder) Sync() error {
	return nil
}

// Entries returns a copy of the retained entries, oldest first.
func (r *Recorder) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Reset drops every retained entry.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

func decodeEntry(data []byte) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogEntry{}, err
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     ParseLevel(stringField(raw, "level")),
		Scope:     stringField(raw, "logger"),
		Message:   stringField(raw, "msg"),
		Fields:    make(map[string]any),
	}
	if entry.Scope == "" {
		entry.Scope = "rigit"
	}

	switch ts := raw["ts"].(type) {
	case float64:
		sec := int64(ts)
		entry.Timestamp = time.Unix(sec, int64((ts-float64(sec))*1e9))
	case string:
		if parsed, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err == nil {
			entry.Timestamp = parsed
		}
	}

	for k, v := range raw {
		switch k {
		case "msg", "level", "logger", "ts", "caller", "stacktrace":
		default:
			entry.Fields[k] = v
		}
	}
	return entry, nil
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}
