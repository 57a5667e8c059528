// pattern: Imperative Shell

package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{}
}

// TestLogManager is a LoggerProvider that records every entry in memory at
// debug level so tests can assert on what was logged.
type TestLogManager struct {
	recorder *Recorder
	base     *zap.Logger

	mu      sync.Mutex
	loggers map[string]*ScopedLogger
}

// NewTestLogManager keeps the last capacity entries.
func NewTestLogManager(capacity int) *TestLogManager {
	recorder := NewRecorder(capacity)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.EpochTimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), recorder, zapcore.DebugLevel)
	return &TestLogManager{
		recorder: recorder,
		base:     zap.New(core),
		loggers:  make(map[string]*ScopedLogger),
	}
}

// For returns the scoped logger for scope.
func (m *TestLogManager) For(scope string) *ScopedLogger {
	m.mu.Lock()
	defer m.mu.Unlock()

	if logger, ok := m.loggers[scope]; ok {
		return logger
	}
	logger := newScopedLogger(m.base.Named(scope), zapcore.DebugLevel, scope)
	m.loggers[scope] = logger
	return logger
}

// Entries returns everything recorded so far, oldest first.
func (m *TestLogManager) Entries() []LogEntry {
	return m.recorder.Entries()
}

// Find returns the first entry logged under scope whose message is msg. An
// empty msg matches any message in scope.
func (m *TestLogManager) Find(scope, msg string) (LogEntry, bool) {
	for _, e := range m.recorder.Entries() {
		if e.Scope == scope && (msg == "" || e.Message == msg) {
			return e, true
		}
	}
	return LogEntry{}, false
}
