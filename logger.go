package fetchengo

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Logger is the minimal structured logging interface used for debug output.
// Key/value pairs follow the message, logfmt style.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// SimpleLogger writes leveled logfmt lines to stderr. It is the batteries-
// included Logger for development use.
type SimpleLogger struct {
	logger *log.Logger
}

// NewSimpleLogger creates a console logger.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{logger: log.New(os.Stderr, "fetchengo ", log.LstdFlags|log.Lmicroseconds)}
}

// Debug logs at debug level.
func (l *SimpleLogger) Debug(msg string, keysAndValues ...any) {
	l.write("DEBUG", msg, keysAndValues)
}

// Info logs at info level.
func (l *SimpleLogger) Info(msg string, keysAndValues ...any) {
	l.write("INFO", msg, keysAndValues)
}

// Warn logs at warn level.
func (l *SimpleLogger) Warn(msg string, keysAndValues ...any) {
	l.write("WARN", msg, keysAndValues)
}

// Error logs at error level.
func (l *SimpleLogger) Error(msg string, keysAndValues ...any) {
	l.write("ERROR", msg, keysAndValues)
}

func (l *SimpleLogger) write(level, msg string, kv []any) {
	var builder strings.Builder
	builder.WriteString(level)
	builder.WriteByte(' ')
	builder.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		builder.WriteString(fmt.Sprintf(" %v=%v", kv[i], kv[i+1]))
	}
	l.logger.Println(builder.String())
}

// DebugConfig controls debug logging. All flags are off until Enabled is
// set; each concern can be toggled independently to get insight without
// noise.
type DebugConfig struct {
	// Enabled is the master switch.
	Enabled bool
	// LogRequests logs request start/success/failure lines.
	LogRequests bool
	// LogEvents logs every emitted event.
	LogEvents bool
	// RequestIDGen generates per-call correlation IDs for log lines.
	RequestIDGen func() string
}

// DefaultDebugConfig returns a disabled config with all concerns selected
// and UUID request IDs, so WithDebug alone gives full visibility.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogEvents:    true,
		RequestIDGen: DefaultRequestIDGenerator,
	}
}

// DefaultRequestIDGenerator returns a random UUID per call.
func DefaultRequestIDGenerator() string {
	return uuid.NewString()
}
