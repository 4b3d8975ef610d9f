package observability

import (
	"context"
	"time"
)

type SanitizerFunc func(key string, value any) any

type ErrorNotifier interface {
	Notify(ctx context.Context, entry LogEntry) error
}

// LogEntry represents a structured log entry.
//
// Small and stable so implementations can adapt it to their backend.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`

	RunID string `json:"run_id,omitempty"`
	Stack string `json:"stack,omitempty"`
}

// StructuredLogger is the logging surface used across site synthesis and tooling.
//
// Messages are plain strings; context travels in field maps. RunID correlates every
// entry of one synthesis, Stack names the CloudFormation stack being declared.
type StructuredLogger interface {
	Debug(message string, fields ...map[string]any)
	Info(message string, fields ...map[string]any)
	Warn(message string, fields ...map[string]any)
	Error(message string, fields ...map[string]any)

	WithField(key string, value any) StructuredLogger
	WithFields(fields map[string]any) StructuredLogger

	WithRunID(runID string) StructuredLogger
	WithStack(stack string) StructuredLogger

	Flush(ctx context.Context) error
	Close() error
}

// LoggerConfig configures logger implementations.
type LoggerConfig struct {
	Format       string        `json:"format" yaml:"format"`
	Level        string        `json:"level" yaml:"level"`
	RetryDelay   time.Duration `json:"retry_delay" yaml:"retry_delay"`
	BufferSize   int           `json:"buffer_size" yaml:"buffer_size"`
	MaxRetries   int           `json:"max_retries" yaml:"max_retries"`
	EnableStack  bool          `json:"enable_stack" yaml:"enable_stack"`
	EnableCaller bool          `json:"enable_caller" yaml:"enable_caller"`
}
