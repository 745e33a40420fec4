// File: timer.go
// Title: Performance Timer
// Description: Measures the duration of an operation and logs it when the
//              timer is stopped, optionally with checkpoints on the way.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-09-28 v0.2.0: Duration carried on the entry instead of a field
// - 2026-10-17 v0.3.0: Fail logs an expected failure at the timer's level

package log

import (
	"sync"
	"time"
)

// Timer measures an operation and logs its duration
type Timer struct {
	logger    *Logger
	operation string
	level     Level
	fields    Fields
	start     time.Time
	last      time.Time
	stopped   bool
	mu        sync.Mutex
}

// NewTimer creates and starts a timer for the given operation
func NewTimer(logger *Logger, operation string) *Timer {
	if logger == nil {
		logger = GetDefault()
	}
	now := time.Now()
	return &Timer{
		logger:    logger,
		operation: operation,
		level:     LevelDebug,
		fields:    Fields{"operation": operation},
		start:     now,
		last:      now,
	}
}

// WithLevel sets the level the completion message is logged at
func (t *Timer) WithLevel(level Level) *Timer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.level = level
	return t
}

// WithField adds a field to the completion message
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fields[key] = value
	return t
}

// WithFields adds fields to the completion message
func (t *Timer) WithFields(fields Fields) *Timer {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range fields {
		t.fields[k] = v
	}
	return t
}

// Elapsed returns the time since the timer was started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop stops the timer, logs the completion and returns the duration.
// Stopping twice logs once.
func (t *Timer) Stop() time.Duration {
	return t.finish(t.level, "completed", nil, nil)
}

// StopWithError stops the timer and logs a failure at error level when err
// is not nil
func (t *Timer) StopWithError(err error) time.Duration {
	if err == nil {
		return t.Stop()
	}
	return t.finish(LevelError, "failed", err, nil)
}

// Fail stops the timer and logs a failure at the timer's own level. Use it
// for failures the caller reports itself, such as rejected user input.
func (t *Timer) Fail(err error) time.Duration {
	return t.finish(t.level, "failed", err, Fields{"success": false})
}

// StopWithResult stops the timer and records whether the operation
// succeeded together with a result value
func (t *Timer) StopWithResult(success bool, result interface{}) time.Duration {
	extra := Fields{"success": success}
	if result != nil {
		extra["result"] = result
	}
	level, status := t.level, "completed"
	if !success {
		level, status = LevelWarn, "failed"
	}
	return t.finish(level, status, nil, extra)
}

// Checkpoint logs the time since the previous checkpoint at trace level
func (t *Timer) Checkpoint(name string, fields ...Fields) {
	t.mu.Lock()
	now := time.Now()
	since := now.Sub(t.last)
	t.last = now
	merged := t.fields.Merge(Fields{"checkpoint": name, "elapsed": now.Sub(t.start)})
	t.mu.Unlock()

	for _, f := range fields {
		merged = merged.Merge(f)
	}
	t.logger.emit(LevelTrace, t.operation+" checkpoint "+name, nil, since, merged)
}

// Cancel stops the timer without logging
func (t *Timer) Cancel() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// IsRunning reports whether the timer has not been stopped yet
func (t *Timer) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

func (t *Timer) finish(level Level, status string, err error, extra Fields) time.Duration {
	t.mu.Lock()
	elapsed := time.Since(t.start)
	if t.stopped {
		t.mu.Unlock()
		return elapsed
	}
	t.stopped = true
	fields := t.fields.Merge(extra)
	t.mu.Unlock()

	t.logger.emit(level, t.operation+" "+status, err, elapsed, fields)
	return elapsed
}
