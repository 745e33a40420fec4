// File: doc.go
// Title: Structured Logging Package Documentation
// Description: Package documentation for the vera structured logger.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-09-28
//
// Change History:
// - 2025-01-24 v0.1.0: Initial documentation
// - 2026-09-28 v0.2.0: Trimmed to the features used by vera

/*
Package log provides structured logging for vera.

Loggers are immutable: every With* method returns a configured copy, so a
component can tag the logger it was handed without affecting its caller:

	logger := log.GetDefault().WithField("component", "vera-parser")
	logger.Debug("parse started", log.Fields{"bytes": len(src)})

Entries are rendered by a Formatter (JSON, text or console). Timers measure
an operation and log its duration when stopped:

	timer := logger.StartTimer("parse")
	defer timer.Stop()
*/
package log
