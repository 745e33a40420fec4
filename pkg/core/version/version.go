// ============================================================================
// vera - front end for the vera language
// ============================================================================
//
// Package:     version
// Description: Central version management for the vera binary and services
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for vera components
const (
	// Release version of the vera module
	Release = "0.3.0"

	// Component versions
	Language     = "1.0.0" // grammar revision accepted by the parser
	ParseService = "1.0.0"
	HistoryStore = "1.0.0"
)

// Set at build time with -ldflags "-X .../version.Commit=... -X .../version.BuildDate=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "language":
		return Language
	case "parsesvc", "parser-service":
		return ParseService
	case "store", "history":
		return HistoryStore
	default:
		return Release
	}
}

// Info returns the version details as a map, for JSON output
func Info() map[string]string {
	return map[string]string{
		"version":    Release,
		"language":   Language,
		"commit":     Commit,
		"build_date": BuildDate,
		"go":         runtime.Version(),
		"platform":   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a one-line version string
func String() string {
	return fmt.Sprintf("vera %s (language %s, commit %s, built %s, %s)",
		Release, Language, Commit, BuildDate, runtime.Version())
}
