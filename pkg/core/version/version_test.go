package version

import (
	"regexp"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Release", Release},
		{"Language", Language},
		{"ParseService", ParseService},
		{"HistoryStore", HistoryStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q does not match semver format (x.y.z)", tt.name, tt.version)
			}
		})
	}
}

func TestComponentVersion(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"language", Language},
		{"parsesvc", ParseService},
		{"history", HistoryStore},
		{"unknown", Release},
		{"", Release},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComponentVersion(tt.name); got != tt.expected {
				t.Errorf("ComponentVersion(%q) = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}

func TestInfoAndString(t *testing.T) {
	info := Info()
	if info["version"] != Release || info["go"] == "" {
		t.Errorf("Info() = %v", info)
	}
	if !strings.HasPrefix(String(), "vera "+Release) {
		t.Errorf("String() = %q", String())
	}
}
