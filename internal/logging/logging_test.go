// ABOUTME: Tests for logger construction
// ABOUTME: Checks output routing and that file logging actually writes
package logging

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected []string
	}{
		{"file only", Options{File: "chime.log"}, []string{"chime.log"}},
		{"file and console", Options{File: "chime.log", Console: true}, []string{"chime.log", "stderr"}},
		{"console only", Options{Console: true}, []string{"stderr"}},
		{"nothing falls back to stderr", Options{}, []string{"stderr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.opts)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chime.log")

	logger, err := New(Options{Debug: true, File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Named("test").Infow("hello", "key", "value")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") || !strings.Contains(string(data), "value") {
		t.Errorf("log file missing entry: %s", data)
	}
}
