// internal/logger/logger_test.go

package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesDailyFile(t *testing.T) {
	root := t.TempDir()
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	log, err := New(root, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Infow("hello", "k", "v")
	_ = log.Sync()

	matches, err := filepath.Glob(filepath.Join(root, "logs", "cards-*.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("log files = %v, err = %v", matches, err)
	}
	info, err := os.Stat(matches[0])
	if err != nil || info.Size() == 0 {
		t.Fatalf("log file empty or missing: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in       string
		want     zapcore.Level
		warnings bool
	}{
		{"", zap.InfoLevel, false},
		{"debug", zap.DebugLevel, false},
		{"WARN", zap.WarnLevel, false},
		{"loud", zap.InfoLevel, true},
	}
	for _, tc := range cases {
		var warn bytes.Buffer
		if got := parseLevel(tc.in, &warn); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if warned := warn.Len() > 0; warned != tc.warnings {
			t.Fatalf("parseLevel(%q) warning = %q", tc.in, warn.String())
		}
		if tc.warnings && !strings.Contains(warn.String(), tc.in) {
			t.Fatalf("warning does not name the value: %q", warn.String())
		}
	}
}
