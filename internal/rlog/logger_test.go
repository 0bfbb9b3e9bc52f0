package rlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerDefaultLevelEmitsEverything(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf)

	log.Info("info line")
	log.Warn("warn line")
	log.Error("error line")

	out := buf.String()
	for _, want := range []string{"info line", "warn line", "error line"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestSetLevelSuppressesBelowMinimum(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf).SetLevel(LevelWarn)

	log.Info("should not appear")
	log.Warn("should appear")
	log.Error("should also appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("Info() logged below the configured minimum level: %s", out)
	}
	if !strings.Contains(out, "should appear") || !strings.Contains(out, "should also appear") {
		t.Errorf("output missing expected lines: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"INFO":  LevelInfo,
		"WARN":  LevelWarn,
		"ERROR": LevelError,
		"bogus": LevelInfo,
		"":      LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
