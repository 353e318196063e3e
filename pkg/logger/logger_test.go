package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf)
	log.Info("trial complete", "trial", 7, "value", 0.25)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "trial complete" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["trial"] != float64(7) {
		t.Errorf("trial = %v", entry["trial"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)
	log.Info("hidden")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record leaked through a warn-level logger")
	}
	if !strings.Contains(out, "visible") {
		t.Error("warn record missing")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"INFO", "INFO"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"bogus", "INFO"},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in).String(); got != tt.want {
			t.Errorf("parseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNewTextOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewText("debug", &buf)
	log.Debug("starting", "addr", ":50052")
	if !strings.Contains(buf.String(), "addr=:50052") {
		t.Errorf("text output missing attribute: %q", buf.String())
	}
}
