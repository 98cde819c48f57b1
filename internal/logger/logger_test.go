package logger

import (
	"bytes"
	"os"
	"testing"
)

func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)

	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestLeveled_WhenVerbose(t *testing.T) {
	tests := []struct {
		name string
		log  func(string, ...any)
		want string
	}{
		{"debug", Debug, "[DEBUG] parsed /corpus/A1.xml\n"},
		{"info", Info, "[INFO] parsed /corpus/A1.xml\n"},
		{"warn", Warn, "[WARN] parsed /corpus/A1.xml\n"},
		{"error", Error, "[ERROR] parsed /corpus/A1.xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log("parsed %s", "/corpus/A1.xml")
			if buf.String() != tt.want {
				t.Errorf("unexpected output: %q", buf.String())
			}
		})
	}
}

func TestLeveled_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("a")
	Info("b")
	Warn("c")
	Section("d")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestError_AlwaysPrints(t *testing.T) {
	buf := capture(t, false)

	Error("work %d: %v", 7, "file missing")

	if buf.String() != "[ERROR] work 7: file missing\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Ingest")

	if buf.String() != "\n=== Ingest ===\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestProgress(t *testing.T) {
	buf := capture(t, false)

	Progress("ingest", 1, 4)
	Progress("ingest", 0, 0)

	if buf.String() != "ingest: 1/4 (25.0%)\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
