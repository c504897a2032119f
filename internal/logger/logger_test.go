package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestVerboseGating(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden %d", 1)
	Info("hidden")
	Warn("hidden")
	Section("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output with verbose off, got %q", buf.String())
	}

	Error("shown %s", "always")
	if !strings.Contains(buf.String(), "[ERROR] shown always") {
		t.Errorf("Error output = %q", buf.String())
	}
}

func TestVerboseOn(t *testing.T) {
	buf := capture(t, true)

	Debug("track %s", "abc")
	Info("next due in %d minutes", 60)
	Warn("slow judge")
	Section("Review")

	out := buf.String()
	for _, want := range []string{"[DEBUG] track abc", "[INFO] next due in 60 minutes", "[WARN] slow judge", "=== Review ==="} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !IsVerbose() {
		t.Error("IsVerbose() = false, want true")
	}
}
