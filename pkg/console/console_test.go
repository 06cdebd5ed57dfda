package console

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		"message": LevelMessage,
		"warning": LevelWarning,
		"warn":    LevelWarning,
		"error":   LevelError,
		"":        LevelMessage,
		"verbose": LevelMessage,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf strings.Builder
	c := &Console{level: LevelWarning, stderr: &buf}

	c.Debug("debug line")
	c.Message("message line")
	c.Warning("warning line")
	c.Error("error %d", 7)

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "message line") {
		t.Errorf("low-severity output leaked: %q", out)
	}
	if !strings.Contains(out, "[WRN] warning line") {
		t.Errorf("warning missing: %q", out)
	}
	if !strings.Contains(out, "[ERR] error 7") {
		t.Errorf("error missing: %q", out)
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "parcad.log")
	c, err := New(Config{Level: LevelMessage, FilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Message("hello from the addon")
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[MSG] hello from the addon") {
		t.Errorf("log contents = %q", data)
	}
}

func TestSetLevel(t *testing.T) {
	var buf strings.Builder
	c := &Console{level: LevelError, stderr: &buf}
	c.Message("dropped")
	c.SetLevel(LevelDebug)
	c.Debug("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Errorf("output = %q", out)
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	// Must not panic, and must not write anywhere.
	c := Discard()
	c.Error("nothing happens")
}
