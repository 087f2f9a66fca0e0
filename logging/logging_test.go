package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	for i, test := range levelTest {
		buf := &bytes.Buffer{}
		l := NewLogger(Config{Level: test.level, Out: buf, NoColor: true, NoTimestamp: true})
		l.Debug("d")
		l.Info("i")
		l.Warn("w")
		l.Error("e")
		if buf.String() != test.expected {
			t.Errorf("Test %v: Expected output %q. Got: %q", i, test.expected, buf.String())
		}
	}
}

func TestFormatted(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLogger(Config{Level: DebugLevel, Out: buf, NoColor: true, NoTimestamp: true})
	l.Infof("step %v of %v", 3, 10)
	l.Printf("plain %v", "line")
	if buf.String() != "INFO: step 3 of 10\nplain line\n" {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestColor(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLogger(Config{Level: DebugLevel, Out: buf, NoTimestamp: true})
	l.Error("red")
	if !strings.Contains(buf.String(), "\x1b[31m") {
		t.Errorf("Expected a colored line. Got: %q", buf.String())
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.log")
	buf := &bytes.Buffer{}
	l := NewLogger(Config{Level: InfoLevel, Out: buf, NoColor: true, NoTimestamp: true, File: path})
	l.Info("to file")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected the log file to exist. Got: %v", err)
	}
	if string(data) != "INFO: to file\n" || buf.String() != "INFO: to file\n" {
		t.Errorf("Expected the line in both outputs. Got: %q and %q", data, buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	for name, expected := range map[string]int32{"debug": DebugLevel, "INFO": InfoLevel, "warn": WarnLevel, "error": ErrorLevel} {
		level, err := ParseLevel(name)
		if err != nil || level != expected {
			t.Errorf("Expected level %v for %v. Got: %v, %v", expected, name, level, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("Expected an error for an unknown level")
	}
}

var levelTest = []struct {
	level    int32
	expected string
}{
	{DebugLevel, "DEBUG: d\nINFO: i\nWARN: w\nERROR: e\n"},
	{InfoLevel, "INFO: i\nWARN: w\nERROR: e\n"},
	{WarnLevel, "WARN: w\nERROR: e\n"},
	{ErrorLevel, "ERROR: e\n"},
}
