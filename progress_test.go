package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestProgressReporterSilentWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressReporter(&buf, false)
	p.Update(10, 2, true)
	p.Done()
	if buf.Len() != 0 {
		t.Errorf("expected no output for a non-terminal writer, got %q", buf.String())
	}
}

func TestProgressReporterWritesWhenForced(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressReporter(&buf, true)
	p.Update(10, 2, true)
	if !strings.Contains(buf.String(), "packets: 10") || !strings.Contains(buf.String(), "frames: 2") {
		t.Errorf("expected a status line mentioning packets and frames, got %q", buf.String())
	}
}

func TestProgressReporterDoneClearsLine(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressReporter(&buf, true)
	p.Update(1, 1, true)
	buf.Reset()
	p.Done()
	if buf.Len() == 0 {
		t.Error("expected Done to emit a clear sequence on a terminal writer")
	}
}

func TestIsTerminalFalseForNonFileWriter(t *testing.T) {
	var buf bytes.Buffer
	if isTerminal(&buf) {
		t.Error("a bytes.Buffer is never a terminal")
	}
}

func TestIsTerminalFalseForNonTTYFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "halidetraceviz-progress")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Error("a plain regular file must never report as a terminal")
	}
}
