package repl

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompileBufferReportsSuccess(t *testing.T) {
	r := New()
	r.buffer = []string{"pub class Box {", "val n: i32", "}"}

	var out bytes.Buffer
	r.compileBuffer(&out)

	if !strings.Contains(out.String(), "ok") {
		t.Errorf("expected success summary, got %q", out.String())
	}
}

func TestCompileBufferReportsErrors(t *testing.T) {
	r := New()
	r.buffer = []string{"pub class Box {", "val n: DoesNotExist", "}"}

	var out bytes.Buffer
	r.compileBuffer(&out)

	if !strings.Contains(out.String(), "resolve") {
		t.Errorf("expected a resolve diagnostic, got %q", out.String())
	}
}

func TestHandleCommandReset(t *testing.T) {
	r := New()
	r.buffer = []string{"pub class Box {}"}

	var out bytes.Buffer
	if r.handleCommand(":reset", &out) {
		t.Error(":reset should not end the session")
	}
	if len(r.buffer) != 0 {
		t.Error("buffer should be cleared after :reset")
	}
}

func TestHandleCommandQuit(t *testing.T) {
	r := New()
	var out bytes.Buffer
	if !r.handleCommand(":quit", &out) {
		t.Error(":quit should end the session")
	}
}
