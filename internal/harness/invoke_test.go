package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"
)

// fakeCargo puts a shell script named cargo first on PATH so Invoke runs it
// instead of the real harness.
func fakeCargo(t *testing.T, script string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cargo")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestInvokeTimeoutBoundsHungChildren(t *testing.T) {
	// The harness exits only after its child does; the child inherits the
	// output pipes. The timeout must still bound the whole invocation.
	fakeCargo(t, "sleep 30 &\nwait\n")

	start := time.Now()
	run := Invoke(context.Background(), Options{
		WorkspaceRoot: t.TempDir(),
		Timeout:       200 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if !run.TimedOut {
		t.Fatalf("expected a timed-out run, got %+v", run)
	}
	if !run.Failed() {
		t.Error("a timed-out run must count as failed")
	}
	if elapsed > 3*time.Second {
		t.Errorf("invocation returned after %s despite a 200ms timeout", elapsed)
	}
}

func TestInvokeCapturesOutput(t *testing.T) {
	fakeCargo(t, "echo 'test suite::case1 ... ok'\necho oops >&2\n")

	run := Invoke(context.Background(), Options{
		WorkspaceRoot: t.TempDir(),
		Timeout:       time.Minute,
	})

	if run.Failed() {
		t.Fatalf("expected a clean run, got %+v", run)
	}
	if run.Stdout != "test suite::case1 ... ok\n" {
		t.Errorf("stdout not captured: %q", run.Stdout)
	}
	if run.Stderr != "oops\n" {
		t.Errorf("stderr not captured: %q", run.Stderr)
	}
}

func TestInvokeNonZeroExit(t *testing.T) {
	fakeCargo(t, "exit 101\n")

	run := Invoke(context.Background(), Options{
		WorkspaceRoot: t.TempDir(),
		Timeout:       time.Minute,
	})

	if run.ExitCode != 101 || run.TimedOut || run.Err != nil {
		t.Errorf("expected a plain exit 101, got %+v", run)
	}
	if !run.Failed() {
		t.Error("non-zero exit must count as failed")
	}
}

func TestExcerptKeepsRuneBoundary(t *testing.T) {
	// Two-byte runes: an odd byte cap lands mid-rune and must back off.
	s := ""
	for len(s) < 20 {
		s += "é"
	}
	got := Excerpt(s, 7)
	if !utf8.ValidString(got) {
		t.Errorf("excerpt is not valid UTF-8: %q", got)
	}
	if len(got) != 6 {
		t.Errorf("expected a 6-byte excerpt, got %d bytes", len(got))
	}
}
