package harness

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"
	"unicode/utf8"
)

// DefaultTimeout bounds a single cargo invocation.
const DefaultTimeout = 5 * time.Minute

// Options selects what the harness runs.
type Options struct {
	TestName      string // optional filter; empty runs everything
	Package       string
	Features      string
	WorkspaceRoot string
	Timeout       time.Duration
}

// Run is a completed (or failed) harness invocation with captured output.
// A timeout or spawn failure is data here, never a propagated fault: the
// caller turns it into a Timeout/Failed outcome and keeps reporting.
type Run struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Err      error // spawn failure; nil for a normal non-zero exit
}

// Failed reports whether the invocation signalled failure in any form.
func (r Run) Failed() bool {
	return r.ExitCode != 0 || r.TimedOut || r.Err != nil
}

// Invoke runs cargo test with the given options, bounded by the timeout.
// Exceeding the timeout terminates the process and marks the run TimedOut.
func Invoke(ctx context.Context, opts Options) Run {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"test", "--no-fail-fast"}
	if opts.Package != "" {
		args = append(args, "--package", opts.Package)
	}
	if opts.Features != "" {
		args = append(args, "--features", opts.Features)
	}
	if opts.TestName != "" {
		args = append(args, opts.TestName)
	}

	cmd := exec.CommandContext(ctx, "cargo", args...)
	cmd.Dir = opts.WorkspaceRoot

	// cargo spawns the test binaries as children, and they inherit the
	// output pipes. Killing only cargo at the deadline leaves a hung test
	// holding the pipes open, which blocks Run past the timeout. Run the
	// whole invocation in its own process group and kill the group, with
	// WaitDelay as a backstop so Run lets go of the pipes regardless.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	run := Run{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if ctx.Err() == context.DeadlineExceeded {
		run.TimedOut = true
		run.ExitCode = -1
		return run
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			run.ExitCode = exitErr.ExitCode()
		} else {
			// cargo never started; keep the error for the report.
			run.ExitCode = -1
			run.Err = err
		}
	}
	return run
}

// Excerpt caps s at n bytes for storage in an outcome, backing off to a
// rune boundary so multi-byte output (rustc's curly quotes) stays valid
// UTF-8.
func Excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
