package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/ports"
)

const (
	// DefaultTimeout applies when Run is called with a non-positive timeout
	DefaultTimeout = 30 * time.Second

	// waitDelay bounds how long Run waits for output pipes after the process is killed
	waitDelay = 2 * time.Second
)

// ExecRunner implements CommandRunner with os/exec.
// Output is captured, no console window is shown and the whole process tree is
// killed when the timeout expires.
type ExecRunner struct {
	defaultTimeout time.Duration
	notifier       ports.Notifier
	resolver       ports.ToolResolver
	waitDelay      time.Duration
}

// Compile-time interface verification
var _ ports.CommandRunner = (*ExecRunner)(nil)

// NewExecRunner creates a runner resolving tools with resolver and reporting
// failures to notifier. A non-positive defaultTimeout means DefaultTimeout.
func NewExecRunner(resolver ports.ToolResolver, notifier ports.Notifier, defaultTimeout time.Duration) *ExecRunner {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	return &ExecRunner{
		defaultTimeout: defaultTimeout,
		notifier:       notifier,
		resolver:       resolver,
		waitDelay:      waitDelay,
	}
}

// Run executes the named tool and folds every failure into the result kind
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, timeout time.Duration) domain.CommandResult {
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}

	tool, ok := r.resolver.Resolve(name)
	if !ok {
		r.report(fmt.Sprintf("Tool not found: %s", name))
		logging.Logger.Error("Tool not found", "tool", name)
		return domain.CommandResult{Kind: domain.ResultNotFound, Err: domain.ErrToolUnavailable.Error()}
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, tool.Path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.waitDelay
	configureCommand(cmd)

	logging.Logger.Debug("Running tool",
		"tool", name,
		"path", tool.Path,
		"args", strings.Join(args, " "),
		"timeout", timeout)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		r.report(fmt.Sprintf("Command timed out: %s", name))
		logging.Logger.Error("Command timed out", "tool", name, "timeout", timeout, "elapsed", elapsed)
		return domain.CommandResult{
			Kind:   domain.ResultTimedOut,
			Err:    domain.ErrCommandTimeout.Error(),
			Stdout: stdout.String(),
			Stderr: stderr.String(),
		}
	}

	if err == nil {
		logging.Logger.Debug("Tool finished", "tool", name, "exit_code", 0, "elapsed", elapsed)
		return domain.ExitedWith(0, stdout.String(), stderr.String())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		logging.Logger.Debug("Tool finished", "tool", name, "exit_code", exitErr.ExitCode(), "elapsed", elapsed)
		return domain.ExitedWith(exitErr.ExitCode(), stdout.String(), stderr.String())
	}

	r.report(fmt.Sprintf("Command failed: %s - %v", name, err))
	logging.Logger.Error("Command failed", "tool", name, "error", err)
	return domain.CommandResult{
		Kind:   domain.ResultIOError,
		Err:    err.Error(),
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
}

func (r *ExecRunner) report(message string) {
	if r.notifier == nil {
		return
	}
	r.notifier.Publish(domain.LogEvent{
		Message:  message,
		Severity: domain.SeverityError,
		Time:     time.Now(),
	})
}
