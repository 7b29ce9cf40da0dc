package domain

import "fmt"

// ResultKind classifies the outcome of running an external tool
type ResultKind string

const (
	ResultIOError     ResultKind = "io-error"
	ResultNonZeroExit ResultKind = "nonzero-exit"
	ResultNotFound    ResultKind = "not-found"
	ResultOK          ResultKind = "ok"
	ResultTimedOut    ResultKind = "timed-out"
)

// CommandResult is the outcome of one tool invocation.
// Runners only produce ok, not-found, timed-out and io-error; ok always carries ExitCode.
type CommandResult struct {
	Err      string
	ExitCode *int
	Kind     ResultKind
	Stderr   string
	Stdout   string
}

// Succeeded reports whether the process ran and exited with status zero
func (r CommandResult) Succeeded() bool {
	return r.Kind == ResultOK && r.ExitCode != nil && *r.ExitCode == 0
}

// Classify returns the five-way kind, splitting ok into ok and nonzero-exit
func (r CommandResult) Classify() ResultKind {
	if r.Kind == ResultOK && r.ExitCode != nil && *r.ExitCode != 0 {
		return ResultNonZeroExit
	}
	return r.Kind
}

// AsError converts a failed result into one of the command sentinel errors
func (r CommandResult) AsError() error {
	switch r.Classify() {
	case ResultOK:
		return nil
	case ResultNotFound:
		return ErrToolUnavailable
	case ResultTimedOut:
		return ErrCommandTimeout
	case ResultNonZeroExit:
		return fmt.Errorf("%w: exit code %d", ErrNonZeroExit, *r.ExitCode)
	default:
		if r.Err != "" {
			return fmt.Errorf("%w: %s", ErrCommandIO, r.Err)
		}
		return ErrCommandIO
	}
}

// ExitedWith builds an ok result for a process that exited with code
func ExitedWith(code int, stdout, stderr string) CommandResult {
	return CommandResult{Kind: ResultOK, ExitCode: &code, Stdout: stdout, Stderr: stderr}
}
