package domain

import "errors"

var (
	ErrCommandIO       = errors.New("command failed")
	ErrCommandTimeout  = errors.New("command timed out")
	ErrNoDevice        = errors.New("no device connected")
	ErrNonZeroExit     = errors.New("command exited with nonzero status")
	ErrTaskNotFound    = errors.New("task not found")
	ErrToolUnavailable = errors.New("tool not found")
	ErrUnknownTarget   = errors.New("unknown target")
)
