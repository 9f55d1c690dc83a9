package engine

import (
	"fmt"
	"strings"
)

// DependencyError reports that the container CLI is missing or unusable.
type DependencyError struct {
	Binary string
	Err    error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s CLI is not installed or not working: %v", e.Binary, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// ExecutionError reports a failed backend subprocess such as pull or remove.
type ExecutionError struct {
	Op     string
	Image  string
	Stderr string
	Err    error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.Image, e.Err)
	if detail := lastLine(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func lastLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return text
}
