package autostart

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result is the outcome of a command that ran to completion.
type Result struct {
	ExitCode int
	Output   string
}

// Runner runs external commands. Run returns an error only when the
// command could not be run at all; a non-zero exit is reported in Result.
type Runner interface {
	Run(name string, args ...string) (Result, error)
}

// CommandError is returned when a command exits with a non-zero code.
type CommandError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.ExitCode, e.Output)
}

type execRunner struct {
	decode func([]byte) string
}

func (r execRunner) Run(name string, args ...string) (Result, error) {
	cmd := exec.Command(name, args...) // #nosec G204 -- only called with fixed schtasks arguments.
	hideWindow(cmd)

	out, err := cmd.CombinedOutput()
	res := Result{Output: strings.TrimSpace(r.decode(out))}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("run %s: %w", name, err)
	}
	return res, nil
}
