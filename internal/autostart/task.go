package autostart

import (
	"errors"
	"fmt"
)

const schtasks = "schtasks"

// Task is a logon-triggered scheduled task managed through schtasks.
type Task struct {
	name   string
	runner Runner
}

func NewTask(name string, runner Runner) (*Task, error) {
	if name == "" {
		return nil, errors.New("name is empty")
	}
	if runner == nil {
		return nil, errors.New("runner is nil")
	}
	return &Task{name: name, runner: runner}, nil
}

func (t *Task) Name() string {
	return "scheduled task"
}

// Create creates or replaces the task. It runs at logon of the current user
// with limited privileges.
func (t *Task) Create(target string, args []string) error {
	command := CommandLine(append([]string{target}, args...))
	return t.run("/Create",
		"/TN", t.name,
		"/SC", "ONLOGON",
		"/TR", command,
		"/F",
		"/RL", "LIMITED",
	)
}

func (t *Task) Exists() (bool, error) {
	res, err := t.runner.Run(schtasks, "/Query", "/TN", t.name)
	if err != nil {
		return false, err
	}
	return res.ExitCode == 0, nil
}

func (t *Task) Remove() error {
	if exists, err := t.Exists(); err != nil {
		return fmt.Errorf("check task: %w", err)
	} else if !exists {
		return nil
	}
	return t.run("/Delete", "/TN", t.name, "/F")
}

func (t *Task) run(args ...string) error {
	res, err := t.runner.Run(schtasks, args...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &CommandError{Command: schtasks + " " + args[0], ExitCode: res.ExitCode, Output: res.Output}
	}
	return nil
}
