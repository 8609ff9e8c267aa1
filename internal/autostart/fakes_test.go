package autostart

import (
	"errors"
	"sync"
)

// fakeSchtasks emulates the task table behind schtasks.
type fakeSchtasks struct {
	mu          sync.Mutex
	tasks       map[string]string
	denyCreate  bool
	unavailable bool
	calls       [][]string
}

func newFakeSchtasks() *fakeSchtasks {
	return &fakeSchtasks{tasks: map[string]string{}}
}

func (f *fakeSchtasks) Run(name string, args ...string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, append([]string{name}, args...))
	if f.unavailable {
		return Result{}, errors.New(`exec: "schtasks": executable file not found in %PATH%`)
	}

	flags := map[string]string{}
	for i := 1; i < len(args); i++ {
		if i+1 < len(args) && args[i+1] != "" && args[i+1][0] != '/' {
			flags[args[i]] = args[i+1]
			i++
		}
	}

	switch args[0] {
	case "/Create":
		if f.denyCreate {
			return Result{ExitCode: 1, Output: "ERROR: Access is denied."}, nil
		}
		f.tasks[flags["/TN"]] = flags["/TR"]
		return Result{Output: "SUCCESS: The scheduled task has successfully been created."}, nil
	case "/Query":
		if _, ok := f.tasks[flags["/TN"]]; !ok {
			return Result{ExitCode: 1, Output: "ERROR: The system cannot find the file specified."}, nil
		}
		return Result{}, nil
	case "/Delete":
		if _, ok := f.tasks[flags["/TN"]]; !ok {
			return Result{ExitCode: 1, Output: "ERROR: The system cannot find the file specified."}, nil
		}
		delete(f.tasks, flags["/TN"])
		return Result{}, nil
	}
	return Result{ExitCode: 1, Output: "ERROR: Invalid argument/option."}, nil
}

func (f *fakeSchtasks) count(verb string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c[1] == verb {
			n++
		}
	}
	return n
}

// fakeMechanism is an in-memory Mechanism.
type fakeMechanism struct {
	name      string
	present   bool
	createErr error
	removeErr error
	existsErr error
	created   int
	removed   int
}

func (m *fakeMechanism) Name() string { return m.name }

func (m *fakeMechanism) Exists() (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.present, nil
}

func (m *fakeMechanism) Create(string, []string) error {
	m.created++
	if m.createErr != nil {
		return m.createErr
	}
	m.present = true
	return nil
}

func (m *fakeMechanism) Remove() error {
	m.removed++
	if m.removeErr != nil {
		return m.removeErr
	}
	m.present = false
	return nil
}
