// Package autostart registers the program to run at user logon.
//
// Two mechanisms are used. The preferred one is a logon-triggered
// scheduled task, which starts without the delay Windows applies to
// Startup folder entries. When the task cannot be created, a shortcut (or
// a .bat wrapper) in the per-user Startup folder is used instead. The
// registration state is never cached: every call asks the OS.
package autostart

import (
	"errors"
	"fmt"
	"log"
)

const (
	// TaskName is the fixed name of the scheduled task.
	TaskName = "AutoStarter_Logon"
	// ShortcutName is the base name of the Startup folder entry.
	ShortcutName = "AutoStarter"
)

// ErrUnsupported is returned by mechanisms not available on this platform.
var ErrUnsupported = errors.New("not supported on this platform")

// Mechanism is one way of getting the program started at logon.
type Mechanism interface {
	// Name is a human-readable name used in logs and errors.
	Name() string
	Exists() (bool, error)
	// Create installs the entry, replacing an existing one.
	Create(target string, args []string) error
	// Remove deletes the entry. Removing an absent entry succeeds.
	Remove() error
}

// State is the combined presence of the two mechanisms.
type State int

const (
	StateNone State = iota
	StateTaskOnly
	StateShortcutOnly
	// StateBoth only occurs transiently, e.g. when a migration was interrupted.
	StateBoth
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateTaskOnly:
		return "task-only"
	case StateShortcutOnly:
		return "shortcut-only"
	case StateBoth:
		return "both"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome tells which mechanism Enable ended up using.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeTask
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTask:
		return "task"
	case OutcomeFallback:
		return "fallback"
	default:
		return "failed"
	}
}

// EnableError is returned when neither mechanism could be created.
type EnableError struct {
	TaskErr     error
	FallbackErr error
}

func (e *EnableError) Error() string {
	return fmt.Sprintf("create scheduled task: %v; create startup shortcut: %v", e.TaskErr, e.FallbackErr)
}

func (e *EnableError) Unwrap() []error {
	return []error{e.TaskErr, e.FallbackErr}
}

// Manager manages automatic startup of the app on user login.
type Manager struct {
	task     Mechanism
	shortcut Mechanism
}

func newManager(task, shortcut Mechanism) *Manager {
	return &Manager{task: task, shortcut: shortcut}
}

// State queries both mechanisms.
func (m *Manager) State() State {
	task := m.present(m.task)
	shortcut := m.present(m.shortcut)
	switch {
	case task && shortcut:
		return StateBoth
	case task:
		return StateTaskOnly
	case shortcut:
		return StateShortcutOnly
	default:
		return StateNone
	}
}

// IsEnabled reports whether either mechanism is present.
func (m *Manager) IsEnabled() bool {
	return m.State() != StateNone
}

// Enable creates the scheduled task and, once it exists, removes the legacy
// shortcut. If the task cannot be created, the shortcut is created instead.
func (m *Manager) Enable(target string, args []string) (Outcome, error) {
	taskErr := m.task.Create(target, args)
	if taskErr == nil {
		if err := m.shortcut.Remove(); err != nil {
			log.Printf("failed to remove legacy %s: %v", m.shortcut.Name(), err)
		}
		return OutcomeTask, nil
	}
	log.Printf("failed to create %s, falling back to %s: %v", m.task.Name(), m.shortcut.Name(), taskErr)

	if err := m.shortcut.Create(target, args); err != nil {
		return OutcomeFailed, &EnableError{TaskErr: taskErr, FallbackErr: err}
	}
	return OutcomeFallback, nil
}

// Disable removes both entries, whichever of them exist.
func (m *Manager) Disable() error {
	var errs []error
	if err := m.task.Remove(); err != nil {
		errs = append(errs, fmt.Errorf("remove %s: %w", m.task.Name(), err))
	}
	if err := m.shortcut.Remove(); err != nil {
		errs = append(errs, fmt.Errorf("remove %s: %w", m.shortcut.Name(), err))
	}
	return errors.Join(errs...)
}

// MigrateLegacy upgrades to the scheduled task when no entry is present.
// An existing shortcut is left alone, since systems that forbid task
// creation would otherwise fail on every start. It never downgrades and
// reports whether a task was created.
func (m *Manager) MigrateLegacy(target string, args []string) (bool, error) {
	if m.present(m.shortcut) {
		return false, nil
	}
	if m.present(m.task) {
		return false, nil
	}

	if err := m.task.Create(target, args); err != nil {
		return false, fmt.Errorf("create %s: %w", m.task.Name(), err)
	}
	if err := m.shortcut.Remove(); err != nil {
		log.Printf("failed to remove legacy %s: %v", m.shortcut.Name(), err)
	}
	return true, nil
}

func (m *Manager) present(mech Mechanism) bool {
	ok, err := mech.Exists()
	if err != nil {
		log.Printf("error checking %s: %v", mech.Name(), err)
		return false
	}
	return ok
}
