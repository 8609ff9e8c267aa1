//go:build !windows

package autostart

import (
	"os/exec"

	"github.com/mrboxik/autostarter/internal/sysenv"
)

// NewManager returns a Manager whose mechanisms do nothing: logon
// registration is only implemented for Windows.
func NewManager(sysenv.Env) *Manager {
	return newManager(unsupported{}, NewShortcut("", ShortcutName, "", nil))
}

type unsupported struct{}

func (unsupported) Name() string                  { return "scheduled task" }
func (unsupported) Exists() (bool, error)         { return false, nil }
func (unsupported) Create(string, []string) error { return ErrUnsupported }
func (unsupported) Remove() error                 { return nil }

func hideWindow(*exec.Cmd) {}
