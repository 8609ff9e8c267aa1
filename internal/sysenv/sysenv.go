// Package sysenv captures the process-wide state the rest of the program
// depends on (executable path, environment variables, working directory)
// so that it can be swapped for a fake in tests.
package sysenv

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// Process describes how the running program was started.
type Process struct {
	// Executable is the absolute path of the running image.
	Executable string
	// Interpreter is the binary that runs Script. Empty for a packaged executable.
	Interpreter string
	// Script is the program file passed to Interpreter.
	Script string
}

// Interpreted reports whether the program runs through an interpreter.
func (p Process) Interpreted() bool {
	return p.Interpreter != ""
}

// SelfPath returns the path that identifies this program: the script in
// interpreted mode, the executable otherwise.
func (p Process) SelfPath() string {
	if p.Interpreted() && p.Script != "" {
		return p.Script
	}
	return p.Executable
}

// Env is the environment context handed to path handling and startup registration.
type Env struct {
	GOOS    string
	Process Process
	Getenv  func(key string) string
	Getwd   func() (string, error)
	Stat    func(name string) (fs.FileInfo, error)
}

// Exists reports whether name can be stat'ed.
func (e Env) Exists(name string) bool {
	if e.Stat == nil || name == "" {
		return false
	}
	_, err := e.Stat(name)
	return err == nil
}

// Current returns the environment of the running process. interpreter and
// script are only set when a wrapper runs the program through an interpreter.
func Current(interpreter, script string) (Env, error) {
	execPath, err := executable()
	if err != nil {
		return Env{}, err
	}

	proc := Process{Executable: execPath}
	if interpreter != "" {
		proc.Interpreter, err = filepath.Abs(interpreter)
		if err != nil {
			return Env{}, fmt.Errorf("resolve interpreter path: %w", err)
		}
		if script != "" {
			proc.Script, err = filepath.Abs(script)
			if err != nil {
				return Env{}, fmt.Errorf("resolve script path: %w", err)
			}
		}
	}

	return Env{
		GOOS:    runtime.GOOS,
		Process: proc,
		Getenv:  os.Getenv,
		Getwd:   os.Getwd,
		Stat:    os.Stat,
	}, nil
}

func executable() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}

	// https://github.com/golang/go/issues/40966
	if runtime.GOOS != "windows" {
		if execPath, err = filepath.EvalSymlinks(execPath); err != nil {
			return "", fmt.Errorf("eval symlinks: %w", err)
		}
	}

	return execPath, nil
}
