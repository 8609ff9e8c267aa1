package autostart

import (
	"io/fs"
	"os"
	"testing"

	"github.com/mrboxik/autostarter/internal/sysenv"
	"github.com/stretchr/testify/assert"
)

func TestCommandLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"plain", []string{`C:\Apps\A.exe`, "--nobox"}, `C:\Apps\A.exe --nobox`},
		{"spaces", []string{`C:\Program Files\AutoStarter\AutoStarter.exe`, "--nobox"}, `"C:\Program Files\AutoStarter\AutoStarter.exe" --nobox`},
		{"empty arg", []string{"a.exe", ""}, `a.exe ""`},
		{"embedded quote", []string{`say "hi"`}, `"say \"hi\""`},
		{"trailing backslash with space", []string{`C:\My Dir\`}, `"C:\My Dir\\"`},
		{"backslashes before quote", []string{`a\\"b c`}, `"a\\\\\"b c"`},
		{"backslashes without quoting", []string{`C:\dir\`}, `C:\dir\`},
		{"no args", nil, ""},
	}
	for _, tt := range tests {
		if got := CommandLine(tt.args); got != tt.want {
			t.Errorf("%s: CommandLine(%q) = %s, want %s", tt.name, tt.args, got, tt.want)
		}
	}
}

func statExisting(paths ...string) func(string) (fs.FileInfo, error) {
	set := map[string]bool{}
	for _, p := range paths {
		set[p] = true
	}
	return func(name string) (fs.FileInfo, error) {
		if set[name] {
			return nil, nil
		}
		return nil, os.ErrNotExist
	}
}

func TestLaunchTarget(t *testing.T) {
	t.Parallel()

	t.Run("packaged executable runs itself headless", func(t *testing.T) {
		t.Parallel()
		env := sysenv.Env{Process: sysenv.Process{Executable: `C:\AutoStarter\AutoStarter.exe`}}

		target, args := LaunchTarget(env)
		assert.Equal(t, `C:\AutoStarter\AutoStarter.exe`, target)
		assert.Equal(t, []string{"--nobox"}, args)
	})

	t.Run("interpreted prefers windowless interpreter", func(t *testing.T) {
		t.Parallel()
		env := sysenv.Env{
			Process: sysenv.Process{
				Executable:  `C:\Python312\python.exe`,
				Interpreter: `C:\Python312\python.exe`,
				Script:      `C:\Tools\AutoStarter.py`,
			},
			Stat: statExisting(`C:\Python312\pythonw.exe`),
		}

		target, args := LaunchTarget(env)
		assert.Equal(t, `C:\Python312\pythonw.exe`, target)
		assert.Equal(t, []string{`C:\Tools\AutoStarter.py`, "--nobox"}, args)
	})

	t.Run("interpreted keeps interpreter without windowless variant", func(t *testing.T) {
		t.Parallel()
		env := sysenv.Env{
			Process: sysenv.Process{
				Interpreter: "/usr/bin/python3",
				Script:      "/home/me/AutoStarter.py",
			},
			Stat: statExisting(),
		}

		target, args := LaunchTarget(env)
		assert.Equal(t, "/usr/bin/python3", target)
		assert.Equal(t, []string{"/home/me/AutoStarter.py", "--nobox"}, args)
	})

	t.Run("already windowless interpreter is kept", func(t *testing.T) {
		t.Parallel()
		env := sysenv.Env{
			Process: sysenv.Process{Interpreter: `C:\Python312\pythonw.exe`, Script: `C:\a.py`},
			Stat:    statExisting(`C:\Python312\pythonww.exe`),
		}

		target, _ := LaunchTarget(env)
		assert.Equal(t, `C:\Python312\pythonw.exe`, target)
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		env := sysenv.Env{
			Process: sysenv.Process{Interpreter: `C:\Python312\python.exe`, Script: `C:\a.py`},
			Stat:    statExisting(`C:\Python312\pythonw.exe`),
		}

		t1, a1 := LaunchTarget(env)
		t2, a2 := LaunchTarget(env)
		assert.Equal(t, t1, t2)
		assert.Equal(t, a1, a2)
	})
}
