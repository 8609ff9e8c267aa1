// References:
// - https://learn.microsoft.com/en-us/windows/win32/taskschd/schtasks
// - https://learn.microsoft.com/en-us/windows/win32/shell/knownfolderid

package autostart

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/mrboxik/autostarter/internal/sysenv"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
	"golang.org/x/text/encoding/charmap"
)

const shellFoldersPath = `Software\Microsoft\Windows\CurrentVersion\Explorer\User Shell Folders`

// NewManager returns a Manager backed by schtasks and the user's Startup folder.
func NewManager(env sysenv.Env) *Manager {
	task, err := NewTask(TaskName, execRunner{decode: decodeOEM})
	if err != nil {
		// Unreachable with the constant arguments above.
		panic(err)
	}

	dir, err := startupFolder(env)
	if err != nil {
		log.Printf("failed to locate startup folder: %v", err)
	}

	return newManager(task, NewShortcut(dir, ShortcutName, iconPath(env), writeShellLink))
}

// startupFolder reads the Startup folder from the user shell folders,
// which honors folder redirection, and falls back to the default location
// under APPDATA.
func startupFolder(env sysenv.Env) (string, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, shellFoldersPath, registry.QUERY_VALUE)
	if err == nil {
		defer key.Close()
		value, valType, err := key.GetStringValue("Startup")
		if err == nil && value != "" {
			if valType == registry.EXPAND_SZ {
				if expanded, err := registry.ExpandString(value); err == nil {
					value = expanded
				}
			}
			return value, nil
		}
	}
	return appDataStartupFolder(env)
}

// iconPath picks the icon for the Startup shortcut: the executable itself
// when packaged, an app_icon.ico next to the script otherwise.
func iconPath(env sysenv.Env) string {
	proc := env.Process
	if !proc.Interpreted() {
		return proc.Executable
	}
	if proc.Script == "" {
		return ""
	}
	icon := filepath.Join(filepath.Dir(proc.Script), "app_icon.ico")
	if _, err := os.Stat(icon); err != nil {
		return ""
	}
	return icon
}

func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}

var oemCodePages = map[uintptr]*charmap.Charmap{
	437: charmap.CodePage437,
	850: charmap.CodePage850,
	852: charmap.CodePage852,
	855: charmap.CodePage855,
	858: charmap.CodePage858,
	860: charmap.CodePage860,
	862: charmap.CodePage862,
	863: charmap.CodePage863,
	865: charmap.CodePage865,
	866: charmap.CodePage866,
}

var procGetOEMCP = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetOEMCP")

// decodeOEM decodes console output, which schtasks writes in the OEM code page.
func decodeOEM(out []byte) string {
	if err := procGetOEMCP.Find(); err != nil {
		return string(out)
	}
	cp, _, _ := procGetOEMCP.Call()
	cm, ok := oemCodePages[cp]
	if !ok {
		return string(out)
	}
	decoded, err := cm.NewDecoder().Bytes(out)
	if err != nil {
		return string(out)
	}
	return string(decoded)
}
