package autostart

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// sFalse is returned by CoInitializeEx when COM is already initialized on the thread.
const sFalse = 0x00000001

// writeShellLink creates a .lnk file through the WScript.Shell COM object.
func writeShellLink(linkPath, target, args, icon string) error {
	// COM apartments are per OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			return fmt.Errorf("initialize COM: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return fmt.Errorf("create WScript.Shell: %w", err)
	}
	defer unknown.Release()

	shell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("query IDispatch: %w", err)
	}
	defer shell.Release()

	result, err := oleutil.CallMethod(shell, "CreateShortcut", linkPath)
	if err != nil {
		return fmt.Errorf("create shortcut: %w", err)
	}
	link := result.ToIDispatch()
	defer link.Release()

	if _, err := oleutil.PutProperty(link, "TargetPath", target); err != nil {
		return fmt.Errorf("set target path: %w", err)
	}
	if args != "" {
		if _, err := oleutil.PutProperty(link, "Arguments", args); err != nil {
			return fmt.Errorf("set arguments: %w", err)
		}
	}
	if icon != "" {
		if _, err := os.Stat(icon); err == nil {
			// The icon is cosmetic; a failure here does not fail the link.
			oleutil.PutProperty(link, "IconLocation", icon+",0")
		}
	}

	if _, err := oleutil.CallMethod(link, "Save"); err != nil {
		return fmt.Errorf("save shortcut: %w", err)
	}
	return nil
}
