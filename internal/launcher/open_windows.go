package launcher

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// shellOpen hands path to ShellExecute with the "open" verb. This handles
// programs, documents, folders and .lnk shortcuts.
func shellOpen(path string) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("convert path to UTF-16: %w", err)
	}

	if err := windows.ShellExecute(0, verb, file, nil, nil, windows.SW_SHOWNORMAL); err != nil {
		return fmt.Errorf("shell execute: %w", err)
	}
	return nil
}
