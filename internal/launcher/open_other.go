//go:build !windows

package launcher

import (
	"fmt"
	"os/exec"
	"runtime"
)

func shellOpen(path string) error {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}

	cmd := exec.Command(opener, path) // #nosec G204
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", opener, err)
	}
	go cmd.Wait()
	return nil
}
