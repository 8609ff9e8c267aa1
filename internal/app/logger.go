package app

import (
	"fmt"

	"github.com/mrboxik/autostarter/internal/logger"
)

// OpenLogsFolder opens the directory holding the application log.
func (a *App) OpenLogsFolder() error {
	logsDir, err := logger.LogsDir()
	if err != nil {
		return fmt.Errorf("get logs directory: %w", err)
	}
	if err := a.launcher.Open(logsDir); err != nil {
		a.notifier.Error("Error", fmt.Sprintf("Could not open logs folder: %v", err))
		return err
	}
	return nil
}
