package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	appName = "AutoStarter"
)

// SetupLogger sends the standard logger to a rotating file in the logs
// directory. When mirrorStdout is set, output is also written to stdout.
func SetupLogger(mirrorStdout bool) error {
	logsDir, err := LogsDir()
	if err != nil {
		return fmt.Errorf("get logs directory: %w", err)
	}

	fileLogger := &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, "application.log"),
		MaxSize:    5,
		MaxBackups: 5,
		MaxAge:     1,
		Compress:   true,
	}

	if mirrorStdout {
		log.SetOutput(io.MultiWriter(os.Stdout, fileLogger))
	} else {
		log.SetOutput(fileLogger)
	}

	return nil
}

// LogsDir returns the directory holding the log files, creating it if needed.
func LogsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home directory: %w", err)
	}

	var path string
	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		path = filepath.Join(localAppData, appName, "Logs")
	case "darwin":
		path = filepath.Join(homeDir, "Library", "Logs", appName)
	default:
		path = filepath.Join(homeDir, ".local", "share", appName, "logs")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}

	return path, nil
}
