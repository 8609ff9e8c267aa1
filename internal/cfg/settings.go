package cfg

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// EnvFileName is the optional file in the data dir holding setting overrides.
const EnvFileName = "autostarter.env"

// Settings holds the runtime knobs read from the environment.
type Settings struct {
	DataDir     string        `env:"AUTOSTARTER_DATA_DIR"`
	AutoClose   time.Duration `env:"AUTOSTARTER_AUTO_CLOSE" default:"10s"`
	LaunchDelay time.Duration `env:"AUTOSTARTER_LAUNCH_DELAY" default:"50ms"`
	// Interpreter and Script are set by wrappers that run the program
	// through an interpreter rather than as a packaged executable.
	Interpreter string `env:"AUTOSTARTER_INTERPRETER"`
	Script      string `env:"AUTOSTARTER_SCRIPT"`
}

// LoadSettings reads settings from the process environment. Variables in
// envFile, if it exists, are applied first without overriding ones that
// are already set.
func LoadSettings(envFile string) (*Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("failed to read %s: %v", filepath.Base(envFile), err)
		}
	}

	var s Settings
	if err := env.Load(&s, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) validate() error {
	if s.AutoClose < 0 {
		return errors.New("AUTOSTARTER_AUTO_CLOSE must not be negative")
	}
	if s.LaunchDelay < 0 {
		return errors.New("AUTOSTARTER_LAUNCH_DELAY must not be negative")
	}
	if s.Script != "" && s.Interpreter == "" {
		return errors.New("AUTOSTARTER_SCRIPT requires AUTOSTARTER_INTERPRETER")
	}
	return nil
}
