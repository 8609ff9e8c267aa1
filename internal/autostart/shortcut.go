package autostart

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mrboxik/autostarter/internal/sysenv"
)

// ErrNoStartupFolder is returned when the Startup folder could not be located.
var ErrNoStartupFolder = errors.New("startup folder not found")

// LinkWriter writes a shell link at linkPath. args is an already-quoted
// command line; icon may be empty.
type LinkWriter func(linkPath, target, args, icon string) error

// Shortcut is an entry in the per-user Startup folder: a .lnk shell link
// when links can be written, a .bat wrapper otherwise.
type Shortcut struct {
	dir       string
	name      string
	icon      string
	writeLink LinkWriter
}

// NewShortcut returns a Shortcut in dir. writeLink may be nil, in which
// case only the .bat wrapper is used.
func NewShortcut(dir, name, icon string, writeLink LinkWriter) *Shortcut {
	return &Shortcut{dir: dir, name: name, icon: icon, writeLink: writeLink}
}

func (s *Shortcut) Name() string {
	return "startup shortcut"
}

func (s *Shortcut) linkPath() string {
	return filepath.Join(s.dir, s.name+".lnk")
}

func (s *Shortcut) batchPath() string {
	return filepath.Join(s.dir, s.name+".bat")
}

func (s *Shortcut) Create(target string, args []string) error {
	if s.dir == "" {
		return ErrNoStartupFolder
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create startup folder: %w", err)
	}

	if s.writeLink != nil {
		err := s.writeLink(s.linkPath(), target, CommandLine(args), s.icon)
		if err == nil {
			return nil
		}
		log.Printf("failed to write shell link, using a .bat wrapper: %v", err)
	}

	// start "" returns immediately, so no console window stays open.
	command := CommandLine(append([]string{target}, args...))
	if err := os.WriteFile(s.batchPath(), []byte(`start "" `+command+"\r\n"), 0644); err != nil {
		return fmt.Errorf("write wrapper: %w", err)
	}
	return nil
}

func (s *Shortcut) Exists() (bool, error) {
	if s.dir == "" {
		return false, nil
	}
	for _, p := range []string{s.linkPath(), s.batchPath()} {
		if _, err := os.Stat(p); err == nil {
			return true, nil
		}
	}
	return false, nil
}

func (s *Shortcut) Remove() error {
	if s.dir == "" {
		return nil
	}
	var errs []error
	for _, p := range []string{s.linkPath(), s.batchPath()} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove %s: %v", p, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// appDataStartupFolder is the default location of the per-user Startup folder.
func appDataStartupFolder(env sysenv.Env) (string, error) {
	appData := env.Getenv("APPDATA")
	if appData == "" {
		return "", ErrNoStartupFolder
	}
	return filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs", "Startup"), nil
}
