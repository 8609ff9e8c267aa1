// Package app holds the session state behind the user interface: the
// launch list being edited, the startup toggle and the auto-close timer.
package app

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mrboxik/autostarter/internal/autostart"
	"github.com/mrboxik/autostarter/internal/cfg"
	"github.com/mrboxik/autostarter/internal/files"
	"github.com/mrboxik/autostarter/internal/launcher"
)

// ErrSelfInList is returned when startup is enabled while the list refers
// to the program itself.
var ErrSelfInList = errors.New("launch list contains this program")

// Store persists the launch list.
type Store interface {
	Load() ([]cfg.Item, error)
	Save(items []cfg.Item) error
}

// Resolver normalizes paths and recognizes the running program.
type Resolver interface {
	Normalize(raw string) string
	IsSelf(path string) bool
	Base(path string) string
}

// Launcher opens list entries.
type Launcher interface {
	Open(path string) error
	LaunchAll(items []cfg.Item) launcher.Summary
}

// Registrar turns startup at logon on and off.
type Registrar interface {
	IsEnabled() bool
	Enable(target string, args []string) (autostart.Outcome, error)
	Disable() error
	MigrateLegacy(target string, args []string) (bool, error)
}

// Notifier shows messages to the user.
type Notifier interface {
	Info(title, msg string)
	Warn(title, msg string)
	Error(title, msg string)
}

// Deps are the collaborators of an App.
type Deps struct {
	Store     Store
	Resolver  Resolver
	Launcher  Launcher
	Registrar Registrar
	Notifier  Notifier
	Clock     clockwork.Clock
	// AutoClose is the idle time after which the list is launched and the
	// program exits. Zero disables auto-close.
	AutoClose time.Duration
	// StartupTarget and StartupArgs are the command registered to run at logon.
	StartupTarget string
	StartupArgs   []string
	// Exit is called once the auto-close launch has finished.
	Exit func()
}

type App struct {
	store     Store
	resolver  Resolver
	launcher  Launcher
	registrar Registrar
	notifier  Notifier

	startupTarget string
	startupArgs   []string

	// mu guards items, which the auto-close timer reads from its own goroutine.
	mu    sync.Mutex
	items []cfg.Item

	autoClose autoCloser
}

// New returns an App with an empty list. Call Load to read the stored one.
func New(deps Deps) (*App, error) {
	switch {
	case deps.Store == nil:
		return nil, errors.New("store is nil")
	case deps.Resolver == nil:
		return nil, errors.New("resolver is nil")
	case deps.Launcher == nil:
		return nil, errors.New("launcher is nil")
	case deps.Registrar == nil:
		return nil, errors.New("registrar is nil")
	case deps.Notifier == nil:
		return nil, errors.New("notifier is nil")
	case deps.Clock == nil:
		return nil, errors.New("clock is nil")
	case deps.AutoClose < 0:
		return nil, errors.New("auto-close timeout is negative")
	}

	a := &App{
		store:         deps.Store,
		resolver:      deps.Resolver,
		launcher:      deps.Launcher,
		registrar:     deps.Registrar,
		notifier:      deps.Notifier,
		startupTarget: deps.StartupTarget,
		startupArgs:   deps.StartupArgs,
		items:         []cfg.Item{},
	}
	a.autoClose = autoCloser{
		clock:   deps.Clock,
		timeout: deps.AutoClose,
		exit:    deps.Exit,
		done:    make(chan struct{}),
	}
	return a, nil
}

// Load replaces the list with the stored one. A corrupted config file is
// reported once and yields an empty list. When startup is enabled, a
// missing registration is upgraded to the scheduled task.
func (a *App) Load() {
	items, err := a.store.Load()
	var corrupt *cfg.CorruptError
	switch {
	case errors.As(err, &corrupt):
		log.Println(err)
		a.notifier.Warn(cfg.AppName, fmt.Sprintf("Config file is corrupted and could not be read: %v\nStarting with an empty list.", corrupt.Err))
	case err != nil:
		log.Printf("failed to load config: %v", err)
	}
	if items == nil {
		items = []cfg.Item{}
	}

	a.mu.Lock()
	a.items = items
	a.mu.Unlock()

	if !a.registrar.IsEnabled() {
		return
	}
	migrated, err := a.registrar.MigrateLegacy(a.startupTarget, a.startupArgs)
	if err != nil {
		log.Printf("failed to upgrade startup entry: %v", err)
		return
	}
	if migrated {
		log.Println("upgraded startup entry to scheduled task")
	}
}

// Items returns a copy of the list.
func (a *App) Items() []cfg.Item {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

func (a *App) snapshot() []cfg.Item {
	items := make([]cfg.Item, len(a.items))
	copy(items, a.items)
	return items
}

// Len returns the number of items in the list.
func (a *App) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

// Label is the display text of item i: its name, or the file name of its
// path, followed by the path.
func (a *App) Label(i int) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.items) {
		return ""
	}
	it := a.items[i]
	name := it.Name
	if name == "" {
		name = a.resolver.Base(it.Path)
	}
	return name + "    [" + it.Path + "]"
}

// AddPaths appends raw paths to the list and returns how many were added.
// Paths pointing to this program are rejected with a warning each.
func (a *App) AddPaths(raw []string) int {
	var added []cfg.Item
	for _, r := range raw {
		p := a.resolver.Normalize(r)
		if p == "" {
			continue
		}
		if a.resolver.IsSelf(p) {
			a.notifier.Warn(cfg.AppName, "You cannot add the AutoStarter program to its own startup list. Skipping.")
			continue
		}
		added = append(added, cfg.Item{Path: p})
	}

	a.mu.Lock()
	a.items = append(a.items, added...)
	a.mu.Unlock()
	return len(added)
}

// RemoveAt deletes item i. It reports false when i is out of range.
func (a *App) RemoveAt(i int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.items) {
		return false
	}
	a.items = append(a.items[:i], a.items[i+1:]...)
	return true
}

// MoveBy swaps item i with the item delta positions away and returns the
// new index of the moved item. Nothing changes when either index is out
// of range.
func (a *App) MoveBy(i, delta int) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	j := i + delta
	if i < 0 || i >= len(a.items) || j < 0 || j >= len(a.items) || delta == 0 {
		return i, false
	}
	a.items[i], a.items[j] = a.items[j], a.items[i]
	return j, true
}

// Open opens item i.
func (a *App) Open(i int) error {
	a.mu.Lock()
	if i < 0 || i >= len(a.items) {
		a.mu.Unlock()
		return fmt.Errorf("no item at index %d", i)
	}
	p := a.items[i].Path
	a.mu.Unlock()

	if err := a.launcher.Open(p); err != nil {
		a.notifier.Error("Error", fmt.Sprintf("Could not open %s: %v", p, err))
		return err
	}
	return nil
}

// RunAll launches a snapshot of the list in the background. The returned
// channel is closed when every item has been tried.
func (a *App) RunAll() <-chan struct{} {
	items := a.Items()
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.launch(items)
	}()
	return done
}

// RunHeadless launches the stored list and returns. It is used when the
// program starts at logon, so it never shows anything or arms a timer.
func (a *App) RunHeadless() launcher.Summary {
	items, err := a.store.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
	}
	return a.launch(items)
}

func (a *App) launch(items []cfg.Item) launcher.Summary {
	s := a.launcher.LaunchAll(items)
	log.Printf("launched %d items, skipped %d, failed %d", s.Launched, s.Skipped, s.Failed)
	return s
}

// ToggleStartup enables or disables startup at logon.
func (a *App) ToggleStartup(on bool) error {
	if !on {
		if err := a.registrar.Disable(); err != nil {
			log.Printf("failed to disable startup: %v", err)
			a.notifier.Warn("Startup", "Could not fully remove startup entries (task and/or shortcut).")
			return err
		}
		a.notifier.Info("Startup", "Disabled Start with Windows.")
		return nil
	}

	if a.containsSelf() {
		a.notifier.Warn(cfg.AppName, "Your list contains a path to this AutoStarter program. Enabling 'Start with Windows' while your list contains the AutoStarter itself could cause loops. Please remove it from the list first.")
		return ErrSelfInList
	}

	outcome, err := a.registrar.Enable(a.startupTarget, a.startupArgs)
	switch outcome {
	case autostart.OutcomeTask:
		a.notifier.Info("Startup", "Enabled Start with Windows using Task Scheduler (runs immediately at logon).")
	case autostart.OutcomeFallback:
		a.notifier.Info("Startup", "Enabled Start with Windows using Startup folder (fallback mode).")
	default:
		log.Printf("failed to enable startup: %v", err)
		a.notifier.Warn("Startup", "Could not create startup shortcut. You may need to run as admin or check permissions.")
		if err == nil {
			err = errors.New("startup registration failed")
		}
		return err
	}
	return nil
}

// StartupEnabled asks the OS whether a startup entry is present.
func (a *App) StartupEnabled() bool {
	return a.registrar.IsEnabled()
}

func (a *App) containsSelf() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, it := range a.items {
		if a.resolver.IsSelf(it.Path) {
			return true
		}
	}
	return false
}

// Save writes the list to the store.
func (a *App) Save() error {
	items := a.Items()
	if err := a.store.Save(items); err != nil {
		log.Printf("failed to save config: %v", err)
		a.notifier.Error("Error", fmt.Sprintf("Could not save config: %v", err))
		return err
	}
	a.notifier.Info("Saved", fmt.Sprintf("Saved %d items.", len(items)))
	return nil
}

// Close writes the list back to the store when the program exits. Unlike
// Save it shows nothing, since the UI is already gone.
func (a *App) Close() error {
	items := a.Items()
	if err := a.store.Save(items); err != nil {
		log.Printf("failed to save config on exit: %v", err)
		return fmt.Errorf("save config: %w", err)
	}
	log.Printf("saved %d items on exit", len(items))
	return nil
}

// ExportTo writes the list to dst in the config file format.
func (a *App) ExportTo(dst string) error {
	dst = strings.Trim(dst, " \t\"'")
	items := a.Items()
	if err := files.Export(items, dst, a.resolver); err != nil {
		log.Printf("failed to export list: %v", err)
		a.notifier.Error("Error", fmt.Sprintf("Could not export list: %v", err))
		return err
	}
	a.notifier.Info("Export", fmt.Sprintf("Exported %d items to %s.", len(items), dst))
	return nil
}

// ImportFrom appends the entries of a file written by ExportTo that are not
// already in the list and returns how many were added.
func (a *App) ImportFrom(src string) (int, error) {
	src = strings.Trim(src, " \t\"'")
	imported, err := files.Import(src, a.resolver)
	if err != nil {
		log.Printf("failed to import list: %v", err)
		a.notifier.Error("Error", fmt.Sprintf("Could not import list: %v", err))
		return 0, err
	}

	a.mu.Lock()
	before := len(a.items)
	a.items = files.Merge(a.items, imported)
	added := len(a.items) - before
	a.mu.Unlock()

	a.notifier.Info("Import", fmt.Sprintf("Imported %d new items from %s.", added, src))
	return added, nil
}
