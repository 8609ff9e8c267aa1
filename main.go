package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/mrboxik/autostarter/internal/app"
	"github.com/mrboxik/autostarter/internal/autostart"
	"github.com/mrboxik/autostarter/internal/cfg"
	"github.com/mrboxik/autostarter/internal/launcher"
	"github.com/mrboxik/autostarter/internal/logger"
	"github.com/mrboxik/autostarter/internal/pathutil"
	"github.com/mrboxik/autostarter/internal/sysenv"
	"github.com/mrboxik/autostarter/internal/tui"
	"github.com/spf13/pflag"
)

func main() {
	headless := pflag.Bool("nobox", false, "launch the saved list without showing the window, then exit")
	pflag.Parse()

	if err := run(*headless); err != nil {
		log.Println(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(headless bool) error {
	dataDir, err := cfg.DataDir(sysenv.Env{Getenv: os.Getenv}, os.Getenv("AUTOSTARTER_DATA_DIR"))
	if err != nil {
		return fmt.Errorf("get data dir: %w", err)
	}

	settings, err := cfg.LoadSettings(filepath.Join(dataDir, cfg.EnvFileName))
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings.DataDir != "" {
		dataDir = settings.DataDir
	}
	if err := cfg.EnsureDir(dataDir); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	if err := logger.SetupLogger(headless); err != nil {
		log.Printf("failed to set up logger: %v", err)
	}
	log.Printf("starting %s %s (headless=%v)", cfg.AppName, cfg.Version, headless)

	env, err := sysenv.Current(settings.Interpreter, settings.Script)
	if err != nil {
		return fmt.Errorf("get process environment: %w", err)
	}
	resolver := pathutil.NewResolver(env)

	store, err := cfg.NewStore(filepath.Join(dataDir, cfg.ConfigFileName), resolver)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	cfg.RunMigrations(store, cfg.Version)

	clock := clockwork.NewRealClock()
	l, err := launcher.New(resolver, clock, settings.LaunchDelay)
	if err != nil {
		return fmt.Errorf("create launcher: %w", err)
	}

	status := &tui.Status{}
	target, args := autostart.LaunchTarget(env)
	a, err := app.New(app.Deps{
		Store:         store,
		Resolver:      resolver,
		Launcher:      l,
		Registrar:     autostart.NewManager(env),
		Notifier:      status,
		Clock:         clock,
		AutoClose:     settings.AutoClose,
		StartupTarget: target,
		StartupArgs:   args,
	})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	if headless {
		a.RunHeadless()
		return nil
	}

	a.Load()
	a.StartAutoClose()
	return tui.Run(a, status)
}
