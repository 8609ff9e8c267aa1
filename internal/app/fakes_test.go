package app

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mrboxik/autostarter/internal/autostart"
	"github.com/mrboxik/autostarter/internal/cfg"
	"github.com/mrboxik/autostarter/internal/launcher"
	"github.com/mrboxik/autostarter/internal/pathutil"
	"github.com/mrboxik/autostarter/internal/sysenv"
	"github.com/stretchr/testify/require"
)

const selfPath = `C:\Tools\AutoStarter.exe`

type fakeStore struct {
	items   []cfg.Item
	loadErr error
	saveErr error
	saved   [][]cfg.Item
}

func (s *fakeStore) Load() ([]cfg.Item, error) {
	if s.loadErr != nil {
		return []cfg.Item{}, s.loadErr
	}
	items := make([]cfg.Item, len(s.items))
	copy(items, s.items)
	return items, nil
}

func (s *fakeStore) Save(items []cfg.Item) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, items)
	return nil
}

type fakeLauncher struct {
	mu      sync.Mutex
	opened  []string
	batches [][]cfg.Item
	openErr error
}

func (l *fakeLauncher) Open(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opened = append(l.opened, path)
	return l.openErr
}

func (l *fakeLauncher) LaunchAll(items []cfg.Item) launcher.Summary {
	l.mu.Lock()
	l.batches = append(l.batches, items)
	l.mu.Unlock()
	return launcher.Summary{Launched: len(items)}
}

func (l *fakeLauncher) batchCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.batches)
}

type fakeRegistrar struct {
	enabled    bool
	outcome    autostart.Outcome
	enableErr  error
	disableErr error
	enables    int
	disables   int
	migrations int
}

func (r *fakeRegistrar) IsEnabled() bool { return r.enabled }

func (r *fakeRegistrar) Enable(string, []string) (autostart.Outcome, error) {
	r.enables++
	if r.outcome != autostart.OutcomeFailed {
		r.enabled = true
	}
	return r.outcome, r.enableErr
}

func (r *fakeRegistrar) Disable() error {
	r.disables++
	if r.disableErr == nil {
		r.enabled = false
	}
	return r.disableErr
}

func (r *fakeRegistrar) MigrateLegacy(string, []string) (bool, error) {
	r.migrations++
	return true, nil
}

type message struct {
	level, title, text string
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []message
}

func (n *recordingNotifier) add(level, title, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message{level, title, text})
}

func (n *recordingNotifier) Info(title, text string)  { n.add("info", title, text) }
func (n *recordingNotifier) Warn(title, text string)  { n.add("warn", title, text) }
func (n *recordingNotifier) Error(title, text string) { n.add("error", title, text) }

func (n *recordingNotifier) levels(level string) []message {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []message
	for _, m := range n.messages {
		if m.level == level {
			out = append(out, m)
		}
	}
	return out
}

type testApp struct {
	*App
	store     *fakeStore
	launcher  *fakeLauncher
	registrar *fakeRegistrar
	notifier  *recordingNotifier
	clock     *clockwork.FakeClock
	exited    chan struct{}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	env := sysenv.Env{
		GOOS:    "windows",
		Process: sysenv.Process{Executable: selfPath},
		Getwd:   func() (string, error) { return `C:\Users\me`, nil },
	}
	ta := &testApp{
		store:     &fakeStore{},
		launcher:  &fakeLauncher{},
		registrar: &fakeRegistrar{outcome: autostart.OutcomeTask},
		notifier:  &recordingNotifier{},
		clock:     clockwork.NewFakeClock(),
		exited:    make(chan struct{}),
	}
	a, err := New(Deps{
		Store:         ta.store,
		Resolver:      pathutil.NewResolver(env),
		Launcher:      ta.launcher,
		Registrar:     ta.registrar,
		Notifier:      ta.notifier,
		Clock:         ta.clock,
		AutoClose:     10 * time.Second,
		StartupTarget: selfPath,
		StartupArgs:   []string{autostart.HeadlessFlag},
		Exit:          func() { close(ta.exited) },
	})
	require.NoError(t, err)
	ta.App = a
	return ta
}

func paths(items []cfg.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path
	}
	return out
}
