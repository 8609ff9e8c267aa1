package app

import (
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type autoCloseState int

const (
	autoCloseIdle autoCloseState = iota
	autoCloseArmed
	autoCloseDisarmed
	autoCloseFiring
)

// autoCloser launches the list and exits when the user does not touch the
// window for a while after it opened. Every state is entered at most once.
type autoCloser struct {
	clock   clockwork.Clock
	timeout time.Duration
	exit    func()
	done    chan struct{}

	mu    sync.Mutex
	state autoCloseState
	timer clockwork.Timer
}

// StartAutoClose arms the auto-close timer. It reports false when the
// timer was already started or auto-close is disabled.
func (a *App) StartAutoClose() bool {
	ac := &a.autoClose
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if ac.state != autoCloseIdle || ac.timeout == 0 {
		return false
	}
	ac.state = autoCloseArmed
	ac.timer = ac.clock.AfterFunc(ac.timeout, a.fireAutoClose)
	return true
}

// Interact records user activity. The first call cancels a pending auto-close.
func (a *App) Interact() {
	ac := &a.autoClose
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if ac.state != autoCloseArmed {
		return
	}
	ac.state = autoCloseDisarmed
	ac.timer.Stop()
	log.Println("auto-close cancelled by user interaction")
}

// AutoCloseArmed reports whether the list will be launched unless the
// user interacts.
func (a *App) AutoCloseArmed() bool {
	ac := &a.autoClose
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.state == autoCloseArmed
}

// Done is closed after auto-close has launched the list and called Exit.
func (a *App) Done() <-chan struct{} {
	return a.autoClose.done
}

func (a *App) fireAutoClose() {
	ac := &a.autoClose
	ac.mu.Lock()
	if ac.state != autoCloseArmed {
		ac.mu.Unlock()
		return
	}
	ac.state = autoCloseFiring
	ac.mu.Unlock()

	log.Println("no interaction, launching the list and exiting")
	a.launch(a.Items())
	if ac.exit != nil {
		ac.exit()
	}
	close(ac.done)
}
