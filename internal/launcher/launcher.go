// Package launcher opens launch list entries the way the OS shell would
// on a double click.
package launcher

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mrboxik/autostarter/internal/cfg"
)

// DefaultDelay is the pause between two launches of a batch.
const DefaultDelay = 50 * time.Millisecond

// Resolver normalizes paths and recognizes the running program.
type Resolver interface {
	Normalize(raw string) string
	IsSelf(path string) bool
}

// Summary reports what a LaunchAll call did.
type Summary struct {
	Launched int
	Skipped  int
	Failed   int
}

// Launcher opens paths through the OS.
type Launcher struct {
	resolver Resolver
	clock    clockwork.Clock
	delay    time.Duration
	// open is the native "open" facility; start runs the path directly
	// and is tried when open fails.
	open  func(path string) error
	start func(path string) error
}

func New(resolver Resolver, clock clockwork.Clock, delay time.Duration) (*Launcher, error) {
	if resolver == nil {
		return nil, errors.New("resolver is nil")
	}
	if clock == nil {
		return nil, errors.New("clock is nil")
	}
	if delay < 0 {
		return nil, errors.New("delay is negative")
	}

	return &Launcher{
		resolver: resolver,
		clock:    clock,
		delay:    delay,
		open:     shellOpen,
		start:    startDirect,
	}, nil
}

// Open opens path with its default handler, falling back to executing it.
func (l *Launcher) Open(path string) error {
	openErr := l.open(path)
	if openErr == nil {
		return nil
	}
	log.Printf("failed to open %s, trying to run it directly: %v", path, openErr)

	if err := l.start(path); err != nil {
		log.Printf("failed to run %s: %v", path, err)
		return fmt.Errorf("open %s: %w", path, errors.Join(openErr, err))
	}
	return nil
}

// LaunchAll opens every item in order. Items pointing to the running
// program are skipped. A failing item does not stop the batch.
func (l *Launcher) LaunchAll(items []cfg.Item) Summary {
	var s Summary
	for _, it := range items {
		p := l.resolver.Normalize(it.Path)
		if p == "" {
			continue
		}
		if l.resolver.IsSelf(p) {
			log.Printf("skipping self-launch for %s", p)
			s.Skipped++
			continue
		}

		if s.Launched+s.Failed > 0 && l.delay > 0 {
			l.clock.Sleep(l.delay)
		}
		if err := l.Open(p); err != nil {
			s.Failed++
			continue
		}
		s.Launched++
	}
	return s
}

func startDirect(path string) error {
	cmd := exec.Command(path) // #nosec G204 -- the path comes from the user's own launch list.
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start process: %w", err)
	}
	go cmd.Wait()
	return nil
}
