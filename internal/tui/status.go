package tui

import "sync"

type level int

const (
	levelInfo level = iota
	levelWarn
	levelError
)

// Status keeps the latest user-facing message for the status line.
type Status struct {
	mu    sync.Mutex
	level level
	title string
	text  string
}

func (s *Status) Info(title, text string)  { s.set(levelInfo, title, text) }
func (s *Status) Warn(title, text string)  { s.set(levelWarn, title, text) }
func (s *Status) Error(title, text string) { s.set(levelError, title, text) }

func (s *Status) set(l level, title, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level, s.title, s.text = l, title, text
}

func (s *Status) get() (level, string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level, s.title, s.text
}
