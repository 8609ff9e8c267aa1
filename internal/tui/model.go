// Package tui is the terminal front end: it shows the launch list and maps
// key presses to operations of the session controller.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrboxik/autostarter/internal/pathutil"
)

// Controller is the part of the session controller the UI drives.
type Controller interface {
	Len() int
	Label(i int) string
	AddPaths(raw []string) int
	RemoveAt(i int) bool
	MoveBy(i, delta int) (int, bool)
	Open(i int) error
	RunAll() <-chan struct{}
	Save() error
	ToggleStartup(on bool) error
	StartupEnabled() bool
	OpenLogsFolder() error
	ExportTo(dst string) error
	ImportFrom(src string) (int, error)
	// Close writes the list back before the program exits.
	Close() error
	Interact()
	AutoCloseArmed() bool
	Done() <-chan struct{}
}

type (
	autoClosedMsg struct{}
	runDoneMsg    struct{}
)

// inputMode is what the path typed into the text input is used for.
type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputExport
	inputImport
)

var inputPrompts = map[inputMode]string{
	inputAdd:    "Add: ",
	inputExport: "Export to: ",
	inputImport: "Import from: ",
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	armedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Model is the bubbletea model of the list screen.
type Model struct {
	ctrl    Controller
	status  *Status
	keys    KeyMap
	input   textinput.Model
	mode    inputMode
	cursor  int
	startup bool
	width   int
}

// NewModel returns a Model driving ctrl. status must be the Notifier the
// controller reports to.
func NewModel(ctrl Controller, status *Status) Model {
	input := textinput.New()
	input.CharLimit = 4096

	return Model{
		ctrl:    ctrl,
		status:  status,
		keys:    DefaultKeyMap,
		input:   input,
		startup: ctrl.StartupEnabled(),
	}
}

func (m Model) Init() tea.Cmd {
	return waitFor(m.ctrl.Done(), autoClosedMsg{})
}

func waitFor(ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return msg
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case autoClosedMsg:
		_ = m.ctrl.Close()
		return m, tea.Quit
	case runDoneMsg:
		m.status.Info("Run", "Finished launching the list.")
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(inputPrompts[inputImport])-1, 10)
		return m, nil
	case tea.KeyMsg:
		m.ctrl.Interact()
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := m.input.Value()
		switch m.mode {
		case inputAdd:
			added := m.ctrl.AddPaths(pathutil.SplitList(value))
			if added > 0 {
				m.cursor = m.ctrl.Len() - 1
				m.status.Info("Add", fmt.Sprintf("Added %d item(s). Press s to save.", added))
			}
		case inputExport:
			if value != "" {
				_ = m.ctrl.ExportTo(value)
			}
		case inputImport:
			if value != "" {
				_, _ = m.ctrl.ImportFrom(value)
			}
		}
		m.closeInput()
		return m, nil
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyCtrlC:
		_ = m.ctrl.Close()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.ctrl.Len()
	switch {
	case key.Matches(msg, m.keys.Quit):
		_ = m.ctrl.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.MoveUp):
		m.cursor, _ = m.ctrl.MoveBy(m.cursor, -1)
	case key.Matches(msg, m.keys.MoveDown):
		m.cursor, _ = m.ctrl.MoveBy(m.cursor, 1)
	case key.Matches(msg, m.keys.Add):
		cmd := m.openInput(inputAdd, `C:\path\to\program.exe  (separate several with spaces, wrap paths with spaces in quotes)`)
		return m, cmd
	case key.Matches(msg, m.keys.Export):
		cmd := m.openInput(inputExport, `C:\path\to\list.json`)
		return m, cmd
	case key.Matches(msg, m.keys.Import):
		cmd := m.openInput(inputImport, `C:\path\to\list.json`)
		return m, cmd
	case key.Matches(msg, m.keys.Remove):
		if m.ctrl.RemoveAt(m.cursor) && m.cursor >= m.ctrl.Len() && m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Open):
		if n > 0 {
			_ = m.ctrl.Open(m.cursor)
		}
	case key.Matches(msg, m.keys.Run):
		m.status.Info("Run", fmt.Sprintf("Launching %d item(s)...", n))
		return m, waitFor(m.ctrl.RunAll(), runDoneMsg{})
	case key.Matches(msg, m.keys.Save):
		_ = m.ctrl.Save()
	case key.Matches(msg, m.keys.Toggle):
		_ = m.ctrl.ToggleStartup(!m.startup)
		m.startup = m.ctrl.StartupEnabled()
	case key.Matches(msg, m.keys.Logs):
		_ = m.ctrl.OpenLogsFolder()
	}
	return m, nil
}

func (m *Model) openInput(mode inputMode, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.Reset()
	m.input.Prompt = inputPrompts[mode]
	m.input.Placeholder = placeholder
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = inputNone
	m.input.Blur()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("AutoStarter"))
	b.WriteString("\n\n")

	n := m.ctrl.Len()
	if n == 0 {
		b.WriteString(hintStyle.Render("  The list is empty. Press a to add a program, file or shortcut."))
		b.WriteString("\n")
	}
	for i := 0; i < n; i++ {
		label := m.ctrl.Label(i)
		if i == m.cursor && m.mode == inputNone {
			b.WriteString(selectedStyle.Render("> " + label))
		} else {
			b.WriteString(itemStyle.Render(label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	check := "[ ]"
	if m.startup {
		check = "[x]"
	}
	b.WriteString(check + " Start with Windows\n")

	if m.mode != inputNone {
		b.WriteString("\n" + m.input.View() + "\n")
		b.WriteString(hintStyle.Render("enter confirm • esc cancel") + "\n")
	}

	if m.ctrl.AutoCloseArmed() {
		b.WriteString("\n" + armedStyle.Render("The list will be launched and this window closed shortly. Press any key to stay.") + "\n")
	}

	if lvl, title, text := m.status.get(); text != "" {
		style := infoStyle
		switch lvl {
		case levelWarn:
			style = warnStyle
		case levelError:
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(title+": "+text) + "\n")
	}

	if m.mode == inputNone {
		b.WriteString("\n" + hintStyle.Render(m.helpLine()) + "\n")
	}
	return b.String()
}

func (m Model) helpLine() string {
	var parts []string
	for _, k := range m.keys.help() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Run shows the list screen until the user quits or auto-close fires.
func Run(ctrl Controller, status *Status) error {
	if _, err := tea.NewProgram(NewModel(ctrl, status)).Run(); err != nil {
		_ = ctrl.Close()
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
