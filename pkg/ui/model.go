// Package ui renders the translator as a bubbletea program: a six row text
// area whose content is rewritten sentence by sentence, and a status line
// shown while a rewrite is in flight.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/anger-translator/pkg/rewrite"
	"github.com/rs/zerolog/log"
)

const (
	Placeholder = "what happens in the anger translator stays in the anger translator"
	Rows        = 6
	maxWidth    = 80
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	phraseStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("63"))
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	fullStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("118"))
)

// cursorSyncMsg asks the model to put the cursor back at the end of the text
// once the state update has gone through.
type cursorSyncMsg struct{}

func syncCursor() tea.Msg {
	return cursorSyncMsg{}
}

type Model struct {
	textarea  textarea.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	indicator *LoadingIndicator

	surface    *rewrite.Surface
	dispatcher *rewrite.Dispatcher

	copy       func(string) error
	notice     string
	stats      Stats
	wasLoading bool
	quitting   bool
}

type ModelOption func(*Model)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(copy func(string) error) ModelOption {
	return func(m *Model) {
		m.copy = copy
	}
}

func WithPhrases(phrases []string) ModelOption {
	return func(m *Model) {
		m.indicator = NewLoadingIndicator(phrases)
	}
}

func NewModel(surface *rewrite.Surface, dispatcher *rewrite.Dispatcher, options ...ModelOption) Model {
	ta := textarea.New()
	ta.Placeholder = Placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(Rows)
	ta.SetWidth(maxWidth)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)

	ret := Model{
		textarea:   ta,
		spinner:    sp,
		help:       help.New(),
		keys:       defaultKeyMap(),
		indicator:  NewLoadingIndicator(nil),
		surface:    surface,
		dispatcher: dispatcher,
		copy:       clipboard.WriteAll,
	}
	for _, o := range options {
		o(&ret)
	}
	ret.textarea.SetValue(surface.Buffer())

	return ret
}

// Value is the current buffer.
func (m Model) Value() string {
	return m.surface.Buffer()
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - 2
		if w > maxWidth {
			w = maxWidth
		}
		if w > 10 {
			m.textarea.SetWidth(w)
		}
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Copy):
			m.notice = "copied to clipboard"
			if err := m.copy(m.surface.Buffer()); err != nil {
				log.Warn().Err(err).Msg("could not copy to clipboard")
				m.notice = "clipboard unavailable"
			}
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		e, ok := m.editFor(msg)
		if !ok {
			return m, nil
		}
		return m.applyEdit(e)

	case cursorSyncMsg:
		m.pinCursor()
		return m, nil

	case rewrite.DebounceMsg:
		cmd := m.dispatcher.OnDebounce(msg)
		loadingCmd := m.observeLoading()
		return m, tea.Batch(cmd, loadingCmd)

	case rewrite.ResultMsg:
		if m.dispatcher.OnResult(msg) {
			m.pinCursor()
		}
		loadingCmd := m.observeLoading()
		return m, loadingCmd

	case StatsMsg:
		m.stats = m.stats.Add(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.surface.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// editFor translates a key press into an edit proposal. Keys that neither
// change the text nor move the cursor yield no edit.
func (m Model) editFor(msg tea.KeyMsg) (rewrite.Edit, bool) {
	buffer := m.surface.Buffer()

	switch {
	case key.Matches(msg, m.keys.Clear):
		return rewrite.Edit{}, true
	case key.Matches(msg, m.keys.Backspace):
		return rewrite.BackspaceEdit(buffer), true
	case key.Matches(msg, m.keys.Newline):
		return rewrite.AppendEdit(buffer, "\n"), true
	case key.Matches(msg, m.keys.Backward):
		return rewrite.MoveEdit(buffer, -1), true
	case key.Matches(msg, m.keys.Forward):
		return rewrite.MoveEdit(buffer, 0), true
	}

	if msg.Alt {
		return rewrite.Edit{}, false
	}
	switch msg.Type {
	case tea.KeyRunes:
		return rewrite.AppendEdit(buffer, string(msg.Runes)), true
	case tea.KeySpace:
		return rewrite.AppendEdit(buffer, " "), true
	}

	return rewrite.Edit{}, false
}

func (m Model) applyEdit(e rewrite.Edit) (tea.Model, tea.Cmd) {
	before := m.surface.Buffer()
	if !m.surface.Apply(e) {
		m.pinCursor()
		return m, nil
	}
	m.notice = ""
	if m.surface.Buffer() == before {
		return m, nil
	}

	m.textarea.SetValue(m.surface.Buffer())
	cmd := m.dispatcher.OnEdit(m.surface.Buffer())
	loadingCmd := m.observeLoading()
	return m, tea.Batch(cmd, syncCursor, loadingCmd)
}

// pinCursor makes the text area mirror the buffer with the cursor at the end.
// SetValue leaves the cursor after the inserted text.
func (m *Model) pinCursor() {
	m.textarea.SetValue(m.surface.Buffer())
}

// observeLoading rerolls the phrase and starts the spinner whenever loading
// switches on.
func (m *Model) observeLoading() tea.Cmd {
	loading := m.surface.Loading()
	defer func() { m.wasLoading = loading }()

	if loading && !m.wasLoading {
		m.indicator.Reroll()
		return m.spinner.Tick
	}
	return nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.surface.State()
	n := m.surface.Len()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Anger Translator"))
	sb.WriteString("\n")
	sb.WriteString(m.textarea.View())
	sb.WriteString("\n")

	if st.Loading {
		sb.WriteString(m.spinner.View())
		sb.WriteString(" ")
		sb.WriteString(phraseStyle.Render(m.indicator.Phrase()))
	}
	sb.WriteString("\n")

	counter := fmt.Sprintf("%d/%d", n, m.surface.MaxLength())
	if n >= m.surface.MaxLength() {
		counter = fullStyle.Render(counter)
	} else {
		counter = counterStyle.Render(counter)
	}
	footer := []string{counter}
	if s := m.stats.String(); s != "" {
		footer = append(footer, counterStyle.Render(s))
	}
	if m.notice != "" {
		footer = append(footer, noticeStyle.Render(m.notice))
	}
	sb.WriteString(strings.Join(footer, counterStyle.Render(" · ")))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	sb.WriteString("\n")

	return sb.String()
}
