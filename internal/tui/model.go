// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wordsprint/internal/clock"
	"github.com/verte-zerg/wordsprint/internal/generator"
	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/session"
	statsPkg "github.com/verte-zerg/wordsprint/internal/stats"
	"github.com/verte-zerg/wordsprint/internal/wordstore"
)

// pollInterval is how often live stats are recomputed while typing.
const pollInterval = 100 * time.Millisecond

type tickMsg time.Time

type keyMap struct {
	Quit    key.Binding
	Restart key.Binding
	Next    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Restart: key.NewBinding(key.WithKeys("tab", "esc"), key.WithHelp("tab", "new passage")),
		Next:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next passage")),
	}
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.Config
	vocab    *wordstore.Store
	gen      *generator.Generator
	punctSet []rune
	clock    clock.Clock
	keys     keyMap

	width  int
	height int

	tracker     *session.Tracker
	targetRunes []rune
	inputRunes  []rune
	stats       session.Stats
	mistakes    map[int]struct{}

	finished    bool
	result      session.Result
	pace        []int
	maxStreak   int
	resultTable table.Model

	err error
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs a typing TUI model. A nil clk uses the system clock.
func NewModel(cfg model.Config, vocab *wordstore.Store, gen *generator.Generator, punctSet []rune, clk clock.Clock) *Model {
	if clk == nil {
		clk = clock.System{}
	}
	m := &Model{
		config:   cfg,
		vocab:    vocab,
		gen:      gen,
		punctSet: punctSet,
		clock:    clk,
		keys:     defaultKeyMap(),
	}
	m.resetSession()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.poll()
		return m, tick()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.finished {
			if key.Matches(msg, m.keys.Next, m.keys.Restart) {
				m.resetSession()
			}
			return m, nil
		}
		if key.Matches(msg, m.keys.Restart) {
			m.resetSession()
			return m, nil
		}
		switch msg.Type {
		case tea.KeyBackspace, tea.KeyDelete:
			m.handleBackspace()
		case tea.KeySpace:
			m.handleRunes([]rune{' '})
		case tea.KeyRunes:
			m.handleRunes(msg.Runes)
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return errorStyle.Render(m.err.Error())
	}
	if m.finished {
		return m.renderResult()
	}
	if len(m.targetRunes) == 0 {
		return ""
	}
	cursorIndex := -1
	if len(m.inputRunes) < len(m.targetRunes) {
		cursorIndex = len(m.inputRunes)
	}
	styledRunes := buildStyledRunes(m.targetRunes, m.inputRunes, m.mistakes, cursorIndex)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleBackspace() {
	if len(m.inputRunes) == 0 {
		return
	}
	m.inputRunes = m.inputRunes[:len(m.inputRunes)-1]
	m.apply()
}

func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		if m.finished {
			return
		}
		m.inputRunes = append(m.inputRunes, r)
		m.apply()
	}
}

func (m *Model) apply() {
	u := m.tracker.Update(string(m.inputRunes))
	m.stats = u.Stats
	m.refreshMistakes()
	if u.Done {
		m.finishSession()
	}
}

func (m *Model) poll() {
	if m.finished || m.tracker == nil {
		return
	}
	m.stats = m.tracker.Poll()
	m.refreshMistakes()
}

func (m *Model) refreshMistakes() {
	set := make(map[int]struct{}, m.stats.Mistakes)
	for _, mk := range m.tracker.Session().Mistakes() {
		set[mk.Position] = struct{}{}
	}
	m.mistakes = set
}

func (m *Model) renderFooter() string {
	if len(m.targetRunes) == 0 {
		return ""
	}
	segments := []string{
		fmt.Sprintf("%d WPM", m.stats.WPM),
		fmt.Sprintf("%d%% acc", m.stats.Accuracy),
		fmt.Sprintf("%d mistakes", m.stats.Mistakes),
		fmt.Sprintf("%ds", m.stats.TimeElapsed),
		fmt.Sprintf("Progress %d%%", m.tracker.Progress()),
		fmt.Sprintf("Streak %d", m.tracker.Streak()),
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}

func (m *Model) resetSession() {
	m.inputRunes = nil
	m.stats = session.Stats{Accuracy: 100}
	m.mistakes = map[int]struct{}{}
	m.finished = false
	m.result = session.Result{}
	m.pace = nil
	m.maxStreak = 0
	m.err = nil

	words, err := m.gen.Generate(m.vocab, m.config.Words, m.config.CapsPct, m.config.PunctPct, m.punctSet)
	if err != nil {
		m.err = fmt.Errorf("failed to generate passage: %w", err)
		words = nil
	}
	m.tracker = session.NewTracker(session.New(words, m.clock))
	m.targetRunes = []rune(m.tracker.Session().TargetText())
}

func (m *Model) finishSession() {
	m.finished = true
	m.result = m.tracker.Result()
	m.stats = m.result.Stats
	m.pace = m.tracker.Pace()
	m.maxStreak = m.tracker.MaxStreak()
	m.resultTable = newResultTable(m.result.Stats, m.maxStreak)
}

func newResultTable(st session.Stats, maxStreak int) table.Model {
	rows := make([]table.Row, 0, 6)
	for _, r := range statsPkg.SummaryRows(st) {
		rows = append(rows, table.Row(r))
	}
	rows = append(rows, table.Row{"Max streak", fmt.Sprintf("%d", maxStreak)})
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Metric", Width: 12},
			{Title: "Value", Width: 10},
		}),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	t.Blur()
	return t
}

func (m *Model) renderResult() string {
	parts := []string{titleStyle.Render("Passage complete"), m.resultTable.View()}
	if len(m.pace) > 0 {
		width := 40
		if m.width > 0 {
			width = m.width / 2
		}
		parts = append(parts, "Pace "+statsPkg.Sparkline(statsPkg.Resample(statsPkg.PaceValues(m.pace), width)))
	}
	help := []string{m.keys.Next.Help().Key + " " + m.keys.Next.Help().Desc, m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc}
	parts = append(parts, footerStyle.Render(strings.Join(help, " · ")))
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
