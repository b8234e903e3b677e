package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"hush/internal/scan"
)

type progressModel struct {
	title   string
	events  <-chan scan.Event
	spinner spinner.Model
	prog    progress.Model
	items   []docItem
	index   map[string]int
	done    int
	width   int
	quit    bool
}

type docItem struct {
	path   string
	status scan.Status
	found  int
}

type eventMsg scan.Event
type drainedMsg struct{}

// NewScanProgressModel returns a Bubble Tea model that renders per-document
// scan progress.
func NewScanProgressModel(title string, docs []string, events <-chan scan.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	items := make([]docItem, 0, len(docs))
	index := make(map[string]int, len(docs))
	for i, doc := range docs {
		items = append(items, docItem{path: doc, status: scan.StatusQueued})
		index[doc] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-m.events
		if !ok {
			return drainedMsg{}
		}
		return eventMsg(evt)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(scan.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case drainedMsg:
		m.quit = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.quit {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) applyEvent(evt scan.Event) tea.Cmd {
	i, ok := m.index[evt.Document]
	if !ok {
		return nil
	}
	prev := m.items[i].status
	m.items[i].status = evt.Status
	m.items[i].found = evt.Found
	if evt.Status == scan.StatusDone || evt.Status == scan.StatusError {
		if prev != scan.StatusDone && prev != scan.StatusError {
			m.done++
		}
		if len(m.items) > 0 {
			return m.prog.SetPercent(float64(m.done) / float64(len(m.items)))
		}
	}
	return nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.done, len(m.items))
	if m.quit {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	for _, item := range m.items {
		name := runewidth.Truncate(item.path, nameWidth, "…")
		status := string(item.status)
		if item.status == scan.StatusDone {
			status = fmt.Sprintf("done (%d)", item.found)
		}
		line := fmt.Sprintf("  %s %s", runewidth.FillRight(name, nameWidth), status)
		if item.status == scan.StatusQueued {
			line = dimStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.prog.View())
	b.WriteString("\n")
	return b.String()
}
