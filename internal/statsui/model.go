// Package statsui provides the Bubble Tea gesture history interface.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pullfeed/internal/model"
	"github.com/verte-zerg/pullfeed/internal/stats"
	"github.com/verte-zerg/pullfeed/internal/store"
)

const (
	tabOverview = iota
	tabGestures
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	store *store.Store
	cfg   model.HistoryConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	gestures  table.Model

	width  int
	height int
}

// NewModel constructs a history UI model and loads the report.
func NewModel(st *store.Store, cfg model.HistoryConfig) *Model {
	m := &Model{
		store:    st,
		cfg:      cfg,
		tabs:     []string{"Overview", "Gestures"},
		overview: viewport.New(0, 0),
		gestures: buildGestureTable(nil, 0, 1),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			return m, nil
		case "g", "home":
			if m.activeTab == tabGestures {
				m.gestures.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabGestures {
				m.gestures.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabGestures {
			m.gestures, cmd = m.gestures.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.gestures.SetWidth(m.width)
	m.gestures.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	next := (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	m.activeTab = next
	if m.activeTab == tabGestures {
		m.gestures.Focus()
	} else {
		m.gestures.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load history.")
		return
	}
	m.errMsg = ""
	m.report = report
	_, bodyHeight, _ := m.layoutHeights()
	m.gestures = buildGestureTable(report.Gestures, m.width, bodyHeight)
	if m.activeTab == tabGestures {
		m.gestures.Focus()
	}
	m.renderOverview()
}

func (m *Model) renderOverview() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, width))
}

func renderOverview(report stats.Report, width int) string {
	if report.Summary.Total == 0 {
		return "No gestures recorded."
	}
	s := report.Summary
	cards := []string{
		metricCard("Gestures", strconv.Itoa(s.Total)),
		metricCard("Refreshed", strconv.Itoa(s.Refreshed)),
		metricCard("Aborted", strconv.Itoa(s.Aborted)),
		metricCard("Completion", fmt.Sprintf("%.1f%%", s.CompletionRate*100)),
		metricCard("Mean peak", fmt.Sprintf("%.1f%%", s.MeanPeak*100)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	const label = "Peaks "
	peaks := stats.PeakSeries(report.Gestures)
	if limit := width - runewidth.StringWidth(label); limit > 0 && len(peaks) > limit {
		peaks = peaks[len(peaks)-limit:]
	}
	trend := stats.MovingAverage(peaks, 5)
	lines := []string{
		summary,
		"",
		cardTitleStyle.Render(label) + stats.Sparkline(peaks),
		cardTitleStyle.Render("Trend ") + stats.Sparkline(trend),
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// buildGestureTable lists gestures newest first.
func buildGestureTable(gestures []model.Gesture, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Ended", Width: 19},
		{Title: "Outcome", Width: 9},
		{Title: "Peak (px)", Width: 9},
		{Title: "Peak", Width: 5},
		{Title: "Duration (ms)", Width: 13},
	}
	rows := make([]table.Row, 0, len(gestures))
	for i := len(gestures) - 1; i >= 0; i-- {
		g := gestures[i]
		rows = append(rows, table.Row{
			g.EndedAt.Local().Format("2006-01-02 15:04:05"),
			string(g.Outcome),
			fmt.Sprintf("%.1f", g.PeakPulled),
			fmt.Sprintf("%.0f%%", g.PeakFraction()*100),
			strconv.FormatInt(g.EndedAt.Sub(g.StartedAt).Milliseconds(), 10),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(gestureTableStyles())
	return t
}

func gestureTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	filters := headerStyle.Render(runewidth.Truncate(fmt.Sprintf("Filters: since=%s  last=%s", since, last), m.width, "..."))
	return m.renderTabs() + "\n" + filters
}

func (m *Model) renderBody() string {
	if m.activeTab == tabGestures {
		if len(m.report.Gestures) == 0 {
			return "No gestures recorded."
		}
		return tableMutedStyle.Render(m.gestures.View())
	}
	return m.overview.View()
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
