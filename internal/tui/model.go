// Package tui provides the Bubble Tea feed viewer with pull-to-refresh.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pullfeed/internal/feed"
	"github.com/verte-zerg/pullfeed/internal/model"
	"github.com/verte-zerg/pullfeed/internal/pull"
	"github.com/verte-zerg/pullfeed/internal/store"
)

type cardAddedMsg struct {
	card model.Card
}

type cardFailedMsg struct {
	err error
}

// Model implements the Bubble Tea feed UI.
type Model struct {
	config model.FeedConfig
	store  *store.Store
	gen    *feed.Generator
	now    func() time.Time

	controller *pull.Controller
	surface    *mouseSurface
	scheduler  *tickScheduler
	state      pull.State
	// Commands queued by controller callbacks during the current Update.
	pending []tea.Cmd

	gestureStartedAt time.Time
	peakPulled       float64

	viewport viewport.Model
	spinner  spinner.Model
	cards    []model.Card

	width  int
	height int
	// errMsg holds store failures; refreshErr holds the last failed card insert
	// and is cleared by the next successful one.
	errMsg     string
	refreshErr string
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// NewModel constructs the feed UI. It fails when the pull settings are invalid.
func NewModel(cfg model.FeedConfig, st *store.Store, gen *feed.Generator) (*Model, error) {
	m := &Model{
		config:    cfg,
		store:     st,
		gen:       gen,
		now:       time.Now,
		viewport:  viewport.New(0, 0),
		spinner:   newSpinner(cfg.Indicator),
		scheduler: newTickScheduler(),
	}
	m.surface = newMouseSurface(cfg.CellHeight, func() bool { return m.viewport.AtTop() })

	pullCfg := pull.DefaultConfig(m.onRefresh)
	pullCfg.Resistance = cfg.Pull.Resistance
	pullCfg.DistThreshold = cfg.Pull.DistThreshold
	pullCfg.RefreshDuration = cfg.Pull.RefreshDuration
	pullCfg.ResetDuration = cfg.Pull.ResetDuration
	pullCfg.Disabled = cfg.Pull.Disabled
	pullCfg.OnChange = m.onPullChange
	controller, err := pull.New(pullCfg, m.surface, m.scheduler)
	if err != nil {
		return nil, err
	}
	m.controller = controller
	m.state = controller.State()
	m.loadCards()
	return m, nil
}

func newSpinner(opts model.IndicatorConfig) spinner.Model {
	frames := spinner.Line.Frames
	fps := spinner.Line.FPS
	if opts.SpinSpeed > 0 {
		fps = opts.SpinSpeed / time.Duration(len(frames))
	}
	return spinner.New(
		spinner.WithSpinner(spinner.Spinner{Frames: frames, FPS: fps}),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(opts.Color))),
	)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.controller.Mount()
	return nil
}

// Close detaches the controller and cancels its timers.
func (m *Model) Close() {
	m.controller.Unmount()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderCards()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Close()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.MouseMsg:
		if m.surface.dispatch(msg) {
			return m, m.flush()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, tea.Batch(cmd, m.flush())
	case timerFiredMsg:
		m.scheduler.fire(msg.id)
		return m, m.flush()
	case spinner.TickMsg:
		if !m.state.Status.Spinning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case cardAddedMsg:
		m.cards = append([]model.Card{msg.card}, m.cards...)
		m.refreshErr = ""
		m.renderCards()
		return m, nil
	case cardFailedMsg:
		m.refreshErr = fmt.Sprintf("refresh failed: %v", msg.err)
		logErrf("failed to add card: %v\n", msg.err)
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	parts := []string{titleStyle.Render(truncate("pullfeed: drag down from the top to refresh", m.width))}
	if indicator := m.renderIndicator(); indicator != "" {
		parts = append(parts, indicator)
	}
	parts = append(parts, m.viewport.View(), m.renderFooter())
	return strings.Join(parts, "\n")
}

func (m *Model) renderIndicator() string {
	return renderIndicator(m.state, m.config.Indicator, m.width, m.config.CellHeight, m.spinner.View())
}

// flush collects timer ticks and refresh commands queued by the controller.
func (m *Model) flush() tea.Cmd {
	cmds := m.scheduler.drain()
	cmds = append(cmds, m.pending...)
	m.pending = nil
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) onRefresh() {
	m.pending = append(m.pending, m.addCardCmd())
}

// addCardCmd picks a caption now and inserts the card off the event loop.
func (m *Model) addCardCmd() tea.Cmd {
	caption := m.gen.Caption()
	createdAt := m.now()
	st := m.store
	return func() tea.Msg {
		card, err := st.InsertCard(context.Background(), createdAt, caption)
		if err != nil {
			return cardFailedMsg{err: err}
		}
		return cardAddedMsg{card: card}
	}
}

func (m *Model) onPullChange(prev, next pull.State) {
	m.state = next
	switch next.Status {
	case pull.StatusPulling:
		if prev.Status == pull.StatusReady {
			m.gestureStartedAt = m.now()
			m.peakPulled = 0
		}
		if next.PulledDistance > m.peakPulled {
			m.peakPulled = next.PulledDistance
		}
	case pull.StatusRefreshing:
		m.pending = append(m.pending, m.spinner.Tick)
		m.recordGesture(model.OutcomeRefreshed)
	case pull.StatusPullAborted:
		m.recordGesture(model.OutcomeAborted)
	}
	m.updateLayout()
}

func (m *Model) recordGesture(outcome model.Outcome) {
	g := model.Gesture{
		StartedAt:     m.gestureStartedAt,
		EndedAt:       m.now(),
		Outcome:       outcome,
		PeakPulled:    m.peakPulled,
		DistThreshold: m.config.Pull.DistThreshold,
	}
	if _, err := m.store.InsertGesture(context.Background(), g); err != nil {
		m.errMsg = fmt.Sprintf("failed to record gesture: %v", err)
		logErrf("failed to record gesture: %v\n", err)
	}
}

func (m *Model) loadCards() {
	ctx := context.Background()
	cards, err := m.store.ListCards(ctx, 0)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load cards: %v", err)
		logErrf("failed to load cards: %v\n", err)
		return
	}
	if len(cards) == 0 {
		card, err := m.store.InsertCard(ctx, m.now(), m.gen.Caption())
		if err != nil {
			logErrf("failed to seed feed: %v\n", err)
			return
		}
		cards = []model.Card{card}
	}
	m.cards = cards
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	indicatorHeight := 0
	if indicator := m.renderIndicator(); indicator != "" {
		indicatorHeight = lipgloss.Height(indicator)
	}
	const headerHeight, footerHeight = 1, 1
	bodyHeight := m.height - headerHeight - footerHeight - indicatorHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	if m.config.Target == model.TargetFeed {
		m.surface.setBounds(headerHeight+indicatorHeight, bodyHeight)
	}
}

func (m *Model) renderCards() {
	if m.width <= 0 {
		return
	}
	innerWidth := m.width - cardStyle.GetHorizontalFrameSize()
	if innerWidth < 1 {
		innerWidth = 1
	}
	blocks := make([]string, 0, len(m.cards))
	for _, card := range m.cards {
		lines := wrapCaption(card.Caption, innerWidth)
		body := captionStyle.Render(strings.Join(lines, "\n")) + "\n" +
			metaStyle.Render(fmt.Sprintf("#%d  %s", card.ID, card.CreatedAt.Local().Format("2006-01-02 15:04:05")))
		blocks = append(blocks, cardStyle.Width(innerWidth+cardStyle.GetHorizontalPadding()).Render(body))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n"))
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Status %s", m.state.Status),
		fmt.Sprintf("%d cards", len(m.cards)),
	}
	if m.config.Pull.Disabled {
		segments = append(segments, "pull disabled")
	}
	segments = append(segments, "q quit")
	if m.errMsg != "" {
		return errorStyle.Render(truncate(m.errMsg, m.width))
	}
	if m.refreshErr != "" {
		return errorStyle.Render(truncate(m.refreshErr, m.width))
	}
	return footerStyle.Render(truncate(strings.Join(segments, "  "), m.width))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
