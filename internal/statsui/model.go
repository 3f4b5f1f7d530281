// Package statsui provides the Bubble Tea report browser.
package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mnemocron/telestats/internal/chat"
	"github.com/mnemocron/telestats/internal/stats"
)

const (
	tabOverview = iota
	tabMonthly
	tabActivity
	tabWords
)

const (
	plotHeight = 10
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

// Model implements the Bubble Tea report browser.
type Model struct {
	metrics  chat.Metrics
	chatName string

	tabs       []string
	activeTab  int
	viewports  []viewport.Model
	wordTable  table.Model
	wordLayout tableLayout

	width  int
	height int

	filterMode  bool
	filterInput textinput.Model
	wordFilter  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a report browser over finalized metrics.
func NewModel(metrics chat.Metrics, chatName string) *Model {
	m := &Model{
		metrics:  metrics,
		chatName: chatName,
		tabs:     []string{"Overview", "Monthly", "Activity", "Words"},
	}
	m.initFilterInput()
	m.initWordTable()
	m.initViewports()
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
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabWords {
			m.wordTable.Focus()
		} else {
			m.wordTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			if m.activeTab == tabWords {
				return m.startFilter()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabWords {
				m.wordTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabWords {
				m.wordTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabWords {
				var cmd tea.Cmd
				m.wordTable, cmd = m.wordTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
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
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initFilterInput() {
	m.filterInput = textinput.New()
	m.filterInput.Prompt = "Filter: "
	m.filterInput.Placeholder = "token prefix"
	m.filterInput.CharLimit = 0
	m.filterInput.Cursor.SetMode(cursor.CursorBlink)
}

func (m *Model) initWordTable() {
	m.wordTable = buildWordTable(participantLabel(m.metrics.A), participantLabel(m.metrics.B), 0, 1)
	m.refreshWordTable()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.filterMode {
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
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setWordTableSize(m.width, vpHeight)
	promptWidth := lipgloss.Width(m.filterInput.Prompt)
	m.filterInput.Width = maxInt(10, m.width-promptWidth-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabWords {
		m.wordTable.Focus()
	} else {
		m.wordTable.Blur()
	}
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
	tabs := padLines(m.renderTabs(), m.width)
	summary := padLines(m.renderChatSummary(), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderChatSummary() string {
	summary := fmt.Sprintf("Chat: %s  messages=%d  %s=%d  %s=%d",
		m.chatName, m.metrics.Total,
		participantLabel(m.metrics.A), m.metrics.A.TotalMessages,
		participantLabel(m.metrics.B), m.metrics.B.TotalMessages)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q"
	if m.activeTab == tabWords {
		help = "Nav: left/right  Scroll: up/down  Filter: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.filterInput.View() + "\n" + headerStyle.Render("enter: apply  esc: cancel")
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabWords {
		if m.wordLayout.rowCount == 0 {
			if m.wordFilter != "" {
				return fitLines("No words match the filter.", m.width, height)
			}
			return fitLines("No words found.", m.width, height)
		}
		view := tableMutedStyle.Render(m.wordTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.metrics, width))
	m.viewports[tabMonthly].SetContent(renderMonthly(m.metrics, width))
	m.viewports[tabActivity].SetContent(renderActivity(m.metrics))
}

func renderOverview(metrics chat.Metrics, width int) string {
	if metrics.Total == 0 {
		return "No messages found."
	}
	cards := []string{
		metricCard("Messages", fmt.Sprintf("%d", metrics.Total)),
		metricCard(participantLabel(metrics.A), fmt.Sprintf("%d", metrics.A.TotalMessages)),
		metricCard(participantLabel(metrics.B), fmt.Sprintf("%d", metrics.B.TotalMessages)),
		metricCard("Words", fmt.Sprintf("%d", metrics.A.TotalWords+metrics.B.TotalWords)),
		metricCard("Photos", fmt.Sprintf("%d", metrics.A.Photos+metrics.B.Photos)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	var buf bytes.Buffer
	if err := stats.RenderReport(&buf, metrics); err != nil {
		return fmt.Sprintf("Failed to render report: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderMonthly(metrics chat.Metrics, width int) string {
	if metrics.Total == 0 {
		return "No messages found."
	}
	var buf bytes.Buffer
	if err := stats.RenderPlotsWithColor(&buf, metrics, stats.PlotWidthFor(width), plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render plots: %v", err)
	}
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return "No monthly data."
	}
	return out
}

func renderActivity(metrics chat.Metrics) string {
	if metrics.Total == 0 {
		return "No messages found."
	}
	var buf bytes.Buffer
	if err := stats.RenderActivity(&buf, metrics); err != nil {
		return fmt.Sprintf("Failed to render activity: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func participantLabel(pm chat.ParticipantMetrics) string {
	if pm.Name == "" {
		return "unknown"
	}
	return pm.Name
}

// wordRows merges both word lists into one rank table, filtered by the
// current token prefix.
func (m *Model) wordRows() []table.Row {
	countsB := map[string]int{}
	for _, e := range m.metrics.B.WordList {
		countsB[e.Token] = e.Count
	}
	seen := map[string]bool{}
	rows := make([]table.Row, 0, len(m.metrics.A.WordList))
	appendRow := func(token string, a, b int) {
		if m.wordFilter != "" && !strings.HasPrefix(token, m.wordFilter) {
			return
		}
		rows = append(rows, table.Row{
			token,
			fmt.Sprintf("%d", a),
			fmt.Sprintf("%d", b),
			fmt.Sprintf("%d", a+b),
		})
	}
	for _, e := range m.metrics.A.WordList {
		seen[e.Token] = true
		appendRow(e.Token, e.Count, countsB[e.Token])
	}
	for _, e := range m.metrics.B.WordList {
		if seen[e.Token] {
			continue
		}
		appendRow(e.Token, 0, e.Count)
	}
	return rows
}

func buildWordTable(nameA, nameB string, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Word", Width: 20},
		{Title: nameA, Width: 12},
		{Title: nameB, Width: 12},
		{Title: "Total", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(wordTableStyles())
	return t
}

func (m *Model) refreshWordTable() {
	rows := m.wordRows()
	m.wordTable.SetRows(rows)
	m.wordLayout.rowCount = len(rows)
	m.wordTable.GotoTop()
}

func (m *Model) setWordTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.wordLayout.width == width && m.wordLayout.height == viewportHeight {
		return
	}
	m.wordLayout.width = width
	m.wordLayout.height = viewportHeight
	m.wordTable.SetWidth(width)
	m.wordTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustWordTableHeight(height)
	if m.wordLayout.height != viewportHeight {
		m.wordLayout.height = viewportHeight
		m.wordTable.SetHeight(viewportHeight)
	}
}

func wordTableStyles() table.Styles {
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

func (m *Model) adjustWordTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.wordTable.Height()
	viewHeight := lipgloss.Height(m.wordTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.wordTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.wordTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterInput.SetValue(m.wordFilter)
	return m, m.filterInput.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.wordFilter = strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
		m.filterMode = false
		m.filterInput.Blur()
		m.refreshWordTable()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
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

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
