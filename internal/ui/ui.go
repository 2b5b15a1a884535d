package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/opencouncil/finsight/internal/edit"
	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/playlist"
	"github.com/opencouncil/finsight/internal/services"
	"github.com/opencouncil/finsight/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CarouselView ViewState = iota
	SheetView
)

type frameMsg playlist.Frame

type insightsLoadedMsg struct {
	err error
}

type optionsLoadedMsg struct {
	index int
	opts  *services.FieldOptions
}

type saveResultMsg struct {
	result *edit.SubmitResult
	err    error
	moved  bool // focus advanced, activate the newly focused cell
}

type toastExpiredMsg struct {
	id int
}

// toast is a transient auto-dismissing notification.
type toast struct {
	id      int
	message string
	style   lipgloss.Style
}

// frameRelay adapts the controller's Display interface to bubbletea
// messages. Render never blocks: timer callbacks must not stall on a
// slow terminal.
type frameRelay struct {
	ch chan playlist.Frame
}

var _ playlist.Display = (*frameRelay)(nil)

func newFrameRelay() *frameRelay {
	return &frameRelay{ch: make(chan playlist.Frame, 16)}
}

func (r *frameRelay) Render(f playlist.Frame) {
	select {
	case r.ch <- f:
	default:
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	subject    models.SubjectKey
	siteURL    string
	controller *playlist.Controller
	relay      *frameRelay
	frame      playlist.Frame
	sheet      *edit.Sheet
	input      textinput.Model
	editing    bool
	disamb     *edit.Disambiguation
	toast      *toast
	toastSeq   int
	width      int
	height     int
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model with the provided dependencies. The sheet
// may be nil, in which case the edit view is unavailable, and siteURL may be
// empty to disable opening the council page.
func NewModel(ctx context.Context, source services.InsightAPI, sheet *edit.Sheet, opts playlist.Options, siteURL string) (*Model, error) {
	relay := newFrameRelay()
	controller, err := playlist.New(relay, source, playlist.NewTimerScheduler(), opts)
	if err != nil {
		return nil, err
	}

	return &Model{
		ctx:        ctx,
		view:       CarouselView,
		subject:    opts.Subject,
		siteURL:    siteURL,
		controller: controller,
		relay:      relay,
		sheet:      sheet,
		help:       help.New(),
		keys:       newKeyMap(),
	}, nil
}

// Init starts the insight load and the frame pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadInsights(), m.waitForFrame())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.controller.Destroy()
			return m, tea.Quit
		}
		switch m.view {
		case CarouselView:
			return m.handleCarouselKeys(msg)
		case SheetView:
			return m.handleSheetKeys(msg)
		}

	case frameMsg:
		m.frame = playlist.Frame(msg)
		return m, m.waitForFrame()

	case insightsLoadedMsg:
		// The controller already rendered a fallback or error frame; the
		// toast just explains what happened.
		if msg.err != nil {
			return m, m.showToast(fmt.Sprintf("Couldn't load insights: %v", msg.err), styles.warning)
		}
		return m, nil

	case optionsLoadedMsg:
		if m.sheet != nil && msg.index < len(m.sheet.Cells()) {
			m.sheet.Cells()[msg.index].ApplyOptions(msg.opts)
		}
		return m, nil

	case saveResultMsg:
		return m.handleSaveResult(msg)

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case CarouselView:
		body = m.renderCarousel()
	case SheetView:
		body = m.renderSheet()
	}

	if m.toast != nil {
		body = fmt.Sprintf("%s\n\n%s", body, m.toast.style.Render(m.toast.message))
	}
	return body
}

func (m *Model) handleCarouselKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.controller.Destroy()
		return m, tea.Quit

	case key.Matches(msg, m.keys.pause):
		if m.controller.Playing() {
			m.controller.Pause()
		} else {
			m.controller.Resume()
		}

	case key.Matches(msg, m.keys.left):
		m.controller.Previous()

	case key.Matches(msg, m.keys.right):
		m.controller.Next()

	case key.Matches(msg, m.keys.retry):
		if m.frame.ShowRetry || m.frame.State == playlist.StateError {
			return m, m.loadInsights()
		}

	case key.Matches(msg, m.keys.open):
		if m.siteURL != "" {
			if err := shared.OpenBrowser(m.siteURL); err != nil {
				return m, m.showToast(fmt.Sprintf("Couldn't open browser: %v", err), styles.error)
			}
		}

	case key.Matches(msg, m.keys.edit):
		if m.sheet != nil {
			m.view = SheetView
			m.controller.Pause()
		}
	}

	return m, nil
}

func (m *Model) handleSheetKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.disamb != nil {
		return m.handleDisambiguationKeys(msg)
	}

	if m.editing {
		return m.handleEditingKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.controller.Destroy()
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		m.view = CarouselView
		m.controller.Resume()

	case key.Matches(msg, m.keys.enter), key.Matches(msg, m.keys.edit):
		return m, m.activateCell()

	case msg.String() == "tab":
		m.sheet.Focus(m.sheet.FocusIndex() + 1)

	case msg.String() == "shift+tab":
		m.sheet.Focus(m.sheet.FocusIndex() - 1)
	}

	return m, nil
}

func (m *Model) handleEditingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cell := m.sheet.Focused()

	switch {
	case key.Matches(msg, m.keys.back):
		cell.Cancel()
		m.editing = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.enter):
		cell.SetValue(m.input.Value())
		return m, m.saveCell()

	case msg.String() == "tab":
		cell.SetValue(m.input.Value())
		return m, m.saveAndMove(1)

	case msg.String() == "shift+tab":
		cell.SetValue(m.input.Value())
		return m, m.saveAndMove(-1)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleDisambiguationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "k":
		d := m.disamb
		m.disamb = nil
		return m, m.resolveDisambiguation(d.Entered)
	case "s":
		d := m.disamb
		m.disamb = nil
		return m, m.resolveDisambiguation(d.Suggested)
	case "esc":
		// Back to editing with the entered value still in place.
		m.disamb = nil
	}
	return m, nil
}

func (m *Model) handleSaveResult(msg saveResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The cell stays in the editing state with the value intact and
		// focus does not move.
		return m, m.showToast(fmt.Sprintf("Save failed: %v", msg.err), styles.error)
	}
	if msg.result != nil && msg.result.Disambiguation != nil {
		m.disamb = msg.result.Disambiguation
		return m, nil
	}

	var cmds []tea.Cmd
	if msg.result != nil && msg.result.Saved {
		text := fmt.Sprintf("Saved %s", msg.result.Value)
		if msg.result.Points > 0 {
			text = fmt.Sprintf("%s (+%d points)", text, msg.result.Points)
		}
		cmds = append(cmds, m.showToast(text, styles.success))
	}

	m.editing = false
	m.input.Blur()
	if msg.moved {
		cmds = append(cmds, m.activateCell())
	}
	return m, tea.Batch(cmds...)
}

// activateCell puts the focused cell into the editing state and builds its
// input. List kinds kick off an asynchronous option load that upgrades the
// input without blocking keystrokes.
func (m *Model) activateCell() tea.Cmd {
	cell := m.sheet.Focused()
	spec, err := cell.Activate()
	if err != nil {
		return m.showToast(fmt.Sprintf("Can't edit right now: %v", err), styles.warning)
	}

	input := textinput.New()
	input.Placeholder = spec.Placeholder
	input.SetValue(cell.Pending())
	input.Focus()
	m.input = input
	m.editing = true

	if cell.Field().Kind == models.KindList {
		return m.loadOptions(m.sheet.FocusIndex())
	}
	return nil
}

func (m *Model) loadInsights() tea.Cmd {
	return func() tea.Msg {
		return insightsLoadedMsg{err: m.controller.Load(m.ctx)}
	}
}

func (m *Model) waitForFrame() tea.Cmd {
	return func() tea.Msg {
		return frameMsg(<-m.relay.ch)
	}
}

func (m *Model) loadOptions(index int) tea.Cmd {
	cell := m.sheet.Cells()[index]
	return func() tea.Msg {
		opts, err := cell.LoadOptions(m.ctx)
		if err != nil {
			opts = &services.FieldOptions{Select: false}
		}
		return optionsLoadedMsg{index: index, opts: opts}
	}
}

func (m *Model) saveCell() tea.Cmd {
	cell := m.sheet.Focused()
	return func() tea.Msg {
		result, err := cell.Submit(m.ctx)
		return saveResultMsg{result: result, err: err}
	}
}

func (m *Model) saveAndMove(step int) tea.Cmd {
	return func() tea.Msg {
		var result *edit.SubmitResult
		var err error
		if step > 0 {
			result, err = m.sheet.TabNext(m.ctx)
		} else {
			result, err = m.sheet.TabPrev(m.ctx)
		}
		moved := err == nil && (result == nil || result.Disambiguation == nil)
		return saveResultMsg{result: result, err: err, moved: moved}
	}
}

func (m *Model) resolveDisambiguation(value string) tea.Cmd {
	cell := m.sheet.Focused()
	return func() tea.Msg {
		result, err := cell.SubmitValue(m.ctx, value)
		return saveResultMsg{result: result, err: err}
	}
}

func (m *Model) showToast(text string, style lipgloss.Style) tea.Cmd {
	m.toastSeq++
	m.toast = &toast{id: m.toastSeq, message: text, style: style}

	id := m.toastSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) renderCarousel() string {
	title := styles.title.Render(fmt.Sprintf("Insights: %s", m.subject.Path()))

	var body string
	switch m.frame.State {
	case playlist.StateLoading:
		body = "Loading insights..."

	case playlist.StateNoData:
		body = styles.warning.Render(m.frame.Message)

	case playlist.StateEmpty:
		body = m.frame.Message

	case playlist.StateError:
		body = styles.error.Render(m.frame.Message) + "\n" + styles.help.Render("Press r to retry")

	case playlist.StateInsight:
		style := tagStyle(m.frame.Insight.Color)
		line := m.frame.Insight.Text
		if m.frame.Insight.Emoji != "" {
			line = fmt.Sprintf("%s %s", m.frame.Insight.Emoji, line)
		}
		body = style.Render(line)
		body += "\n\n" + styles.help.Render(fmt.Sprintf("%d/%d", m.frame.Index+1, m.frame.Total))
		if !m.controller.Playing() && m.frame.Total > 1 {
			body += styles.help.Render("  (paused)")
		}
		if m.frame.Fallback {
			body += styles.help.Render("  (saved insights)")
		}
		if m.frame.ShowRetry {
			body += "\n" + styles.help.Render("Press r to retry")
		}
	}

	helpKeys := []key.Binding{m.keys.pause, m.keys.left, m.keys.right}
	if m.sheet != nil {
		helpKeys = append(helpKeys, m.keys.edit)
	}
	helpKeys = append(helpKeys, m.keys.quit)
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, body, helpView)
}

func (m *Model) renderSheet() string {
	title := styles.title.Render(fmt.Sprintf("Edit data: %s", m.subject.Path()))

	if m.disamb != nil {
		prompt := fmt.Sprintf(
			"%s\n\nYou entered %s. Council figures are usually full amounts.\nDid you mean %s?\n\n%s",
			styles.warning.Render("Check this value"),
			m.disamb.Entered,
			m.disamb.Suggested,
			styles.help.Render("k keep as entered • s use suggestion • esc re-edit"),
		)
		return fmt.Sprintf("%s\n%s", title, prompt)
	}

	var rows string
	for i, cell := range m.sheet.Cells() {
		marker := "  "
		if i == m.sheet.FocusIndex() {
			marker = "→ "
		}

		value := cell.Value()
		if value == "" {
			value = styles.help.Render("(missing)")
		}
		if i == m.sheet.FocusIndex() && m.editing {
			value = m.input.View()
			if suffix := cell.Field().Kind.InputSpec().Suffix; suffix != "" {
				value += " " + suffix
			}
		}

		state := ""
		if cell.State() == edit.StateSubmitting {
			state = styles.help.Render(" saving...")
		}

		rows += fmt.Sprintf("%s%s: %s%s\n", marker, cell.Field().Name, value, state)
	}

	var helpKeys []key.Binding
	if m.editing {
		helpKeys = []key.Binding{m.keys.enter, m.keys.tab, m.keys.back}
	} else {
		helpKeys = []key.Binding{m.keys.edit, m.keys.tab, m.keys.back, m.keys.quit}
	}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, rows, helpView)
}
