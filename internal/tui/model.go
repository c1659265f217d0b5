// Package tui implements the interactive card generator form.
package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/ccgen/internal/bin"
	"github.com/Veraticus/ccgen/internal/common"
	"github.com/Veraticus/ccgen/internal/engine"
	"github.com/Veraticus/ccgen/internal/formatter"
	"github.com/Veraticus/ccgen/internal/service"
	"github.com/Veraticus/ccgen/internal/tui/themes"
)

// Toast texts owned by the form.
const (
	MsgReset = "Form reset successfully"
)

var errNoEngine = errors.New("generator not configured")

// Model holds the form state.
type Model struct {
	theme        themes.Theme
	orchestrator *engine.Orchestrator
	toast        *toastMsg
	result       *engine.Result
	inputs       map[field]textinput.Model
	spinner      spinner.Model
	help         help.Model
	output       viewport.Model
	keymap       KeyMap
	format       formatter.Tag
	month        string
	year         string
	history      []string
	config       Config
	historyIdx   int
	toastID      int
	focus        field
	width        int
	height       int
	dateEnabled  bool
	cvcEnabled   bool
	moneyEnabled bool
	generating   bool
	quitting     bool
}

// New creates a form model with the given options applied.
func New(opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(cfg)
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	m := Model{
		config:       cfg,
		theme:        cfg.Theme,
		orchestrator: cfg.Orchestrator,
		keymap:       DefaultKeyMap(),
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		output:       viewport.New(cfg.Width-4, outputHeight(cfg.Height)),
		width:        cfg.Width,
		height:       cfg.Height,
		historyIdx:   -1,
		dateEnabled:  cfg.DateEnabled,
		cvcEnabled:   cfg.CVCEnabled,
		moneyEnabled: cfg.MoneyEnabled,
	}

	m.inputs = map[field]textinput.Model{
		fieldBIN:      newInput("Enter BIN (e.g. 453201)", 19),
		fieldQuantity: newInput(strconv.Itoa(engine.DefaultQuantity), 3),
		fieldCVC:      newInput(bin.Hint(""), 4),
		fieldCurrency: newInput("USD", 8),
		fieldBalance:  newInput(DefaultBalance, 24),
	}
	m.resetValues()

	ti := m.inputs[fieldBIN]
	ti.Focus()
	m.inputs[fieldBIN] = ti
	m.focus = fieldBIN

	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	ti.Width = 28
	return ti
}

func outputHeight(height int) int {
	h := height - 20
	if h < 3 {
		return 3
	}
	return h
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadLastBIN())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.output.Width = msg.Width - 4
		m.output.Height = outputHeight(msg.Height)
		return m, nil

	case lastBINMsg:
		m.history = msg.history
		if msg.bin != "" && m.value(fieldBIN) == "" {
			m.setValue(fieldBIN, msg.bin)
			m.updateHint()
		}
		return m, nil

	case rememberedMsg:
		m.history = msg.history
		return m, nil

	case generatedMsg:
		m.generating = false
		if msg.err != nil {
			m.result = nil
			message := common.UserMessage(msg.err)
			m.output.SetContent(message)
			return m, m.showToast(service.NotifyError, message)
		}
		m.result = msg.result
		m.output.SetContent(msg.result.Output)
		m.output.GotoTop()
		return m, m.showToast(service.NotifySuccess, fmt.Sprintf("Generated %d %s cards",
			len(msg.result.Records), msg.result.Classification.Network))

	case copiedMsg:
		if msg.err != nil {
			return m, m.showToast(service.NotifyError, common.UserMessage(msg.err))
		}
		return m, m.showToast(service.NotifySuccess, engine.MsgCopied)

	case clearToastMsg:
		if msg.id == m.toastID {
			m.toast = nil
		}
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocusedInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.generating {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Generate):
		return m.startGenerate()

	case key.Matches(msg, m.keymap.Submit):
		if m.focus.isToggle() {
			m.flipToggle(m.focus)
			return m, nil
		}
		return m.startGenerate()

	case key.Matches(msg, m.keymap.Copy):
		text := ""
		if m.result != nil {
			text = m.result.Output
		}
		return m, m.copyOutput(text)

	case key.Matches(msg, m.keymap.Reset):
		m.resetValues()
		return m, m.showToast(service.NotifyInfo, MsgReset)

	case key.Matches(msg, m.keymap.Format):
		m.format = m.format.Next()
		return m, nil

	case key.Matches(msg, m.keymap.History):
		m.recallHistory()
		return m, nil

	case key.Matches(msg, m.keymap.ScrollUp):
		m.output.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keymap.ScrollDown):
		m.output.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Next):
		return m, m.moveFocus(1)

	case key.Matches(msg, m.keymap.Prev):
		return m, m.moveFocus(-1)
	}

	if m.focus.isToggle() && key.Matches(msg, m.keymap.Toggle) {
		m.flipToggle(m.focus)
		return m, nil
	}

	if m.focus.isSelect() {
		switch {
		case key.Matches(msg, m.keymap.Left):
			m.cycleSelect(-1)
		case key.Matches(msg, m.keymap.Right), key.Matches(msg, m.keymap.Toggle):
			m.cycleSelect(1)
		}
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.focus.isInput() {
		return m, nil
	}

	ti := m.inputs[m.focus]
	before := ti.Value()
	ti, cmd := ti.Update(msg)
	m.inputs[m.focus] = ti

	if m.focus == fieldBIN && ti.Value() != before {
		m.historyIdx = -1
		m.updateHint()
	}
	return m, cmd
}

func (m Model) startGenerate() (tea.Model, tea.Cmd) {
	m.generating = true
	req := m.request()
	return m, tea.Batch(m.generate(req), m.spinner.Tick)
}

// request builds the engine request from the form values.
func (m Model) request() engine.Request {
	return engine.Request{
		BIN:          m.value(fieldBIN),
		Quantity:     parseQuantity(m.value(fieldQuantity)),
		Format:       m.format,
		Month:        m.month,
		Year:         m.year,
		CVC:          m.value(fieldCVC),
		Currency:     m.value(fieldCurrency),
		Balance:      m.value(fieldBalance),
		DateEnabled:  m.dateEnabled,
		CVCEnabled:   m.cvcEnabled,
		MoneyEnabled: m.moneyEnabled,
	}
}

// moveFocus steps to the next enabled field. Leaving the BIN field saves it.
func (m *Model) moveFocus(delta int) tea.Cmd {
	prev := m.focus
	next := prev
	for i := 0; i < int(fieldCount); i++ {
		next = field((int(next) + delta + int(fieldCount)) % int(fieldCount))
		if m.enabled(next) {
			break
		}
	}
	return m.setFocus(prev, next)
}

func (m *Model) setFocus(prev, next field) tea.Cmd {
	var cmds []tea.Cmd
	if prev.isInput() {
		ti := m.inputs[prev]
		ti.Blur()
		m.inputs[prev] = ti
	}
	if prev == fieldBIN && next != fieldBIN {
		cmds = append(cmds, m.rememberBIN(m.value(fieldBIN)))
	}

	m.focus = next
	if next.isInput() {
		ti := m.inputs[next]
		cmds = append(cmds, ti.Focus())
		m.inputs[next] = ti
	}
	return tea.Batch(cmds...)
}

func (m Model) enabled(f field) bool {
	switch f {
	case fieldMonth, fieldYear:
		return m.dateEnabled
	case fieldCVC:
		return m.cvcEnabled
	case fieldCurrency, fieldBalance:
		return m.moneyEnabled
	}
	return true
}

// flipToggle switches a toggle. Turning one off clears the fields it controls.
func (m *Model) flipToggle(f field) {
	switch f {
	case fieldDate:
		m.dateEnabled = !m.dateEnabled
		if !m.dateEnabled {
			m.month = ""
			m.year = ""
		}
	case fieldCVCToggle:
		m.cvcEnabled = !m.cvcEnabled
		if !m.cvcEnabled {
			m.setValue(fieldCVC, "")
		}
	case fieldMoney:
		m.moneyEnabled = !m.moneyEnabled
		if !m.moneyEnabled {
			m.setValue(fieldCurrency, "")
			m.setValue(fieldBalance, m.config.Balance)
		}
	}
}

func (m *Model) cycleSelect(delta int) {
	now := m.config.Now()
	switch m.focus {
	case fieldFormat:
		m.format = cycleTag(m.format, delta)
	case fieldMonth:
		m.month = cycle(monthOptions(m.year, now), m.month, delta)
	case fieldYear:
		m.year = cycle(yearOptions(now), m.year, delta)
		if !contains(monthOptions(m.year, now), m.month) {
			m.month = ""
		}
	}
}

// recallHistory steps through recently used BINs.
func (m *Model) recallHistory() {
	if len(m.history) == 0 {
		return
	}
	m.historyIdx = (m.historyIdx + 1) % len(m.history)
	m.setValue(fieldBIN, m.history[m.historyIdx])
	m.updateHint()
}

// resetValues restores every field to its default. Toggles keep their state.
func (m *Model) resetValues() {
	m.setValue(fieldBIN, "")
	m.setValue(fieldCVC, "")
	m.setValue(fieldQuantity, strconv.Itoa(m.config.Quantity))
	m.setValue(fieldCurrency, "")
	m.setValue(fieldBalance, m.config.Balance)
	m.month = ""
	m.year = ""
	m.format = m.config.Format
	m.result = nil
	m.historyIdx = -1
	m.output.SetContent("")
	m.updateHint()
}

func (m *Model) updateHint() {
	ti := m.inputs[fieldCVC]
	ti.Placeholder = bin.Hint(m.value(fieldBIN))
	m.inputs[fieldCVC] = ti
}

func (m Model) value(f field) string {
	return m.inputs[f].Value()
}

func (m *Model) setValue(f field, v string) {
	ti := m.inputs[f]
	ti.SetValue(v)
	m.inputs[f] = ti
}
