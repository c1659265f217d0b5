package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ccgen/internal/engine"
	"github.com/Veraticus/ccgen/internal/formatter"
	"github.com/Veraticus/ccgen/internal/service"
	"github.com/Veraticus/ccgen/internal/tui/themes"
)

var fixedNow = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

type harness struct {
	generator *engine.MockGenerator
	history   *engine.MockHistory
	clipboard *engine.MockClipboard
}

func newTestModel(t *testing.T, opts ...Option) (Model, *harness) {
	t.Helper()
	h := &harness{
		generator: &engine.MockGenerator{},
		history:   &engine.MockHistory{},
		clipboard: &engine.MockClipboard{},
	}
	o := engine.New(h.generator, h.history, engine.WithClipboard(h.clipboard))

	base := []Option{WithOrchestrator(o), WithClock(func() time.Time { return fixedNow })}
	return New(append(base, opts...)...), h
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func press(t *testing.T, m Model, keyType tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: keyType})
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// collect runs cmd and flattens batches into their messages. Only use it on
// commands that return immediately.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestNewModel_Defaults(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Equal(t, fieldBIN, m.focus)
	assert.Equal(t, "10", m.value(fieldQuantity))
	assert.Equal(t, DefaultBalance, m.value(fieldBalance))
	assert.Equal(t, formatter.Pipe, m.format)
	assert.True(t, m.dateEnabled)
	assert.True(t, m.cvcEnabled)
	assert.False(t, m.moneyEnabled)
	assert.Equal(t, "Leave blank to randomize", m.inputs[fieldCVC].Placeholder)
}

func TestWithDefaults(t *testing.T) {
	m, _ := newTestModel(t, WithDefaults(25, formatter.JSON, "1-2"), WithToggles(false, false, true))

	assert.Equal(t, "25", m.value(fieldQuantity))
	assert.Equal(t, formatter.JSON, m.format)
	assert.Equal(t, "1-2", m.value(fieldBalance))
	assert.False(t, m.dateEnabled)
	assert.True(t, m.moneyEnabled)
}

func TestTypingBINUpdatesHint(t *testing.T) {
	m, _ := newTestModel(t)

	m = typeText(t, m, "371449")
	assert.Equal(t, "371449", m.value(fieldBIN))
	assert.Equal(t, "Leave 4-digit CVC (American Express)", m.inputs[fieldCVC].Placeholder)
	assert.Contains(t, m.View(), "371449xxxxxxxxxx")
}

func TestFocusSkipsDisabledFields(t *testing.T) {
	m, _ := newTestModel(t)

	want := []field{
		fieldQuantity, fieldFormat, fieldDate, fieldMonth, fieldYear,
		fieldCVCToggle, fieldCVC, fieldMoney, fieldBIN,
	}
	for _, f := range want {
		m, _ = press(t, m, tea.KeyTab)
		assert.Equal(t, f, m.focus)
	}

	m, _ = press(t, m, tea.KeyShiftTab)
	assert.Equal(t, fieldMoney, m.focus)
}

func TestToggleOffClearsFields(t *testing.T) {
	m, _ := newTestModel(t, WithToggles(true, true, true))

	m.month, m.year = "11", "2027"
	m.setValue(fieldCVC, "123")
	m.setValue(fieldCurrency, "EUR")
	m.setValue(fieldBalance, "1-5")

	m.focus = fieldDate
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.False(t, m.dateEnabled)
	assert.Empty(t, m.month)
	assert.Empty(t, m.year)

	m.focus = fieldCVCToggle
	m, _ = press(t, m, tea.KeyEnter)
	assert.False(t, m.cvcEnabled)
	assert.Empty(t, m.value(fieldCVC))

	m.focus = fieldMoney
	m, _ = press(t, m, tea.KeyEnter)
	assert.False(t, m.moneyEnabled)
	assert.Empty(t, m.value(fieldCurrency))
	assert.Equal(t, DefaultBalance, m.value(fieldBalance))

	view := m.View()
	assert.Contains(t, view, "disabled")
}

func TestSelectCycling(t *testing.T) {
	m, _ := newTestModel(t)

	m.focus = fieldYear
	m, _ = press(t, m, tea.KeyRight)
	assert.Equal(t, "2026", m.year)

	m.focus = fieldMonth
	m, _ = press(t, m, tea.KeyRight)
	assert.Equal(t, "10", m.month, "past months of the current year are skipped")

	m, _ = press(t, m, tea.KeyLeft)
	assert.Empty(t, m.month)
	m, _ = press(t, m, tea.KeyLeft)
	assert.Equal(t, "12", m.month)

	m.focus = fieldYear
	m, _ = press(t, m, tea.KeyRight)
	assert.Equal(t, "2027", m.year)
	m.month = "03"

	m, _ = press(t, m, tea.KeyLeft)
	assert.Equal(t, "2026", m.year)
	assert.Empty(t, m.month, "March is no longer selectable")

	m.focus = fieldFormat
	m, _ = press(t, m, tea.KeyLeft)
	assert.Equal(t, formatter.XML, m.format)
}

func TestCycleFormatShortcut(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, tea.KeyCtrlF)
	assert.Equal(t, formatter.CSV, m.format)
	m, _ = press(t, m, tea.KeyCtrlF)
	assert.Equal(t, formatter.SQL, m.format)
}

func TestGenerateFlow(t *testing.T) {
	m, h := newTestModel(t)
	m = typeText(t, m, "453201")

	m, cmd := press(t, m, tea.KeyCtrlG)
	assert.True(t, m.generating)
	assert.Contains(t, m.View(), "Generating cards")

	msg, ok := find[generatedMsg](collect(cmd))
	require.True(t, ok)
	require.NoError(t, msg.err)

	m, _ = update(t, m, msg)
	assert.False(t, m.generating)
	require.NotNil(t, m.result)
	assert.Len(t, m.result.Records, 10)
	assert.Len(t, strings.Split(m.result.Output, "\n"), 10)
	require.NotNil(t, m.toast)
	assert.Equal(t, service.NotifySuccess, m.toast.kind)
	assert.Equal(t, "Generated 10 Visa cards", m.toast.message)

	calls := h.generator.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "453201", calls[0].BIN)
	assert.Equal(t, "pipe", calls[0].Format)
}

func TestGenerateIgnoresKeysWhileRunning(t *testing.T) {
	m, _ := newTestModel(t)
	m.generating = true

	m, cmd := press(t, m, tea.KeyCtrlG)
	assert.Nil(t, cmd)
	assert.True(t, m.generating)
}

func TestGenerateError(t *testing.T) {
	m, h := newTestModel(t)
	m = typeText(t, m, "12345")

	m, cmd := press(t, m, tea.KeyEnter)
	msg, ok := find[generatedMsg](collect(cmd))
	require.True(t, ok)

	m, _ = update(t, m, msg)
	assert.Nil(t, m.result)
	require.NotNil(t, m.toast)
	assert.Equal(t, service.NotifyError, m.toast.kind)
	assert.Equal(t, engine.MsgInvalidBIN, m.toast.message)
	assert.Empty(t, h.generator.Calls())
}

func TestInvalidQuantity(t *testing.T) {
	m, _ := newTestModel(t)
	m = typeText(t, m, "453201")
	m.setValue(fieldQuantity, "abc")

	m, cmd := press(t, m, tea.KeyCtrlG)
	msg, ok := find[generatedMsg](collect(cmd))
	require.True(t, ok)

	m, _ = update(t, m, msg)
	assert.Equal(t, engine.MsgInvalidQuantity, m.toast.message)
}

func TestCopy(t *testing.T) {
	m, h := newTestModel(t)

	m, cmd := press(t, m, tea.KeyCtrlY)
	msg, ok := find[copiedMsg](collect(cmd))
	require.True(t, ok)
	m, _ = update(t, m, msg)
	assert.Equal(t, service.NotifyError, m.toast.kind)
	assert.Equal(t, engine.MsgNothingToCopy, m.toast.message)

	m = typeText(t, m, "453201")
	m, cmd = press(t, m, tea.KeyCtrlG)
	gen, ok := find[generatedMsg](collect(cmd))
	require.True(t, ok)
	m, _ = update(t, m, gen)

	m, cmd = press(t, m, tea.KeyCtrlY)
	msg, ok = find[copiedMsg](collect(cmd))
	require.True(t, ok)
	m, _ = update(t, m, msg)
	assert.Equal(t, service.NotifySuccess, m.toast.kind)
	assert.Equal(t, engine.MsgCopied, m.toast.message)
	assert.Equal(t, m.result.Output, h.clipboard.Text)
}

func TestReset(t *testing.T) {
	m, _ := newTestModel(t)
	m = typeText(t, m, "453201")
	m.setValue(fieldQuantity, "30")
	m.format = formatter.SQL
	m.month, m.year = "12", "2030"

	m, _ = press(t, m, tea.KeyCtrlR)
	assert.Empty(t, m.value(fieldBIN))
	assert.Equal(t, "10", m.value(fieldQuantity))
	assert.Equal(t, formatter.Pipe, m.format)
	assert.Empty(t, m.month)
	assert.Empty(t, m.year)
	assert.True(t, m.dateEnabled, "toggles survive a reset")
	require.NotNil(t, m.toast)
	assert.Equal(t, MsgReset, m.toast.message)
}

func TestToastExpiry(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, tea.KeyCtrlR)
	first := m.toastID
	m, _ = press(t, m, tea.KeyCtrlR)

	m, _ = update(t, m, clearToastMsg{id: first})
	assert.NotNil(t, m.toast, "a stale timer leaves the newer toast alone")

	m, _ = update(t, m, clearToastMsg{id: m.toastID})
	assert.Nil(t, m.toast)
}

func TestLastBINPrefill(t *testing.T) {
	m, h := newTestModel(t)
	h.history.Seed("453201", "453201", "551234")

	msg := m.loadLastBIN()()
	m, _ = update(t, m, msg)

	assert.Equal(t, "453201", m.value(fieldBIN))
	assert.Equal(t, []string{"453201", "551234"}, m.history)
	assert.Equal(t, "Leave 3-digit CVC (Visa)", m.inputs[fieldCVC].Placeholder)

	m, _ = press(t, m, tea.KeyCtrlP)
	assert.Equal(t, "453201", m.value(fieldBIN))
	m, _ = press(t, m, tea.KeyCtrlP)
	assert.Equal(t, "551234", m.value(fieldBIN))
}

func TestLastBINDoesNotOverwriteInput(t *testing.T) {
	m, _ := newTestModel(t)
	m = typeText(t, m, "37")

	m, _ = update(t, m, lastBINMsg{bin: "453201"})
	assert.Equal(t, "37", m.value(fieldBIN))
}

func TestRememberBINOnBlur(t *testing.T) {
	m, h := newTestModel(t)

	assert.Nil(t, m.rememberBIN("4532")())

	msg := m.rememberBIN("4532 01")()
	remembered, ok := msg.(rememberedMsg)
	require.True(t, ok)
	assert.Equal(t, []string{"453201"}, remembered.history)

	last, err := h.history.LastBIN(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "453201", last)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := press(t, m, tea.KeyEsc)
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Empty(t, m.View())
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 116, m.output.Width)
	assert.Equal(t, 20, m.output.Height)
}

func TestViewLabels(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()

	for f := field(0); f < fieldCount; f++ {
		assert.Contains(t, view, f.String())
	}
	assert.Contains(t, view, "Press ctrl+g to generate")
}

func TestWithSizeAndTheme(t *testing.T) {
	m, _ := newTestModel(t, WithSize(100, 30), WithTheme(themes.Plain))

	assert.Equal(t, 100, m.width)
	assert.Equal(t, 96, m.output.Width)
	assert.Empty(t, m.theme.Primary)
	assert.Contains(t, m.View(), fieldBIN.String())
}
