package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/creamcroissant/subconv/internal/convert"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case convertedMsg:
		if msg.seq != m.seq {
			// 清空或重新转换之后到达的旧结果
			return m, nil
		}
		m.converting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.report = msg.result.Report
		m.selected = 0
		m.notice = m.report.Status().Message()
		m.document.SetContent(m.report.Document)
		m.document.GotoTop()
		return m, nil

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil
	}

	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Convert):
		if m.converting {
			return m, nil
		}
		m.converting = true
		m.seq++
		return m, m.convertCmd(m.seq, m.input.Value())

	case key.Matches(msg, m.keys.Copy):
		return m.copyDocument()

	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		m.clearResults()
		return m, nil

	case key.Matches(msg, m.keys.Sample):
		m.input.SetValue(convert.SampleInput)
		m.clearResults()
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		return m.cycleFocus()
	}

	if m.focus == FocusResults {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.moveSelection(-1)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.moveSelection(1)
			return m, nil
		}
	}
	return m.forward(msg)
}

// forward hands the message to the focused bubble.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusInput:
		m.input, cmd = m.input.Update(msg)
	case FocusDocument:
		m.document, cmd = m.document.Update(msg)
	}
	return m, cmd
}

func (m Model) cycleFocus() (tea.Model, tea.Cmd) {
	m.focus = (m.focus + 1) % 3
	if m.focus == FocusInput {
		return m, m.input.Focus()
	}
	m.input.Blur()
	return m, nil
}

func (m *Model) moveSelection(delta int) {
	if m.report == nil || len(m.report.Outcomes) == 0 {
		return
	}
	n := len(m.report.Outcomes)
	m.selected = (m.selected + delta + n) % n
}

// copyDocument puts the rendered document on the clipboard, or into a
// temporary file when no clipboard is available.
func (m Model) copyDocument() (tea.Model, tea.Cmd) {
	switch {
	case m.report == nil || m.report.Document == "":
		m.flash = "Nothing to copy."
	case m.copyText(m.report.Document) == nil:
		m.flash = "Copied to clipboard."
	default:
		path, err := m.saveText(m.report.Document)
		if err != nil {
			m.flash = fmt.Sprintf("Clipboard unavailable and saving failed: %v", err)
		} else {
			m.flash = "Clipboard unavailable, saved to " + path
		}
	}
	m.flashSeq++
	return m, flashCmd(m.flashSeq)
}

func (m *Model) clearResults() {
	m.seq++
	m.converting = false
	m.report = nil
	m.selected = 0
	m.notice = ""
	m.err = nil
	m.document.SetContent("")
}

// resize 按终端尺寸分配输入框与文档视图的高度
func (m *Model) resize() {
	inner := m.width - 4
	if inner < 20 {
		inner = 20
	}
	inputHeight := m.height / 4
	if inputHeight < 3 {
		inputHeight = 3
	}
	docHeight := m.height - inputHeight - 16
	if docHeight < 3 {
		docHeight = 3
	}
	m.input.SetWidth(inner)
	m.input.SetHeight(inputHeight)
	m.document.Width = inner
	m.document.Height = docHeight
}
