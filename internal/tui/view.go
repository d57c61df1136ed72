package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/creamcroissant/subconv/internal/document"
	"github.com/creamcroissant/subconv/internal/protocol"
)

// View 实现 tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(styleHeader.Width(m.width).Render("  subconv · share links → Clash"))
	b.WriteString("\n")

	b.WriteString(boxStyle(m.focus == FocusInput).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	half := (m.width - 4) / 2
	if half < 20 {
		half = 20
	}
	results := boxStyle(m.focus == FocusResults).Width(half).Render(m.renderResults(half - 4))
	inspector := boxStyle(false).Width(half).Render(m.renderInspector(half - 4))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, results, inspector))
	b.WriteString("\n")

	b.WriteString(boxStyle(m.focus == FocusDocument).Render(m.renderDocument()))
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderStatus() string {
	switch {
	case m.converting:
		return styleMuted.Render("  Converting...")
	case m.flash != "":
		return styleNotice.Render("  " + m.flash)
	case m.err != nil:
		return styleFailure.Render(fmt.Sprintf("  Error: %v", m.err))
	case m.notice != "":
		return styleNotice.Render("  " + m.notice)
	case m.report != nil:
		return fmt.Sprintf("  %s  %s",
			styleSuccess.Render(fmt.Sprintf("%d converted", m.report.Succeeded())),
			styleFailure.Render(fmt.Sprintf("%d failed", m.report.Failed())),
		)
	default:
		return styleMuted.Render("  Press ctrl+s to convert")
	}
}

func (m Model) renderResults(width int) string {
	var b strings.Builder
	b.WriteString(styleSection.Render("Log"))
	b.WriteString("\n")
	if m.report == nil || len(m.report.Outcomes) == 0 {
		b.WriteString(styleMuted.Render("No results yet."))
		return b.String()
	}

	// 只显示选中项附近的若干行
	visible := 8
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := start + visible
	if end > len(m.report.Outcomes) {
		end = len(m.report.Outcomes)
	}
	for i := start; i < end; i++ {
		o := m.report.Outcomes[i]
		text := o.Reason()
		if o.Success() {
			text = fmt.Sprintf("%s (%s)", o.Proxy.Name, o.Proxy.Type)
		}
		row := fmt.Sprintf("%s %d. %s", OutcomeIcon(o.Success()), i+1, truncate(text, width-6))
		if i == m.selected && m.focus == FocusResults {
			row = styleRowSelected.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	if len(m.report.Outcomes) > visible {
		b.WriteString(styleMuted.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(m.report.Outcomes))))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderInspector(width int) string {
	var b strings.Builder
	b.WriteString(styleSection.Render("Inspector"))
	b.WriteString("\n")
	if m.report == nil || len(m.report.Outcomes) == 0 {
		b.WriteString(styleMuted.Render("Select a line to inspect it."))
		return b.String()
	}
	o := m.report.Outcomes[m.selected]
	b.WriteString(styleLabel.Render("Original"))
	b.WriteString(truncate(o.Original, width-10))
	b.WriteString("\n")
	if !o.Success() {
		b.WriteString(styleLabel.Render("Reason"))
		b.WriteString(styleFailure.Render(o.Reason()))
		return b.String()
	}
	record, err := document.Render([]protocol.Proxy{*o.Proxy})
	if err != nil {
		b.WriteString(styleFailure.Render(err.Error()))
		return b.String()
	}
	b.WriteString(strings.TrimRight(record, "\n"))
	return b.String()
}

func (m Model) renderDocument() string {
	if m.report == nil || m.report.Document == "" {
		return styleSection.Render("Clash YAML") + "\n" + styleMuted.Render("Nothing to show.")
	}
	title := styleSection.Render("Clash YAML")
	scroll := styleMuted.Render(fmt.Sprintf(" %3.f%%", m.document.ScrollPercent()*100))
	return title + scroll + "\n" + m.document.View()
}

func (m Model) renderHelp() string {
	bindings := []string{
		m.keys.Convert.Help().Key + " " + m.keys.Convert.Help().Desc,
		m.keys.Clear.Help().Key + " " + m.keys.Clear.Help().Desc,
		m.keys.Sample.Help().Key + " " + m.keys.Sample.Help().Desc,
		m.keys.Copy.Help().Key + " " + m.keys.Copy.Help().Desc,
		m.keys.Focus.Help().Key + " " + m.keys.Focus.Help().Desc,
		m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc,
	}
	return styleHelp.Render("  " + strings.Join(bindings, "  •  "))
}

func truncate(s string, width int) string {
	if width < 4 {
		width = 4
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
