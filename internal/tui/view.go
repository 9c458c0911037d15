package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/rhythmiz/internal/catalog"
	"github.com/abhisek/rhythmiz/internal/drill"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	var content string
	switch {
	case m.quitConfirm:
		content = cardStyle.Render("End this session? " + hintStyle.Render("(y/n)"))
	case m.stalled:
		content = cardStyle.Render(
			"No patterns match the current level and time signature.\n" +
				hintStyle.Render("Change the tempo or press n after adjusting settings."))
	case m.question == nil:
		content = dimStyle.Render("Loading...")
	default:
		content = m.renderQuestion()
	}

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}
	body := lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, content)

	v.SetContent(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
	return v
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("rhythmiz")
	beat := "  "
	if m.beatOn {
		beat = tickStyle.Render("♩ ")
	}
	status := dimStyle.Render(fmt.Sprintf(
		"%s  •  %d BPM  •  level %d  •  %d/%d correct  •  streak %d",
		m.engine.Signature(), m.tempo, m.engine.Level(),
		m.stats.CorrectCount, m.stats.TotalCount, m.stats.Streak))

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", beat, status)
	return headerStyle.Width(m.width).Render(line)
}

func (m Model) renderQuestion() string {
	q := m.question
	var b strings.Builder

	b.WriteString(bodyStyle.Render(fmt.Sprintf("Listen and transcribe: %d beats in %s", len(q.Slots), q.Pattern.Signature)))
	b.WriteString("\n\n")

	if q.Revealed {
		b.WriteString(m.renderTargetRow())
		b.WriteString("\n")
	}
	b.WriteString(m.renderSlotRow())
	b.WriteString("\n\n")

	if m.verdict != nil {
		b.WriteString(m.renderFeedback())
	} else if m.tempoEntry {
		b.WriteString(bodyStyle.Render("New tempo: ") + m.tempoInput.View())
	} else if m.advisory != "" {
		b.WriteString(hintStyle.Render(m.advisory))
	} else {
		b.WriteString(hintStyle.Render("1 quarter  2 eighth  3 sixteenth"))
	}

	return cardStyle.Render(b.String())
}

func (m Model) renderTargetRow() string {
	symbols := make([]string, len(m.question.Pattern.Events))
	for i, ev := range m.question.Pattern.Events {
		symbols[i] = ev.Duration.Symbol()
	}
	return dimStyle.Render("pattern: ") + bodyStyle.Render(strings.Join(symbols, "  "))
}

func (m Model) renderSlotRow() string {
	parts := make([]string, len(m.question.Slots))
	for i, slot := range m.question.Slots {
		cell := "·"
		style := slotEmptyStyle
		if slot != catalog.NoDuration {
			cell = slot.Symbol()
			style = slotFilledStyle
		}
		if i == m.cursor && m.verdict == nil {
			cell = "[" + cell + "]"
			style = slotCursorStyle
		} else {
			cell = " " + cell + " "
		}
		parts[i] = style.Render(cell)
	}
	return dimStyle.Render("answer:  ") + strings.Join(parts, " ")
}

func (m Model) renderFeedback() string {
	var b strings.Builder
	switch *m.verdict {
	case drill.Correct:
		b.WriteString(correctStyle.Render(fmt.Sprintf("Correct!  +%d XP", m.reward)))
	case drill.Incorrect:
		b.WriteString(incorrectStyle.Render("Not quite.") + dimStyle.Render(fmt.Sprintf("  +%d XP", m.reward)))
	}
	if m.mastered != "" {
		b.WriteString("\n" + correctStyle.Render("Pattern mastered! It will come up less often now."))
	}
	if m.advisory != "" {
		b.WriteString("\n" + hintStyle.Render(m.advisory))
	}
	b.WriteString("\n" + hintStyle.Render("n next now, or wait"))
	return b.String()
}

func (m Model) renderFooter() string {
	hints := []string{
		"1-3 fill", "←→ move", "⌫ clear", "enter check",
		"p play", "h hint", "t tempo", "n next", "q quit",
	}
	return footerStyle.Width(m.width).Render(strings.Join(hints, "  •  "))
}
