package tui

import (
	"errors"
	"fmt"
	"strings"

	"git.sr.ht/~jakintosh/requestline/internal/client"
	"git.sr.ht/~jakintosh/requestline/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	priorityStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	completedStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	progressStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	metaStyle      = lipgloss.NewStyle().Faint(true)
	draggingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	targetStyle    = lipgloss.NewStyle().Underline(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle      = lipgloss.NewStyle().Faint(true)
)

func statusGlyph(s domain.Status) string {
	switch s {
	case domain.StatusInProgress:
		return progressStyle.Render("◐")
	case domain.StatusCompleted:
		return "●"
	default:
		return "○"
	}
}

func (m Model) View() string {
	if m.mode == modeSubmit {
		return m.submitView()
	}
	return m.listView()
}

func (m Model) listView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Requests"))
	b.WriteString("\n\n")

	if len(m.requests) == 0 {
		b.WriteString(metaStyle.Render("No requests yet. Press n to add one."))
		b.WriteString("\n")
	}

	for i, r := range m.requests {
		b.WriteString(m.renderItem(i, r))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(
		"drag or J/K reorder · t toggle · c complete · d delete · n new · r refresh · q quit"))
	return b.String()
}

// renderItem draws one request on exactly one line (rowAt depends on it).
func (m Model) renderItem(i int, r *domain.Request) string {
	marker := " "
	if i == m.cursor {
		marker = cursorStyle.Render(">")
	}

	flag := " "
	if r.Priority {
		flag = priorityStyle.Render("!")
	}

	meta := ""
	if r.Year != 0 || r.Type != "" {
		parts := []string{}
		if r.Year != 0 {
			parts = append(parts, fmt.Sprintf("%d", r.Year))
		}
		if r.Type != "" {
			parts = append(parts, r.Type)
		}
		meta = metaStyle.Render(" (" + strings.Join(parts, " · ") + ")")
	}

	text := r.Text
	if r.Status == domain.StatusCompleted {
		text = completedStyle.Render(text)
	}

	line := fmt.Sprintf("%s %s %s %s%s %s",
		marker,
		statusGlyph(r.Status),
		flag,
		text,
		meta,
		metaStyle.Render("· "+r.SubmittedBy),
	)

	switch i {
	case m.ctrl.Source():
		return draggingStyle.Render(stripANSI(line))
	case m.ctrl.Target():
		return targetStyle.Render(stripANSI(line))
	}
	return line
}

func (m Model) submitView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("New request"))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Request", "Year", "Type"}
	for i := range m.form.inputs {
		b.WriteString(labels[i])
		b.WriteString("\n")
		b.WriteString(m.form.inputs[i].View())
		b.WriteString("\n")
		if m.form.errors[i] != "" {
			b.WriteString(errorStyle.Render(m.form.errors[i]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	check := "[ ]"
	if m.form.priority {
		check = priorityStyle.Render("[!]")
	}
	b.WriteString(fmt.Sprintf("%s priority (ctrl+p)\n\n", check))

	b.WriteString(helpStyle.Render("enter submit · tab next field · esc cancel"))
	return b.String()
}

// stripANSI drops per-segment styling so a whole-line drag highlight wins.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// userMessage translates an error into the short notice shown in the
// footer. Stale ids get the generic retry prompt; transport failures get a
// transient wording; everything else surfaces its own message.
func userMessage(err error) string {
	var transient client.TransientError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "That request is gone; the list has been refreshed."
	case errors.As(err, &transient):
		return "Couldn't reach the server. Please try again."
	default:
		return err.Error()
	}
}
