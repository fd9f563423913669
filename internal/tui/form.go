package tui

import (
	"errors"
	"strconv"
	"strings"

	"git.sr.ht/~jakintosh/requestline/internal/domain"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldText = iota
	fieldYear
	fieldType
	fieldCount
)

// submitForm collects a new request. Validation runs locally before any
// network call; errors render inline next to the offending field.
type submitForm struct {
	inputs   [fieldCount]textinput.Model
	focus    int
	priority bool
	errors   [fieldCount]string
}

func newSubmitForm() submitForm {
	f := submitForm{}

	text := textinput.New()
	text.Placeholder = "What are you requesting?"
	text.CharLimit = 500
	text.Focus()
	f.inputs[fieldText] = text

	year := textinput.New()
	year.Placeholder = "Year"
	year.CharLimit = 4
	f.inputs[fieldYear] = year

	typ := textinput.New()
	typ.Placeholder = "Type (movie, show, music, ...)"
	typ.CharLimit = 40
	f.inputs[fieldType] = typ

	return f
}

func (f *submitForm) next() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f *submitForm) prev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus - 1 + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f *submitForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *submitForm) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
		f.errors[i] = ""
	}
	f.priority = false
	f.focus = fieldText
	f.inputs[fieldText].Focus()
}

func (f *submitForm) clearErrors() {
	for i := range f.errors {
		f.errors[i] = ""
	}
}

// request builds the NewRequest from the form fields. A non-numeric year
// becomes a field error before domain validation ever sees it.
func (f *submitForm) request(submittedBy string) (domain.NewRequest, bool) {
	f.clearErrors()

	input := domain.NewRequest{
		Text:        strings.TrimSpace(f.inputs[fieldText].Value()),
		SubmittedBy: submittedBy,
		Priority:    f.priority,
		Type:        strings.TrimSpace(f.inputs[fieldType].Value()),
	}

	yearText := strings.TrimSpace(f.inputs[fieldYear].Value())
	if yearText != "" {
		year, err := strconv.Atoi(yearText)
		if err != nil {
			f.errors[fieldYear] = "must be a number"
			return domain.NewRequest{}, false
		}
		input.Year = year
	}

	return input, true
}

// applyError routes a validation failure to its field.
func (f *submitForm) applyError(err error) {
	var validation domain.ValidationError
	if !errors.As(err, &validation) {
		return
	}
	switch validation.Field {
	case "text":
		f.errors[fieldText] = validation.Msg
	case "year":
		f.errors[fieldYear] = validation.Msg
	case "type":
		f.errors[fieldType] = validation.Msg
	}
}
