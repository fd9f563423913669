// Package tui is the interactive terminal client: a bubbletea program fed
// by the session's reconciliation loop and the gesture controller.
package tui

import (
	"context"
	"fmt"
	"time"

	"git.sr.ht/~jakintosh/requestline/internal/domain"
	"git.sr.ht/~jakintosh/requestline/internal/gesture"
	"git.sr.ht/~jakintosh/requestline/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// requestsMsg delivers the session's reconciled list to the program.
type requestsMsg []*domain.Request

// actionDoneMsg reports the outcome of a user-initiated mutation.
type actionDoneMsg struct {
	err error
}

type mode int

const (
	modeList mode = iota
	modeSubmit
)

// listTop is the viewport row of the first list item; mouse hit-testing
// and View must agree on it.
const listTop = 2

type Model struct {
	sess      *session.Session
	ctrl      *gesture.Controller
	submitter string

	requests []*domain.Request
	cursor   int
	mode     mode
	form     submitForm
	notice   string

	width  int
	height int
}

func newModel(sess *session.Session, submitter string) Model {
	return Model{
		sess: sess,
		// One cell of movement is a deliberate drag in a terminal.
		ctrl:      gesture.NewController(1),
		submitter: submitter,
		form:      newSubmitForm(),
	}
}

func (m Model) Init() tea.Cmd {
	return refreshCmd(m.sess)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case requestsMsg:
		m.requests = msg
		if m.cursor >= len(m.requests) {
			m.cursor = len(m.requests) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.notice = userMessage(msg.err)
		} else {
			m.notice = ""
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		if m.mode == modeSubmit {
			return m.updateSubmitKeys(msg)
		}
		return m.updateListKeys(msg)
	}

	return m, nil
}

func (m Model) updateListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.requests)-1 {
			m.cursor++
		}

	// Keyboard reordering goes through the same splice-and-submit path
	// as a mouse drag.
	case "shift+up", "K":
		if cmd := m.moveCursorItem(m.cursor - 1); cmd != nil {
			m.cursor--
			return m, cmd
		}

	case "shift+down", "J":
		if cmd := m.moveCursorItem(m.cursor + 1); cmd != nil {
			m.cursor++
			return m, cmd
		}

	case "t":
		if r := m.current(); r != nil {
			return m, actionCmd(func() error { return m.sess.Toggle(r.ID) })
		}

	case "c":
		if r := m.current(); r != nil {
			return m, actionCmd(func() error { return m.sess.Complete(r.ID) })
		}

	case "d":
		if r := m.current(); r != nil {
			return m, actionCmd(func() error { return m.sess.Delete(r.ID) })
		}

	case "n":
		m.mode = modeSubmit
		m.form.reset()

	case "r":
		return m, refreshCmd(m.sess)
	}

	return m, nil
}

func (m Model) updateSubmitKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil

	case "ctrl+c":
		return m, tea.Quit

	case "tab", "down":
		m.form.next()
		return m, nil

	case "shift+tab", "up":
		m.form.prev()
		return m, nil

	case "ctrl+p":
		m.form.priority = !m.form.priority
		return m, nil

	case "enter":
		input, ok := m.form.request(m.submitter)
		if !ok {
			return m, nil
		}
		if err := input.ValidateSubmission(time.Now()); err != nil {
			m.form.applyError(err)
			return m, nil
		}
		m.mode = modeList
		return m, actionCmd(func() error { return m.sess.Submit(input) })
	}

	return m, m.form.update(msg)
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeList {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		idx := m.rowAt(msg.Y)
		if idx >= 0 {
			m.cursor = idx
		}
		m.ctrl.Press(idx, msg.X, msg.Y)

	case tea.MouseActionMotion:
		m.ctrl.Move(msg.X, msg.Y, m.rowAt(msg.Y))

	case tea.MouseActionRelease:
		intent, ok := m.ctrl.Release(m.rowAt(msg.Y))
		if !ok {
			return m, nil
		}
		ids := gesture.Splice(m.ids(), intent.From, intent.To)
		m.cursor = intent.To
		return m, actionCmd(func() error { return m.sess.ApplyReorder(ids) })
	}

	return m, nil
}

// rowAt maps a viewport row to a list index, or -1 outside the list. Each
// item renders on exactly one line, so the mapping is a subtraction.
func (m Model) rowAt(y int) int {
	idx := y - listTop
	if idx < 0 || idx >= len(m.requests) {
		return -1
	}
	return idx
}

func (m Model) current() *domain.Request {
	if m.cursor < 0 || m.cursor >= len(m.requests) {
		return nil
	}
	return m.requests[m.cursor]
}

func (m Model) ids() []int64 {
	ids := make([]int64, len(m.requests))
	for i, r := range m.requests {
		ids[i] = r.ID
	}
	return ids
}

func (m Model) moveCursorItem(to int) tea.Cmd {
	if to < 0 || to >= len(m.requests) || m.cursor == to {
		return nil
	}
	ids := gesture.Splice(m.ids(), m.cursor, to)
	return actionCmd(func() error { return m.sess.ApplyReorder(ids) })
}

func actionCmd(op func() error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: op()}
	}
}

func refreshCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: sess.Refresh()}
	}
}

// Run starts the watch client against the given API, wiring the session's
// redraw callback into the program's message loop.
func Run(api session.API, submitter string, opts ...session.Option) error {
	var program *tea.Program

	opts = append(opts, session.WithOnChange(func(reqs []*domain.Request) {
		if program != nil {
			program.Send(requestsMsg(reqs))
		}
	}))
	sess := session.New(api, opts...)

	program = tea.NewProgram(
		newModel(sess, submitter),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sess.Start(ctx)
	defer sess.Stop()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("watch client failed: %w", err)
	}
	return nil
}
