package tui

import (
	"sync"
	"testing"
	"time"

	"git.sr.ht/~jakintosh/requestline/internal/domain"
	"git.sr.ht/~jakintosh/requestline/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records mutations and serves a fixed list, enough to run the
// session underneath the model without a server.
type fakeAPI struct {
	mu       sync.Mutex
	list     []*domain.Request
	reorders [][]int64
}

func (f *fakeAPI) List() ([]*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Request, len(f.list))
	for i, r := range f.list {
		out[i] = r.Clone()
	}
	return out, nil
}

func (f *fakeAPI) Create(domain.NewRequest) (int64, error) { return 1, nil }
func (f *fakeAPI) SetStatus(int64, domain.Status) error    { return nil }
func (f *fakeAPI) Delete(int64) error                      { return nil }

func (f *fakeAPI) Reorder(ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reorders = append(f.reorders, ids)
	return nil
}

func (f *fakeAPI) lastReorder() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reorders) == 0 {
		return nil
	}
	return f.reorders[len(f.reorders)-1]
}

func testRequests(ids ...int64) []*domain.Request {
	out := make([]*domain.Request, len(ids))
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range ids {
		out[i] = &domain.Request{
			ID:          id,
			Text:        "r",
			SubmittedBy: "t",
			SubmittedAt: base.Add(time.Duration(id) * time.Second),
			Status:      domain.StatusPending,
		}
	}
	return out
}

func testModel(api *fakeAPI) Model {
	m := newModel(session.New(api), "tester")
	m.requests = api.list
	return m
}

func TestRowAtMapsViewportToIndex(t *testing.T) {
	m := testModel(&fakeAPI{list: testRequests(1, 2, 3)})

	assert.Equal(t, -1, m.rowAt(listTop-1))
	assert.Equal(t, 0, m.rowAt(listTop))
	assert.Equal(t, 2, m.rowAt(listTop+2))
	assert.Equal(t, -1, m.rowAt(listTop+3))
}

func TestMouseDragSubmitsSplicedOrder(t *testing.T) {
	api := &fakeAPI{list: testRequests(10, 20, 30)}
	m := testModel(api)

	press := tea.MouseMsg{X: 3, Y: listTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	next, cmd := m.Update(press)
	m = next.(Model)
	require.Nil(t, cmd)

	motion := tea.MouseMsg{X: 3, Y: listTop + 2, Action: tea.MouseActionMotion}
	next, _ = m.Update(motion)
	m = next.(Model)

	release := tea.MouseMsg{X: 3, Y: listTop + 2, Action: tea.MouseActionRelease}
	next, cmd = m.Update(release)
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, 2, m.cursor, "the cursor follows the dragged item")

	cmd()
	assert.Equal(t, []int64{20, 30, 10}, api.lastReorder())
}

func TestTapSelectsWithoutReordering(t *testing.T) {
	api := &fakeAPI{list: testRequests(10, 20, 30)}
	m := testModel(api)

	press := tea.MouseMsg{X: 3, Y: listTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	next, _ := m.Update(press)
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)

	release := tea.MouseMsg{X: 3, Y: listTop + 1, Action: tea.MouseActionRelease}
	next, cmd := m.Update(release)
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Empty(t, api.lastReorder())
}

func TestKeyboardReorderMovesCursorWithItem(t *testing.T) {
	api := &fakeAPI{list: testRequests(10, 20, 30)}
	m := testModel(api)
	m.cursor = 0

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("J")})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.cursor)

	cmd()
	assert.Equal(t, []int64{20, 10, 30}, api.lastReorder())
}

func TestKeyboardReorderAtEdgeIsNoOp(t *testing.T) {
	api := &fakeAPI{list: testRequests(10, 20)}
	m := testModel(api)
	m.cursor = 0

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("K")})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.cursor)
}

func TestRequestsMsgClampsCursor(t *testing.T) {
	api := &fakeAPI{list: testRequests(10, 20, 30)}
	m := testModel(api)
	m.cursor = 2

	next, _ := m.Update(requestsMsg(testRequests(10)))
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)

	next, _ = m.Update(requestsMsg(nil))
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestFormRequestParsesFields(t *testing.T) {
	f := newSubmitForm()
	f.inputs[fieldText].SetValue("  The Thing  ")
	f.inputs[fieldYear].SetValue("1982")
	f.inputs[fieldType].SetValue("movie")
	f.priority = true

	input, ok := f.request("carpenter")
	require.True(t, ok)
	assert.Equal(t, "The Thing", input.Text)
	assert.Equal(t, "carpenter", input.SubmittedBy)
	assert.Equal(t, 1982, input.Year)
	assert.Equal(t, "movie", input.Type)
	assert.True(t, input.Priority)
}

func TestFormRejectsNonNumericYear(t *testing.T) {
	f := newSubmitForm()
	f.inputs[fieldText].SetValue("something")
	f.inputs[fieldYear].SetValue("last year")

	_, ok := f.request("tester")
	require.False(t, ok)
	assert.Equal(t, "must be a number", f.errors[fieldYear])
}

func TestFormAppliesValidationErrorToField(t *testing.T) {
	f := newSubmitForm()
	f.applyError(domain.ValidationError{Field: "year", Msg: "must be 1900 or later"})
	assert.Equal(t, "must be 1900 or later", f.errors[fieldYear])
	assert.Empty(t, f.errors[fieldText])
}
