// Package gesture turns a stream of press/move/release events into reorder
// intents. Pointer and touch input are unified upstream: whatever produced
// the coordinates, the controller sees the same three events and runs the
// same state machine, so drag semantics are testable without a UI toolkit.
package gesture

// State of the drag machine.
type State int

const (
	// Idle: no gesture in progress.
	Idle State = iota
	// Pressed: contact began on a draggable item; not yet a drag.
	Pressed
	// Dragging: movement exceeded the threshold; source index captured.
	Dragging
)

// DefaultThreshold is how far (in either axis) the contact point must move
// before a press becomes a drag. Below it, the gesture is a click/tap.
const DefaultThreshold = 10

// Intent is a resolved drag: remove the item at From and re-insert it at
// To. Splice applies it to an id sequence.
type Intent struct {
	From int
	To   int
}

// Controller is the drag state machine for one list. It never mutates the
// list itself; it only reports where the caller should move which item.
type Controller struct {
	threshold int

	state  State
	startX int
	startY int
	source int
	target int
}

func NewController(threshold int) *Controller {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Controller{threshold: threshold, source: -1, target: -1}
}

func (c *Controller) State() State { return c.state }

// Source is the index the drag started from, or -1 outside a drag.
func (c *Controller) Source() int {
	if c.state != Dragging {
		return -1
	}
	return c.source
}

// Target is the prospective drop target under the contact point, or -1.
// It exists for visual feedback only; nothing moves until release.
func (c *Controller) Target() int {
	if c.state != Dragging {
		return -1
	}
	return c.target
}

// Press arms the machine. index is the draggable item under the contact
// point, already resolved by the caller to the nearest draggable ancestor;
// a press outside any draggable (index < 0) is ignored.
func (c *Controller) Press(index, x, y int) {
	if index < 0 {
		c.reset()
		return
	}
	c.state = Pressed
	c.startX = x
	c.startY = y
	c.source = index
	c.target = -1
}

// Move feeds contact movement. hover is the draggable item currently under
// the point, or -1. A pressed gesture promotes to dragging once movement
// exceeds the threshold in either axis.
func (c *Controller) Move(x, y, hover int) {
	switch c.state {
	case Pressed:
		dx := abs(x - c.startX)
		dy := abs(y - c.startY)
		if dx > c.threshold || dy > c.threshold {
			c.state = Dragging
			c.target = hover
		}
	case Dragging:
		c.target = hover
	}
}

// Release resolves the gesture. The intent is returned only when a drag
// was in progress and the final hover is a valid target distinct from the
// source; a drop on the dragged item itself, outside the list, or from a
// press that never became a drag is a no-op. The machine always returns
// to idle.
func (c *Controller) Release(hover int) (Intent, bool) {
	defer c.reset()

	if c.state != Dragging {
		return Intent{}, false
	}
	if hover < 0 || hover == c.source {
		return Intent{}, false
	}
	return Intent{From: c.source, To: hover}, true
}

// Cancel abandons any gesture in progress.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.state = Idle
	c.source = -1
	c.target = -1
}

// Splice returns a new sequence with the element at from removed and
// re-inserted at to. Remove-then-insert, not a swap: every element between
// the two indices shifts by one. Out-of-range indices return the input
// unchanged.
func Splice(ids []int64, from, to int) []int64 {
	if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) {
		return ids
	}
	out := make([]int64, 0, len(ids))
	out = append(out, ids[:from]...)
	out = append(out, ids[from+1:]...)
	moved := ids[from]
	out = append(out[:to], append([]int64{moved}, out[to:]...)...)
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
