package sim

// Intent is an abstract player action, independent of the physical key.
type Intent uint8

const (
	IntentNone Intent = iota
	IntentUp
	IntentDown
	IntentLeft
	IntentRight
	IntentTogglePause
	IntentRestart
)

// Direction maps a directional intent to its grid step.
// ok is false for commands and IntentNone.
func (i Intent) Direction() (d Direction, ok bool) {
	switch i {
	case IntentUp:
		return Up, true
	case IntentDown:
		return Down, true
	case IntentLeft:
		return Left, true
	case IntentRight:
		return Right, true
	default:
		return Direction{}, false
	}
}

func (i Intent) String() string {
	switch i {
	case IntentUp:
		return "up"
	case IntentDown:
		return "down"
	case IntentLeft:
		return "left"
	case IntentRight:
		return "right"
	case IntentTogglePause:
		return "toggle-pause"
	case IntentRestart:
		return "restart"
	default:
		return "none"
	}
}

// IntentFor returns the directional intent for d.
func IntentFor(d Direction) Intent {
	switch d {
	case Up:
		return IntentUp
	case Down:
		return IntentDown
	case Left:
		return IntentLeft
	case Right:
		return IntentRight
	default:
		return IntentNone
	}
}

// InputBuffer holds at most one pending direction change.
//
// A direction is accepted only while the slot is empty and only if it does
// not reverse the direction currently in effect, so a burst of key presses
// inside one tick cannot thread the snake through a double turn into its neck.
type InputBuffer struct {
	pending Direction
	full    bool
}

// Offer tries to buffer d given the active direction. Rejected offers are
// dropped without error. Returns whether d was accepted.
func (b *InputBuffer) Offer(d, active Direction) bool {
	if b.full || d.IsReverseOf(active) {
		return false
	}
	b.pending = d
	b.full = true
	return true
}

// Consume applies the pending direction, if any, to active and clears the slot.
func (b *InputBuffer) Consume(active Direction) Direction {
	if !b.full {
		return active
	}
	b.full = false
	return b.pending
}

// Pending returns the buffered direction and whether one is present.
func (b *InputBuffer) Pending() (Direction, bool) {
	return b.pending, b.full
}

// Reset empties the slot.
func (b *InputBuffer) Reset() {
	*b = InputBuffer{}
}
