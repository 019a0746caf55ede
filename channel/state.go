package channel

// State of the handoff slot.
type State int

const (
	Empty = State(0) // No value deposited; Take waits.
	Full  = State(1) // A value is waiting; Put waits.
)

func (s State) String() string {
	switch s {
	case Empty:
		return "EMPTY"
	case Full:
		return "FULL"
	}
	return f("State(%d)", int(s))
}

// Stats counts handoff operations since construction.
type Stats struct {
	Puts      uint64 // Completed deposits.
	Takes     uint64 // Completed withdrawals.
	PutWaits  uint64 // Put calls that found the slot full and had to wait.
	TakeWaits uint64 // Take calls that found the slot empty and had to wait.
}
