// package edit implements the inline edit workflow for data cells.
//
// Each Cell owns the lifecycle of turning one display value into an editable
// input, submitting the edit, and reconciling with the server's authoritative
// response. A Sheet groups ordered cells and implements the tab navigation
// contract: a changed value is always saved before focus moves, and focus
// stays put when the save fails so input is never silently lost.
package edit

// CellState identifies where a cell is in its edit lifecycle.
type CellState int

const (
	// StateDisplay shows the last confirmed server value.
	StateDisplay CellState = iota
	// StateEditing accepts keystrokes into a pending value.
	StateEditing
	// StateSubmitting has one contribution in flight. No concurrent edits
	// or submissions are accepted until it resolves.
	StateSubmitting
)

// String returns the state name for logging and formatting.
func (s CellState) String() string {
	switch s {
	case StateDisplay:
		return "display"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// SubmitResult reports the outcome of one save attempt.
type SubmitResult struct {
	// Saved is true when the server accepted the value. Value then holds the
	// canonical stored value, which may differ from what was entered.
	Saved   bool
	Value   string
	Points  int
	Message string
	// Disambiguation is non-nil when a monetary value needs magnitude
	// confirmation before anything is sent. The cell stays in Editing.
	Disambiguation *Disambiguation
}
