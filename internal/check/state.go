// SPDX-License-Identifier: MPL-2.0

package check

// State is a lifecycle stage of one check. A check moves through
// Created, Staged, Mirrored and Reported, then ends Preserved or Cleaned.
// A failing check jumps straight to its terminal state.
type State int

const (
	StateCreated State = iota + 1
	StateStaged
	StateMirrored
	StateReported
	StatePreserved
	StateCleaned
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStaged:
		return "staged"
	case StateMirrored:
		return "mirrored"
	case StateReported:
		return "reported"
	case StatePreserved:
		return "preserved"
	case StateCleaned:
		return "cleaned"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether s ends a check.
func (s State) IsTerminal() bool { return s == StatePreserved || s == StateCleaned }
