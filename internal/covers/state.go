package covers

// CoverState describes which cover representations a track or album row
// carries. The inline blob and the path pointer drift independently, so each
// engine checks an explicit state instead of ad hoc null checks.
type CoverState int

const (
	StateNeither CoverState = iota
	StateInlineOnly
	StatePathOnly
	StateBoth
)

// StateOf derives the representation state from the two columns
func StateOf(hasInline, hasPath bool) CoverState {
	switch {
	case hasInline && hasPath:
		return StateBoth
	case hasInline:
		return StateInlineOnly
	case hasPath:
		return StatePathOnly
	default:
		return StateNeither
	}
}

// EligibleForMigration reports whether the row still has an inline payload to
// move out to a file
func (s CoverState) EligibleForMigration() bool {
	return s == StateInlineOnly || s == StateBoth
}

// EligibleForMerge reports whether the row carries a path pointer the merge
// engine can operate on
func (s CoverState) EligibleForMerge() bool {
	return s == StatePathOnly || s == StateBoth
}

func (s CoverState) String() string {
	switch s {
	case StateInlineOnly:
		return "inline-only"
	case StatePathOnly:
		return "path-only"
	case StateBoth:
		return "both"
	default:
		return "neither"
	}
}
