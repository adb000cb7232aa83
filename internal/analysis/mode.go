// Package analysis resolves, for any cursor position in a possibly incomplete
// script document, the enclosing block path, the semantic mode of the block
// and the object type currently in scope. It works directly on line text and
// never builds a syntax tree, so it degrades gracefully while the user types.
//
// Every function in this package is a pure computation over its arguments;
// nothing is cached between calls, so concurrent use is safe.
package analysis

// Mode is the semantic interpretation of a block.
type Mode int

const (
	// ModeUnknown is used when no interpretation can be derived.
	ModeUnknown Mode = iota

	// ModeCondition blocks hold boolean checks (triggers).
	ModeCondition

	// ModeAction blocks hold state-changing commands (effects).
	ModeAction

	// ModeWeight blocks hold numeric scoring expressions.
	ModeWeight
)

func (m Mode) String() string {
	switch m {
	case ModeCondition:
		return "condition"
	case ModeAction:
		return "action"
	case ModeWeight:
		return "weight"
	default:
		return "unknown"
	}
}

// parseMode is the inverse of Mode.String. Unrecognized names yield ModeUnknown.
func parseMode(s string) Mode {
	switch s {
	case "condition":
		return ModeCondition
	case "action":
		return ModeAction
	case "weight":
		return ModeWeight
	default:
		return ModeUnknown
	}
}

// Operator is the operator between a block name and its opening brace.
type Operator string

const (
	OpAssign       Operator = "="
	OpSoftAssign   Operator = "?="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
)

// IsComparison reports whether op compares rather than assigns.
func (op Operator) IsComparison() bool {
	switch op {
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
		return true
	default:
		return false
	}
}
