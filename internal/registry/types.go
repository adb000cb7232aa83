// Package registry provides the keyword tables consulted by the context engine:
// which trigger and effect keywords switch the current object type, and which
// link keywords may appear in a dotted scope chain.
package registry

// ObjectType names the kind of in-game entity a scope currently refers to
// (character, landed_title, faith, ...). The vocabulary comes from the loaded
// tables; the engine treats values as opaque tags.
type ObjectType string

const (
	// Indeterminate marks a scope whose type cannot be known without
	// evaluating earlier script state, e.g. after a saved scope reference.
	Indeterminate ObjectType = "indeterminate"

	// Character is the root type of character-centric documents and the
	// default root type of the server.
	Character ObjectType = "character"
)

// String returns the type name.
func (t ObjectType) String() string {
	return string(t)
}

// Entry describes one keyword.
type Entry struct {
	// Output is the object type the keyword switches to. Empty means the
	// keyword does not change scope.
	Output ObjectType `yaml:"output,omitempty"`

	// Scopes lists the object types the keyword may be used in. Empty means any.
	Scopes []ObjectType `yaml:"scopes,omitempty"`

	Description string `yaml:"description,omitempty"`
}

// ChangesScope reports whether the keyword switches the current object type.
func (e Entry) ChangesScope() bool {
	return e.Output != ""
}

// ValidIn reports whether the keyword may be used while the current object
// type is t. An indeterminate scope accepts everything.
func (e Entry) ValidIn(t ObjectType) bool {
	if len(e.Scopes) == 0 || t == Indeterminate || t == "" {
		return true
	}

	for _, s := range e.Scopes {
		if s == t {
			return true
		}
	}

	return false
}

// Kind identifies which table an entry came from.
type Kind int

const (
	KindTrigger Kind = iota
	KindEffect
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindTrigger:
		return "trigger"
	case KindEffect:
		return "effect"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}
