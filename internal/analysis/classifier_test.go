package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		op       Operator
		parent   Mode
		expected Mode
	}{
		{name: "comparison opens weight", block: "anything", op: OpGreater, parent: ModeUnknown, expected: ModeWeight},
		{name: "comparison beats condition name", block: "trigger", op: OpGreaterEqual, parent: ModeAction, expected: ModeWeight},
		{name: "less-equal", block: "x", op: OpLessEqual, parent: ModeCondition, expected: ModeWeight},
		{name: "soft scope keeps condition", block: "scope:target", op: OpSoftAssign, parent: ModeCondition, expected: ModeCondition},
		{name: "soft scope keeps action", block: "liege", op: OpSoftAssign, parent: ModeAction, expected: ModeAction},
		{name: "soft scope under weight", block: "liege", op: OpSoftAssign, parent: ModeWeight, expected: ModeUnknown},
		{name: "soft scope beats block name", block: "immediate", op: OpSoftAssign, parent: ModeUnknown, expected: ModeUnknown},
		{name: "weight block", block: "ai_will_do", op: OpAssign, parent: ModeUnknown, expected: ModeWeight},
		{name: "arithmetic block", block: "multiply", op: OpAssign, parent: ModeAction, expected: ModeWeight},
		{name: "condition block", block: "trigger", op: OpAssign, parent: ModeUnknown, expected: ModeCondition},
		{name: "limit inside action", block: "limit", op: OpAssign, parent: ModeAction, expected: ModeCondition},
		{name: "boolean combinator", block: "OR", op: OpAssign, parent: ModeWeight, expected: ModeCondition},
		{name: "action block", block: "immediate", op: OpAssign, parent: ModeUnknown, expected: ModeAction},
		{name: "option block", block: "option", op: OpAssign, parent: ModeUnknown, expected: ModeAction},
		{name: "param block in its context", block: "opinion", op: OpAssign, parent: ModeCondition, expected: ModeCondition},
		{name: "param block outside its context", block: "opinion", op: OpAssign, parent: ModeAction, expected: ModeAction},
		{name: "param block with any context", block: "custom_description", op: OpAssign, parent: ModeAction, expected: ModeCondition},
		{name: "reference inherits", block: "scope:actor", op: OpAssign, parent: ModeAction, expected: ModeAction},
		{name: "reference under unknown", block: "scope:actor", op: OpAssign, parent: ModeUnknown, expected: ModeUnknown},
		{name: "control flow inherits weight", block: "if", op: OpAssign, parent: ModeWeight, expected: ModeWeight},
		{name: "iterator inherits action", block: "every_vassal", op: OpAssign, parent: ModeAction, expected: ModeAction},
		{name: "unknown stays unknown", block: "some_block", op: OpAssign, parent: ModeUnknown, expected: ModeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.block, tt.op, tt.parent))
		})
	}
}

// A name in both the weight and condition sets is decided by whether the
// parent is a weight block, and by nothing else.
func TestClassify_OverloadedNameFollowsParent(t *testing.T) {
	for name := range weightBlocks {
		if !conditionBlocks[name] {
			continue
		}

		for _, parent := range []Mode{ModeUnknown, ModeCondition, ModeAction, ModeWeight} {
			got := Classify(name, OpAssign, parent)
			if parent == ModeWeight {
				assert.Equal(t, ModeWeight, got, "%s under %s", name, parent)
			} else {
				assert.Equal(t, ModeCondition, got, "%s under %s", name, parent)
			}
		}
	}

	assert.True(t, weightBlocks["modifier"] && conditionBlocks["modifier"])
}

func TestBlockParameters(t *testing.T) {
	assert.Equal(t, []string{"target", "value"}, BlockParameters("opinion"))
	assert.Nil(t, BlockParameters("trigger"))

	params := BlockParameters("opinion")
	params[0] = "changed"
	assert.Equal(t, "target", BlockParameters("opinion")[0])
}

func TestModeStrings(t *testing.T) {
	for _, m := range []Mode{ModeUnknown, ModeCondition, ModeAction, ModeWeight} {
		assert.Equal(t, m, parseMode(m.String()))
	}

	assert.Equal(t, ModeUnknown, parseMode("bogus"))
}
