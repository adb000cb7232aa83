package analysis

// weightBlocks open scored or arithmetic sub-expressions.
var weightBlocks = map[string]bool{
	"ai_will_do":        true,
	"ai_chance":         true,
	"ai_value":          true,
	"weight":            true,
	"weight_multiplier": true,
	"chance":            true,
	"value":             true,
	"add":               true,
	"subtract":          true,
	"multiply":          true,
	"divide":            true,
	"factor":            true,
	"min":               true,
	"max":               true,
	"modifier":          true,
	"compare_modifier":  true,
	"opinion_modifier":  true,
	"first_valid":       true,
}

// conditionBlocks open boolean checks. "modifier" is also a weight block; see
// Classify for how the two readings are told apart.
var conditionBlocks = map[string]bool{
	"trigger":                         true,
	"limit":                           true,
	"alternative_limit":               true,
	"modifier":                        true,
	"potential":                       true,
	"is_shown":                        true,
	"is_valid":                        true,
	"is_valid_showing_failures_only":  true,
	"can_start":                       true,
	"can_start_showing_failures_only": true,
	"can_pick":                        true,
	"is_highlighted":                  true,
	"allow":                           true,
	"ai_potential":                    true,
	"trigger_if":                      true,
	"trigger_else_if":                 true,
	"trigger_else":                    true,
	"AND":                             true,
	"OR":                              true,
	"NOT":                             true,
	"NOR":                             true,
	"NAND":                            true,
}

// actionBlocks open effect lists. Control flow such as if/else and while is
// not listed: it takes the mode of the block it appears in.
var actionBlocks = map[string]bool{
	"immediate":       true,
	"effect":          true,
	"after":           true,
	"option":          true,
	"hidden_effect":   true,
	"show_as_tooltip": true,
	"random":          true,
	"random_list":     true,
	"on_accept":       true,
	"on_decline":      true,
	"on_start":        true,
	"on_complete":     true,
	"on_success":      true,
	"on_failure":      true,
	"on_invalidated":  true,
}

// paramBlock is a block that opens condition mode and accepts extra named
// parameters besides triggers.
type paramBlock struct {
	// context is the parent mode the block is recognized in; anyContext
	// accepts every parent mode.
	context    Mode
	anyContext bool
	params     []string
}

var paramBlocks = map[string]paramBlock{
	"opinion":                           {context: ModeCondition, params: []string{"target", "value"}},
	"reverse_opinion":                   {context: ModeCondition, params: []string{"target", "value"}},
	"has_opinion_modifier":              {context: ModeCondition, params: []string{"target", "modifier", "value"}},
	"has_relation_flag":                 {context: ModeCondition, params: []string{"target", "relation", "flag"}},
	"time_of_year":                      {context: ModeCondition, params: []string{"min", "max"}},
	"calc_true_if":                      {context: ModeCondition, params: []string{"amount"}},
	"is_target_in_variable_list":        {context: ModeCondition, params: []string{"name", "target"}},
	"is_target_in_global_variable_list": {context: ModeCondition, params: []string{"name", "target"}},
	"custom_tooltip":                    {context: ModeCondition, params: []string{"text", "subject"}},
	"custom_description":                {anyContext: true, params: []string{"text", "subject", "object", "value"}},
}

// Classify decides the mode of a block from its name, the operator that opened
// it and the mode of its parent. Rules apply in order:
//
//  1. a comparison operator always opens a weight expression;
//  2. the soft-scope operator ?= keeps a condition or action parent mode and
//     is unknown otherwise;
//  3. weight block names are weight, except that names which are also
//     condition blocks ("modifier") are weight only under a weight parent;
//  4. condition block names are condition;
//  5. action block names are action;
//  6. parameterized condition blocks are condition where their context allows;
//  7. saved-scope references and all remaining names inherit the parent mode.
func Classify(name string, op Operator, parent Mode) Mode {
	if op.IsComparison() {
		return ModeWeight
	}

	if op == OpSoftAssign {
		if parent == ModeCondition || parent == ModeAction {
			return parent
		}

		return ModeUnknown
	}

	if weightBlocks[name] && (!conditionBlocks[name] || parent == ModeWeight) {
		return ModeWeight
	}

	if conditionBlocks[name] {
		return ModeCondition
	}

	if actionBlocks[name] {
		return ModeAction
	}

	if pb, ok := paramBlocks[name]; ok && (pb.anyContext || pb.context == parent) {
		return ModeCondition
	}

	return parent
}

// BlockParameters returns the extra parameter names accepted inside a
// parameterized condition block, or nil.
func BlockParameters(name string) []string {
	pb, ok := paramBlocks[name]
	if !ok {
		return nil
	}

	return append([]string(nil), pb.params...)
}

// WeightBlockNames returns the weight block names, for completion.
func WeightBlockNames() []string {
	return sortedKeys(weightBlocks)
}
