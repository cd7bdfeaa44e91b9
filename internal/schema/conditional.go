package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Operator is a comparison operator usable in a Conditional.
type Operator string

const (
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
	OpGreater        Operator = ">"
	OpLess           Operator = "<"
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
	OpIn             Operator = "IN"
	OpNotIn          Operator = "NOT_IN"
	OpContains       Operator = "CONTAINS"
	OpNotContains    Operator = "NOT_CONTAINS"
	OpEmpty          Operator = "EMPTY"
	OpNotEmpty       Operator = "NOT_EMPTY"
)

// Conditional is a predicate over sibling field values controlling visibility.
// Either Field/Value/Condition is set (a single comparison), or exactly one of
// And/Or lists sub-conditions. The JSON form is shared verbatim with the
// client-side evaluator, so both sides walk the same model.
type Conditional struct {
	Field     string   `json:"field,omitempty"`
	Value     any      `json:"value,omitempty"`
	Condition Operator `json:"condition,omitempty"`

	And []*Conditional `json:"AND,omitempty"`
	Or  []*Conditional `json:"OR,omitempty"`
}

// Evaluate walks the AND/OR tree against the given sibling values. An empty
// conditional evaluates to true (field always visible).
func (c *Conditional) Evaluate(values map[string]any) bool {
	if c == nil {
		return true
	}
	if len(c.And) > 0 {
		for _, sub := range c.And {
			if !sub.Evaluate(values) {
				return false
			}
		}
		return true
	}
	if len(c.Or) > 0 {
		for _, sub := range c.Or {
			if sub.Evaluate(values) {
				return true
			}
		}
		return false
	}
	if c.Field == "" {
		return true
	}
	return Match(values[c.Field], c.Condition, c.Value)
}

// Match applies a single comparison of a controller field's current value
// against the expected value. The semantics here must stay in lockstep with
// the client-side evaluator.
func Match(controller any, op Operator, expected any) bool {
	switch op {
	case OpEqual:
		return looseEqual(controller, expected)
	case OpNotEqual:
		return !looseEqual(controller, expected)
	case OpGreater, OpLess, OpGreaterOrEqual, OpLessOrEqual:
		a, aok := toFloat(controller)
		b, bok := toFloat(expected)
		if !aok || !bok {
			return false
		}
		switch op {
		case OpGreater:
			return a > b
		case OpLess:
			return a < b
		case OpGreaterOrEqual:
			return a >= b
		default:
			return a <= b
		}
	case OpIn:
		return inList(controller, expected)
	case OpNotIn:
		return !inList(controller, expected)
	case OpContains:
		return contains(controller, expected)
	case OpNotContains:
		return !contains(controller, expected)
	case OpEmpty:
		return IsEmpty(controller)
	case OpNotEmpty:
		return !IsEmpty(controller)
	}
	return false
}

// IsEmpty reports whether a value counts as empty: nil, blank/whitespace
// string, or empty list. Booleans are never empty.
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case bool:
		return false
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

func looseEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	if ab, aok := a.(bool); aok {
		return ab == toBool(b)
	}
	if bb, bok := b.(bool); bok {
		return toBool(a) == bb
	}
	return stringify(a) == stringify(b)
}

func inList(controller, expected any) bool {
	for _, item := range toSlice(expected) {
		if looseEqual(controller, item) {
			return true
		}
	}
	return false
}

// contains: list controller must contain the expected element; string
// controller must contain the expected substring.
func contains(controller, expected any) bool {
	switch val := controller.(type) {
	case []any:
		for _, item := range val {
			if looseEqual(item, expected) {
				return true
			}
		}
		return false
	case []string:
		for _, item := range val {
			if looseEqual(item, expected) {
				return true
			}
		}
		return false
	case string:
		return strings.Contains(val, stringify(expected))
	}
	return false
}

func toSlice(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case []int:
		out := make([]any, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out
	case nil:
		return nil
	}
	return []any{v}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	}
	return 0, false
}

func toBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s == "1" || s == "true" || s == "on" || s == "yes"
	case float64:
		return val != 0
	case int:
		return val != 0
	}
	return false
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "true"
		}
		return "false"
	}
	return fmt.Sprintf("%v", v)
}
