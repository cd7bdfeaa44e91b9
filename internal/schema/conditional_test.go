package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateNilAndEmpty(t *testing.T) {
	var c *Conditional
	assert.True(t, c.Evaluate(nil))
	assert.True(t, (&Conditional{}).Evaluate(map[string]any{"x": 1}))
}

func TestEvaluateSingleComparison(t *testing.T) {
	c := &Conditional{Field: "layout", Value: "boxed", Condition: OpEqual}
	assert.True(t, c.Evaluate(map[string]any{"layout": "boxed"}))
	assert.False(t, c.Evaluate(map[string]any{"layout": "wide"}))
	assert.False(t, c.Evaluate(map[string]any{}))
}

func TestEvaluateNumericCoercion(t *testing.T) {
	c := &Conditional{Field: "count", Value: "5", Condition: OpEqual}
	assert.True(t, c.Evaluate(map[string]any{"count": 5}))
	assert.True(t, c.Evaluate(map[string]any{"count": float64(5)}))
	assert.True(t, c.Evaluate(map[string]any{"count": "5"}))

	gt := &Conditional{Field: "count", Value: 3, Condition: OpGreater}
	assert.True(t, gt.Evaluate(map[string]any{"count": "4"}))
	assert.False(t, gt.Evaluate(map[string]any{"count": 3}))
	assert.False(t, gt.Evaluate(map[string]any{"count": "not a number"}))
}

func TestEvaluateBoolCoercion(t *testing.T) {
	c := &Conditional{Field: "enabled", Value: true, Condition: OpEqual}
	assert.True(t, c.Evaluate(map[string]any{"enabled": true}))
	assert.True(t, c.Evaluate(map[string]any{"enabled": "1"}))
	assert.True(t, c.Evaluate(map[string]any{"enabled": "on"}))
	assert.False(t, c.Evaluate(map[string]any{"enabled": false}))
	assert.False(t, c.Evaluate(map[string]any{"enabled": "0"}))
}

func TestEvaluateInOperator(t *testing.T) {
	c := &Conditional{Field: "layout", Value: []any{"boxed", "wide"}, Condition: OpIn}
	assert.True(t, c.Evaluate(map[string]any{"layout": "wide"}))
	assert.False(t, c.Evaluate(map[string]any{"layout": "fluid"}))

	// numeric membership tolerates mixed representations
	n := &Conditional{Field: "cols", Value: []any{1, 2, 3}, Condition: OpIn}
	assert.True(t, n.Evaluate(map[string]any{"cols": "2"}))
	assert.True(t, n.Evaluate(map[string]any{"cols": float64(3)}))

	not := &Conditional{Field: "layout", Value: []string{"boxed"}, Condition: OpNotIn}
	assert.True(t, not.Evaluate(map[string]any{"layout": "wide"}))
	assert.False(t, not.Evaluate(map[string]any{"layout": "boxed"}))
}

func TestEvaluateContains(t *testing.T) {
	c := &Conditional{Field: "features", Value: "search", Condition: OpContains}
	assert.True(t, c.Evaluate(map[string]any{"features": []string{"search", "comments"}}))
	assert.False(t, c.Evaluate(map[string]any{"features": []string{"comments"}}))
	// string controller does substring matching
	assert.True(t, c.Evaluate(map[string]any{"features": "search,comments"}))
}

func TestEvaluateEmpty(t *testing.T) {
	c := &Conditional{Field: "logo", Condition: OpEmpty}
	assert.True(t, c.Evaluate(map[string]any{"logo": ""}))
	assert.True(t, c.Evaluate(map[string]any{"logo": "   "}))
	assert.True(t, c.Evaluate(map[string]any{}))
	assert.True(t, c.Evaluate(map[string]any{"logo": []string{}}))
	assert.False(t, c.Evaluate(map[string]any{"logo": "x.png"}))
	// booleans are never empty
	assert.False(t, c.Evaluate(map[string]any{"logo": false}))
}

func TestEvaluateAndOrNesting(t *testing.T) {
	c := &Conditional{
		And: []*Conditional{
			{Field: "a", Value: true, Condition: OpEqual},
			{
				Or: []*Conditional{
					{Field: "b", Value: "x", Condition: OpEqual},
					{Field: "c", Value: 1, Condition: OpGreaterOrEqual},
				},
			},
		},
	}
	assert.True(t, c.Evaluate(map[string]any{"a": true, "b": "x", "c": 0}))
	assert.True(t, c.Evaluate(map[string]any{"a": true, "b": "y", "c": 2}))
	assert.False(t, c.Evaluate(map[string]any{"a": false, "b": "x", "c": 2}))
	assert.False(t, c.Evaluate(map[string]any{"a": true, "b": "y", "c": 0}))
}

func TestConditionalJSONRoundTrip(t *testing.T) {
	raw := `{"AND":[{"field":"mode","value":"on","condition":"=="},{"OR":[{"field":"n","value":[1,2],"condition":"IN"}]}]}`
	var c Conditional
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	require.Len(t, c.And, 2)
	assert.True(t, c.Evaluate(map[string]any{"mode": "on", "n": 2}))
	assert.False(t, c.Evaluate(map[string]any{"mode": "off", "n": 2}))
}

func TestMatchUnknownOperator(t *testing.T) {
	assert.False(t, Match("a", Operator("LIKE"), "a"))
}
