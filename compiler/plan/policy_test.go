package plan_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fluentgen/compiler/plan"
	"github.com/syssam/fluentgen/schema"
)

func TestFlattenable(t *testing.T) {
	inner := schema.NewStruct("Inner", schema.NewField("v", schema.String()))
	tests := []struct {
		name string
		st   *schema.Struct
		want bool
	}{
		{"scalars", schema.NewStruct("Time", schema.NewField("from", schema.String())), true},
		{"scalar array", schema.NewStruct("Tags", schema.NewField("values", schema.ArrayOf(schema.String()))), true},
		{"nil", nil, false},
		{"empty", schema.NewStruct("Empty"), false},
		{"struct field", schema.NewStruct("Outer", schema.NewField("inner", schema.Ref(inner))), false},
		{"struct array", schema.NewStruct("Outer", schema.NewField("inner", schema.ArrayOf(schema.Ref(inner)))), false},
		{"unresolved", schema.NewStruct("Outer", schema.NewField("x", schema.Unresolved("X"))), false},
		{
			"constraints",
			&schema.Struct{
				Name:        "Range",
				Fields:      []*schema.Field{schema.NewField("min", schema.Int64()), schema.NewField("max", schema.Int64())},
				Constraints: []schema.Constraint{{Fields: []string{"min", "max"}, Rule: "min <= max"}},
			},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plan.Flattenable(tt.st))
		})
	}
}

func TestDelegateAll(t *testing.T) {
	_, dash := dashboard()
	p, err := plan.NewCompiler(plan.DelegateAll{}).Compile(dash)
	require.NoError(t, err)
	assert.False(t, p.Has(plan.FlattenNestedFields))
	assert.True(t, p.Has(plan.DelegateToNestedBuilder))
	assert.Equal(t, plan.DirectAssign, p.Operations[0].Kind)
}

func TestOverrides(t *testing.T) {
	_, dash := dashboard()
	policy := plan.NewOverrides(nil).
		Delegate("Dashboard.singleLink").
		Flatten("Dashboard.refresh", "valString")
	assert.Equal(t, 2, policy.Len())

	p, err := plan.NewCompiler(policy).Compile(dash)
	require.NoError(t, err)

	single := p.Operations[4]
	assert.Equal(t, plan.DelegateToNestedBuilder, single.Kind)

	refresh := p.Operations[6]
	require.Equal(t, plan.FlattenNestedFields, refresh.Kind)
	assert.Equal(t, []string{"valString"}, refresh.SubFieldNames())
	assert.True(t, refresh.Partial())

	// Fields without a rule follow the fallback.
	assert.Equal(t, plan.FlattenNestedFields, p.Operations[2].Kind)
}

func TestOverridesLastRuleWins(t *testing.T) {
	_, dash := dashboard()
	policy := plan.NewOverrides(plan.DelegateAll{}).
		Delegate("Dashboard.time").
		Flatten("Dashboard.time")
	p, err := plan.NewCompiler(policy).Compile(dash)
	require.NoError(t, err)
	assert.Equal(t, plan.FlattenNestedFields, p.Operations[2].Kind)
	assert.Equal(t, plan.DelegateToNestedBuilder, p.Operations[6].Kind)
}

func TestOverridesSubFieldOrder(t *testing.T) {
	_, dash := dashboard()
	policy := plan.NewOverrides(nil).Flatten("Dashboard.time", "to", "from")
	p, err := plan.NewCompiler(policy).Compile(dash)
	require.NoError(t, err)
	assert.Equal(t, []string{"from", "to"}, p.Operations[2].SubFieldNames())
}

func TestOverridesUnknownSubField(t *testing.T) {
	_, dash := dashboard()
	policy := plan.NewOverrides(nil).Flatten("Dashboard.time", "until")
	p, err := plan.NewCompiler(policy).Compile(dash)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, plan.ErrInvalidDecision)
	assert.Contains(t, err.Error(), `struct Time has no field "until"`)
	assert.False(t, schema.IsError(err))
}

func TestOverridesFlattenChecksSubFields(t *testing.T) {
	source := schema.NewStruct("Source",
		schema.NewField("uid", schema.String()),
		schema.NewField("ref", schema.Unresolved("DataSourceRef")),
	)
	weights := schema.NewStruct("Weights",
		schema.NewField("byRatio", schema.MapOf(schema.Float64(), schema.String())),
	)
	panel := schema.NewStruct("Panel",
		schema.NewField("source", schema.Ref(source)),
		schema.NewField("weights", schema.Ref(weights)),
	)
	policy := plan.NewOverrides(nil).
		Flatten("Panel.source").
		Flatten("Panel.weights")

	_, err := plan.NewCompiler(policy).Compile(panel)
	require.Error(t, err)
	assert.True(t, plan.IsFieldKindError(err))

	errs := plan.FieldErrors(err)
	require.Len(t, errs, 2)
	var kindErr *plan.FieldKindError
	require.True(t, errors.As(errs[0], &kindErr))
	assert.Equal(t, "source", kindErr.Field)
	assert.Contains(t, errs[0].Error(), `flattened field Source.ref: unresolved reference "DataSourceRef"`)
	assert.Contains(t, errs[1].Error(), "flattened field Weights.byRatio: map key float64 is not a string or integer scalar")

	// Only the named sub-fields are checked.
	p, err := plan.NewCompiler(plan.NewOverrides(nil).Flatten("Panel.source", "uid").Delegate("Panel.weights")).Compile(panel)
	require.NoError(t, err)
	assert.Equal(t, []string{"uid"}, p.Operations[0].SubFieldNames())
}

func TestOverridesUnmatched(t *testing.T) {
	s, _ := dashboard()
	o := plan.NewOverrides(nil).
		Flatten("Dashboard.time").
		Flatten("Dashboard.labels").
		Delegate("Dashboard.singleLink").
		Delegate("Dashboard.panel").
		Delegate("Missing.time")
	assert.Equal(t, []string{
		"Dashboard.labels",
		"Dashboard.panel",
		"Dashboard.singleLink",
		"Dashboard.time",
		"Missing.time",
	}, o.Selectors())

	assert.Equal(t, []string{"Dashboard.labels", "Dashboard.panel", "Missing.time"}, plan.Unmatched(s, o.Selectors(), true))
	assert.Equal(t, []string{"Dashboard.panel", "Missing.time"}, plan.Unmatched(s, o.Selectors(), false))
	assert.Equal(t, []string{"time"}, plan.Unmatched(s, []string{"time", "Time.from"}, false))
	assert.Empty(t, plan.Unmatched(s, nil, true))
}

func TestPolicyFunc(t *testing.T) {
	_, dash := dashboard()
	t.Run("invalid kind", func(t *testing.T) {
		policy := plan.PolicyFunc(func(*schema.Struct, *schema.Field, *schema.Struct) plan.Decision {
			return plan.Decision{Kind: plan.DirectAssign}
		})
		_, err := plan.NewCompiler(policy).Compile(dash)
		assert.ErrorIs(t, err, plan.ErrInvalidDecision)
		errs := plan.FieldErrors(err)
		require.Len(t, errs, 3)
		var fields []string
		for _, e := range errs {
			var decisionErr *plan.DecisionError
			require.True(t, errors.As(e, &decisionErr))
			fields = append(fields, decisionErr.Field)
		}
		assert.Equal(t, []string{"time", "singleLink", "refresh"}, fields)
	})

	t.Run("by owner", func(t *testing.T) {
		var seen []string
		policy := plan.PolicyFunc(func(owner *schema.Struct, f *schema.Field, nested *schema.Struct) plan.Decision {
			seen = append(seen, plan.Selector(owner.Name, f.Name)+":"+nested.Name)
			return plan.Delegate()
		})
		_, err := plan.NewCompiler(policy).Compile(dash)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Dashboard.time:Time",
			"Dashboard.singleLink:DashboardLink",
			"Dashboard.refresh:StringOrBool",
		}, seen)
	})
}

func TestParseSelector(t *testing.T) {
	st, f, err := plan.ParseSelector("Dashboard.refresh")
	require.NoError(t, err)
	assert.Equal(t, "Dashboard", st)
	assert.Equal(t, "refresh", f)

	for _, bad := range []string{"", "Dashboard", ".refresh", "Dashboard."} {
		_, _, err := plan.ParseSelector(bad)
		assert.Error(t, err, bad)
	}
}
