// Package gentest provides the dashboard fixture shared by renderer tests.
package gentest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/fluentgen/compiler/plan"
	"github.com/syssam/fluentgen/schema"
)

// Schema returns the dashboard fixture:
//
//	Time          {from, to}
//	DashboardLink {title, url}
//	StringOrBool  {valString, valBool}
//	Dashboard     {id, title, time, links, singleLink, labels, refresh}
func Schema() *schema.Schema {
	tm := schema.NewStruct("Time",
		schema.NewField("from", schema.String()),
		schema.NewField("to", schema.String()),
	)
	link := schema.NewStruct("DashboardLink",
		schema.NewField("title", schema.String()),
		schema.NewField("url", schema.String()),
	)
	refresh := schema.NewStruct("StringOrBool",
		schema.NewField("valString", schema.String()),
		schema.NewField("valBool", schema.Bool()),
	)
	dash := schema.NewStruct("Dashboard",
		schema.NewField("id", schema.Int64()),
		schema.NewField("title", schema.String()),
		schema.NewField("time", schema.Ref(tm)),
		schema.NewField("links", schema.ArrayOf(schema.Ref(link))),
		schema.NewField("singleLink", schema.Ref(link)),
		schema.NewField("labels", schema.MapOf(schema.String(), schema.String())),
		schema.NewField("refresh", schema.Ref(refresh)),
	)
	return schema.New("sandbox", tm, link, refresh, dash)
}

// Policy delegates Dashboard.singleLink and flattens only the valString
// field of Dashboard.refresh.
func Policy() plan.Policy {
	return plan.NewOverrides(nil).
		Delegate("Dashboard.singleLink").
		Flatten("Dashboard.refresh", "valString")
}

// Plan compiles the named fixture struct with Policy.
func Plan(t *testing.T, name string) *plan.Plan {
	t.Helper()
	st := Schema().Lookup(name)
	require.NotNil(t, st, name)
	p, err := plan.NewCompiler(Policy()).Compile(st)
	require.NoError(t, err)
	return p
}

// Compile compiles st with the default policy.
func Compile(t *testing.T, st *schema.Struct) *plan.Plan {
	t.Helper()
	p, err := plan.NewCompiler(nil).Compile(st)
	require.NoError(t, err)
	return p
}
