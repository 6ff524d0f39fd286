package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectAssign(t *testing.T) {
	link := NewDashboardLinkBuilder().Title("Home").URL("/home").Build()
	assert.Equal(t, DashboardLink{Title: "Home", URL: "/home"}, link)
}

func TestFlatten(t *testing.T) {
	d := NewDashboardBuilder().Time("2024-01-01", "2024-01-31").Build()
	require.NotNil(t, d.Time)
	assert.Equal(t, "2024-01-01", d.Time.From)
	assert.Equal(t, "2024-01-31", d.Time.To)
}

func TestFlattenAllocatesOnce(t *testing.T) {
	b := NewDashboardBuilder()
	assert.Nil(t, b.internal.Time)

	b.Time("now-6h", "now")
	first := b.internal.Time
	require.NotNil(t, first)

	b.Time("now-1h", "now")
	assert.Same(t, first, b.internal.Time)
	assert.Equal(t, "now-1h", b.internal.Time.From)
}

func TestPartialFlatten(t *testing.T) {
	b := NewDashboardBuilder().Refresh("1m")
	first := b.internal.Refresh
	b.Refresh("5m")
	assert.Same(t, first, b.internal.Refresh)

	d := b.Build()
	require.NotNil(t, d.Refresh)
	assert.Equal(t, StringOrBool{ValString: "5m"}, *d.Refresh)
}

func TestDelegate(t *testing.T) {
	link := NewDashboardLinkBuilder().Title("Docs").URL("/docs")
	d := NewDashboardBuilder().SingleLink(link).Build()
	require.NotNil(t, d.SingleLink)
	assert.Equal(t, DashboardLink{Title: "Docs", URL: "/docs"}, *d.SingleLink)

	// Later changes to the nested builder do not leak into the owner.
	link.Title("Changed")
	assert.Equal(t, "Docs", d.SingleLink.Title)
}

func TestBuildCopies(t *testing.T) {
	b := NewDashboardBuilder().
		ID(1).
		Title("Production Overview").
		Time("now-6h", "now").
		Labels(map[string]string{"team": "ops"}).
		Links([]DashboardLink{{Title: "Home", URL: "/"}})
	d := b.Build()

	b.Title("Staging").Time("now-1h", "now-5m").Refresh("10s")

	assert.Equal(t, int64(1), d.ID)
	assert.Equal(t, "Production Overview", d.Title)
	assert.Equal(t, Time{From: "now-6h", To: "now"}, *d.Time)
	assert.Nil(t, d.Refresh)
	assert.Equal(t, map[string]string{"team": "ops"}, d.Labels)
	assert.Len(t, d.Links, 1)

	again := b.Build()
	assert.Equal(t, "Staging", again.Title)
	assert.NotSame(t, d.Time, again.Time)
}

func TestBuildCopiesDelegated(t *testing.T) {
	b := NewDashboardBuilder().
		SingleLink(NewDashboardLinkBuilder().Title("Home").URL("/"))
	d := b.Build()
	d.SingleLink.Title = "changed after build"

	again := b.Build()
	assert.Equal(t, "Home", again.SingleLink.Title)
	assert.NotSame(t, d.SingleLink, again.SingleLink)
}

func TestEmptyBuild(t *testing.T) {
	assert.Equal(t, Dashboard{}, NewDashboardBuilder().Build())
	assert.Equal(t, Time{}, NewTimeBuilder().Build())
}
