package php_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fluentgen/compiler/gen"
	"github.com/syssam/fluentgen/compiler/internal/gentest"
	"github.com/syssam/fluentgen/compiler/gen/php"
	"github.com/syssam/fluentgen/compiler/plan"
	"github.com/syssam/fluentgen/schema"
)

func TestRenderDashboardLink(t *testing.T) {
	r := php.New(gen.TargetOptions{Namespace: "Acme", Build: gen.BuildShared})
	frag, err := r.Render(gentest.Plan(t, "DashboardLink"))
	require.NoError(t, err)

	assert.Equal(t, "src/Builders/DashboardLinkBuilder.php", frag.Path)
	assert.Equal(t, `<?php

namespace Acme\Builders;

class DashboardLinkBuilder implements \Acme\Cog\Builder
{
    protected \Acme\Models\DashboardLink $internal;

    public function __construct()
    {
        $this->internal = new \Acme\Models\DashboardLink();
    }

    public function title(string $title): static
    {
        $this->internal->title = $title;

        return $this;
    }

    public function url(string $url): static
    {
        $this->internal->url = $url;

        return $this;
    }

    public function build(): \Acme\Models\DashboardLink
    {
        return $this->internal;
    }
}
`, string(frag.Source))
}

func TestRenderRejectsFlatten(t *testing.T) {
	_, err := php.New(gen.TargetOptions{}).Render(gentest.Plan(t, "Dashboard"))
	require.Error(t, err)
	assert.ErrorIs(t, err, gen.ErrUnsupportedTarget)

	var target *gen.UnsupportedTargetError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "php", target.Target)
	assert.Equal(t, "Dashboard", target.Struct)
	assert.Equal(t, "time", target.Field)
	assert.Equal(t, "flatten", target.Operation)
}

func TestRenderDelegated(t *testing.T) {
	s := gentest.Schema()
	p, err := plan.NewCompiler(plan.DelegateAll{}).Compile(s.Lookup("Dashboard"))
	require.NoError(t, err)

	frag, err := php.New(gen.TargetOptions{Header: gen.DefaultHeader, Models: `\Acme\Dashboards`}).Render(p)
	require.NoError(t, err)
	src := string(frag.Source)

	assert.True(t, strings.HasPrefix(src, "<?php\n\n// Code generated by fluentgen. DO NOT EDIT.\n\nnamespace App\\Builders;\n"))
	assert.Contains(t, src, "class DashboardBuilder implements \\App\\Cog\\Builder\n")
	assert.Contains(t, src, `    public function id(int $id): static
    {
        $this->internal->id = $id;

        return $this;
    }`)
	assert.Contains(t, src, `    public function time(\App\Cog\Builder $time): static
    {
        $timeResource = $time->build();
        $this->internal->time = $timeResource;

        return $this;
    }`)
	assert.Contains(t, src, "public function links(array $links): static")
	assert.Contains(t, src, "public function labels(array $labels): static")
	assert.Contains(t, src, "    public function build(): \\Acme\\Dashboards\\Dashboard\n    {\n        return unserialize(serialize($this->internal));\n    }")
}

func TestRenderComments(t *testing.T) {
	st := schema.NewStruct("Panel", schema.NewField("this", schema.Any()).Comment("Self reference."))
	st.Comments = []string{"Panel is a dashboard element."}
	frag, err := php.New(gen.TargetOptions{Build: gen.BuildShared}).Render(gentest.Compile(t, st))
	require.NoError(t, err)
	src := string(frag.Source)

	assert.Contains(t, src, "/**\n * Panel is a dashboard element.\n */\nclass PanelBuilder")
	assert.Contains(t, src, "\n\n    /**\n     * Self reference.\n     */\n    public function this(mixed $thisVal): static")
	assert.Equal(t, []string{"field this: parameter renamed to thisVal"}, frag.Warnings)
}
