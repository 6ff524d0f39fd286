package typescript_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fluentgen/compiler/gen"
	"github.com/syssam/fluentgen/compiler/internal/gentest"
	"github.com/syssam/fluentgen/compiler/gen/typescript"
	"github.com/syssam/fluentgen/schema"
)

func TestRenderDashboardLink(t *testing.T) {
	r := typescript.New(gen.TargetOptions{Build: gen.BuildShared})
	frag, err := r.Render(gentest.Plan(t, "DashboardLink"))
	require.NoError(t, err)

	assert.Equal(t, "builders/dashboardLinkBuilder.gen.ts", frag.Path)
	assert.Equal(t, `import * as cog from '../cog';
import * as types from './types.gen';

export class DashboardLinkBuilder implements cog.Builder<types.DashboardLink> {
    protected readonly internal: types.DashboardLink;

    constructor() {
        this.internal = types.defaultDashboardLink();
    }

    build(): types.DashboardLink {
        return this.internal;
    }

    title(title: string): this {
        this.internal.title = title;
        return this;
    }

    url(url: string): this {
        this.internal.url = url;
        return this;
    }
}
`, string(frag.Source))
	assert.Empty(t, frag.Warnings)
}

func TestRenderDashboard(t *testing.T) {
	r := typescript.New(gen.TargetOptions{Header: gen.DefaultHeader, Models: "../models/dashboard"})
	frag, err := r.Render(gentest.Plan(t, "Dashboard"))
	require.NoError(t, err)
	src := string(frag.Source)

	assert.True(t, strings.HasPrefix(src, "// Code generated by fluentgen. DO NOT EDIT.\n\nimport * as cog from '../cog';\n"))
	assert.Contains(t, src, "import * as types from '../models/dashboard';\n")

	t.Run("direct assign", func(t *testing.T) {
		assert.Contains(t, src, "    id(id: number): this {\n        this.internal.id = id;\n        return this;\n    }")
		assert.Contains(t, src, "    links(links: types.DashboardLink[]): this {")
		assert.Contains(t, src, "    labels(labels: Record<string, string>): this {")
	})

	t.Run("flatten", func(t *testing.T) {
		assert.Contains(t, src, `    time(from: string, to: string): this {
        if (!this.internal.time) {
            this.internal.time = types.defaultTime();
        }
        this.internal.time.from = from;
        this.internal.time.to = to;
        return this;
    }`)
		assert.Contains(t, src, "    refresh(valString: string): this {")
		assert.NotContains(t, src, "valBool")
	})

	t.Run("delegate", func(t *testing.T) {
		assert.Contains(t, src, `    singleLink(singleLink: cog.Builder<types.DashboardLink>): this {
        const singleLinkResource = singleLink.build();
        this.internal.singleLink = singleLinkResource;
        return this;
    }`)
	})

	t.Run("copy on build", func(t *testing.T) {
		assert.Contains(t, src, "        return structuredClone(this.internal);\n")
	})
}

func TestRenderComments(t *testing.T) {
	st := schema.NewStruct("Panel", schema.NewField("title", schema.String()))
	st.Comments = []string{"Panel is a dashboard element."}
	st.Fields[0].Comment("Title of the panel.")
	frag, err := typescript.New(gen.TargetOptions{Build: gen.BuildShared}).Render(gentest.Compile(t, st))
	require.NoError(t, err)
	src := string(frag.Source)

	assert.Contains(t, src, "/**\n * Panel is a dashboard element.\n */\nexport class PanelBuilder")
	assert.Contains(t, src, "\n\n    /**\n     * Title of the panel.\n     */\n    title(title: string): this {")
}

func TestRenderEscapes(t *testing.T) {
	st := schema.NewStruct("Rule",
		schema.NewField("delete", schema.Bool()),
		schema.NewField("constructor", schema.String()),
	)
	frag, err := typescript.New(gen.TargetOptions{}).Render(gentest.Compile(t, st))
	require.NoError(t, err)
	src := string(frag.Source)

	assert.Contains(t, src, "    delete(deleteVal: boolean): this {\n        this.internal.delete = deleteVal;")
	assert.Contains(t, src, "    constructorVal(constructor: string): this {")
	assert.Equal(t, []string{
		"field delete: parameter renamed to deleteVal",
		"field constructor: setter renamed to constructorVal",
	}, frag.Warnings)
}
