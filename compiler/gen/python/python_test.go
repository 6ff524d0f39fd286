package python_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fluentgen/compiler/gen"
	"github.com/syssam/fluentgen/compiler/internal/gentest"
	"github.com/syssam/fluentgen/compiler/gen/python"
	"github.com/syssam/fluentgen/schema"
)

func TestRenderDashboardLink(t *testing.T) {
	r := python.New(gen.TargetOptions{Package: "sandbox", Build: gen.BuildShared})
	frag, err := r.Render(gentest.Plan(t, "DashboardLink"))
	require.NoError(t, err)

	assert.Equal(t, "builders/dashboard_link.py", frag.Path)
	assert.Equal(t, `import typing
from ..cog import builder as cogbuilder
from ..models import sandbox


class DashboardLink(cogbuilder.Builder[sandbox.DashboardLink]):
    __internal: sandbox.DashboardLink

    def __init__(self):
        self.__internal = sandbox.DashboardLink()

    def build(self) -> sandbox.DashboardLink:
        return self.__internal

    def title(self, title: str) -> typing.Self:
        self.__internal.title = title
        return self

    def url(self, url: str) -> typing.Self:
        self.__internal.url = url
        return self
`, string(frag.Source))
	assert.Empty(t, frag.Warnings)
}

func TestRenderDashboard(t *testing.T) {
	r := python.New(gen.TargetOptions{Package: "sandbox", Header: gen.DefaultHeader})
	frag, err := r.Render(gentest.Plan(t, "Dashboard"))
	require.NoError(t, err)
	src := string(frag.Source)

	assert.Equal(t, "builders/dashboard.py", frag.Path)
	assert.Contains(t, src, "# Code generated by fluentgen. DO NOT EDIT.\n\nimport copy\nimport typing\n")

	t.Run("escapes builtins", func(t *testing.T) {
		assert.Contains(t, src, `    def id_val(self, id_val: int) -> typing.Self:
        self.__internal.id_val = id_val
        return self`)
		assert.Equal(t, []string{
			"field id: setter renamed to id_val",
			"field id: parameter renamed to id_val",
			"field from: parameter renamed to from_val",
		}, frag.Warnings)
	})

	t.Run("flatten", func(t *testing.T) {
		assert.Contains(t, src, `    def time(self, from_val: str, to: str) -> typing.Self:
        if self.__internal.time is None:
            self.__internal.time = sandbox.Time()
        assert isinstance(self.__internal.time, sandbox.Time)
        self.__internal.time.from_val = from_val
        self.__internal.time.to = to
        return self`)
		assert.Contains(t, src, "    def refresh(self, val_string: str) -> typing.Self:")
		assert.NotContains(t, src, "val_bool")
	})

	t.Run("delegate", func(t *testing.T) {
		assert.Contains(t, src, `    def single_link(self, single_link: cogbuilder.Builder[sandbox.DashboardLink]) -> typing.Self:
        single_link_resource = single_link.build()
        self.__internal.single_link = single_link_resource
        return self`)
	})

	t.Run("collections", func(t *testing.T) {
		assert.Contains(t, src, "def links(self, links: list[sandbox.DashboardLink]) -> typing.Self:")
		assert.Contains(t, src, "def labels(self, labels: dict[str, str]) -> typing.Self:")
	})

	t.Run("copy on build", func(t *testing.T) {
		assert.Contains(t, src, "        return copy.deepcopy(self.__internal)\n")
	})
}

func TestRenderDocstring(t *testing.T) {
	st := schema.NewStruct("Panel", schema.NewField("title", schema.String()))
	st.Comments = []string{"Panel is a dashboard element."}
	frag, err := python.New(gen.TargetOptions{Models: "panels", Build: gen.BuildShared}).Render(gentest.Compile(t, st))
	require.NoError(t, err)

	assert.Contains(t, string(frag.Source), `class Panel(cogbuilder.Builder[panels.Panel]):
    """
    Panel is a dashboard element.
    """

    __internal: panels.Panel
`)
	assert.Contains(t, string(frag.Source), "from ..models import panels\n")
}

func TestRenderDefaultModels(t *testing.T) {
	st := schema.NewStruct("Panel", schema.NewField("title", schema.String()))
	frag, err := python.New(gen.TargetOptions{}).Render(gentest.Compile(t, st))
	require.NoError(t, err)
	assert.Contains(t, string(frag.Source), "from ..models import models\n")
}
