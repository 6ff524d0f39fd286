package gen

import (
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fluentgen/compiler/plan"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "Custom header", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})
}

func TestWithPackage(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithPackage("dashboards")(c))
	assert.Equal(t, "dashboards", c.Package)

	err := WithPackage("")(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Equal(t, "dashboards", c.Package)
}

func TestWithOutput(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithOutput("out")(c))
	assert.Equal(t, "out", c.Output)

	err := WithOutput("")(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithWorkers(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"one", 1, false},
		{"many", 16, false},
		{"zero", 0, true},
		{"negative", -2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithWorkers(tt.n)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				assert.Zero(t, c.Workers)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.n, c.Workers)
			}
		})
	}
}

func TestWithBuildMode(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithBuildMode(BuildShared)(c))
	assert.Equal(t, BuildShared, c.Build)

	err := WithBuildMode(BuildMode(9))(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Equal(t, BuildShared, c.Build)
}

func TestWithPolicy(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithPolicy(plan.DelegateAll{})(c))
	assert.Equal(t, plan.DelegateAll{}, c.Policy)

	err := WithPolicy(nil)(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithTargets(t *testing.T) {
	t.Run("copies names", func(t *testing.T) {
		names := []string{"go", "java"}
		c := &Config{}
		require.NoError(t, WithTargets(names...)(c))

		names[0] = "php"
		assert.Equal(t, []string{"go", "java"}, c.Targets)
	})

	t.Run("replaces previous targets", func(t *testing.T) {
		c := &Config{Targets: []string{"go", "java", "python"}}
		require.NoError(t, WithTargets("php")(c))
		assert.Equal(t, []string{"php"}, c.Targets)
	})

	t.Run("empty name", func(t *testing.T) {
		err := WithTargets("go", "")(&Config{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithTargetOptions(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithTargetOptions("java", TargetOptions{Package: "com.acme"})(c))
	require.NoError(t, WithAllTargetOptions(map[string]TargetOptions{
		"php": {Namespace: "Acme"},
		"go":  {Models: "github.com/acme/models"},
	})(c))

	assert.Equal(t, map[string]TargetOptions{
		"java": {Package: "com.acme"},
		"php":  {Namespace: "Acme"},
		"go":   {Models: "github.com/acme/models"},
	}, c.TargetOptions)

	err := WithTargetOptions("", TargetOptions{})(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithLogger(t *testing.T) {
	l := slog.New(slog.DiscardHandler)
	c := &Config{}
	require.NoError(t, WithLogger(l)(c))
	assert.Same(t, l, c.Logger)

	err := WithLogger(nil)(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestConfigApply(t *testing.T) {
	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithWorkers(0), WithPackage("applied"))

		require.Error(t, err)
		assert.Empty(t, c.Package)
	})

	t.Run("ApplyAll collects errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithWorkers(0), WithPackage("applied"), WithOutput(""))

		require.Error(t, err)
		assert.Equal(t, "applied", c.Package)
		assert.Contains(t, err.Error(), "Workers")
		assert.Contains(t, err.Error(), "Output")
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, "generated", c.Output)
		assert.Equal(t, DefaultHeader, c.Header)
		assert.Equal(t, runtime.GOMAXPROCS(0), c.Workers)
		assert.Equal(t, BuildCopy, c.Build)
		assert.Equal(t, plan.DefaultPolicy{}, c.Policy)
		assert.NotNil(t, c.Logger)
	})

	t.Run("options", func(t *testing.T) {
		c, err := NewConfig(WithWorkers(3), WithBuildMode(BuildShared))
		require.NoError(t, err)
		assert.Equal(t, 3, c.Workers)
		assert.Equal(t, BuildShared, c.Build)
	})

	t.Run("error", func(t *testing.T) {
		_, err := NewConfig(WithWorkers(-1))
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("MustNewConfig panics", func(t *testing.T) {
		assert.Panics(t, func() { MustNewConfig(WithOutput("")) })
		assert.NotPanics(t, func() { MustNewConfig(WithOutput("out")) })
	})
}

func TestWithRename(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithRename("Dashboard.time", "timeRange")(c))
	require.NoError(t, WithRename("Dashboard.links", "linkList")(c))
	assert.Equal(t, map[string]string{
		"Dashboard.time":  "timeRange",
		"Dashboard.links": "linkList",
	}, c.Renames)

	tests := []struct {
		name     string
		selector string
		setter   string
	}{
		{"selector without struct", "time", "timeRange"},
		{"empty name", "Dashboard.time", ""},
		{"name with space", "Dashboard.time", "time range"},
		{"name starting with digit", "Dashboard.time", "2time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WithRename(tt.selector, tt.setter)(c)
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
		})
	}
	assert.Len(t, c.Renames, 2)
}
