package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fluentgen/compiler/gen"
	"github.com/syssam/fluentgen/compiler/targets"
)

const linkSchema = `package: sandbox
structs:
  - name: DashboardLink
    fields:
      - name: title
        type: string
      - name: url
        type: string
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"fluentgen"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestTargets(t *testing.T) {
	out, _, err := runCLI(t, "targets")
	require.NoError(t, err)
	assert.Equal(t, "go\njava\npython\ntypescript\nphp\n", out)
	assert.Len(t, targets.Names(), 5)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "links.yaml", linkSchema)
	outDir := filepath.Join(dir, "out")

	out, _, err := runCLI(t, "generate", "--schema", schemaPath, "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "5 builders generated")
	assert.Contains(t, out, "5 written, 0 unchanged, 0 removed")

	m, err := gen.ReadManifest(outDir)
	require.NoError(t, err)
	require.Len(t, m.Files, 5)
	for _, e := range m.Files {
		assert.FileExists(t, filepath.Join(outDir, filepath.FromSlash(e.Path)))
	}

	t.Run("Unchanged", func(t *testing.T) {
		out, _, err := runCLI(t, "generate", "--schema", schemaPath, "--out", outDir)
		require.NoError(t, err)
		assert.Contains(t, out, "0 written, 5 unchanged, 0 removed")
	})

	t.Run("FewerTargets", func(t *testing.T) {
		out, _, err := runCLI(t, "generate", "-s", schemaPath, "-o", outDir, "-t", "go", "-t", "java")
		require.NoError(t, err)
		assert.Contains(t, out, "2 builders generated")
		assert.Contains(t, out, "3 removed")
	})
}

func TestGenerateConfig(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "links.yaml", linkSchema)
	configPath := writeFile(t, dir, "fluentgen.yaml", "output: "+filepath.Join(dir, "from-config")+"\ntargets: [python]\n")

	out, _, err := runCLI(t, "generate", "--schema", schemaPath, "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 builders generated")
	assert.DirExists(t, filepath.Join(dir, "from-config", "python"))

	// Flags win over the configuration file.
	_, _, err = runCLI(t, "generate", "--schema", schemaPath, "--config", configPath, "--target", "go", "--out", filepath.Join(dir, "from-flag"))
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, "from-flag", "go"))
	assert.NoDirExists(t, filepath.Join(dir, "from-flag", "python"))
}

func TestGenerateDiagnostics(t *testing.T) {
	out := t.TempDir()
	_, stderr, err := runCLI(t, "generate", "--schema", filepath.Join("..", "..", "compiler", "load", "testdata", "dashboard.yaml"), "--out", out)
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, stderr, "error Dashboard.source")

	// Structs that compiled are still written.
	m, err := gen.ReadManifest(out)
	require.NoError(t, err)
	assert.NotEmpty(t, m.Files)
}

func TestGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "links.yaml", linkSchema)

	tests := []struct {
		name string
		args []string
	}{
		{"missing schema flag", []string{"generate"}},
		{"missing schema file", []string{"generate", "--schema", filepath.Join(dir, "missing.yaml")}},
		{"unsupported format", []string{"generate", "--schema", writeFile(t, dir, "links.json", "{}")}},
		{"bad build mode", []string{"generate", "--schema", schemaPath, "--build", "deep"}},
		{"bad workers", []string{"generate", "--schema", schemaPath, "--workers", "-1"}},
		{"unknown target", []string{"generate", "--schema", schemaPath, "--target", "rust"}},
		{"missing config", []string{"generate", "--schema", schemaPath, "--config", filepath.Join(dir, "missing.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, append(tt.args, "--out", filepath.Join(dir, "out"))...)
			assert.Error(t, err)
		})
	}
}

func TestPlan(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "links.yaml", linkSchema)

	out, _, err := runCLI(t, "plan", "--schema", schemaPath)
	require.NoError(t, err)
	assert.Contains(t, out, "DashboardLink:\n")
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "url")

	_, _, err = runCLI(t, "plan", "--schema", filepath.Join("..", "..", "compiler", "load", "testdata", "dashboard.yaml"))
	assert.ErrorIs(t, err, errDiagnostics)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "links.yaml", linkSchema)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, slog.New(slog.DiscardHandler), []string{schemaPath}, 10*time.Millisecond, func() {
			calls.Add(1)
		})
	}()

	// The watcher is registered asynchronously: keep touching the file
	// until a regeneration is seen.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(schemaPath, []byte(linkSchema), 0o644)
		return calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestExampleDashboard(t *testing.T) {
	example := filepath.Join("..", "..", "examples", "dashboard")
	out := t.TempDir()

	_, stderr, err := runCLI(t, "generate",
		"--schema", filepath.Join(example, "dashboard.cue"),
		"--config", filepath.Join(example, "fluentgen.yaml"),
		"--out", out,
	)
	// Flattening setters have no PHP rendering.
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, stderr, "error [php] Dashboard.time")

	assert.FileExists(t, filepath.Join(out, "java", "com", "acme", "dashboards", "DashboardBuilder.java"))
	assert.FileExists(t, filepath.Join(out, "php", "src", "Builders", "TimeBuilder.php"))
	assert.NoFileExists(t, filepath.Join(out, "php", "src", "Builders", "DashboardBuilder.php"))
}
