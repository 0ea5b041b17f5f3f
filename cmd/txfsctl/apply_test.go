package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/txfs/pkg/txfs"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writePlan(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPlan_Valid(t *testing.T) {
	dir := t.TempDir()
	path := writePlan(t, dir, `
ops:
  - op: move
    source: a.txt
    target: b.txt
  - op: copy
    source: b.txt
    target: c.txt
  - op: remove
    target: d.txt
`)

	plan, err := loadPlan(path)
	require.NoError(t, err)
	require.Len(t, plan.Ops, 3)
	assert.Equal(t, PlanOp{Op: "move", Source: "a.txt", Target: "b.txt"}, plan.Ops[0])
	assert.Equal(t, PlanOp{Op: "remove", Target: "d.txt"}, plan.Ops[2])
}

func TestLoadPlan_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown op":        "ops:\n  - op: rename\n    source: a\n    target: b\n",
		"move no source":    "ops:\n  - op: move\n    target: b\n",
		"remove no target":  "ops:\n  - op: remove\n",
		"remove has source": "ops:\n  - op: remove\n    source: a\n    target: b\n",
		"empty plan":        "ops: []\n",
		"not yaml":          "{{{\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writePlan(t, t.TempDir(), content)
			_, err := loadPlan(path)
			assert.Error(t, err)
		})
	}
}

func TestParseBackend(t *testing.T) {
	for name, want := range map[string]txfs.Backend{
		"auto":     txfs.BackendAuto,
		"deferred": txfs.BackendDeferred,
		"native":   txfs.BackendNative,
	} {
		got, err := parseBackend(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := parseBackend("bogus")
	assert.Error(t, err)
}

func TestRunApply_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "hello")
	b := writeFile(t, dir, "b.txt", "world")
	c := writeFile(t, dir, "c.txt", "stale")

	plan := fmt.Sprintf(`
ops:
  - op: move
    source: %s
    target: %s
  - op: remove
    target: %s
`, a, b, c)
	path := writePlan(t, dir, plan)

	quiet = true
	applyDryRun = false
	applyBackend = "deferred"
	defer func() { quiet = false; applyBackend = "auto" }()

	require.NoError(t, runApply(path))

	data, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.NoFileExists(t, a)
	assert.NoFileExists(t, c)
}

func TestRunApply_DryRun(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "hello")

	plan := fmt.Sprintf("ops:\n  - op: remove\n    target: %s\n", a)
	path := writePlan(t, dir, plan)

	quiet = true
	applyDryRun = true
	applyBackend = "deferred"
	defer func() { quiet = false; applyDryRun = false; applyBackend = "auto" }()

	require.NoError(t, runApply(path))
	assert.FileExists(t, a)
}
