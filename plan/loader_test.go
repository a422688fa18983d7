package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kbukum/streamkit/errors"
)

func TestParse_SinglePlan(t *testing.T) {
	specs, err := Parse([]byte(`
name: one
type: string
source:
  kind: values
  values: [a, b]
stages:
  - op: map
    func: upper
terminal:
  op: collect
`))
	require.NoError(t, err)
	require.Len(t, specs, 1)
	require.Equal(t, "one", specs[0].Name)
	require.Equal(t, []any{"a", "b"}, specs[0].Source.Values)
	require.Equal(t, []Stage{{Op: OpMap, Func: "upper"}}, specs[0].Stages)
}

func TestParse_PlanList(t *testing.T) {
	specs, err := Parse([]byte(scenarios))
	require.NoError(t, err)
	require.Len(t, specs, 5)
	require.Equal(t, "lt17", specs[3].Source.While)
	require.Equal(t, -7, specs[2].Source.Delta)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("plans: [unclosed"))
	require.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))

	_, err = Parse([]byte("foo: bar\n"))
	require.ErrorContains(t, err, "no plans")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarios), 0o644))

	specs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, specs, 5)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, "reading")
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "chars.yml"), []byte(scenarios), 0o644))

	spec, err := NewLoader(dir).Load("chars")
	require.NoError(t, err)
	require.Equal(t, TypeString, spec.Type)

	_, err = NewLoader(dir).Load("absent")
	require.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}
