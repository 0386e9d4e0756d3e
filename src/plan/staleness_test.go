package plan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordirovira/craft/src/core"
	"github.com/jordirovira/craft/src/logging"
	"github.com/jordirovira/craft/src/platform"
	"github.com/jordirovira/craft/src/process"
)

func newTestPlan(t *testing.T) *Context {
	defs := core.NewDefinitionContext(t.TempDir(), platform.LinuxX64, platform.LinuxX64, nil, logging.MustGetLogger("plan_test"))
	return New(defs, process.New(), logging.MustGetLogger("plan_test"))
}

func touch(t *testing.T, path string, at time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(path, at, at))
}

func TestIsStaleMissingOutputIsStale(t *testing.T) {
	c := newTestPlan(t)
	dir := t.TempDir()
	stale, err := c.isStale(filepath.Join(dir, "out"), nil)
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestIsStaleNewDependencyMakesItStale(t *testing.T) {
	c := newTestPlan(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	dep := filepath.Join(dir, "dep")
	now := time.Now().Truncate(time.Second)
	touch(t, out, now)
	touch(t, dep, now.Add(2*time.Second))
	stale, err := c.isStale(out, []string{dep})
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestIsStaleOlderDependencyIsNotStale(t *testing.T) {
	c := newTestPlan(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	dep := filepath.Join(dir, "dep")
	now := time.Now().Truncate(time.Second)
	touch(t, dep, now)
	touch(t, out, now.Add(2*time.Second))
	stale, err := c.isStale(out, []string{dep})
	require.NoError(t, err)
	assert.False(t, stale)
}

func TestIsStaleTiedMtimeIsNotStale(t *testing.T) {
	c := newTestPlan(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	dep := filepath.Join(dir, "dep")
	now := time.Now().Truncate(time.Second)
	touch(t, dep, now)
	touch(t, out, now)
	stale, err := c.isStale(out, []string{dep})
	require.NoError(t, err)
	assert.False(t, stale)
}

func TestIsStaleMissingDependencyIsStale(t *testing.T) {
	c := newTestPlan(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	touch(t, out, time.Now())
	stale, err := c.isStale(out, []string{filepath.Join(dir, "missing")})
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestIsStalePendingOutputDependencyIsStale(t *testing.T) {
	c := newTestPlan(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	dep := filepath.Join(dir, "dep")
	now := time.Now().Truncate(time.Second)
	touch(t, dep, now)
	touch(t, out, now.Add(2*time.Second))
	c.pendingOutputs[dep] = true
	stale, err := c.isStale(out, []string{dep})
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestIsStaleFreshlyCreatedDirIsStale(t *testing.T) {
	c := newTestPlan(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "out")
	stale, err := c.isStale(out, nil)
	require.NoError(t, err)
	assert.True(t, stale)
}
