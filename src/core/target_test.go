package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetHandleSourceSplitsOnWhitespace(t *testing.T) {
	h := newTargetHandle(&Target{Name: "t"})
	h.Source("a.cc\tb.cc\nc.cc d.cc")
	assert.Equal(t, []string{"a.cc", "b.cc", "c.cc", "d.cc"}, h.Target().Sources)
}

func TestTargetHandleSourceIgnoresRepeatedWhitespace(t *testing.T) {
	h := newTargetHandle(&Target{Name: "t"})
	h.Source("  a.cc   b.cc  ")
	assert.Equal(t, []string{"a.cc", "b.cc"}, h.Target().Sources)
}

func TestTargetHandleUseAppendsAcrossCalls(t *testing.T) {
	h := newTargetHandle(&Target{Name: "t"})
	h.Use("liba").Use("libb libc")
	assert.Equal(t, []string{"liba", "libb", "libc"}, h.Target().Uses)
}

func TestTargetHandleArgsIsShlexTokenized(t *testing.T) {
	h := newTargetHandle(&Target{Name: "t"})
	h.Args(`--name "hello world" --flag`)
	assert.Equal(t, []string{"--name", "hello world", "--flag"}, h.Target().ExecArgs)
}

func TestTargetHandleChaining(t *testing.T) {
	h := newTargetHandle(&Target{Name: "prog"})
	h.Source("a.cc").Include("inc").Use("lib").IsDefault(true)
	tgt := h.Target()
	assert.Equal(t, []string{"a.cc"}, tgt.Sources)
	assert.Equal(t, []string{"inc"}, tgt.Includes)
	assert.Equal(t, []string{"lib"}, tgt.Uses)
	assert.True(t, tgt.IsDefault)
}

func TestKindConfigurationSensitive(t *testing.T) {
	assert.False(t, Download.ConfigurationSensitive())
	assert.False(t, Unarchive.ConfigurationSensitive())
	assert.True(t, Program.ConfigurationSensitive())
	assert.True(t, Custom.ConfigurationSensitive())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "static_library", StaticLibrary.String())
	assert.Equal(t, "extern_dynamic_library", ExternDynamicLibrary.String())
}
