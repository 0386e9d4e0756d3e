package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jordirovira/craft/src/logging"
	"github.com/jordirovira/craft/src/platform"
)

func newTestContext() *DefinitionContext {
	return NewDefinitionContext("/tmp/ws", platform.LinuxX64, platform.LinuxX64, nil, logging.MustGetLogger("core_test"))
}

func TestNewDefinitionContextSeedsBuiltinConfigurations(t *testing.T) {
	ctx := newTestContext()
	for _, name := range []string{"debug", "profile", "release"} {
		_, ok := ctx.Configuration(name)
		assert.True(t, ok, "expected built-in configuration %q", name)
	}
	assert.Equal(t, []string{"release"}, ctx.DefaultConfigurations())
}

func TestRegistrationPreservesOrderAndIsDefault(t *testing.T) {
	ctx := newTestContext()
	ctx.Program("a")
	ctx.Program("b").IsDefault(true)
	ctx.Program("c").IsDefault(true)
	assert.Equal(t, []string{"a", "b", "c"}, ctx.Names())
	assert.Equal(t, []string{"b", "c"}, ctx.DefaultTargets())
}

func TestValidateUsesReportsUnknownTarget(t *testing.T) {
	ctx := newTestContext()
	ctx.Program("app").Use("missing_lib")
	err := ctx.ValidateUses()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing_lib")
}

func TestValidateUsesDetectsCycle(t *testing.T) {
	ctx := newTestContext()
	ctx.StaticLibrary("a").Use("b")
	ctx.StaticLibrary("b").Use("a")
	err := ctx.ValidateUses()
	assert.Error(t, err)
}

func TestValidateUsesPassesForAcyclicGraph(t *testing.T) {
	ctx := newTestContext()
	ctx.StaticLibrary("base")
	ctx.StaticLibrary("mid").Use("base")
	ctx.Program("app").Use("mid")
	assert.NoError(t, ctx.ValidateUses())
}

func TestSetDefaultConfigurationOverridesDefault(t *testing.T) {
	ctx := newTestContext()
	ctx.SetDefaultConfiguration("debug")
	assert.Equal(t, []string{"debug"}, ctx.DefaultConfigurations())
}

func TestObjectRegistersPrivateIncludePath(t *testing.T) {
	ctx := newTestContext()
	h := ctx.Object("obj1", "private/include")
	assert.Equal(t, []string{"private/include"}, h.Target().Includes)
	assert.Equal(t, Object, h.Target().Kind)
}
