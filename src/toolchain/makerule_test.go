package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMakeRulesDropsTargetToken(t *testing.T) {
	deps := parseMakeRules("foo.o: foo.cc foo.h", "/work")
	assert.Equal(t, []string{"/work/foo.cc", "/work/foo.h"}, deps)
}

func TestParseMakeRulesJoinsLineContinuations(t *testing.T) {
	deps := parseMakeRules("foo.o: foo.cc \\\n  foo.h \\\n  bar.h\n", "/work")
	assert.Equal(t, []string{"/work/foo.cc", "/work/foo.h", "/work/bar.h"}, deps)
}

func TestParseMakeRulesKeepsAbsolutePaths(t *testing.T) {
	deps := parseMakeRules("foo.o: /usr/include/stdio.h local.h", "/work")
	assert.Equal(t, []string{"/usr/include/stdio.h", "/work/local.h"}, deps)
}

func TestParseMakeRulesEmptyOutput(t *testing.T) {
	assert.Empty(t, parseMakeRules("", "/work"))
}
