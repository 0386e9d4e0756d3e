package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestNamesFindsCloseMatch(t *testing.T) {
	got := NearestNames("complie", []string{"compile", "link_program", "download"}, 3)
	assert.Equal(t, []string{"compile"}, got)
}

func TestNearestNamesNoMatchWithinDistance(t *testing.T) {
	got := NearestNames("zzzzzzz", []string{"compile", "link_program"}, 2)
	assert.Empty(t, got)
}

func TestDidYouMeanFormatsMultiple(t *testing.T) {
	msg := DidYouMean("tagret", []string{"target", "targets"}, 3)
	assert.Contains(t, msg, "Did you mean")
	assert.Contains(t, msg, "target")
}

func TestDidYouMeanEmpty(t *testing.T) {
	msg := DidYouMean("zzzzzzz", []string{"compile"}, 1)
	assert.Equal(t, "", msg)
}
