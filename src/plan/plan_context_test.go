package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordirovira/craft/src/core"
)

func TestGetBuiltTargetMemoizesPerConfiguration(t *testing.T) {
	c := newTestPlan(t)
	calls := map[string]int{}
	c.Definitions().Custom("thing").Build(func(plan core.Plan, self *core.Target) (*core.BuiltTarget, error) {
		calls[plan.CurrentConfiguration()]++
		return &core.BuiltTarget{SourceTarget: self}, nil
	})

	c.SetCurrentConfiguration("debug")
	_, err := c.GetBuiltTarget("thing")
	require.NoError(t, err)
	_, err = c.GetBuiltTarget("thing")
	require.NoError(t, err)
	assert.Equal(t, 1, calls["debug"])

	c.SetCurrentConfiguration("release")
	_, err = c.GetBuiltTarget("thing")
	require.NoError(t, err)
	assert.Equal(t, 1, calls["release"])
}

func TestGetBuiltTargetConfigurationInsensitiveSharesAcrossConfigurations(t *testing.T) {
	c := newTestPlan(t)
	calls := 0
	c.Definitions().Custom("shared").Build(func(plan core.Plan, self *core.Target) (*core.BuiltTarget, error) {
		calls++
		return (&core.BuiltTarget{SourceTarget: self}).ConfigurationInsensitive(), nil
	})

	c.SetCurrentConfiguration("debug")
	_, err := c.GetBuiltTarget("shared")
	require.NoError(t, err)
	c.SetCurrentConfiguration("release")
	_, err = c.GetBuiltTarget("shared")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGetBuiltTargetUnknownNameIsDefinitionError(t *testing.T) {
	c := newTestPlan(t)
	c.SetCurrentConfiguration("release")
	_, err := c.GetBuiltTarget("does_not_exist")
	require.Error(t, err)
	var defErr *core.DefinitionError
	assert.ErrorAs(t, err, &defErr)
}

func TestRequiredTasksPreservesDeclarationOrder(t *testing.T) {
	c := newTestPlan(t)
	var order []string
	mk := func(name string) {
		c.Definitions().Custom(name).Build(func(plan core.Plan, self *core.Target) (*core.BuiltTarget, error) {
			order = append(order, name)
			return &core.BuiltTarget{SourceTarget: self}, nil
		})
	}
	mk("first")
	mk("second")
	c.SetCurrentConfiguration("release")
	_, _, err := c.requiredTasks([]string{"second", "first"})
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, order)
}
