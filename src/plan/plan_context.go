// Package plan implements per-configuration materialization of targets into
// built targets, staleness analysis, and the linear task executor.
package plan

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jordirovira/craft/src/core"
	"github.com/jordirovira/craft/src/logging"
	"github.com/jordirovira/craft/src/process"
	"github.com/jordirovira/craft/src/tracing"
)

// Context is the concrete implementation of core.Plan: it owns the task list
// and the per-configuration/per-target memoization maps.
type Context struct {
	defs *core.DefinitionContext
	exec *process.Executor
	log  *logging.Logger

	mu               sync.Mutex
	tasks            []*core.Task
	pendingOutputs   map[string]bool
	builtByCfg       map[string]map[string]*core.BuiltTarget
	builtInsensitive map[string]*core.BuiltTarget
	group            singleflight.Group

	currentConfiguration string
}

// New creates a plan context over defs. The plan starts with no current
// configuration; the orchestrator must call SetCurrentConfiguration before
// materializing anything.
func New(defs *core.DefinitionContext, exec *process.Executor, log *logging.Logger) *Context {
	return &Context{
		defs:             defs,
		exec:             exec,
		log:              log,
		pendingOutputs:   map[string]bool{},
		builtByCfg:       map[string]map[string]*core.BuiltTarget{},
		builtInsensitive: map[string]*core.BuiltTarget{},
	}
}

// SetCurrentConfiguration sets the configuration subsequent GetBuiltTarget
// calls materialize against.
func (c *Context) SetCurrentConfiguration(name string) {
	c.currentConfiguration = name
}

// CurrentConfiguration implements core.Plan.
func (c *Context) CurrentConfiguration() string { return c.currentConfiguration }

// BuildRoot implements core.Plan.
func (c *Context) BuildRoot() string { return c.defs.BuildRoot }

// Definitions implements core.Plan.
func (c *Context) Definitions() *core.DefinitionContext { return c.defs }

// Tasks returns the plan's task list so far, in execution order.
func (c *Context) Tasks() []*core.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*core.Task(nil), c.tasks...)
}

// AddTask implements core.Plan. Tasks are only ever appended after every
// task they require has already been appended, which every materialize*
// function in this package honors by recursing into Uses before emitting its
// own task.
func (c *Context) AddTask(t *core.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, t)
	for _, o := range t.Outputs {
		c.pendingOutputs[o.Path] = true
	}
}

// isPendingOutput reports whether path is the output of a task already in
// the plan's task list. A pending dependency makes its dependent stale
// regardless of what's on disk.
func (c *Context) isPendingOutput(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingOutputs[path]
}

// currentConfigOrErr resolves c.currentConfiguration to a core.Configuration,
// failing if it hasn't been set to a known name.
func (c *Context) currentConfigOrErr() (core.Configuration, error) {
	if c.currentConfiguration == "" {
		return core.Configuration{}, fmt.Errorf("plan context has no current configuration set")
	}
	cfg, ok := c.defs.Configuration(c.currentConfiguration)
	if !ok {
		return core.Configuration{}, fmt.Errorf("unknown configuration %q", c.currentConfiguration)
	}
	return cfg, nil
}

// GetBuiltTarget implements core.Plan: it materializes name under the plan's
// current configuration, memoizing by (target, configuration) for
// configuration-sensitive kinds and by target alone otherwise.
// golang.org/x/sync/singleflight collapses concurrent requests for the same
// key into one materialization.
func (c *Context) GetBuiltTarget(name string) (*core.BuiltTarget, error) {
	target := c.defs.Find(name)
	if target == nil {
		return nil, &core.DefinitionError{Target: name}
	}

	sensitive := target.Kind.ConfigurationSensitive()
	cfg := c.currentConfiguration

	if bt := c.lookupMemoized(name, sensitive, cfg); bt != nil {
		return bt, nil
	}

	key := name
	if sensitive {
		key = name + "\x00" + cfg
	}
	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		if bt := c.lookupMemoized(name, sensitive, cfg); bt != nil {
			return bt, nil
		}
		span := tracing.StartSpan(c.log, "materialize:"+target.Kind.String()+":"+name)
		defer span.End()
		bt, err := c.materialize(target)
		if err != nil {
			return nil, err
		}
		c.store(name, cfg, target, bt)
		return bt, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*core.BuiltTarget), nil
}

func (c *Context) lookupMemoized(name string, sensitive bool, cfg string) *core.BuiltTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bt, ok := c.builtInsensitive[name]; ok {
		return bt
	}
	if !sensitive {
		return nil
	}
	if byName, ok := c.builtByCfg[cfg]; ok {
		return byName[name]
	}
	return nil
}

func (c *Context) store(name, cfg string, target *core.Target, bt *core.BuiltTarget) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !target.Kind.ConfigurationSensitive() || bt.IsConfigurationInsensitive() {
		c.builtInsensitive[name] = bt
		return
	}
	byName, ok := c.builtByCfg[cfg]
	if !ok {
		byName = map[string]*core.BuiltTarget{}
		c.builtByCfg[cfg] = byName
	}
	byName[name] = bt
}

// materialize dispatches to the per-kind materialization function.
func (c *Context) materialize(target *core.Target) (*core.BuiltTarget, error) {
	switch target.Kind {
	case core.Object, core.Program, core.StaticLibrary, core.DynamicLibrary:
		return c.materializeCompiled(target)
	case core.ExternDynamicLibrary:
		return c.materializeExternDynamicLibrary(target)
	case core.Download:
		return c.materializeDownload(target)
	case core.Unarchive:
		return c.materializeUnarchive(target)
	case core.Exec:
		return c.materializeExec(target)
	case core.Custom:
		return c.materializeCustom(target)
	default:
		return nil, fmt.Errorf("target %q has unknown kind %v", target.Name, target.Kind)
	}
}

// requiredTasks recursively materializes every target named in uses, in
// declaration order, and returns the union of their output tasks (spec.md
// §4.4 step 1, §5 "uses are processed in declaration order").
func (c *Context) requiredTasks(uses []string) ([]*core.Task, []*core.BuiltTarget, error) {
	var reqs []*core.Task
	var built []*core.BuiltTarget
	for _, name := range uses {
		bt, err := c.GetBuiltTarget(name)
		if err != nil {
			return nil, nil, err
		}
		reqs = append(reqs, bt.OutputTasks...)
		built = append(built, bt)
	}
	return reqs, built, nil
}
