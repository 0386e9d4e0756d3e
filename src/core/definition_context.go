package core

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/jordirovira/craft/src/logging"
	"github.com/jordirovira/craft/src/platform"
)

// A DefinitionContext is the registry a craftfile populates: targets,
// available configurations, and the platform/toolchain pair the plan will
// build against.
type DefinitionContext struct {
	Workspace string

	HostPlatform   platform.Platform
	TargetPlatform platform.Platform
	Toolchain      Toolchain

	BuildRoot string

	Log *logging.Logger

	targets       map[string]*Target
	order         []string
	configs       map[string]Configuration
	defaultConfig string
}

// NewDefinitionContext creates an empty context seeded with the built-in
// debug/profile/release configurations.
func NewDefinitionContext(workspace string, host, target platform.Platform, toolchain Toolchain, log *logging.Logger) *DefinitionContext {
	ctx := &DefinitionContext{
		Workspace:      workspace,
		HostPlatform:   host,
		TargetPlatform: target,
		Toolchain:      toolchain,
		Log:            log,
		targets:        map[string]*Target{},
		configs:        map[string]Configuration{},
		defaultConfig:  DefaultConfigurationName,
	}
	ctx.BuildRoot = platform.JoinBuildRoot(workspace, host, target)
	for _, cfg := range BuiltinConfigurations() {
		ctx.configs[cfg.Name] = cfg
	}
	return ctx
}

func (c *DefinitionContext) register(name string, kind Kind) *TargetHandle {
	t := &Target{Name: name, Kind: kind}
	c.targets[name] = t
	c.order = append(c.order, name)
	return newTargetHandle(t)
}

// Program registers a Program target.
func (c *DefinitionContext) Program(name string) *TargetHandle { return c.register(name, Program) }

// StaticLibrary registers a StaticLibrary target.
func (c *DefinitionContext) StaticLibrary(name string) *TargetHandle {
	return c.register(name, StaticLibrary)
}

// DynamicLibrary registers a DynamicLibrary target.
func (c *DefinitionContext) DynamicLibrary(name string) *TargetHandle {
	return c.register(name, DynamicLibrary)
}

// ExternDynamicLibrary registers an ExternDynamicLibrary target.
func (c *DefinitionContext) ExternDynamicLibrary(name string) *TargetHandle {
	return c.register(name, ExternDynamicLibrary)
}

// Object registers an Object target with the given private include paths.
func (c *DefinitionContext) Object(name string, includePaths string) *TargetHandle {
	h := c.register(name, Object)
	return h.Include(includePaths)
}

// Download registers a Download target.
func (c *DefinitionContext) Download(name string) *TargetHandle { return c.register(name, Download) }

// Unarchive registers an Unarchive target.
func (c *DefinitionContext) Unarchive(name string) *TargetHandle {
	return c.register(name, Unarchive)
}

// Exec registers an Exec target.
func (c *DefinitionContext) Exec(name string) *TargetHandle { return c.register(name, Exec) }

// Custom registers a Custom target.
func (c *DefinitionContext) Custom(name string) *TargetHandle { return c.register(name, Custom) }

// Find returns the target registered under name, or nil.
func (c *DefinitionContext) Find(name string) *Target {
	return c.targets[name]
}

// Names returns every registered target name in registration order.
func (c *DefinitionContext) Names() []string {
	return append([]string(nil), c.order...)
}

// DefaultTargets returns every target registered with IsDefault(true).
func (c *DefinitionContext) DefaultTargets() []string {
	var names []string
	for _, name := range c.order {
		if c.targets[name].IsDefault {
			names = append(names, name)
		}
	}
	return names
}

// AddConfiguration registers or replaces a named configuration.
func (c *DefinitionContext) AddConfiguration(cfg Configuration) {
	c.configs[cfg.Name] = cfg
}

// Configuration looks up a registered configuration by name.
func (c *DefinitionContext) Configuration(name string) (Configuration, bool) {
	cfg, ok := c.configs[name]
	return cfg, ok
}

// SetDefaultConfiguration overrides which configuration is used when the
// orchestrator is given no -c flags. Set from a .craftconfig's
// [build] defaultconfig field.
func (c *DefinitionContext) SetDefaultConfiguration(name string) {
	c.defaultConfig = name
}

// DefaultConfigurations returns the configuration name(s) to build when none
// were requested explicitly on the command line.
func (c *DefinitionContext) DefaultConfigurations() []string {
	return []string{c.defaultConfig}
}

// ValidateUses resolves every target's Uses list against the registry and
// detects cycles, so names are resolved once at plan start and cycles are
// caught there rather than recursing forever during materialization. Errors
// for every problem found (each unknown name, and the first cycle among the
// known ones) are aggregated with go-multierror rather than stopping at the
// first one.
func (c *DefinitionContext) ValidateUses() error {
	var errs error
	for _, name := range c.order {
		for _, used := range c.targets[name].Uses {
			if _, ok := c.targets[used]; !ok {
				errs = multierror.Append(errs, fmt.Errorf("target %q uses unknown target %q", name, used))
			}
		}
	}
	if cycle := c.findCycle(); cycle != nil {
		errs = multierror.Append(errs, fmt.Errorf("dependency cycle: %v", cycle))
	}
	return errs
}

// findCycle does a simple DFS over the Uses graph and returns the first
// cycle found, or nil.
func (c *DefinitionContext) findCycle() []string {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := map[string]int{}
	var stack []string
	var visit func(name string) []string
	visit = func(name string) []string {
		switch state[name] {
		case done:
			return nil
		case visiting:
			// Found the back-edge; return the chain from its start.
			for i, s := range stack {
				if s == name {
					return append(append([]string{}, stack[i:]...), name)
				}
			}
			return []string{name}
		}
		state[name] = visiting
		stack = append(stack, name)
		t := c.targets[name]
		if t != nil {
			for _, used := range t.Uses {
				if _, ok := c.targets[used]; !ok {
					continue // already reported by ValidateUses
				}
				if cycle := visit(used); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}
	for _, name := range c.order {
		if state[name] == unvisited {
			if cycle := visit(name); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
