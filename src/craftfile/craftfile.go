// Package craftfile loads a user's craftfile, compiled ahead of time into a
// Go plugin (.so), and invokes its entry point. This is the direct Go
// analogue of the orchestrator compiling the craftfile into a dynamic
// library that exports craft_entry(...) with C linkage: the standard
// library's plugin package plays the role of dlopen/LoadLibrary, and the
// exported CraftEntry function plays the role of the C-ABI entry point.
package craftfile

import (
	"fmt"
	"plugin"

	"github.com/jordirovira/craft/src/core"
)

// EntrySymbol is the exported symbol every craftfile plugin must provide,
// with signature func(*core.DefinitionContext) error.
const EntrySymbol = "CraftEntry"

// Entry is the craftfile entry point signature, narrowed from
// craft_entry(workspace, configurations, targets) down to the single
// argument a Go plugin needs: everything else is already on the context.
type Entry func(ctx *core.DefinitionContext) error

// Load opens the plugin at path and resolves its CraftEntry symbol.
func Load(path string) (Entry, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading craftfile plugin %s: %w", path, err)
	}
	sym, err := p.Lookup(EntrySymbol)
	if err != nil {
		return nil, fmt.Errorf("craftfile %s does not export %s: %w", path, EntrySymbol, err)
	}
	entry, ok := sym.(func(*core.DefinitionContext) error)
	if !ok {
		return nil, fmt.Errorf("craftfile %s's %s has the wrong signature", path, EntrySymbol)
	}
	return entry, nil
}

// LoadAndRun loads the plugin at path and immediately invokes its entry
// point against ctx, populating ctx's targets — the first step of the entry
// orchestrator, before any plan context exists.
func LoadAndRun(path string, ctx *core.DefinitionContext) error {
	entry, err := Load(path)
	if err != nil {
		return err
	}
	return entry(ctx)
}
