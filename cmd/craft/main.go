// Command craft is the entry orchestrator: it loads a craftfile, resolves
// the requested targets under the requested configurations, and runs the
// resulting task list.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/jordirovira/craft/src/cli"
	"github.com/jordirovira/craft/src/core"
	"github.com/jordirovira/craft/src/craftfile"
	"github.com/jordirovira/craft/src/logging"
	"github.com/jordirovira/craft/src/plan"
	"github.com/jordirovira/craft/src/platform"
	"github.com/jordirovira/craft/src/process"
	"github.com/jordirovira/craft/src/toolchain"
)

var opts = struct {
	Workspace      string        `short:"w" long:"workspace" description:"Workspace root (defaults to the current directory)"`
	Configurations []string      `short:"c" long:"config" description:"Configuration(s) to build (repeatable; defaults to the craftfile's default configuration)"`
	Verbosity      logging.Level `short:"v" long:"verbosity" description:"Log verbosity: fatal, error, warning, info, debug, verbose or all" default:"warning"`
	LogFile        string        `long:"log_file" description:"Path to a binary log file sink (AxeLogBinaryFile format)"`
	Args           struct {
		Targets []string `positional-arg-name:"target" description:"Targets to build (defaults to the craftfile's default targets)"`
	} `positional-args:"true"`
}{}

var log = logging.MustGetLogger("craft")

func main() {
	os.Exit(run())
}

func run() int {
	maxprocs.Set()

	cli.ParseFlagsOrDie("craft", "1.0.0", &opts)
	logging.Init(opts.Verbosity)
	if opts.LogFile != "" {
		if err := logging.InitFileSink(opts.LogFile, logging.All); err != nil {
			log.Fatalf("opening log file %s: %s", opts.LogFile, err)
		}
		defer logging.CloseFileSink()
	}

	workspace := opts.Workspace
	if workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("getting working directory: %s", err)
		}
		workspace = wd
	}
	workspace, err := filepath.Abs(workspace)
	if err != nil {
		log.Fatalf("resolving workspace %s: %s", opts.Workspace, err)
	}

	exec := process.New()
	defer exec.KillAll()

	host := platform.Host()
	target := host

	tc, err := selectToolchain(exec, workspace, target)
	if err != nil {
		log.Fatalf("no valid compiler found: %s", err)
	}
	log.Infof("using %s toolchain %s", tc.Name(), tc.Version())

	defs := core.NewDefinitionContext(workspace, host, target, tc, log)
	if err := defs.ApplyCraftConfig(workspace); err != nil {
		log.Fatalf("reading %s: %s", core.CraftConfigFileName, err)
	}

	craftfileDir := filepath.Join(workspace, "craftfile")
	so, err := craftfile.Build(exec, workspace, craftfileDir)
	if err != nil {
		log.Fatalf("missing craftfile: %s", err)
	}
	if err := craftfile.LoadAndRun(so, defs); err != nil {
		log.Fatalf("running craftfile: %s", err)
	}

	if err := defs.ValidateUses(); err != nil {
		log.Errorf("%s", err)
		return 1
	}

	targets, err := resolveTargetNames(defs, opts.Args.Targets)
	if err != nil {
		log.Errorf("%s", err)
		return 1
	}

	configs := opts.Configurations
	if len(configs) == 0 {
		configs = defs.DefaultConfigurations()
	}

	// One plan context is shared across every requested configuration: each
	// pass through the loop below only validates the configuration, sets it
	// as current, and materializes the requested targets into that shared
	// task list. The executor runs once, after the loop, over the combined
	// list — a Definition error surfaced while planning a later
	// configuration is never hidden behind an earlier configuration's task
	// having already run.
	p := plan.New(defs, exec, log)
	for _, cfgName := range configs {
		if _, ok := defs.Configuration(cfgName); !ok {
			log.Errorf("unknown configuration %q", cfgName)
			return 1
		}
		p.SetCurrentConfiguration(cfgName)
		for _, name := range targets {
			if _, err := p.GetBuiltTarget(name); err != nil {
				log.Errorf("planning %q (%s): %s", name, cfgName, err)
				return 1
			}
		}
	}
	return plan.Execute(p.Tasks(), log)
}

// resolveTargetNames defaults to the craftfile's default targets and
// suggests near-miss spellings for unknown names.
func resolveTargetNames(defs *core.DefinitionContext, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return defs.DefaultTargets(), nil
	}
	names := defs.Names()
	var bad []string
	for _, name := range requested {
		if defs.Find(name) == nil {
			bad = append(bad, name)
		}
	}
	if len(bad) == 0 {
		return requested, nil
	}
	var msg string
	for _, name := range bad {
		msg += fmt.Sprintf("unknown target %q%s\n", name, cli.DidYouMean(name, names, 3))
	}
	return nil, fmt.Errorf("%s", msg)
}

// selectToolchain builds the GCC or MSVC backend named by .craftconfig, or
// the platform default when unset.
func selectToolchain(exec *process.Executor, workspace string, target platform.Platform) (core.Toolchain, error) {
	name := core.ToolchainNameOverride(workspace)
	if name == "" {
		if target.OSName == platform.Windows {
			name = "msvc"
		} else {
			name = "gcc"
		}
	}
	switch name {
	case "msvc":
		return toolchain.NewMSVC(exec, "", "", "")
	default:
		return toolchain.NewGCC(exec, "", "")
	}
}
