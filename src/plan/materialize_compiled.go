package plan

import (
	"fmt"
	"path/filepath"

	"github.com/jordirovira/craft/src/core"
	"github.com/jordirovira/craft/src/platform"
)

// materializeCompiled implements the shared eight-step skeleton for Object,
// Program, StaticLibrary and DynamicLibrary targets.
func (c *Context) materializeCompiled(target *core.Target) (*core.BuiltTarget, error) {
	cfg, err := c.currentConfigOrErr()
	if err != nil {
		return nil, &core.PlanningError{Target: target.Name, Reason: err.Error()}
	}

	// Step 1: recursively materialize uses.
	reqs, used, err := c.requiredTasks(target.Uses)
	if err != nil {
		return nil, err
	}

	// Step 2: collect include paths (this target's, plus every used target's
	// exported includes).
	includes := append([]string(nil), target.Includes...)
	for _, bt := range used {
		includes = append(includes, bt.SourceTarget.ExportIncludes...)
	}

	outDir := filepath.Join(c.defs.BuildRoot, c.currentConfiguration)

	// Object targets are a single compiled translation unit; aggregate kinds
	// (Program/StaticLibrary/DynamicLibrary) compile each of their own
	// Sources into an object first (step 8).
	objTasks, objNodes, err := c.compileSources(target, outDir, includes, cfg)
	if err != nil {
		return nil, err
	}

	if target.Kind == core.Object {
		if len(objNodes) != 1 {
			return nil, &core.PlanningError{Target: target.Name, Reason: fmt.Sprintf("object target must have exactly one source, got %d", len(objNodes))}
		}
		for _, t := range objTasks {
			t.Requirements = reqs
		}
		return &core.BuiltTarget{SourceTarget: target, OutputNode: objNodes[0], OutputTasks: objTasks, HasOutput: true}, nil
	}

	// Step 3: compute the aggregate output path.
	output, taskType, err := aggregateOutputPath(target, outDir, c.defs.TargetPlatform)
	if err != nil {
		return nil, err
	}

	// Step 8: link dependencies are the per-source objects, plus (for
	// Program/DynamicLibrary) the output nodes of used Dynamic/Static
	// libraries. ExternDynamicLibrary contributes no node dependency.
	libs, linkReqs := linkDependencies(used)
	reqs = append(reqs, objTasks...)
	reqs = append(reqs, linkReqs...)

	objPaths := nodePaths(objNodes)
	var depPaths []string
	switch target.Kind {
	case core.Program:
		depPaths = c.defs.Toolchain.LinkProgramDependencies(objPaths, libs)
	case core.StaticLibrary:
		depPaths = c.defs.Toolchain.LinkStaticLibraryDependencies(objPaths)
	case core.DynamicLibrary:
		depPaths = c.defs.Toolchain.LinkDynamicLibraryDependencies(objPaths, libs)
	}

	stale, err := c.isStale(output, depPaths)
	if err != nil {
		return nil, &core.PlanningError{Target: target.Name, Reason: err.Error()}
	}
	outNode := core.NewNode(output)
	if !stale {
		return &core.BuiltTarget{SourceTarget: target, OutputNode: outNode, HasOutput: true}, nil
	}

	workDir := c.defs.Workspace
	plat := c.defs.TargetPlatform
	toolchain := c.defs.Toolchain
	task := &core.Task{
		Type:         taskType,
		Outputs:      []core.Node{outNode},
		Requirements: reqs,
		Run: func() int {
			var err error
			switch target.Kind {
			case core.Program:
				err = toolchain.LinkProgram(workDir, output, objPaths, libs, cfg, plat)
			case core.StaticLibrary:
				err = toolchain.LinkStaticLibrary(workDir, output, objPaths)
			case core.DynamicLibrary:
				err = toolchain.LinkDynamicLibrary(workDir, output, objPaths, libs, cfg, plat)
			}
			if err != nil {
				c.log.Errorf("%s %s: %s", taskType, target.Name, err)
				return 1
			}
			return 0
		},
	}
	c.AddTask(task)
	return &core.BuiltTarget{SourceTarget: target, OutputNode: outNode, OutputTasks: []*core.Task{task}, HasOutput: true}, nil
}

// compileSources emits one compile task per stale source in target.Sources,
// returning every source's task (if any) and output node in declaration
// order. A fresh source contributes only its node, with an empty task slice
// for that source.
func (c *Context) compileSources(target *core.Target, outDir string, includes []string, cfg core.Configuration) ([]*core.Task, []core.Node, error) {
	var tasks []*core.Task
	var nodes []core.Node
	workDir := c.defs.Workspace
	plat := c.defs.TargetPlatform
	toolchain := c.defs.Toolchain

	for _, source := range target.Sources {
		output := filepath.Join(outDir, plat.ObjectFileName(stripExt(filepath.Base(source))))

		deps, err := toolchain.CompileDependencies(workDir, source, includes)
		if err != nil {
			return nil, nil, &core.PlanningError{Target: target.Name, Reason: fmt.Sprintf("discovering dependencies of %s: %s", source, err)}
		}
		deps = append(deps, source)

		stale, err := c.isStale(output, deps)
		if err != nil {
			return nil, nil, &core.PlanningError{Target: target.Name, Reason: err.Error()}
		}
		node := core.NewNode(output)
		nodes = append(nodes, node)
		if !stale {
			continue
		}
		src := source
		task := &core.Task{
			Type:    "compile",
			Outputs: []core.Node{node},
			Run: func() int {
				if err := toolchain.Compile(workDir, src, output, includes, cfg, plat); err != nil {
					c.log.Errorf("compile %s: %s", src, err)
					return 1
				}
				return 0
			},
		}
		c.AddTask(task)
		tasks = append(tasks, task)
	}
	return tasks, nodes, nil
}

// stripExt removes name's extension, per the same "last dot after the last
// separator" rule as platform.FileReplaceExtension.
func stripExt(name string) string {
	full := platform.FileReplaceExtension(name, "")
	if len(full) > 0 && full[len(full)-1] == '.' {
		return full[:len(full)-1]
	}
	return full
}

func aggregateOutputPath(target *core.Target, outDir string, plat platform.Platform) (path string, taskType string, err error) {
	switch target.Kind {
	case core.Program:
		return filepath.Join(outDir, plat.ProgramFileName(target.Name)), "link program", nil
	case core.StaticLibrary:
		return filepath.Join(outDir, plat.StaticLibraryFileName(target.Name)), "link static library", nil
	case core.DynamicLibrary:
		return filepath.Join(outDir, plat.DynamicLibraryFileName(target.Name)), "link dynamic library", nil
	default:
		return "", "", fmt.Errorf("not an aggregate target kind: %v", target.Kind)
	}
}

// linkDependencies builds the LinkDependency list and extra task
// requirements (step 8) from a target's already-materialized Uses.
func linkDependencies(used []*core.BuiltTarget) ([]core.LinkDependency, []*core.Task) {
	var libs []core.LinkDependency
	var reqs []*core.Task
	for _, bt := range used {
		switch bt.SourceTarget.Kind {
		case core.DynamicLibrary:
			libs = append(libs, core.LinkDependency{Kind: core.DynamicLibrary, Name: bt.SourceTarget.Name, OutputPath: bt.OutputNode.Path})
			reqs = append(reqs, bt.OutputTasks...)
		case core.StaticLibrary:
			libs = append(libs, core.LinkDependency{Kind: core.StaticLibrary, Name: bt.SourceTarget.Name, OutputPath: bt.OutputNode.Path})
			reqs = append(reqs, bt.OutputTasks...)
		case core.ExternDynamicLibrary:
			libs = append(libs, core.LinkDependency{Kind: core.ExternDynamicLibrary, Name: bt.SourceTarget.Name, LibraryPath: bt.LibraryPath})
		}
	}
	return libs, reqs
}

func nodePaths(nodes []core.Node) []string {
	paths := make([]string, len(nodes))
	for i, n := range nodes {
		paths[i] = n.Path
	}
	return paths
}
