// Package packages holds reusable target fragments built out of the core
// target kinds — "fetch, extract, and build a third-party dependency"
// compositions that a craftfile can call instead of hand-rolling the
// download/unarchive/exec sequence itself.
package packages

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jordirovira/craft/src/core"
)

func boostTarballURL(version string) string {
	underscored := strings.ReplaceAll(version, ".", "_")
	return fmt.Sprintf("https://boostorg.jfrog.io/artifactory/main/release/%s/source/boost_%s.tar.xz", version, underscored)
}

// Boost registers the download/unarchive/bootstrap sequence for a boost
// release and one exec target per requested component, returning an
// extern_dynamic_library handle per component whose library path resolves
// once that component's b2 invocation is in the plan.
func Boost(ctx *core.DefinitionContext, version string, components ...string) map[string]*core.TargetHandle {
	downloadName := "boost_download_" + version
	unarchiveName := "boost_src_" + version
	ctx.Download(downloadName).URL(boostTarballURL(version))
	ctx.Unarchive(unarchiveName).FromArchive(downloadName)

	extracted := filepath.Join(ctx.BuildRoot, unarchiveName)
	bootstrapName := "boost_bootstrap_" + version
	ctx.Exec(bootstrapName).
		Program(filepath.Join(extracted, ctx.TargetPlatform.BootstrapScriptName())).
		WorkingFolder(extracted).
		Use(unarchiveName)

	b2 := filepath.Join(extracted, ctx.TargetPlatform.BuildToolName())
	stageLib := filepath.Join(extracted, "stage", "lib")

	handles := make(map[string]*core.TargetHandle, len(components))
	for _, component := range components {
		buildName := fmt.Sprintf("boost_build_%s_%s", component, version)
		ctx.Exec(buildName).
			Program(b2).
			WorkingFolder(extracted).
			Args(fmt.Sprintf("--with-%s", component)).
			Use(bootstrapName)

		handles[component] = ctx.ExternDynamicLibrary("boost_"+component).
			Use(buildName).
			LibraryPathFrom(func(core.Plan) string { return stageLib })
	}
	return handles
}
