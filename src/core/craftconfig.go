package core

import (
	"os"

	"github.com/please-build/gcfg"
)

// CraftConfigFileName is the optional ini-flavoured override file read at
// the workspace root before any craftfile is compiled.
const CraftConfigFileName = ".craftconfig"

// craftConfig mirrors the [build]/[toolchain] sections a .craftconfig file
// may set. Every field has craft's built-in default, so an absent or
// partially filled file is never an error.
type craftConfig struct {
	Build struct {
		Root          string
		DefaultConfig string
	}
	Toolchain struct {
		Name string
	}
}

// ApplyCraftConfig reads workspace/.craftconfig, if present, and overrides
// this context's build root and default configuration accordingly. Absence
// of the file is not an error; this is purely additive and never changes
// craftfile-visible behavior.
func (c *DefinitionContext) ApplyCraftConfig(workspace string) error {
	var cfg craftConfig
	path := workspace + string(os.PathSeparator) + CraftConfigFileName
	if err := gcfg.ReadFileInto(&cfg, path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if gcfg.FatalOnly(err) != nil {
			return err
		}
		c.Log.Warningf("error in %s: %s", CraftConfigFileName, err)
	}
	if cfg.Build.Root != "" {
		c.BuildRoot = workspace + string(os.PathSeparator) + cfg.Build.Root
	}
	if cfg.Build.DefaultConfig != "" {
		c.SetDefaultConfiguration(cfg.Build.DefaultConfig)
	}
	return nil
}

// ToolchainNameOverride returns the [toolchain] name override from a parsed
// .craftconfig, or "" if none was set. Exposed separately from
// ApplyCraftConfig because the toolchain itself must be selected before a
// DefinitionContext can be constructed.
func ToolchainNameOverride(workspace string) string {
	var cfg craftConfig
	path := workspace + string(os.PathSeparator) + CraftConfigFileName
	if err := gcfg.ReadFileInto(&cfg, path); err != nil {
		return ""
	}
	return cfg.Toolchain.Name
}
