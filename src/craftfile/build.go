package craftfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jordirovira/craft/src/process"
)

// Build compiles the Go package at sourceDir into a plugin shared object
// under workspace/build, the Go-native stand-in for compiling the craftfile
// into a dynamic library. Returns the path to the built .so.
func Build(exec *process.Executor, workspace, sourceDir string) (string, error) {
	outDir := filepath.Join(workspace, "build")
	if err := os.MkdirAll(outDir, 0775); err != nil {
		return "", fmt.Errorf("creating %s: %w", outDir, err)
	}
	out := filepath.Join(outDir, "craftfile.so")
	args := []string{"build", "-buildmode=plugin", "-o", out, sourceDir}
	_, errOut, res, err := exec.CombinedOutput(context.Background(), workspace, "go", args, 0)
	if err != nil {
		return "", fmt.Errorf("building craftfile plugin: %w", err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("building craftfile plugin: %s", string(errOut))
	}
	return out, nil
}
