package plan

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/jordirovira/craft/src/core"
	"github.com/jordirovira/craft/src/platform"
)

// materializeUnarchive: the output path is a directory named after the
// target; if it exists at plan time the target is permanently fresh.
// Otherwise it depends on the named archive target and emits one extraction
// task.
func (c *Context) materializeUnarchive(target *core.Target) (*core.BuiltTarget, error) {
	if target.Archive == "" {
		return nil, &core.PlanningError{Target: target.Name, Reason: "unarchive target has no archive set"}
	}
	output := filepath.Join(c.defs.BuildRoot, target.Name)
	node := core.NewNode(output)
	if platform.IsDirectory(output) {
		return &core.BuiltTarget{SourceTarget: target, OutputNode: node, HasOutput: true}, nil
	}

	archiveBuilt, err := c.GetBuiltTarget(target.Archive)
	if err != nil {
		return nil, err
	}
	archivePath := archiveBuilt.OutputNode.Path
	logger := c.log
	task := &core.Task{
		Type:         "unarchive",
		Outputs:      []core.Node{node},
		Requirements: archiveBuilt.OutputTasks,
		Run: func() int {
			if err := extract(archivePath, output); err != nil {
				logger.Errorf("unarchive %s: %s", archivePath, err)
				return 1
			}
			return 0
		},
	}
	c.AddTask(task)
	return &core.BuiltTarget{SourceTarget: target, OutputNode: node, OutputTasks: []*core.Task{task}, HasOutput: true}, nil
}

// extract picks a codec by archivePath's extension and extracts every entry
// into destDir, creating intermediate directories as needed.
func extract(archivePath, destDir string) error {
	switch {
	case strings.HasSuffix(archivePath, ".zip"):
		return extractZip(archivePath, destDir)
	case strings.HasSuffix(archivePath, ".tar.xz"), strings.HasSuffix(archivePath, ".txz"):
		return extractTarXz(archivePath, destDir)
	default:
		return fmt.Errorf("unarchive: unsupported archive format %q", archivePath)
	}
}

// extractZip applies Unix-style permission bits decoded from each entry's
// external attributes when the archive was created on a Unix system.
func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, platform.DirPermissions); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), platform.DirPermissions); err != nil {
			return err
		}
		mode := os.FileMode(0644)
		if f.CreatorVersion>>8 == 3 { // Unix-created archive
			if unixMode := os.FileMode(f.ExternalAttrs >> 16); unixMode != 0 {
				mode = unixMode
			}
		}
		if err := copyZipEntry(f, target, mode); err != nil {
			return err
		}
	}
	return nil
}

func copyZipEntry(f *zip.File, target string, mode os.FileMode) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

func extractTarXz(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return err
	}
	tr := tar.NewReader(xr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		target := filepath.Join(destDir, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, platform.DirPermissions); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), platform.DirPermissions); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			out.Close()
		}
	}
}
