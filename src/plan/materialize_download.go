package plan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/jordirovira/craft/src/core"
	"github.com/jordirovira/craft/src/platform"
)

// materializeDownload: the output path is URL-escaped into the build root;
// if it already exists at plan time the target is permanently fresh and no
// task is emitted.
func (c *Context) materializeDownload(target *core.Target) (*core.BuiltTarget, error) {
	if target.URL == "" {
		return nil, &core.PlanningError{Target: target.Name, Reason: "download target has no url set"}
	}
	output := filepath.Join(c.defs.BuildRoot, platform.EscapeFilename(target.URL))
	node := core.NewNode(output)
	if platform.FileExists(output) {
		return &core.BuiltTarget{SourceTarget: target, OutputNode: node, HasOutput: true}, nil
	}

	url := target.URL
	logger := c.log
	task := &core.Task{
		Type:    "download",
		Outputs: []core.Node{node},
		Run: func() int {
			if _, err := platform.EnsureDir(output); err != nil {
				logger.Errorf("download %s: %s", url, err)
				return 1
			}
			n, err := download(url, output)
			if err != nil {
				logger.Errorf("download %s: %s", url, err)
				return 1
			}
			logger.Infof("downloaded %s (%s)", url, humanize.Bytes(uint64(n)))
			return 0
		},
	}
	c.AddTask(task)
	return &core.BuiltTarget{SourceTarget: target, OutputNode: node, OutputTasks: []*core.Task{task}, HasOutput: true}, nil
}

// download performs an HTTP GET on url, following redirects, and writes the
// response body to dest. Transient network errors are retried by
// retryablehttp; a non-2xx final response is reported as an error, which the
// caller surfaces as a failed download task.
func download(url, dest string) (int64, error) {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil

	resp, err := client.Get(url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return io.Copy(f, resp.Body)
}
