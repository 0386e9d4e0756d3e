package plan

import "github.com/jordirovira/craft/src/platform"

// isStale applies three staleness rules to a candidate output path against
// its dependency list:
//
//  1. missing output is stale;
//  2. a dependency that is itself a pending task output, or that is missing,
//     or whose mtime is strictly newer than the output's, makes it stale;
//  3. a freshly created output directory (nothing could have been built
//     there before) makes it stale.
//
// Ties (dep.mtime == output.mtime) are not stale. Comparison uses whole
// second resolution via platform.ModTime's truncation.
func (c *Context) isStale(output string, deps []string) (bool, error) {
	dirCreated, err := platform.EnsureDir(output)
	if err != nil {
		return false, err
	}
	if dirCreated {
		return true, nil
	}

	outTime, exists := platform.ModTime(output)
	if !exists {
		return true, nil
	}

	for _, d := range deps {
		if c.isPendingOutput(d) {
			return true, nil
		}
		depTime, depExists := platform.ModTime(d)
		if !depExists || depTime.After(outTime) {
			return true, nil
		}
	}
	return false, nil
}
