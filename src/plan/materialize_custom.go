package plan

import "github.com/jordirovira/craft/src/core"

// materializeCustom: a supplied build closure takes over entirely, or
// (absent one) a trivial no-op task is emitted to carry
// Requirements drawn from Uses, letting the target serve as a synchronization
// point.
func (c *Context) materializeCustom(target *core.Target) (*core.BuiltTarget, error) {
	if target.BuildClosure != nil {
		return target.BuildClosure(c, target)
	}

	reqs, _, err := c.requiredTasks(target.Uses)
	if err != nil {
		return nil, err
	}
	task := &core.Task{
		Type:         "custom",
		Requirements: reqs,
		Run:          func() int { return 0 },
	}
	c.AddTask(task)
	return &core.BuiltTarget{SourceTarget: target, OutputTasks: []*core.Task{task}}, nil
}
