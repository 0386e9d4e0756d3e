package plan

import (
	"bytes"
	"context"
	"time"

	"github.com/jordirovira/craft/src/core"
)

// materializeExec: an Exec target always emits exactly one task (the task
// runner is the effect; there's no output file to stale-check).
func (c *Context) materializeExec(target *core.Target) (*core.BuiltTarget, error) {
	if target.ExecProgram == "" {
		return nil, &core.PlanningError{Target: target.Name, Reason: "exec target has no program set"}
	}

	reqs, _, err := c.requiredTasks(target.Uses)
	if err != nil {
		return nil, err
	}

	category := target.ExecLogName
	if category == "" {
		category = target.Name
	}
	exec := c.exec
	logger := c.log
	workDir := target.ExecWorkingFolder
	program := target.ExecProgram
	args := append([]string(nil), target.ExecArgs...)
	maxMS := target.ExecMaxTimeMS
	logOutput := target.ExecLogOutput
	logErr := target.ExecLogError
	ignoreFail := target.ExecIgnoreFail

	task := &core.Task{
		Type:         "exec",
		Requirements: reqs,
		Run: func() int {
			var out, errOut bytes.Buffer
			res, runErr := exec.Run(context.Background(), workDir, program, args, maxMS,
				func(chunk []byte) { out.Write(chunk) },
				func(chunk []byte) { errOut.Write(chunk) })

			if logOutput && out.Len() > 0 {
				logger.Verbosef("[%s] %s", category, out.String())
			}
			if logErr && errOut.Len() > 0 {
				logger.Verbosef("[%s] %s", category, errOut.String())
			}
			if res.Killed {
				logger.Warningf("[%s] killed after exceeding %s", category, time.Duration(maxMS)*time.Millisecond)
			}
			if runErr != nil {
				logger.Errorf("[%s] %s", category, runErr)
				if ignoreFail {
					return 0
				}
				return 1
			}
			if res.ExitCode != 0 {
				logger.Errorf("[%s] exited with status %d", category, res.ExitCode)
				if ignoreFail {
					return 0
				}
				return res.ExitCode
			}
			return 0
		},
	}
	c.AddTask(task)
	return &core.BuiltTarget{SourceTarget: target, OutputTasks: []*core.Task{task}}, nil
}
