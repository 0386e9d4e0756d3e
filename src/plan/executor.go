package plan

import (
	"github.com/jordirovira/craft/src/core"
	"github.com/jordirovira/craft/src/logging"
	"github.com/jordirovira/craft/src/tracing"
)

// Execute runs every task in tasks, strictly in order. The list's ordering
// already honors every task's Requirements by construction; Execute does not
// consult Requirements itself. It stops at the first task whose runner
// returns non-zero, returning -1; it returns 0 if every task succeeds.
//
// Each task runs inside an OpenTelemetry span named after its type tag, and
// is logged at Info on start, Debug on success, Error on failure, under a
// logging category equal to the task's type tag.
func Execute(tasks []*core.Task, log *logging.Logger) int {
	for _, t := range tasks {
		span := tracing.StartSpan(log, t.Type)
		taskLog := logging.MustGetLogger(t.Type)
		taskLog.Infof("%s", t.Type)
		status := t.Run()
		span.End()
		if status != 0 {
			taskLog.Errorf("%s failed with status %d", t.Type, status)
			return -1
		}
		taskLog.Debugf("%s done", t.Type)
	}
	return 0
}
