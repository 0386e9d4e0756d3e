// Package process implements craft's subprocess launcher: run a program,
// capture stdout/stderr as it arrives, and optionally enforce a
// terminate-then-kill timeout policy.
package process

import (
	"bytes"
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/jordirovira/craft/src/logging"
)

var log = logging.MustGetLogger("process")

// pollInterval is how often we check whether a timed-out process has exited yet.
const pollInterval = 10 * time.Millisecond

// killGrace is how long we wait after a graceful terminate before sending a hard kill.
const killGrace = 2 * time.Second

// An OutputCallback receives a chunk of subprocess output as it arrives.
type OutputCallback func(chunk []byte)

// Executor runs subprocesses and keeps track of the ones still running so KillAll can
// terminate them all.
type Executor struct {
	mu        sync.Mutex
	processes map[*exec.Cmd]struct{}
}

// New returns a ready-to-use Executor.
func New() *Executor {
	return &Executor{processes: map[*exec.Cmd]struct{}{}}
}

// Result is the outcome of Run.
type Result struct {
	ExitCode int
	Killed   bool
}

// Run starts program with args in workingFolder, streaming stdout/stderr to the given
// callbacks as they arrive. If maxMS is positive and the process is still running after
// that many milliseconds, it is sent a graceful terminate signal followed by a hard kill
// after killGrace if it still hasn't exited.
//
// It returns the process' exit code (-1 on launch failure) and whether it was killed.
func (e *Executor) Run(ctx context.Context, workingFolder, program string, args []string, maxMS int, outCB, errCB OutputCallback) (Result, error) {
	cmd := e.command(program, args...)
	cmd.Dir = workingFolder
	cmd.Stdout = callbackWriter{outCB}
	cmd.Stderr = callbackWriter{errCB}

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, err
	}
	e.register(cmd)
	defer e.unregister(cmd)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	if maxMS <= 0 {
		select {
		case err := <-done:
			return result(cmd, false), unwrapExit(err)
		case <-ctx.Done():
			e.terminateThenKill(cmd, done)
			return result(cmd, true), ctx.Err()
		}
	}

	deadline := time.Now().Add(time.Duration(maxMS) * time.Millisecond)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			return result(cmd, false), unwrapExit(err)
		case <-ctx.Done():
			err := e.terminateThenKill(cmd, done)
			return result(cmd, true), firstNonNil(ctx.Err(), unwrapExit(err))
		case <-ticker.C:
			if time.Now().After(deadline) {
				log.Warningf("%s exceeded its time limit, terminating", program)
				err := e.terminateThenKill(cmd, done)
				return result(cmd, true), unwrapExit(err)
			}
		}
	}
}

// terminateThenKill implements the graceful-then-hard kill policy: it sends a terminate
// signal, waits up to killGrace for the process to exit on its own, and sends a hard kill
// if it hasn't. It always drains the process' exit from done before returning.
func (e *Executor) terminateThenKill(cmd *exec.Cmd, done <-chan error) error {
	terminate(cmd)
	select {
	case err := <-done:
		return err
	case <-time.After(killGrace):
		kill(cmd)
		return <-done
	}
}

func firstNonNil(a, b error) error {
	if a != nil {
		return a
	}
	return b
}

func result(cmd *exec.Cmd, killed bool) Result {
	code := 0
	if cmd.ProcessState != nil {
		code = cmd.ProcessState.ExitCode()
	}
	return Result{ExitCode: code, Killed: killed}
}

func unwrapExit(err error) error {
	if _, ok := err.(*exec.ExitError); ok {
		// Non-zero exit is reported via Result.ExitCode, not as a Go error.
		return nil
	}
	return err
}

func (e *Executor) register(cmd *exec.Cmd) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.processes[cmd] = struct{}{}
}

func (e *Executor) unregister(cmd *exec.Cmd) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.processes, cmd)
}

// KillAll terminates every subprocess this Executor has outstanding. Used at process exit.
func (e *Executor) KillAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for cmd := range e.processes {
		kill(cmd)
	}
}

type callbackWriter struct {
	cb OutputCallback
}

func (w callbackWriter) Write(p []byte) (int, error) {
	if w.cb != nil {
		b := make([]byte, len(p))
		copy(b, p)
		w.cb(b)
	}
	return len(p), nil
}

// CombinedOutput is a convenience wrapper for short-lived commands that want simple
// byte-buffer capture instead of streaming callbacks.
func (e *Executor) CombinedOutput(ctx context.Context, workingFolder, program string, args []string, maxMS int) ([]byte, []byte, Result, error) {
	var out, errOut bytes.Buffer
	var mu sync.Mutex
	appendTo := func(buf *bytes.Buffer) OutputCallback {
		return func(chunk []byte) {
			mu.Lock()
			buf.Write(chunk)
			mu.Unlock()
		}
	}
	res, err := e.Run(ctx, workingFolder, program, args, maxMS, appendTo(&out), appendTo(&errOut))
	return out.Bytes(), errOut.Bytes(), res, err
}
