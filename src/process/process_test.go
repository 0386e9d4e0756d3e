package process

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func collect() (OutputCallback, func() string) {
	var buf []byte
	return func(chunk []byte) {
			buf = append(buf, chunk...)
		}, func() string {
			return string(buf)
		}
}

func TestRunSuccess(t *testing.T) {
	res, err := New().Run(context.Background(), "", "true", nil, 0, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.Killed)
}

func TestRunFailureExitCode(t *testing.T) {
	res, err := New().Run(context.Background(), "", "false", nil, 0, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.False(t, res.Killed)
}

func TestRunTimeoutKillsProcess(t *testing.T) {
	res, err := New().Run(context.Background(), "", "sleep", []string{"10"}, 50, nil, nil)
	assert.NoError(t, err)
	assert.True(t, res.Killed)
}

func TestRunCapturesStdoutAndStderr(t *testing.T) {
	outCB, out := collect()
	errCB, errOut := collect()
	res, err := New().Run(context.Background(), "", "sh", []string{"-c", "echo hello; echo world 1>&2"}, 0, outCB, errCB)
	assert.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", out())
	assert.Equal(t, "world\n", errOut())
}

func TestCombinedOutput(t *testing.T) {
	out, errOut, res, err := New().CombinedOutput(context.Background(), "", "echo", []string{"hi"}, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hi\n", string(out))
	assert.Equal(t, "", string(errOut))
}

func TestRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res, err := New().Run(ctx, "", "sleep", []string{"10"}, 0, nil, nil)
	assert.Error(t, err)
	assert.True(t, res.Killed)
}
