package main

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSuspendHelper(t *testing.T) {
	sleep := exec.Command("sleep", "100")
	require.NoError(t, sleep.Start())
	pid := sleep.Process.Pid
	defer func() {
		_ = sleep.Process.Kill()
		_ = sleep.Wait()
	}()

	out, err := execute("suspend-helper", fmt.Sprint(pid), "10ms")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(
		"sending signal: SIGTSTP to: %d\nsending signal: SIGCONT to: %d\n", pid, pid), out)
}

func TestSuspendHelperBadArgs(t *testing.T) {
	tests := map[string][]string{
		"missing duration": {"suspend-helper", "42"},
		"bad pid":          {"suspend-helper", "abc", "1s"},
		"bad duration":     {"suspend-helper", "42", "soon"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(args...)
			assert.Error(t, err)
		})
	}
}

func TestSuspendHelperMissingTarget(t *testing.T) {
	out, err := execute("suspend-helper", "1073741824", "1ms")
	assert.ErrorIs(t, err, unix.ESRCH)
	assert.Contains(t, out, "sending signal: SIGCONT to: 1073741824")
}

func TestRootRejectsArgs(t *testing.T) {
	_, err := execute("sleep", "100")
	assert.Error(t, err)
}
