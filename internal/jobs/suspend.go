package jobs

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sys/unix"
)

// Suspend stops pid, waits for d and resumes it. Both signals are always
// attempted, even when ctx is cancelled early, so the target is never left
// stopped. The first delivery error is returned.
func Suspend(ctx context.Context, pid int, d time.Duration, out io.Writer) error {
	firstErr := SendSignal(pid, unix.SIGTSTP, out)

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	if err := SendSignal(pid, unix.SIGCONT, out); firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// SendSignal reports and delivers sig to pid. Delivery failures are returned
// but the notice is written either way.
func SendSignal(pid int, sig unix.Signal, out io.Writer) error {
	fmt.Fprintf(out, "sending signal: %s to: %d\n", unix.SignalName(sig), pid)
	if err := unix.Kill(pid, sig); err != nil {
		logger.Printf("kill %d %s: %v", pid, unix.SignalName(sig), err)
		return fmt.Errorf("sending %s to %d: %w", unix.SignalName(sig), pid, err)
	}
	return nil
}
