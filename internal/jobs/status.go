package jobs

import (
	"github.com/fatih/color"
	"golang.org/x/sys/unix"

	"jobshell/internal/logutil"
)

var logger = logutil.GetLogger("[jobs] ")

// Status is the last observed state of a tracked process.
type Status int

const (
	Running Status = iota
	Suspended
	Terminated
)

var statusLabels = map[Status]string{
	Running:    "RUNNING",
	Suspended:  "SUSPENDED",
	Terminated: "TERMINATED",
}

var statusColors = map[Status]*color.Color{
	Running:    color.New(color.FgGreen),
	Suspended:  color.New(color.FgYellow),
	Terminated: color.New(color.FgRed),
}

func (s Status) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "UNKNOWN"
}

func (s Status) colored() string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(s)
	}
	return s.String()
}

// Resolver reports the status of a child process without blocking. When
// nothing changed since the last call it returns prev.
type Resolver interface {
	Resolve(pid int, prev Status) Status
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(pid int, prev Status) Status

func (f ResolverFunc) Resolve(pid int, prev Status) Status {
	return f(pid, prev)
}

var _ Resolver = (ResolverFunc)(nil)

// WaitResolver polls children of the current process with wait4(2). Each
// state change is reported exactly once by the kernel, so repeated polls
// without an intervening change keep returning the previous status.
type WaitResolver struct{}

var _ Resolver = WaitResolver{}

func (WaitResolver) Resolve(pid int, prev Status) Status {
	var ws unix.WaitStatus
	for {
		wpid, err := unix.Wait4(pid, &ws, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED, nil)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			// ECHILD: not our child or already reaped. Nothing new to report.
			logger.Printf("wait4 %d: %v", pid, err)
			return prev
		case wpid == 0:
			return prev
		}
		return statusFromWait(ws)
	}
}

// WaitForeground blocks until pid exits, is killed or is stopped.
func WaitForeground(pid int) (Status, error) {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &ws, unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return Running, err
		}
		return statusFromWait(ws), nil
	}
}

func statusFromWait(ws unix.WaitStatus) Status {
	switch {
	case ws.Exited(), ws.Signaled():
		return Terminated
	case ws.Stopped():
		return Suspended
	case ws.Continued():
		return Running
	}
	return Running
}
