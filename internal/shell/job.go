package shell

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"jobshell/internal/jobs"
	"jobshell/internal/parser"
)

// runExternal starts a program and tracks it. Blocking commands are waited
// for until they exit or stop; the observed state seeds their record.
func (s *Shell) runExternal(c parser.Exec) error {
	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr
	if f, ok := s.stdin.(*os.File); ok && c.Blocking {
		cmd.Stdin = f
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching %s: %w", c.Args[0], err)
	}
	pid := cmd.Process.Pid
	s.debugLaunch(pid, c.Args[0])

	status := jobs.Running
	if c.Blocking {
		observed, err := jobs.WaitForeground(pid)
		if err != nil {
			logger.Printf("waiting for %d: %v", pid, err)
		} else {
			status = observed
		}
	}

	s.jobs.AddObserved(c.Args, pid, status)
	return nil
}

// suspend runs the helper process that stops and resumes pid. The helper is
// not tracked; when it runs in the background it is reaped on its own.
func (s *Shell) suspend(c parser.Suspend) error {
	argv := append(append([]string(nil), s.suspendHelper...), strconv.Itoa(c.Pid), c.Duration.String())
	helper := exec.Command(argv[0], argv[1:]...)
	helper.Stdout = s.stdout
	helper.Stderr = s.stderr
	if len(s.helperEnv) > 0 {
		helper.Env = append(os.Environ(), s.helperEnv...)
	}

	if err := helper.Start(); err != nil {
		return fmt.Errorf("suspend: %w", err)
	}
	s.debugLaunch(helper.Process.Pid, "suspend")

	if c.Blocking {
		if err := helper.Wait(); err != nil {
			return fmt.Errorf("suspend: %w", err)
		}
		return nil
	}

	go func() {
		if err := helper.Wait(); err != nil {
			logger.Printf("suspend helper for %d: %v", c.Pid, err)
		}
	}()
	return nil
}

func (s *Shell) debugLaunch(pid int, name string) {
	if !s.config.Debug {
		return
	}
	fmt.Fprintf(s.stderr, "PID: %d\n", pid)
	fmt.Fprintf(s.stderr, "Executing Command: %s\n", name)
}
