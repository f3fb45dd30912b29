package shell

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"jobshell/internal/jobs"
	"jobshell/internal/parser"
)

func (s *Shell) dispatch(cmd parser.Command) error {
	switch c := cmd.(type) {
	case parser.Empty:
		return nil
	case parser.Help:
		fmt.Fprint(s.stdout, c.Usage)
		return nil
	case parser.Procs:
		return s.procs()
	case parser.Cd:
		return s.changeDirectory(c.Dir)
	case parser.Kill:
		s.kill(c.Pid)
		return nil
	case parser.History:
		s.showHistory()
		return nil
	case parser.Suspend:
		return s.suspend(c)
	case parser.Exec:
		return s.runExternal(c)
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}

// procs polls every job, prints the table and forgets terminated jobs, so each
// termination is shown exactly once.
func (s *Shell) procs() error {
	s.jobs.RefreshAll()
	err := s.jobs.Print(s.stdout)
	s.jobs.RemoveTerminated()
	return err
}

func (s *Shell) changeDirectory(dir string) error {
	if dir == "" {
		dir = s.config.HomeDir
	}

	if err := os.Chdir(dir); err != nil {
		var errno syscall.Errno
		if errors.As(err, &errno) {
			return fmt.Errorf("cd: %w (errno %d)", err, int(errno))
		}
		return fmt.Errorf("cd: %w", err)
	}
	return nil
}

// kill sends SIGINT from the shell itself. The outcome is seen on a later
// poll.
func (s *Shell) kill(pid int) {
	_ = jobs.SendSignal(pid, unix.SIGINT, s.stdout)
}

func (s *Shell) showHistory() {
	for i, cmd := range s.history.GetAll() {
		fmt.Fprintf(s.stdout, "%d: %s\n", i+1, cmd)
	}
}
