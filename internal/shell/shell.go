// Package shell implements the interactive loop, the builtins and the launching
// of external programs.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/afero"

	"jobshell/internal/config"
	"jobshell/internal/history"
	"jobshell/internal/jobs"
	"jobshell/internal/logutil"
	"jobshell/internal/parser"
)

var logger = logutil.GetLogger("[shell] ")

type Shell struct {
	config  *config.Config
	history *history.History
	jobs    *jobs.Table
	parser  parser.Parser
	reader  LineReader

	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	fs       afero.Fs
	resolver jobs.Resolver

	suspendHelper []string
	helperEnv     []string
}

// Option customizes a Shell.
type Option func(*Shell)

// WithIO sets the streams used by the shell and inherited by the programs it
// launches.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(s *Shell) {
		s.stdin, s.stdout, s.stderr = stdin, stdout, stderr
	}
}

// WithFs sets the filesystem the history is stored on.
func WithFs(fs afero.Fs) Option {
	return func(s *Shell) { s.fs = fs }
}

// WithResolver replaces the wait4 based status resolver.
func WithResolver(r jobs.Resolver) Option {
	return func(s *Shell) { s.resolver = r }
}

// WithReader replaces the reader chosen from stdin.
func WithReader(r LineReader) Option {
	return func(s *Shell) { s.reader = r }
}

// WithSuspendHelper sets the command the suspend builtin runs. The pid and the
// duration are appended to argv. env is added to the helper's environment.
func WithSuspendHelper(argv []string, env ...string) Option {
	return func(s *Shell) {
		s.suspendHelper = argv
		s.helperEnv = env
	}
}

func New(cfg *config.Config, opts ...Option) (*Shell, error) {
	s := &Shell{
		config:   cfg,
		parser:   parser.Parser{MaxLineLength: cfg.MaxLineLength},
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		fs:       afero.NewOsFs(),
		resolver: jobs.WaitResolver{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(s.suspendHelper) == 0 {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("error locating executable: %w", err)
		}
		s.suspendHelper = []string{exe, "suspend-helper"}
	}

	hist, err := history.New(s.fs, cfg.HistoryFile)
	if err != nil {
		return nil, fmt.Errorf("error initializing history: %w", err)
	}
	s.history = hist
	s.jobs = jobs.NewTable(s.resolver)

	if s.reader == nil {
		s.reader, err = newLineReader(s.stdin, s.stdout, hist.GetAll())
		if err != nil {
			return nil, fmt.Errorf("error initializing readline: %w", err)
		}
	}
	return s, nil
}

// Jobs returns the table of processes launched by the shell.
func (s *Shell) Jobs() *jobs.Table {
	return s.jobs
}

// Run reads and executes lines until the exit keyword or the end of input.
// Processes still running are left alone.
func (s *Shell) Run() error {
	defer s.reader.Close()

	for {
		s.reader.SetPrompt(s.prompt())
		line, err := s.reader.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			s.exit()
			return nil
		case err != nil:
			return fmt.Errorf("error reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == s.config.ExitKeyword {
			s.exit()
			return nil
		}
		if line == "" {
			continue
		}

		if err := s.history.Add(line); err != nil {
			logger.Printf("saving history: %v", err)
		}

		if err := s.Execute(line); err != nil {
			fmt.Fprintf(s.stderr, "Error: %v\n", err)
		}
	}
}

// Execute parses and runs a single line.
func (s *Shell) Execute(line string) error {
	cmd, err := s.parser.Parse(line)
	if err != nil {
		return err
	}
	return s.dispatch(cmd)
}

func (s *Shell) prompt() string {
	dir, err := os.Getwd()
	if err != nil {
		logger.Printf("getwd: %v", err)
		dir = "?"
	}
	return fmt.Sprintf("%s $ ", dir)
}

func (s *Shell) exit() {
	running := 0
	s.jobs.Each(func(rec *jobs.Record) {
		if rec.Status != jobs.Terminated {
			running++
		}
	})
	logger.Printf("exiting, leaving %d processes behind", running)
}
