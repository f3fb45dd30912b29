// Package parser splits a line of shell input into a Command.
//
// Words are split with POSIX-like quoting rules. A trailing "&", either as its
// own word or glued to the last word, runs the command in the background.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/pborman/getopt/v2"
)

// DefaultMaxLineLength is the longest line accepted when no limit is set.
const DefaultMaxLineLength = 2048

var (
	ErrLineTooLong      = errors.New("line too long")
	ErrMissingArgument  = errors.New("missing argument")
	ErrTooManyArguments = errors.New("too many arguments")
	ErrInvalidPid       = errors.New("invalid pid")
	ErrInvalidDuration  = errors.New("invalid duration")
)

// Parser turns lines into commands.
type Parser struct {
	MaxLineLength int
}

// Parse parses line with the default settings.
func Parse(line string) (Command, error) {
	return Parser{}.Parse(line)
}

func (p Parser) Parse(line string) (Command, error) {
	limit := p.MaxLineLength
	if limit <= 0 {
		limit = DefaultMaxLineLength
	}
	if len(line) > limit {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrLineTooLong, len(line), limit)
	}

	words, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("syntax error: %w", err)
	}

	words, background := trimBackground(words)
	mode := Mode{Blocking: !background}
	if len(words) == 0 {
		return Empty{mode}, nil
	}

	if b, ok := builtins[words[0]]; ok {
		return b.parse(mode, words)
	}
	return Exec{Mode: mode, Args: words}, nil
}

func trimBackground(words []string) ([]string, bool) {
	if len(words) == 0 {
		return words, false
	}
	last := words[len(words)-1]
	switch {
	case last == "&":
		return words[:len(words)-1], true
	case strings.HasSuffix(last, "&"):
		out := append([]string(nil), words...)
		out[len(out)-1] = strings.TrimSuffix(last, "&")
		return out, true
	}
	return words, false
}

type builtin struct {
	short   string
	params  string
	minArgs int
	maxArgs int
	build   func(mode Mode, args []string) (Command, error)
}

var builtins = map[string]builtin{
	"procs": {
		short: "List background processes and their status.",
		build: func(mode Mode, args []string) (Command, error) {
			return Procs{mode}, nil
		},
	},
	"cd": {
		short:   "Change the shell working directory.",
		params:  "[DIR]",
		maxArgs: 1,
		build: func(mode Mode, args []string) (Command, error) {
			cmd := Cd{Mode: mode}
			if len(args) == 1 {
				cmd.Dir = args[0]
			}
			return cmd, nil
		},
	},
	"kill": {
		short:   "Send SIGINT to a process.",
		params:  "PID",
		minArgs: 1,
		maxArgs: 1,
		build: func(mode Mode, args []string) (Command, error) {
			pid, err := parsePid(args[0])
			if err != nil {
				return nil, err
			}
			return Kill{Mode: mode, Pid: pid}, nil
		},
	},
	"suspend": {
		short:   "Stop a process for a number of seconds, then resume it.",
		params:  "PID SECONDS",
		minArgs: 2,
		maxArgs: 2,
		build: func(mode Mode, args []string) (Command, error) {
			pid, err := parsePid(args[0])
			if err != nil {
				return nil, err
			}
			d, err := parseSeconds(args[1])
			if err != nil {
				return nil, err
			}
			return Suspend{Mode: mode, Pid: pid, Duration: d}, nil
		},
	},
	"history": {
		short: "Display the history list.",
		build: func(mode Mode, args []string) (Command, error) {
			return History{mode}, nil
		},
	},
}

// Builtins lists the names handled by the shell itself.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

func (b builtin) parse(mode Mode, words []string) (Command, error) {
	name := words[0]

	opts := getopt.New()
	opts.SetProgram(name)
	opts.SetParameters(b.params)
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(words, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if *helpOpt {
		var usage bytes.Buffer
		fmt.Fprintln(&usage, b.short)
		opts.PrintUsage(&usage)
		return Help{Mode: mode, Name: name, Usage: usage.String()}, nil
	}

	args := opts.Args()
	switch {
	case len(args) < b.minArgs:
		return nil, fmt.Errorf("%s: %w", name, ErrMissingArgument)
	case len(args) > b.maxArgs:
		return nil, fmt.Errorf("%s: %w", name, ErrTooManyArguments)
	}

	cmd, err := b.build(mode, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cmd, nil
}

func parsePid(s string) (int, error) {
	pid, err := strconv.Atoi(s)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPid, s)
	}
	return pid, nil
}

var maxSeconds = float64(math.MaxInt64) / float64(time.Second)

func parseSeconds(s string) (time.Duration, error) {
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs < 0 || math.IsNaN(secs) || secs > maxSeconds {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
