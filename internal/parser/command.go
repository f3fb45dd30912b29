package parser

import "time"

// Command is the result of parsing one line. The concrete type is one of
// Empty, Procs, Cd, Kill, Suspend, History, Help or Exec.
type Command interface {
	// IsBlocking reports whether the shell waits for the command to finish
	// before prompting again.
	IsBlocking() bool
	command()
}

// Mode is shared by every command.
type Mode struct {
	Blocking bool
}

func (m Mode) IsBlocking() bool { return m.Blocking }

func (Mode) command() {}

// Empty is a blank line.
type Empty struct {
	Mode
}

// Procs lists tracked processes.
type Procs struct {
	Mode
}

// Cd changes the working directory. An empty Dir means the home directory.
type Cd struct {
	Mode
	Dir string
}

// Kill interrupts a process.
type Kill struct {
	Mode
	Pid int
}

// Suspend stops a process for Duration and then resumes it.
type Suspend struct {
	Mode
	Pid      int
	Duration time.Duration
}

// History lists previously entered lines.
type History struct {
	Mode
}

// Help carries the usage text of a builtin invoked with -h.
type Help struct {
	Mode
	Name  string
	Usage string
}

// Exec runs an external program.
type Exec struct {
	Mode
	Args []string
}

var (
	_ Command = Empty{}
	_ Command = Procs{}
	_ Command = Cd{}
	_ Command = Kill{}
	_ Command = Suspend{}
	_ Command = History{}
	_ Command = Help{}
	_ Command = Exec{}
)
