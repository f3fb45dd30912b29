package shell

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

var mediatedSignals = []os.Signal{unix.SIGINT, unix.SIGTSTP, unix.SIGCONT}

// SignalMediator announces SIGINT, SIGTSTP and SIGCONT and then lets the
// default action happen: it restores the default disposition and raises the
// signal again. SIGTSTP and SIGCONT are always reset together. It never
// touches the job table.
type SignalMediator struct {
	out   io.Writer
	raise func(sig syscall.Signal) error

	sigCh chan os.Signal
	done  chan struct{}
	once  sync.Once
}

func NewSignalMediator(out io.Writer) *SignalMediator {
	return &SignalMediator{
		out: out,
		raise: func(sig syscall.Signal) error {
			return unix.Kill(os.Getpid(), sig)
		},
		sigCh: make(chan os.Signal, len(mediatedSignals)),
		done:  make(chan struct{}),
	}
}

// Install starts relaying signals. It must be called at most once.
func (m *SignalMediator) Install() {
	signal.Notify(m.sigCh, mediatedSignals...)
	go m.loop()
}

// Stop stops relaying signals.
func (m *SignalMediator) Stop() {
	m.once.Do(func() {
		signal.Stop(m.sigCh)
		close(m.done)
	})
}

func (m *SignalMediator) loop() {
	for {
		select {
		case sig := <-m.sigCh:
			m.handle(sig.(syscall.Signal))
		case <-m.done:
			return
		}
	}
}

func (m *SignalMediator) handle(sig syscall.Signal) {
	fmt.Fprintf(m.out, "\nReceived Signal: %s\n", unix.SignalName(sig))

	switch sig {
	case unix.SIGTSTP, unix.SIGCONT:
		signal.Reset(unix.SIGTSTP, unix.SIGCONT)
	default:
		signal.Reset(sig)
	}

	if err := m.raise(sig); err != nil {
		logger.Printf("raising %s: %v", unix.SignalName(sig), err)
	}
}
