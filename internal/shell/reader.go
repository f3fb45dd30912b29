package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
)

// LineReader reads one line of input per call. *readline.Instance implements
// it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

var _ LineReader = (*readline.Instance)(nil)

// newLineReader uses readline on terminals and plain buffered reads otherwise.
func newLineReader(stdin io.Reader, stdout io.Writer, history []string) (LineReader, error) {
	if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		rl, err := readline.NewEx(&readline.Config{
			Prompt: "$ ",
			Stdin:  f,
			Stdout: stdout,
		})
		if err != nil {
			return nil, err
		}
		for _, line := range history {
			if err := rl.SaveHistory(line); err != nil {
				logger.Printf("loading history: %v", err)
			}
		}
		return rl, nil
	}
	return NewBufferedReader(stdin, stdout), nil
}

type bufferedReader struct {
	r      *bufio.Reader
	out    io.Writer
	prompt string
}

// NewBufferedReader reads lines from r, writing the prompt to out before each
// one.
func NewBufferedReader(r io.Reader, out io.Writer) LineReader {
	return &bufferedReader{r: bufio.NewReader(r), out: out}
}

func (b *bufferedReader) Readline() (string, error) {
	fmt.Fprint(b.out, b.prompt)

	line, err := b.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func (b *bufferedReader) SetPrompt(prompt string) {
	b.prompt = prompt
}

func (b *bufferedReader) Close() error {
	return nil
}
