package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ErrNoInput is returned when the input is exhausted.
var ErrNoInput = errors.New("console: no more input")

// Prompter asks the user for input.
type Prompter interface {
	// Line asks for one line of text, without the trailing newline.
	Line(label string) (string, error)
	// Secret asks for text that must not be echoed.
	Secret(label string) (string, error)
}

// Confirm asks a yes/no question. Only y and yes (any case) count as yes.
func Confirm(p Prompter, label string) (bool, error) {
	ans, err := p.Line(label + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(ans)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// TermPrompter reads from a file, hiding secrets when it is a terminal.
type TermPrompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

// NewTermPrompter returns a Prompter reading in and writing labels to out.
func NewTermPrompter(in *os.File, out io.Writer) *TermPrompter {
	fd := int(in.Fd())
	return &TermPrompter{in: bufio.NewReader(in), out: out, fd: fd, tty: term.IsTerminal(fd)}
}

func (p *TermPrompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label+": ")
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *TermPrompter) Secret(label string) (string, error) {
	if !p.tty {
		return p.Line(label)
	}
	fmt.Fprint(p.out, label+": ")
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ScriptedPrompter answers prompts from a fixed list, for tests and piped sessions.
type ScriptedPrompter struct {
	mu      sync.Mutex
	answers []string
	// Asked records every label in order.
	Asked []string
}

// NewScriptedPrompter returns a prompter that replays answers.
func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{answers: answers}
}

func (p *ScriptedPrompter) Line(label string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Asked = append(p.Asked, label)
	if len(p.answers) == 0 {
		return "", ErrNoInput
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *ScriptedPrompter) Secret(label string) (string, error) { return p.Line(label) }

// Remaining returns how many answers are left.
func (p *ScriptedPrompter) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.answers)
}
