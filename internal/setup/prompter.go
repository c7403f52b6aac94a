package setup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrCancelled is returned when the user interrupts a prompt.
var ErrCancelled = errors.New("setup cancelled")

// Prompter reads answers from the user.
type Prompter interface {
	// Ask reads one line. An empty answer returns "".
	Ask(prompt string) (string, error)
	// AskSecret reads one line without echoing it.
	AskSecret(prompt string) (string, error)
	Close() error
}

// ReadlinePrompter prompts on a terminal through readline.
type ReadlinePrompter struct {
	rl *readline.Instance
}

// NewReadlinePrompter creates a prompter reading from in and writing to out.
func NewReadlinePrompter(in io.ReadCloser, out io.Writer) (*ReadlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:           in,
		Stdout:          out,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	return &ReadlinePrompter{rl: rl}, nil
}

// Ask implements Prompter.
func (p *ReadlinePrompter) Ask(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	line, err := p.rl.Readline()
	if err != nil {
		return "", translate(err)
	}
	return strings.TrimSpace(line), nil
}

// AskSecret implements Prompter.
func (p *ReadlinePrompter) AskSecret(prompt string) (string, error) {
	secret, err := p.rl.ReadPassword(prompt)
	if err != nil {
		return "", translate(err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// Close implements Prompter.
func (p *ReadlinePrompter) Close() error {
	return p.rl.Close()
}

func translate(err error) error {
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return ErrCancelled
	}
	return fmt.Errorf("readline error: %w", err)
}
