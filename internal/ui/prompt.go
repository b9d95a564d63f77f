// ABOUTME: Line-oriented prompts for yes/no confirmation and free-text choices
// ABOUTME: Used when stdin is not a terminal; EOF is treated as a cancel

package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled")

// LinePrompt reads answers one line at a time.
type LinePrompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompt returns a prompt reading from in and writing to out.
func NewLinePrompt(in io.Reader, out io.Writer) *LinePrompt {
	return &LinePrompt{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the trimmed answer.
func (p *LinePrompt) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && line == "":
		return "", ErrCancelled
	case err != nil && !errors.Is(err, io.EOF):
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a destructive yes/no question. Only "y" (any case) accepts.
func (p *LinePrompt) Confirm(prompt string) bool {
	answer, err := p.Ask(Error(prompt+" (y/N): "))
	if err != nil {
		return false
	}
	return strings.EqualFold(answer, "y")
}

// Choose asks for one of options. The answer is returned as typed;
// validation is left to the caller so aliases keep working.
func (p *LinePrompt) Choose(question string, options []string) (string, error) {
	return p.Ask(Bold(fmt.Sprintf("%s (%s): ", question, strings.Join(options, "/"))))
}
