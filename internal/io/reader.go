package io

import (
	"bufio"
	"fmt"
	goio "io"
	"strings"
)

// Prompter asks questions on an interactive terminal
type Prompter struct {
	in  *bufio.Reader
	out goio.Writer
}

// NewPrompter creates a prompter reading answers from in and writing
// questions to out.
func NewPrompter(in goio.Reader, out goio.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask prints the question and returns the trimmed answer. An answer cut
// short by end of input is still returned.
func (p *Prompter) Ask(question string) (string, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(err == goio.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
