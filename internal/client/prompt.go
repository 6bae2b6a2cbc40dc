package client

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user for input line by line.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Ask prints question and returns the next trimmed line. ok is false at
// end of input.
func (p *Prompter) Ask(question string) (answer string, ok bool) {
	fmt.Fprint(p.out, question)
	if !p.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.scanner.Text()), true
}

// Credentials asks for a username and a password.
func (p *Prompter) Credentials() (username, password string, ok bool) {
	if username, ok = p.Ask("Username: "); !ok {
		return "", "", false
	}
	if password, ok = p.Ask("Password: "); !ok {
		return "", "", false
	}
	return username, password, true
}

// Note asks for a title and a content line.
func (p *Prompter) Note() (title, content string, ok bool) {
	if title, ok = p.Ask("Title: "); !ok {
		return "", "", false
	}
	if content, ok = p.Ask("Content: "); !ok {
		return "", "", false
	}
	return title, content, true
}
