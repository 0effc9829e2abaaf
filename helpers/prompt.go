package helpers

import (
	// Go Internal Packages
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TerminalConfirmer asks the operator on a line-oriented terminal. AssumeYes skips yes/no
// questions and a non-empty Answer is returned to every free-text question without reading.
type TerminalConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	AssumeYes bool
	Answer    string
}

func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: bufio.NewReader(in), out: out}
}

func (t *TerminalConfirmer) Confirm(message string) bool {
	if t.AssumeYes {
		return true
	}
	switch strings.ToLower(t.readLine(message + " [s/N]: ")) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

func (t *TerminalConfirmer) Ask(prompt string) string {
	if t.Answer != "" {
		return t.Answer
	}
	return t.readLine(prompt + " ")
}

func (t *TerminalConfirmer) readLine(prompt string) string {
	_, _ = fmt.Fprint(t.out, prompt)
	line, _ := t.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
