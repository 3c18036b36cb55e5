// Package prompt asks the operator yes/no questions.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ErrUnavailable is returned when no operator can answer, for example when
// stdin is not a terminal.
var ErrUnavailable = errors.New("interactive prompt unavailable")

// Confirmer asks a yes/no question. def is the answer used for empty input.
type Confirmer interface {
	Confirm(ctx context.Context, question string, def bool) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, question string, def bool) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	return f(ctx, question, def)
}

// AssumeYes answers yes to every question without prompting.
type AssumeYes struct{}

// Confirm implements Confirmer.
func (AssumeYes) Confirm(context.Context, string, bool) (bool, error) { return true, nil }

// TerminalConfirmer reads answers from a terminal.
type TerminalConfirmer struct {
	in          io.Reader
	out         io.Writer
	interactive func() bool
}

// NewTerminalConfirmer prompts on stderr and reads from stdin.
func NewTerminalConfirmer() *TerminalConfirmer {
	return &TerminalConfirmer{
		in:  os.Stdin,
		out: os.Stderr,
		interactive: func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}
}

// NewReaderConfirmer prompts on out and reads answers from in, which is
// always treated as interactive.
func NewReaderConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: in, out: out, interactive: func() bool { return true }}
}

type answer struct {
	line string
	err  error
}

// Confirm writes question with a [y/N] or [Y/n] hint and waits for a line.
// Unrecognized answers are asked again. Returns ErrUnavailable when the input
// is not interactive or is closed before an answer.
func (c *TerminalConfirmer) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	if !c.interactive() {
		return def, ErrUnavailable
	}

	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}

	lines := make(chan answer, 1)
	reader := bufio.NewReader(c.in)
	read := func() {
		line, err := reader.ReadString('\n')
		lines <- answer{line: line, err: err}
	}

	for {
		if _, err := fmt.Fprintf(c.out, "%s %s ", question, hint); err != nil {
			return def, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		go read()
		var a answer
		select {
		case <-ctx.Done():
			return def, ctx.Err()
		case a = <-lines:
		}

		if a.err != nil && strings.TrimSpace(a.line) == "" {
			if errors.Is(a.err, io.EOF) {
				return def, ErrUnavailable
			}
			return def, fmt.Errorf("%w: %w", ErrUnavailable, a.err)
		}

		if v, ok := parseAnswer(a.line, def); ok {
			return v, nil
		}
		_, _ = fmt.Fprintln(c.out, "Please answer yes or no.")
	}
}

func parseAnswer(line string, def bool) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return def, true
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}
