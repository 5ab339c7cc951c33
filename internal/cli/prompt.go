package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/studiowebux/adminctl/internal/config"
	"github.com/studiowebux/adminctl/internal/dialog"
)

// ErrConfirmationRequired is returned when a confirmation cannot be asked
var ErrConfirmationRequired = errors.New("confirmation required: rerun with --yes")

// Prompter answers dashboard dialogs on a plain terminal
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	assumeYes   bool
	interactive bool
}

// NewPrompter reads answers from in and writes questions to out. Without
// interactive, prompts take their default and confirmations need assumeYes.
func NewPrompter(in io.Reader, out io.Writer, assumeYes, interactive bool) *Prompter {
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		assumeYes:   assumeYes,
		interactive: interactive,
	}
}

// Notify prints a notice. Error notices are left to the caller, which
// returns the same error.
func (p *Prompter) Notify(ctx context.Context, tone dialog.Tone, title, body string) error {
	if tone == dialog.ToneError {
		return nil
	}
	fmt.Fprintf(p.out, "%s %s\n%s\n", tone.Icon(), title, body)
	return nil
}

// Confirm asks a yes/no question, "y" or "yes" accepts
func (p *Prompter) Confirm(ctx context.Context, body string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if p.assumeYes {
		fmt.Fprintf(p.out, "%s [yes]\n", body)
		return true, nil
	}
	if !p.interactive {
		return false, ErrConfirmationRequired
	}

	fmt.Fprintf(p.out, "%s [y/N]: ", body)
	answer, err := p.readLine()
	if err != nil {
		return false, nil
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Prompt asks for a value. A bare Enter keeps the bracketed defaultValue,
// the line analogue of the TUI's pre-filled input. Blank input submits
// the empty string. End of input cancels.
func (p *Prompter) Prompt(ctx context.Context, body, defaultValue string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if !p.interactive {
		return defaultValue, true, nil
	}

	if defaultValue != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", body, defaultValue)
	} else {
		fmt.Fprintf(p.out, "%s ", body)
	}
	raw, err := p.readRaw()
	if err != nil {
		return "", false, nil
	}
	if raw == "" {
		return defaultValue, true, nil
	}
	return strings.TrimSpace(raw), true, nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.readRaw()
	return strings.TrimSpace(line), err
}

// readRaw reads one line without its line ending
func (p *Prompter) readRaw() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// IsInteractive checks if stdin is a terminal (not piped)
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ReadCredential returns the admin key from the environment, or asks for
// it without echo when stdin is a terminal. It returns "" when neither is
// available; the key is never written anywhere.
func ReadCredential(prompt io.Writer) (string, error) {
	if key := strings.TrimSpace(os.Getenv(config.CredentialEnv)); key != "" {
		return key, nil
	}
	if !IsInteractive() {
		return "", nil
	}

	fmt.Fprint(prompt, "Admin key: ")
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read admin key: %w", err)
	}
	return strings.TrimSpace(string(key)), nil
}
