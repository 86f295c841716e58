package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

// Prompt functions are variables so tests can script the terminal.
//
//nolint:gochecknoglobals // Swappable prompt functions are the CLI test seam
var (
	promptSecretFn = promptSecret
	promptLineFn   = promptLine
)

// errCanceled is returned when the user quits an interactive flow.
var errCanceled = walleterr.New("CANCELED", "canceled by user") //nolint:gochecknoglobals // sentinel

//nolint:gochecknoglobals // one buffered reader so lines are not lost between prompts
var stdinReader = bufio.NewReader(os.Stdin)

// promptSecret reads a line without echo. The caller is responsible for
// zeroing the returned bytes after use. Piped input is read as a plain line.
func promptSecret(w io.Writer, prompt string) ([]byte, error) {
	out(w, "%s", prompt)

	fd := int(os.Stdin.Fd()) //nolint:gosec // G115: Fd() returns uintptr, safe conversion for term.ReadPassword
	if !term.IsTerminal(fd) {
		line, err := readLine(stdinReader)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	secret, err := term.ReadPassword(fd)
	outln(w) // Add newline after hidden input
	if err != nil {
		return nil, fmt.Errorf("reading hidden input: %w", err)
	}
	return secret, nil
}

// promptLine reads one line of visible input.
func promptLine(w io.Writer, prompt string) (string, error) {
	out(w, "%s", prompt)
	return readLine(stdinReader)
}

// readLine returns the next line without its terminator. EOF with no data
// means the user closed input and is treated as a cancel.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errCanceled
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// out is a helper for CLI output that ignores write errors (standard pattern for CLI tools).
//
//nolint:errcheck // CLI output writes are intentionally unchecked
func out(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes are intentionally unchecked
func outln(w io.Writer, args ...any) {
	fmt.Fprintln(w, args...)
}
