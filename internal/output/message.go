package output

import (
	"fmt"
	"io"
)

// Notice prefixes. Warnings go to stderr so they never mix with results.
type prefixes struct {
	info, warn, success string
}

var (
	fancyPrefixes = prefixes{info: "ℹ️  ", warn: "⚠️  ", success: "✅ "}
	plainPrefixes = prefixes{info: "info: ", warn: "warning: ", success: "ok: "}
)

// Messenger prints short status lines around command results.
type Messenger struct {
	out    io.Writer
	err    io.Writer
	quiet  bool
	prefix prefixes
}

// NewMessenger creates a messenger. When quiet is set (JSON output) info and
// success lines are dropped; warnings are always written to errOut. Plain
// swaps the emoji prefixes for words, for output.color=never and NO_COLOR.
func NewMessenger(out, errOut io.Writer, quiet, plain bool) *Messenger {
	m := &Messenger{out: out, err: errOut, quiet: quiet, prefix: fancyPrefixes}
	if plain {
		m.prefix = plainPrefixes
	}
	return m
}

// Infof prints an informational line.
func (m *Messenger) Infof(format string, args ...any) {
	if m.quiet {
		return
	}
	_, _ = fmt.Fprintln(m.out, m.prefix.info+fmt.Sprintf(format, args...))
}

// Warnf prints a warning line to the error writer.
func (m *Messenger) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintln(m.err, m.prefix.warn+fmt.Sprintf(format, args...))
}

// Successf prints a success line.
func (m *Messenger) Successf(format string, args ...any) {
	if m.quiet {
		return
	}
	_, _ = fmt.Fprintln(m.out, m.prefix.success+fmt.Sprintf(format, args...))
}
