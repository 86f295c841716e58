package cli

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/cwallet/internal/config"
	"github.com/mrz1836/cwallet/internal/verify"
	"github.com/mrz1836/cwallet/internal/wallet"
)

const (
	abandonPhrase  = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	abandonAddress = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	hardhatKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	hardhatAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	fakeAddress = "0x000000000000000000000000000000000000dEaD"
	fakeKey     = "0xfeedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedface"
)

// testIO captures what a command context writes.
type testIO struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// newTestContext builds a command context over buffers with the given
// output format.
func newTestContext(t *testing.T, format string) (*CommandContext, *testIO) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Home = t.TempDir()
	cfg.Output.DefaultFormat = format
	cfg.Output.Color = "never"
	cfg.Output.ShowQR = false

	tio := &testIO{}
	return NewCommandContext(cfg, zerolog.Nop(), &tio.stdout, &tio.stderr), tio
}

// fakeProvider generates distinct, recognizable words and fixed keys.
type fakeProvider struct {
	generated int
}

func (f *fakeProvider) Generate() (wallet.RecoveryPhrase, error) {
	f.generated++
	words := make(wallet.RecoveryPhrase, 12)
	for i := range words {
		words[i] = fmt.Sprintf("gen%dword%02d", f.generated, i+1)
	}
	return words, nil
}

func (f *fakeProvider) DeriveFromPhrase(phrase wallet.RecoveryPhrase) (*wallet.DerivedWallet, error) {
	return &wallet.DerivedWallet{
		Address:    fakeAddress,
		PrivateKey: fakeKey,
		Mnemonic:   phrase,
		Path:       wallet.DefaultPath(),
	}, nil
}

func (f *fakeProvider) DeriveFromPrivateKey(string) (wallet.KeyPair, error) {
	return wallet.KeyPair{Address: fakeAddress, PrivateKey: fakeKey}, nil
}

func seededSource(seed int64) verify.Source {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test source
}

// withPromptLines swaps promptLineFn for the duration of the test.
func withPromptLines(t *testing.T, fn func(w io.Writer, prompt string) (string, error)) {
	t.Helper()
	orig := promptLineFn
	t.Cleanup(func() { promptLineFn = orig })
	promptLineFn = fn
}

// scriptedLines returns prompts that answer with lines in order and cancel
// once they run out.
func scriptedLines(lines []string) func(io.Writer, string) (string, error) {
	return func(io.Writer, string) (string, error) {
		if len(lines) == 0 {
			return "", errCanceled
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}
}

// withPromptSecret swaps promptSecretFn to return value.
func withPromptSecret(t *testing.T, value string) {
	t.Helper()
	orig := promptSecretFn
	t.Cleanup(func() { promptSecretFn = orig })
	promptSecretFn = func(io.Writer, string) ([]byte, error) {
		return []byte(value), nil
	}
}

// solver answers prompts the way a user holding the phrase would. The
// first wrongRounds boards are answered with the wrong word in slot 0.
type solver struct {
	b           board
	wrongRounds int
	boards      int
	confirm     []string
}

func (s *solver) prompt(_ io.Writer, prompt string) (string, error) {
	if strings.HasPrefix(prompt, "Have you written") {
		if len(s.confirm) > 0 {
			answer := s.confirm[0]
			s.confirm = s.confirm[1:]
			return answer, nil
		}
		return "y", nil
	}

	if s.b.CanSubmit() {
		s.boards++
		return "", nil
	}

	ch := s.b.Challenge()
	answers := s.b.Answers()
	slot := 0
	for answers[slot] != "" {
		slot++
	}
	want := ch.CorrectWords()[slot]
	wrong := slot == 0 && s.boards < s.wrongRounds

	pool := ch.Pool()
	for i, w := range pool {
		if s.b.IsConsumed(i) {
			continue
		}
		if (w == want) != wrong {
			return strconv.Itoa(i + 1), nil
		}
	}
	// Nothing matches the request; any free entry keeps the board moving
	for i := range pool {
		if !s.b.IsConsumed(i) {
			return strconv.Itoa(i + 1), nil
		}
	}
	return "q", nil
}

func requireNoSecrets(t *testing.T, s string) {
	t.Helper()
	require.NotContains(t, s, strings.TrimPrefix(fakeKey, "0x"))
	require.NotContains(t, s, strings.TrimPrefix(hardhatKey, "0x"))
}
