package flow

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/cwallet/internal/metrics"
	"github.com/mrz1836/cwallet/internal/verify"
	"github.com/mrz1836/cwallet/internal/wallet"
	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

const (
	fakeAddress = "0x000000000000000000000000000000000000dEaD"
	fakeKey     = "0xfeedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedface"
)

type fakeProvider struct {
	genErr    error
	deriveErr error
	generated int
	derived   []wallet.RecoveryPhrase
	keys      []string
}

func (f *fakeProvider) Generate() (wallet.RecoveryPhrase, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	f.generated++
	phrase := make(wallet.RecoveryPhrase, 12)
	for i := range phrase {
		phrase[i] = fmt.Sprintf("secretword%02d", i+1)
	}
	return phrase, nil
}

func (f *fakeProvider) DeriveFromPhrase(phrase wallet.RecoveryPhrase) (*wallet.DerivedWallet, error) {
	f.derived = append(f.derived, phrase)
	if f.deriveErr != nil {
		return nil, f.deriveErr
	}
	return &wallet.DerivedWallet{
		Address:    fakeAddress,
		PrivateKey: fakeKey,
		Mnemonic:   phrase,
		Path:       wallet.DefaultPath(),
	}, nil
}

func (f *fakeProvider) DeriveFromPrivateKey(key string) (wallet.KeyPair, error) {
	f.keys = append(f.keys, key)
	if f.deriveErr != nil {
		return wallet.KeyPair{}, f.deriveErr
	}
	return wallet.KeyPair{Address: fakeAddress, PrivateKey: fakeKey}, nil
}

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time {
	return c.t
}

func newTestController(t *testing.T, p wallet.KeyMaterialProvider, opts ...Option) (*Controller, *metrics.Metrics) {
	t.Helper()
	m := &metrics.Metrics{}
	base := []Option{
		WithMetrics(m),
		WithGenerator(verify.NewGenerator(rand.New(rand.NewSource(1)))), //nolint:gosec // deterministic test source
	}
	return NewController(p, append(base, opts...)...), m
}

// toVerify drives a controller from login to the verify screen.
func toVerify(t *testing.T, c *Controller) *verify.Challenge {
	t.Helper()
	require.NoError(t, c.GoCreate())
	_, err := c.GeneratePhrase()
	require.NoError(t, err)
	ch, err := c.ContinueToVerify()
	require.NoError(t, err)
	return ch
}

func answerCorrectly(t *testing.T, c *Controller) {
	t.Helper()
	for _, w := range c.Challenge().CorrectWords() {
		_, err := c.Select(w)
		require.NoError(t, err)
	}
}

func answerWrong(t *testing.T, c *Controller) {
	t.Helper()
	ch := c.Challenge()
	correct := ch.CorrectWords()

	var decoy string
	for _, w := range ch.Pool() {
		if !containsWord(correct, w) {
			decoy = w
			break
		}
	}
	require.NotEmpty(t, decoy)

	_, err := c.Select(decoy)
	require.NoError(t, err)
	for _, w := range correct[1:] {
		_, err = c.Select(w)
		require.NoError(t, err)
	}
}

func containsWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

func TestController_CreateHappyPath(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{}
	c, m := newTestController(t, p)
	assert.Equal(t, ScreenLogin, c.Screen())

	require.NoError(t, c.GoCreate())
	assert.Equal(t, ScreenCreateWallet, c.Screen())

	phrase, err := c.GeneratePhrase()
	require.NoError(t, err)
	assert.Equal(t, 12, phrase.Len())
	assert.Equal(t, phrase, c.Phrase())

	ch, err := c.ContinueToVerify()
	require.NoError(t, err)
	assert.Equal(t, ScreenVerifyMnemonic, c.Screen())
	assert.Equal(t, verify.WordsToVerify, ch.Slots())
	assert.Equal(t, verify.PoolSize, ch.PoolLen())
	assert.False(t, c.CanSubmit())

	answerCorrectly(t, c)
	assert.True(t, c.CanSubmit())
	assert.Equal(t, ch.CorrectWords(), c.Answers())

	ok, err := c.Submit()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ScreenWalletSummary, c.Screen())
	require.Len(t, p.derived, 1)
	assert.Equal(t, phrase, p.derived[0])

	w := c.Wallet()
	require.NotNil(t, w)
	assert.Equal(t, fakeAddress, w.Address)
	assert.Equal(t, fakeAddress, c.Address())
	assert.Nil(t, c.Phrase())
	assert.Nil(t, c.Challenge())

	require.NoError(t, c.ContinueHome())
	assert.Equal(t, ScreenHome, c.Screen())
	assert.Equal(t, fakeAddress, c.Address())
	assert.Nil(t, c.Wallet())

	require.NoError(t, c.Logout())
	assert.Equal(t, ScreenLogin, c.Screen())
	assert.Empty(t, c.Address())

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.ChallengesIssued)
	assert.Equal(t, int64(1), snap.VerificationsPassed)
	assert.Equal(t, int64(1), snap.PhraseDerivations)
}

func TestController_FailedSubmitRegenerates(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{}
	c, m := newTestController(t, p)
	first := toVerify(t, c)

	answerWrong(t, c)
	ok, err := c.Submit()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ScreenVerifyMnemonic, c.Screen())
	assert.Equal(t, 1, c.Attempts())
	assert.Empty(t, p.derived)

	second := c.Challenge()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.Positions(), second.Positions())
	assert.Equal(t, []string{"", "", ""}, c.Answers())

	answerCorrectly(t, c)
	ok, err = c.Submit()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Attempts())

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.ChallengesIssued)
	assert.Equal(t, int64(1), snap.VerificationsFailed)
	assert.Equal(t, int64(1), snap.VerificationsPassed)
}

func TestController_SubmitRequiresCompleteAnswers(t *testing.T) {
	t.Parallel()

	c, m := newTestController(t, &fakeProvider{})
	ch := toVerify(t, c)

	_, err := c.Select(ch.CorrectWords()[0])
	require.NoError(t, err)

	ok, err := c.Submit()
	require.ErrorIs(t, err, walleterr.ErrIncompleteAnswer)
	assert.False(t, ok)
	assert.Same(t, ch, c.Challenge())
	assert.Zero(t, c.Attempts())
	assert.Zero(t, m.Snapshot().VerificationsFailed)
}

func TestController_SelectAndClear(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t, &fakeProvider{})
	ch := toVerify(t, c)
	correct := ch.CorrectWords()

	slot, err := c.Select(correct[1])
	require.NoError(t, err)
	assert.Equal(t, 0, slot)

	require.NoError(t, c.ClearSlot(0))

	pool := ch.Pool()
	for _, w := range correct {
		idx := -1
		for i, p := range pool {
			if p == w {
				idx = i
				break
			}
		}
		_, err = c.SelectIndex(idx)
		require.NoError(t, err)
		assert.True(t, c.IsConsumed(idx))
	}
	assert.Equal(t, correct, c.Answers())

	_, err = c.Select(correct[0])
	require.ErrorIs(t, err, verify.ErrSlotsFull)
	require.ErrorIs(t, c.ClearSlot(7), verify.ErrSlotOutOfRange)
}

func TestController_SubmitThrottled(t *testing.T) {
	t.Parallel()

	clock := &testClock{t: time.Unix(1_700_000_000, 0)}
	c, m := newTestController(t, &fakeProvider{},
		WithLimiter(NewAttemptLimiter(2)),
		WithClock(clock.Now),
	)
	toVerify(t, c)

	for i := 0; i < 2; i++ {
		answerWrong(t, c)
		ok, err := c.Submit()
		require.NoError(t, err)
		assert.False(t, ok)
	}

	answerCorrectly(t, c)
	ok, err := c.Submit()
	require.ErrorIs(t, err, walleterr.ErrTooManyAttempts)
	assert.False(t, ok)
	assert.Equal(t, walleterr.ExitVerify, walleterr.ExitCode(err))
	assert.Equal(t, 30*time.Second, c.RetryAfter())
	assert.Equal(t, int64(1), m.Snapshot().VerificationsThrottled)

	// Answers survive a throttled submission
	assert.True(t, c.CanSubmit())

	clock.t = clock.t.Add(30 * time.Second)
	ok, err = c.Submit()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestController_GeneratePhraseResets(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{}
	c, _ := newTestController(t, p)
	toVerify(t, c)
	answerWrong(t, c)
	_, err := c.Submit()
	require.NoError(t, err)

	require.NoError(t, c.Back())
	assert.Equal(t, ScreenCreateWallet, c.Screen())
	assert.NotEmpty(t, c.Phrase())

	_, err = c.GeneratePhrase()
	require.NoError(t, err)
	assert.Equal(t, 2, p.generated)
	assert.Zero(t, c.Attempts())

	require.NoError(t, c.Back())
	assert.Equal(t, ScreenLogin, c.Screen())

	require.NoError(t, c.GoCreate())
	_, err = c.ContinueToVerify()
	require.ErrorIs(t, err, walleterr.ErrInvalidNavigation)
}

func TestController_GenerateError(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t, &fakeProvider{genErr: walleterr.ErrGeneral})
	require.NoError(t, c.GoCreate())
	_, err := c.GeneratePhrase()
	require.ErrorIs(t, err, walleterr.ErrGeneral)
	assert.Equal(t, ScreenCreateWallet, c.Screen())
}

func TestController_DeriveErrorStaysOnVerify(t *testing.T) {
	t.Parallel()

	c, m := newTestController(t, &fakeProvider{deriveErr: walleterr.ErrInvalidPhrase})
	toVerify(t, c)
	answerCorrectly(t, c)

	ok, err := c.Submit()
	require.ErrorIs(t, err, walleterr.ErrInvalidPhrase)
	assert.False(t, ok)
	assert.Equal(t, ScreenVerifyMnemonic, c.Screen())
	assert.Equal(t, int64(1), m.Snapshot().DerivationErrors)
}

func TestController_InvalidNavigation(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t, &fakeProvider{})

	tests := []struct {
		name string
		call func() error
	}{
		{"back from login", c.Back},
		{"generate on login", func() error { _, err := c.GeneratePhrase(); return err }},
		{"verify on login", func() error { _, err := c.ContinueToVerify(); return err }},
		{"select on login", func() error { _, err := c.Select("a"); return err }},
		{"select index on login", func() error { _, err := c.SelectIndex(0); return err }},
		{"clear on login", func() error { return c.ClearSlot(0) }},
		{"submit on login", func() error { _, err := c.Submit(); return err }},
		{"import phrase on login", func() error { _, err := c.ImportMnemonic("a"); return err }},
		{"import key on login", func() error { _, err := c.ImportPrivateKey("a"); return err }},
		{"home on login", c.ContinueHome},
		{"logout on login", c.Logout},
	}

	for _, tc := range tests {
		err := tc.call()
		require.ErrorIs(t, err, walleterr.ErrInvalidNavigation, tc.name)

		var we *walleterr.WalletError
		require.ErrorAs(t, err, &we)
		assert.Equal(t, "login", we.Details["screen"], tc.name)
	}
	assert.Equal(t, ScreenLogin, c.Screen())

	require.NoError(t, c.GoImport())
	require.ErrorIs(t, c.GoCreate(), walleterr.ErrInvalidNavigation)
	require.ErrorIs(t, c.GoImport(), walleterr.ErrInvalidNavigation)
}

func TestController_ImportMnemonic(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{}
	c, m := newTestController(t, p)
	require.NoError(t, c.GoImport())

	_, err := c.ImportMnemonic("one two three")
	require.ErrorIs(t, err, walleterr.ErrInvalidPhrase)
	var we *walleterr.WalletError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "3", we.Details["words"])
	assert.Empty(t, p.derived)

	w, err := c.ImportMnemonic(strings.Repeat("Word ", 12))
	require.NoError(t, err)
	assert.Equal(t, fakeAddress, w.Address)
	assert.Equal(t, ScreenHome, c.Screen())
	assert.Equal(t, fakeAddress, c.Address())
	require.Len(t, p.derived, 1)
	assert.Equal(t, "word", p.derived[0][0])
	assert.Equal(t, int64(1), m.Snapshot().PhraseDerivations)

	require.ErrorIs(t, c.Back(), walleterr.ErrInvalidNavigation)
}

func TestController_ImportPrivateKey(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{}
	c, m := newTestController(t, p)
	require.NoError(t, c.GoImport())

	pair, err := c.ImportPrivateKey(fakeKey)
	require.NoError(t, err)
	assert.Equal(t, fakeAddress, pair.Address)
	assert.Equal(t, ScreenHome, c.Screen())
	assert.Equal(t, int64(1), m.Snapshot().KeyDerivations)
}

func TestController_ImportErrors(t *testing.T) {
	t.Parallel()

	c, m := newTestController(t, &fakeProvider{deriveErr: walleterr.ErrInvalidKey})
	require.NoError(t, c.GoImport())

	_, err := c.ImportPrivateKey("nope")
	require.ErrorIs(t, err, walleterr.ErrInvalidKey)
	assert.Equal(t, ScreenImportWallet, c.Screen())
	assert.Equal(t, int64(1), m.Snapshot().DerivationErrors)

	require.NoError(t, c.Back())
	assert.Equal(t, ScreenLogin, c.Screen())
}

func TestController_ImportThrottled(t *testing.T) {
	t.Parallel()

	clock := &testClock{t: time.Unix(1_700_000_000, 0)}
	c, _ := newTestController(t, &fakeProvider{deriveErr: walleterr.ErrInvalidKey},
		WithLimiter(NewAttemptLimiter(1)),
		WithClock(clock.Now),
	)
	require.NoError(t, c.GoImport())

	_, err := c.ImportPrivateKey("nope")
	require.ErrorIs(t, err, walleterr.ErrInvalidKey)
	_, err = c.ImportPrivateKey("nope")
	require.ErrorIs(t, err, walleterr.ErrTooManyAttempts)
}

func TestController_RealProvider(t *testing.T) {
	t.Parallel()

	p := wallet.NewProvider()
	c, _ := newTestController(t, p)
	toVerify(t, c)
	phrase := c.Phrase()

	answerCorrectly(t, c)
	ok, err := c.Submit()
	require.NoError(t, err)
	require.True(t, ok)

	expected, err := p.DeriveFromPhrase(phrase)
	require.NoError(t, err)
	assert.Equal(t, expected.Address, c.Wallet().Address)
	assert.Equal(t, expected.PrivateKey, c.Wallet().PrivateKey)
}

func TestController_NeverLogsSecrets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	c, _ := newTestController(t, &fakeProvider{}, WithLogger(logger))
	toVerify(t, c)
	answerWrong(t, c)
	_, err := c.Submit()
	require.NoError(t, err)
	answerCorrectly(t, c)
	_, err = c.Submit()
	require.NoError(t, err)
	require.NoError(t, c.ContinueHome())
	require.NoError(t, c.Logout())

	require.NoError(t, c.GoImport())
	_, err = c.ImportMnemonic(strings.Repeat("secretword01 ", 12))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"component":"flow"`)
	assert.Contains(t, out, fakeAddress)
	assert.NotContains(t, out, "secretword")
	assert.NotContains(t, out, "feedface")
}
