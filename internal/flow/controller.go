// Package flow sequences the wallet screens: Login, Create or Import,
// Verify, Summary and Home.
//
// The Controller owns the recovery phrase, the current challenge and the
// answer set for exactly one user session. It is not safe for concurrent
// use. Nothing it logs contains phrase words or private keys.
package flow

import (
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/cwallet/internal/metrics"
	"github.com/mrz1836/cwallet/internal/verify"
	"github.com/mrz1836/cwallet/internal/wallet"
	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

// maxRegenerate bounds the retries spent looking for a challenge whose
// positions differ from the failed one.
const maxRegenerate = 16

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The controller adds component=flow.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = logger.With().Str("component", "flow").Logger()
	}
}

// WithMetrics records into m instead of metrics.Global.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithGenerator replaces the challenge generator.
func WithGenerator(g *verify.Generator) Option {
	return func(c *Controller) {
		c.generator = g
	}
}

// WithLimiter replaces the attempt limiter.
func WithLimiter(l *AttemptLimiter) Option {
	return func(c *Controller) {
		c.limiter = l
	}
}

// WithClock replaces time.Now for rate limiting and timings.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller drives one session through the wallet screens.
type Controller struct {
	provider  wallet.KeyMaterialProvider
	generator *verify.Generator
	limiter   *AttemptLimiter
	metrics   *metrics.Metrics
	log       zerolog.Logger
	now       func() time.Time

	screen  Screen
	history []Screen

	phrase    wallet.RecoveryPhrase
	challenge *verify.Challenge
	answers   *verify.AnswerSet
	attempts  int
	derived   *wallet.DerivedWallet
	address   string
}

// NewController starts a session on the login screen.
func NewController(provider wallet.KeyMaterialProvider, opts ...Option) *Controller {
	c := &Controller{
		provider:  provider,
		generator: verify.NewGenerator(verify.NewCryptoSource()),
		limiter:   NewAttemptLimiter(DefaultAttemptsPerMinute),
		metrics:   metrics.Global,
		log:       zerolog.Nop(),
		now:       time.Now,
		screen:    ScreenLogin,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Screen returns the current screen.
func (c *Controller) Screen() Screen {
	return c.screen
}

// Phrase returns a copy of the phrase being created, or nil outside the
// create and verify screens.
func (c *Controller) Phrase() wallet.RecoveryPhrase {
	if c.screen != ScreenCreateWallet && c.screen != ScreenVerifyMnemonic {
		return nil
	}
	return slices.Clone(c.phrase)
}

// Challenge returns the active challenge, or nil outside the verify screen.
func (c *Controller) Challenge() *verify.Challenge {
	if c.screen != ScreenVerifyMnemonic {
		return nil
	}
	return c.challenge
}

// Answers returns the words placed so far, "" for empty slots.
func (c *Controller) Answers() []string {
	if c.screen != ScreenVerifyMnemonic || c.answers == nil {
		return nil
	}
	return c.answers.Slots()
}

// IsConsumed reports whether the pool entry at poolIndex already fills a
// slot.
func (c *Controller) IsConsumed(poolIndex int) bool {
	if c.screen != ScreenVerifyMnemonic || c.answers == nil {
		return false
	}
	return c.answers.IsConsumed(poolIndex)
}

// CanSubmit reports whether every slot is filled.
func (c *Controller) CanSubmit() bool {
	return c.screen == ScreenVerifyMnemonic && c.answers != nil && c.answers.Complete()
}

// Attempts returns the number of checked submissions for the current phrase.
func (c *Controller) Attempts() int {
	return c.attempts
}

// Wallet returns the wallet shown on the summary screen.
func (c *Controller) Wallet() *wallet.DerivedWallet {
	if c.screen != ScreenWalletSummary {
		return nil
	}
	return c.derived
}

// Address returns the active wallet address on the summary and home screens.
func (c *Controller) Address() string {
	if c.screen != ScreenWalletSummary && c.screen != ScreenHome {
		return ""
	}
	return c.address
}

// GoCreate moves from login to the create screen.
func (c *Controller) GoCreate() error {
	if err := c.require("GoCreate", ScreenLogin); err != nil {
		return err
	}
	c.push(ScreenCreateWallet)
	return nil
}

// GoImport moves from login to the import screen.
func (c *Controller) GoImport() error {
	if err := c.require("GoImport", ScreenLogin); err != nil {
		return err
	}
	c.push(ScreenImportWallet)
	return nil
}

// Back returns to the previous screen. Leaving the verify screen discards
// the challenge; leaving the create screen discards the phrase.
func (c *Controller) Back() error {
	if len(c.history) == 0 {
		return c.invalid("Back")
	}

	switch c.screen {
	case ScreenVerifyMnemonic:
		c.dropChallenge()
	case ScreenCreateWallet:
		c.phrase = nil
		c.attempts = 0
	case ScreenLogin, ScreenImportWallet, ScreenWalletSummary, ScreenHome:
	}

	prev := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	c.transition(prev)
	return nil
}

// GeneratePhrase replaces the phrase on the create screen with a new one.
func (c *Controller) GeneratePhrase() (wallet.RecoveryPhrase, error) {
	if err := c.require("GeneratePhrase", ScreenCreateWallet); err != nil {
		return nil, err
	}

	phrase, err := c.provider.Generate()
	if err != nil {
		c.log.Error().Err(err).Msg("phrase generation failed")
		return nil, err
	}

	c.phrase = phrase
	c.attempts = 0
	c.dropChallenge()
	c.log.Info().Int("words", phrase.Len()).Msg("recovery phrase generated")
	return slices.Clone(phrase), nil
}

// ContinueToVerify builds a fresh challenge for the generated phrase and
// moves to the verify screen.
func (c *Controller) ContinueToVerify() (*verify.Challenge, error) {
	if err := c.require("ContinueToVerify", ScreenCreateWallet); err != nil {
		return nil, err
	}
	if len(c.phrase) == 0 {
		return nil, walleterr.WithSuggestion(walleterr.ErrInvalidNavigation,
			"generate a recovery phrase before continuing")
	}

	ch, err := c.generator.Build(c.phrase)
	if err != nil {
		return nil, err
	}
	c.setChallenge(ch)
	c.push(ScreenVerifyMnemonic)
	return ch, nil
}

// Select places word in the next empty slot and returns the slot.
func (c *Controller) Select(word string) (int, error) {
	if err := c.require("Select", ScreenVerifyMnemonic); err != nil {
		return -1, err
	}
	slot, err := c.answers.Place(word)
	if err != nil {
		return -1, err
	}
	c.log.Debug().Int("slot", slot).Msg("word placed")
	return slot, nil
}

// SelectIndex places the pool entry at poolIndex in the next empty slot.
func (c *Controller) SelectIndex(poolIndex int) (int, error) {
	if err := c.require("SelectIndex", ScreenVerifyMnemonic); err != nil {
		return -1, err
	}
	slot, err := c.answers.PlaceIndex(poolIndex)
	if err != nil {
		return -1, err
	}
	c.log.Debug().Int("slot", slot).Msg("word placed")
	return slot, nil
}

// ClearSlot empties slot.
func (c *Controller) ClearSlot(slot int) error {
	if err := c.require("ClearSlot", ScreenVerifyMnemonic); err != nil {
		return err
	}
	if err := c.answers.Clear(slot); err != nil {
		return err
	}
	c.log.Debug().Int("slot", slot).Msg("slot cleared")
	return nil
}

// Submit checks the filled answer set. On failure the challenge is replaced
// with a new one and (false, nil) is returned. On success the wallet is
// derived and the flow moves to the summary screen.
func (c *Controller) Submit() (bool, error) {
	if err := c.require("Submit", ScreenVerifyMnemonic); err != nil {
		return false, err
	}
	if !c.answers.Complete() {
		return false, walleterr.ErrIncompleteAnswer
	}

	if !c.limiter.AllowAt(ActionVerify, c.now()) {
		c.metrics.RecordThrottled()
		c.log.Warn().Int("attempts", c.attempts).Msg("verification throttled")
		return false, c.throttled(ActionVerify)
	}

	ok, err := verify.Check(c.challenge, c.answers)
	if err != nil {
		return false, err
	}
	c.attempts++
	c.metrics.RecordVerification(ok)

	if !ok {
		c.log.Info().Int("attempts", c.attempts).Msg("verification failed, challenge regenerated")
		if err = c.regenerate(); err != nil {
			return false, err
		}
		return false, nil
	}

	start := c.now()
	w, err := c.provider.DeriveFromPhrase(c.phrase)
	c.metrics.RecordDerivation(metrics.DerivationPhrase, c.now().Sub(start), err)
	if err != nil {
		c.log.Error().Err(err).Msg("derivation after verification failed")
		return false, err
	}

	c.dropChallenge()
	c.phrase = nil
	c.derived = w
	c.address = w.Address
	c.history = nil
	c.transition(ScreenWalletSummary)
	c.log.Info().Object("wallet", w).Int("attempts", c.attempts).Msg("wallet verified")
	return true, nil
}

// RetryAfter returns how long until another verification may be submitted.
func (c *Controller) RetryAfter() time.Duration {
	return c.limiter.DelayAt(ActionVerify, c.now())
}

// ImportMnemonic derives a wallet from at least MinImportWords words and
// moves to the home screen.
func (c *Controller) ImportMnemonic(input string) (*wallet.DerivedWallet, error) {
	if err := c.require("ImportMnemonic", ScreenImportWallet); err != nil {
		return nil, err
	}

	phrase := wallet.ParsePhrase(input)
	if phrase.Len() < wallet.MinImportWords {
		return nil, walleterr.WithSuggestion(
			walleterr.WithDetails(walleterr.ErrInvalidPhrase, map[string]string{
				"words": strconv.Itoa(phrase.Len()),
			}),
			"enter at least "+strconv.Itoa(wallet.MinImportWords)+" recovery words",
		)
	}

	if !c.limiter.AllowAt(ActionImport, c.now()) {
		return nil, c.throttled(ActionImport)
	}

	start := c.now()
	w, err := c.provider.DeriveFromPhrase(phrase)
	c.metrics.RecordDerivation(metrics.DerivationPhrase, c.now().Sub(start), err)
	if err != nil {
		c.log.Warn().Str("format", wallet.FormatMnemonic.String()).Str("code", walleterr.Code(err)).Msg("import rejected")
		return nil, err
	}

	c.goHome(w.Address)
	c.log.Info().Object("wallet", w).Msg("wallet imported from phrase")
	return w, nil
}

// ImportPrivateKey derives the address of a hex private key and moves to
// the home screen.
func (c *Controller) ImportPrivateKey(input string) (wallet.KeyPair, error) {
	if err := c.require("ImportPrivateKey", ScreenImportWallet); err != nil {
		return wallet.KeyPair{}, err
	}

	if !c.limiter.AllowAt(ActionImport, c.now()) {
		return wallet.KeyPair{}, c.throttled(ActionImport)
	}

	start := c.now()
	pair, err := c.provider.DeriveFromPrivateKey(input)
	c.metrics.RecordDerivation(metrics.DerivationPrivateKey, c.now().Sub(start), err)
	if err != nil {
		c.log.Warn().Str("format", wallet.FormatPrivateKey.String()).Str("code", walleterr.Code(err)).Msg("import rejected")
		return wallet.KeyPair{}, err
	}

	c.goHome(pair.Address)
	c.log.Info().Object("wallet", pair).Msg("wallet imported from private key")
	return pair, nil
}

// ContinueHome leaves the summary screen. The phrase and private key are
// released; only the address stays.
func (c *Controller) ContinueHome() error {
	if err := c.require("ContinueHome", ScreenWalletSummary); err != nil {
		return err
	}
	c.goHome(c.address)
	return nil
}

// Logout drops all session state and returns to login.
func (c *Controller) Logout() error {
	if err := c.require("Logout", ScreenHome); err != nil {
		return err
	}
	c.phrase = nil
	c.derived = nil
	c.address = ""
	c.attempts = 0
	c.dropChallenge()
	c.history = nil
	c.transition(ScreenLogin)
	return nil
}

func (c *Controller) goHome(address string) {
	c.derived = nil
	c.address = address
	c.history = nil
	c.transition(ScreenHome)
}

// regenerate replaces the challenge, preferring one that asks for
// different positions than the failed attempt.
func (c *Controller) regenerate() error {
	prev := c.challenge.Positions()

	var (
		ch  *verify.Challenge
		err error
	)
	for i := 0; i < maxRegenerate; i++ {
		ch, err = c.generator.Build(c.phrase)
		if err != nil {
			return err
		}
		if !slices.Equal(prev, ch.Positions()) {
			break
		}
	}
	c.setChallenge(ch)
	return nil
}

func (c *Controller) setChallenge(ch *verify.Challenge) {
	c.challenge = ch
	c.answers = verify.NewAnswerSet(ch)
	c.metrics.RecordChallenge()
	c.log.Debug().Int("slots", ch.Slots()).Int("pool", ch.PoolLen()).Msg("challenge built")
}

func (c *Controller) dropChallenge() {
	c.challenge = nil
	c.answers = nil
}

func (c *Controller) push(next Screen) {
	c.history = append(c.history, c.screen)
	c.transition(next)
}

func (c *Controller) transition(next Screen) {
	c.log.Debug().Stringer("from", c.screen).Stringer("to", next).Msg("screen changed")
	c.screen = next
}

func (c *Controller) require(action string, want Screen) error {
	if c.screen != want {
		return c.invalid(action)
	}
	return nil
}

func (c *Controller) invalid(action string) error {
	return walleterr.WithDetails(walleterr.ErrInvalidNavigation, map[string]string{
		"action": action,
		"screen": c.screen.String(),
	})
}

func (c *Controller) throttled(action string) error {
	return walleterr.WithDetails(walleterr.ErrTooManyAttempts, map[string]string{
		"retry_after": c.limiter.DelayAt(action, c.now()).Round(time.Second).String(),
	})
}
