// Package metrics provides application-level metrics collection.
// This is a lightweight metrics foundation using atomic counters.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Derivation kinds accepted by RecordDerivation.
const (
	DerivationPhrase     = "phrase"
	DerivationPrivateKey = "private_key"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Verification metrics
	challengesIssued       atomic.Int64
	verificationsPassed    atomic.Int64
	verificationsFailed    atomic.Int64
	verificationsThrottled atomic.Int64

	// Derivation metrics
	phraseDerivations      atomic.Int64
	keyDerivations         atomic.Int64
	derivationErrors       atomic.Int64
	derivationLatencyNanos atomic.Int64
}

// Global is the global metrics instance.
// Use this for recording metrics throughout the application.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordChallenge records a newly built verification challenge.
func (m *Metrics) RecordChallenge() {
	m.challengesIssued.Add(1)
}

// RecordVerification records the outcome of a checked answer set.
func (m *Metrics) RecordVerification(passed bool) {
	if passed {
		m.verificationsPassed.Add(1)
		return
	}
	m.verificationsFailed.Add(1)
}

// RecordThrottled records a submission rejected by the rate limiter.
func (m *Metrics) RecordThrottled() {
	m.verificationsThrottled.Add(1)
}

// RecordDerivation records a key derivation with its duration and outcome.
func (m *Metrics) RecordDerivation(kind string, duration time.Duration, err error) {
	m.derivationLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.derivationErrors.Add(1)
	}

	switch kind {
	case DerivationPhrase:
		m.phraseDerivations.Add(1)
	case DerivationPrivateKey:
		m.keyDerivations.Add(1)
	}
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	ChallengesIssued       int64
	VerificationsPassed    int64
	VerificationsFailed    int64
	VerificationsThrottled int64
	PhraseDerivations      int64
	KeyDerivations         int64
	DerivationErrors       int64
	DerivationLatencyNanos int64
}

// MarshalZerologObject logs every counter.
func (s Snapshot) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("challenges_issued", s.ChallengesIssued).
		Int64("verifications_passed", s.VerificationsPassed).
		Int64("verifications_failed", s.VerificationsFailed).
		Int64("verifications_throttled", s.VerificationsThrottled).
		Int64("phrase_derivations", s.PhraseDerivations).
		Int64("key_derivations", s.KeyDerivations).
		Int64("derivation_errors", s.DerivationErrors).
		Dur("derivation_time", time.Duration(s.DerivationLatencyNanos))
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		ChallengesIssued:       m.challengesIssued.Load(),
		VerificationsPassed:    m.verificationsPassed.Load(),
		VerificationsFailed:    m.verificationsFailed.Load(),
		VerificationsThrottled: m.verificationsThrottled.Load(),
		PhraseDerivations:      m.phraseDerivations.Load(),
		KeyDerivations:         m.keyDerivations.Load(),
		DerivationErrors:       m.derivationErrors.Load(),
		DerivationLatencyNanos: m.derivationLatencyNanos.Load(),
	}
}

// ChallengesIssued returns the number of challenges built.
func (m *Metrics) ChallengesIssued() int64 {
	return m.challengesIssued.Load()
}

// PassRate returns the share of checked answer sets that passed (0-100).
// Returns 0 if nothing has been checked.
func (m *Metrics) PassRate() float64 {
	passed := m.verificationsPassed.Load()
	total := passed + m.verificationsFailed.Load()
	if total == 0 {
		return 0
	}
	return float64(passed) / float64(total) * 100
}

// DerivationLatencyAvgMs returns the average derivation time in milliseconds.
// Returns 0 if no derivations have been recorded.
func (m *Metrics) DerivationLatencyAvgMs() float64 {
	total := m.phraseDerivations.Load() + m.keyDerivations.Load()
	if total == 0 {
		return 0
	}
	return float64(m.derivationLatencyNanos.Load()) / float64(total) / 1e6
}

// Reset resets all metrics to zero.
// Useful for testing.
func (m *Metrics) Reset() {
	m.challengesIssued.Store(0)
	m.verificationsPassed.Store(0)
	m.verificationsFailed.Store(0)
	m.verificationsThrottled.Store(0)
	m.phraseDerivations.Store(0)
	m.keyDerivations.Store(0)
	m.derivationErrors.Store(0)
	m.derivationLatencyNanos.Store(0)
}
