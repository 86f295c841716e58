package metrics

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

func TestMetrics_RecordVerification(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordChallenge()
	m.RecordVerification(false)
	m.RecordChallenge()
	m.RecordVerification(true)
	m.RecordThrottled()

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.ChallengesIssued)
	assert.Equal(t, int64(1), snap.VerificationsPassed)
	assert.Equal(t, int64(1), snap.VerificationsFailed)
	assert.Equal(t, int64(1), snap.VerificationsThrottled)
	assert.Equal(t, int64(2), m.ChallengesIssued())
}

func TestMetrics_RecordDerivation(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordDerivation(DerivationPhrase, 100*time.Millisecond, nil)
	m.RecordDerivation(DerivationPrivateKey, 200*time.Millisecond, walleterr.ErrInvalidKey)

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.PhraseDerivations)
	assert.Equal(t, int64(1), snap.KeyDerivations)
	assert.Equal(t, int64(1), snap.DerivationErrors)
	assert.InDelta(t, 150.0, m.DerivationLatencyAvgMs(), 1.0)
}

func TestMetrics_PassRate(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	assert.InDelta(t, 0.0, m.PassRate(), 0.001)
	assert.InDelta(t, 0.0, m.DerivationLatencyAvgMs(), 0.001)

	// 1 pass, 3 failures = 25%
	m.RecordVerification(true)
	m.RecordVerification(false)
	m.RecordVerification(false)
	m.RecordVerification(false)

	assert.InDelta(t, 25.0, m.PassRate(), 0.001)
}

func TestMetrics_Concurrent(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordChallenge()
			m.RecordVerification(true)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.Snapshot().ChallengesIssued)
	assert.Equal(t, int64(50), m.Snapshot().VerificationsPassed)
}

func TestSnapshot_MarshalZerologObject(t *testing.T) {
	t.Parallel()
	m := &Metrics{}
	m.RecordChallenge()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Debug().Object("metrics", m.Snapshot()).Msg("session")

	assert.Contains(t, buf.String(), `"challenges_issued":1`)
	assert.Contains(t, buf.String(), `"verifications_failed":0`)
}

func TestMetrics_Reset(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordChallenge()
	m.RecordVerification(false)
	m.RecordDerivation(DerivationPhrase, time.Millisecond, nil)

	m.Reset()

	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestGlobal(t *testing.T) {
	// Test that Global is initialized
	assert.NotNil(t, Global)

	// Reset to not affect other tests
	Global.Reset()
}
