// Package verify builds and checks the "prove you wrote it down" challenge
// shown after a recovery phrase is generated.
//
// A Challenge asks for a few words of the phrase at random positions and
// offers a shuffled pool made of the correct words plus decoys taken from
// the same phrase. Answers are collected in an AnswerSet and judged by
// Check, which only ever reports an aggregate pass or fail.
package verify

import (
	"sort"
	"strconv"
	"strings"

	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

const (
	// WordsToVerify is the number of phrase positions a challenge asks for.
	WordsToVerify = 3

	// PoolSize is the target size of the choice pool. Short phrases yield
	// smaller pools; the pool is never padded with words outside the phrase.
	PoolSize = 9
)

// Challenge is one verification attempt. It is immutable once built and
// every accessor returns a copy.
type Challenge struct {
	positions []int
	correct   []string
	pool      []string
}

// Positions returns the zero-based phrase indices being verified, ascending.
func (c *Challenge) Positions() []int {
	return append([]int(nil), c.positions...)
}

// CorrectWords returns the phrase words at Positions, in the same order.
func (c *Challenge) CorrectWords() []string {
	return append([]string(nil), c.correct...)
}

// Pool returns the shuffled choice pool.
func (c *Challenge) Pool() []string {
	return append([]string(nil), c.pool...)
}

// Slots returns the number of answers the challenge expects.
func (c *Challenge) Slots() int {
	return len(c.positions)
}

// PoolLen returns the number of entries in the choice pool.
func (c *Challenge) PoolLen() int {
	return len(c.pool)
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithWordsToVerify changes the number of positions asked for.
func WithWordsToVerify(k int) GeneratorOption {
	return func(g *Generator) {
		g.words = k
	}
}

// WithPoolSize changes the target pool size.
func WithPoolSize(m int) GeneratorOption {
	return func(g *Generator) {
		g.poolSize = m
	}
}

// Generator builds challenges from a random Source.
type Generator struct {
	src      Source
	words    int
	poolSize int
}

// NewGenerator returns a Generator drawing from src. A nil src selects
// NewCryptoSource.
func NewGenerator(src Source, opts ...GeneratorOption) *Generator {
	if src == nil {
		src = NewCryptoSource()
	}
	g := &Generator{
		src:      src,
		words:    WordsToVerify,
		poolSize: PoolSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Build creates a challenge using the default sizes.
func Build(phrase []string, src Source) (*Challenge, error) {
	return NewGenerator(src).Build(phrase)
}

// Build selects positions uniformly without replacement, then collects
// distinct decoys from the unselected words until the pool is full or the
// phrase runs out, and shuffles the pool.
func (g *Generator) Build(phrase []string) (*Challenge, error) {
	k, m := g.words, g.poolSize
	if k < 1 || m < k {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
			"words_to_verify": strconv.Itoa(k),
			"pool_size":       strconv.Itoa(m),
		})
	}

	if len(phrase) < k {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidPhrase, map[string]string{
			"words":    strconv.Itoa(len(phrase)),
			"required": strconv.Itoa(k),
		})
	}

	words := make([]string, len(phrase))
	for i, w := range phrase {
		words[i] = strings.ToLower(strings.TrimSpace(w))
		if words[i] == "" || strings.ContainsAny(words[i], " \t\r\n") {
			return nil, walleterr.WithDetails(walleterr.ErrInvalidPhrase, map[string]string{
				"position": strconv.Itoa(i + 1),
			})
		}
	}

	positions := g.pickPositions(len(words), k)

	selected := make(map[int]bool, k)
	isCorrect := make(map[string]bool, k)
	correct := make([]string, k)
	for i, pos := range positions {
		selected[pos] = true
		correct[i] = words[pos]
		isCorrect[words[pos]] = true
	}

	// Repeated words keep their multiplicity here and are deduplicated on draw
	remaining := make([]string, 0, len(words)-k)
	for i, w := range words {
		if !selected[i] && !isCorrect[w] {
			remaining = append(remaining, w)
		}
	}

	pool := make([]string, 0, m)
	pool = append(pool, correct...)

	taken := make(map[string]bool, m-k)
	for len(pool) < m && len(remaining) > 0 {
		j := g.src.Intn(len(remaining))
		w := remaining[j]
		last := len(remaining) - 1
		remaining[j] = remaining[last]
		remaining = remaining[:last]

		if taken[w] {
			continue
		}
		taken[w] = true
		pool = append(pool, w)
	}

	g.shuffle(pool)

	return &Challenge{
		positions: positions,
		correct:   correct,
		pool:      pool,
	}, nil
}

// pickPositions runs k steps of a Fisher-Yates shuffle over [0, n) and
// returns the prefix sorted ascending.
func (g *Generator) pickPositions(n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	for i := 0; i < k; i++ {
		j := i + g.src.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	positions := append([]int(nil), idx[:k]...)
	sort.Ints(positions)
	return positions
}

func (g *Generator) shuffle(words []string) {
	for i := len(words) - 1; i > 0; i-- {
		j := g.src.Intn(i + 1)
		words[i], words[j] = words[j], words[i]
	}
}
