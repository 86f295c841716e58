package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mrz1836/cwallet/internal/output"
	"github.com/mrz1836/cwallet/internal/verify"
	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

// poolColumns is how many pool words are shown per row.
const poolColumns = 3

// board is the part of a verification screen the terminal drives. The flow
// controller implements it for create; answerBoard wraps a bare challenge
// for the verify command.
type board interface {
	Challenge() *verify.Challenge
	Answers() []string
	IsConsumed(poolIndex int) bool
	SelectIndex(poolIndex int) (int, error)
	ClearSlot(slot int) error
	CanSubmit() bool
}

// answerBoard is a board over one challenge with no flow around it.
type answerBoard struct {
	ch      *verify.Challenge
	answers *verify.AnswerSet
}

func newAnswerBoard(ch *verify.Challenge) *answerBoard {
	return &answerBoard{ch: ch, answers: verify.NewAnswerSet(ch)}
}

func (b *answerBoard) Challenge() *verify.Challenge   { return b.ch }
func (b *answerBoard) Answers() []string              { return b.answers.Slots() }
func (b *answerBoard) IsConsumed(poolIndex int) bool  { return b.answers.IsConsumed(poolIndex) }
func (b *answerBoard) SelectIndex(i int) (int, error) { return b.answers.PlaceIndex(i) }
func (b *answerBoard) ClearSlot(slot int) error       { return b.answers.Clear(slot) }
func (b *answerBoard) CanSubmit() bool                { return b.answers.Complete() }
func (b *answerBoard) check() (bool, error)           { return verify.Check(b.ch, b.answers) }

// renderBoard draws the slots and the numbered pool. Used pool entries are
// blanked so the user can see what is left.
func renderBoard(w io.Writer, b board) {
	ch := b.Challenge()
	positions := ch.Positions()
	answers := b.Answers()

	outln(w)
	outln(w, "Select the words at these positions of your recovery phrase:")
	for i, pos := range positions {
		word := answers[i]
		if word == "" {
			word = "____"
		}
		out(w, "  [%d] word #%-2d  %s\n", i+1, pos+1, word)
	}

	pool := ch.Pool()
	cells := make([]string, len(pool))
	for i, word := range pool {
		if b.IsConsumed(i) {
			word = strings.Repeat("-", len(word))
		}
		cells[i] = word
	}
	outln(w)
	_ = output.WordGrid(cells, poolColumns).Render(w)
	outln(w)
}

// fillBoard runs the answer loop until every slot is filled and the user
// confirms. Input is a pool number to place a word, "c N" to clear slot N
// and "q" to quit. Rejected input is reported and the loop continues.
func fillBoard(w io.Writer, b board) error {
	for {
		renderBoard(w, b)

		prompt := "Pick a word number (c N clears slot N, q quits): "
		if b.CanSubmit() {
			prompt = "Press Enter to submit (c N clears slot N, q quits): "
		}
		line, err := promptLineFn(w, prompt)
		if err != nil {
			return err
		}

		done, err := applyBoardInput(b, line)
		if err != nil {
			if walleterr.Is(err, errCanceled) {
				return err
			}
			out(w, "  %s\n", inlineError(err))
			continue
		}
		if done {
			return nil
		}
	}
}

// applyBoardInput performs one command. It reports done when the user
// submits a complete board.
func applyBoardInput(b board, line string) (bool, error) {
	fields := strings.Fields(strings.ToLower(line))

	switch {
	case len(fields) == 0:
		if b.CanSubmit() {
			return true, nil
		}
		return false, walleterr.WithSuggestion(walleterr.ErrIncompleteAnswer, "fill every slot before submitting")

	case fields[0] == "q" || fields[0] == "quit":
		return false, errCanceled

	case fields[0] == "c" || fields[0] == "clear":
		if len(fields) != 2 {
			return false, walleterr.WithSuggestion(walleterr.ErrInvalidInput, "use c N to clear slot N")
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, walleterr.WithSuggestion(walleterr.ErrInvalidInput, "use c N to clear slot N")
		}
		return false, b.ClearSlot(slot - 1)

	case len(fields) == 1:
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 1 || n > b.Challenge().PoolLen() {
			return false, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
				"choice": fmt.Sprintf("1-%d", b.Challenge().PoolLen()),
			})
		}
		_, err = b.SelectIndex(n - 1)
		return false, err

	default:
		return false, walleterr.WithSuggestion(walleterr.ErrInvalidInput, "enter one word number at a time")
	}
}

// inlineError renders a rejected input for the prompt line.
func inlineError(err error) string {
	if d := output.NewErrorDetail(err); d.Suggestion != "" {
		return d.Message + ": " + d.Suggestion
	}
	return err.Error()
}
