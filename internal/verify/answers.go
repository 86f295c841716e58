package verify

import (
	"strconv"
	"strings"

	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

const emptySlot = -1

// Answer placement errors.
var (
	ErrWordUnavailable = &walleterr.WalletError{
		Code:       "WORD_UNAVAILABLE",
		Message:    "word is not in the pool or is already placed",
		Suggestion: "choose a word from the pool that is not already in a slot",
		ExitCode:   walleterr.ExitInput,
	}

	ErrSlotsFull = &walleterr.WalletError{
		Code:       "SLOTS_FULL",
		Message:    "every slot is already filled",
		Suggestion: "clear a slot before placing another word",
		ExitCode:   walleterr.ExitInput,
	}

	ErrSlotOutOfRange = &walleterr.WalletError{
		Code:     "SLOT_OUT_OF_RANGE",
		Message:  "slot does not exist",
		ExitCode: walleterr.ExitInput,
	}
)

// AnswerSet holds the user's placements for one Challenge. Slots refer to
// pool entries by index, so a word that appears twice in the pool can be
// placed twice. An AnswerSet is not safe for concurrent use.
type AnswerSet struct {
	ch    *Challenge
	slots []int
}

// NewAnswerSet returns an empty answer set for ch.
func NewAnswerSet(ch *Challenge) *AnswerSet {
	slots := make([]int, ch.Slots())
	for i := range slots {
		slots[i] = emptySlot
	}
	return &AnswerSet{ch: ch, slots: slots}
}

// Place puts word into the first empty slot and returns that slot.
func (a *AnswerSet) Place(word string) (int, error) {
	slot := a.nextEmpty()
	if slot < 0 {
		return -1, ErrSlotsFull
	}
	if err := a.PlaceAt(slot, word); err != nil {
		return -1, err
	}
	return slot, nil
}

// PlaceIndex puts the pool entry at poolIndex into the first empty slot and
// returns that slot.
func (a *AnswerSet) PlaceIndex(poolIndex int) (int, error) {
	slot := a.nextEmpty()
	if slot < 0 {
		return -1, ErrSlotsFull
	}
	if poolIndex < 0 || poolIndex >= len(a.ch.pool) || a.IsConsumed(poolIndex) {
		return -1, ErrWordUnavailable
	}
	a.slots[slot] = poolIndex
	return slot, nil
}

// PlaceAt puts word into slot, replacing whatever was there. The word must
// match a pool entry that is not already placed in another slot.
func (a *AnswerSet) PlaceAt(slot int, word string) error {
	if err := a.checkSlot(slot); err != nil {
		return err
	}

	word = strings.ToLower(strings.TrimSpace(word))
	for i, w := range a.ch.pool {
		if w != word || (a.IsConsumed(i) && a.slots[slot] != i) {
			continue
		}
		a.slots[slot] = i
		return nil
	}

	return ErrWordUnavailable
}

// Clear empties slot and returns its word to the pool.
func (a *AnswerSet) Clear(slot int) error {
	if err := a.checkSlot(slot); err != nil {
		return err
	}
	a.slots[slot] = emptySlot
	return nil
}

// Reset empties every slot.
func (a *AnswerSet) Reset() {
	for i := range a.slots {
		a.slots[i] = emptySlot
	}
}

// Slots returns the placed words in slot order; empty slots are "".
func (a *AnswerSet) Slots() []string {
	out := make([]string, len(a.slots))
	for i, idx := range a.slots {
		if idx != emptySlot {
			out[i] = a.ch.pool[idx]
		}
	}
	return out
}

// Complete reports whether every slot holds a word.
func (a *AnswerSet) Complete() bool {
	return a.nextEmpty() < 0
}

// IsConsumed reports whether the pool entry at poolIndex sits in a slot.
func (a *AnswerSet) IsConsumed(poolIndex int) bool {
	for _, idx := range a.slots {
		if idx == poolIndex {
			return true
		}
	}
	return false
}

func (a *AnswerSet) nextEmpty() int {
	for i, idx := range a.slots {
		if idx == emptySlot {
			return i
		}
	}
	return -1
}

func (a *AnswerSet) checkSlot(slot int) error {
	if slot < 0 || slot >= len(a.slots) {
		return walleterr.WithDetails(ErrSlotOutOfRange, map[string]string{
			"slot":  strconv.Itoa(slot + 1),
			"slots": strconv.Itoa(len(a.slots)),
		})
	}
	return nil
}
