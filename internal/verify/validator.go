package verify

import walleterr "github.com/mrz1836/cwallet/pkg/errors"

// Check reports whether every slot holds the correct word for its position.
// It fails closed with ErrIncompleteAnswer when answers is missing, was built
// for another challenge, or has an empty slot.
//
// Only the aggregate result is returned. All slots are compared so the
// outcome does not depend on which slot was wrong.
func Check(ch *Challenge, answers *AnswerSet) (bool, error) {
	if ch == nil {
		return false, walleterr.ErrInvalidInput
	}
	if answers == nil || answers.ch != ch || len(answers.slots) != len(ch.correct) {
		return false, walleterr.ErrIncompleteAnswer
	}

	placed := answers.Slots()
	for _, idx := range answers.slots {
		if idx == emptySlot {
			return false, walleterr.ErrIncompleteAnswer
		}
	}

	match := true
	for i, want := range ch.correct {
		if placed[i] != want {
			match = false
		}
	}
	return match, nil
}
