package game

import (
	"errors"
	"fmt"
)

var (
	// ErrGameNotFound is returned for an unknown game ID.
	ErrGameNotFound = errors.New("game not found")
	// ErrGameExists is returned when starting a game under an ID already in use.
	ErrGameExists = errors.New("game already exists")
	// ErrGameOver rejects intents after a hero has been defeated.
	ErrGameOver = errors.New("game is over")
	// ErrGameFailed rejects intents after an invariant violation.
	ErrGameFailed = errors.New("game failed")
	// ErrStalled means the engine can make no progress and nobody may act.
	ErrStalled = errors.New("engine stalled with nobody holding priority")
	// ErrRunaway means a single input kept the engine ticking without settling.
	ErrRunaway = errors.New("engine did not settle")

	// ErrNotPlayable rejects cards that cannot be played now.
	ErrNotPlayable = errors.New("card is not playable")
	// ErrTargetRequired rejects attacks without a target.
	ErrTargetRequired = errors.New("attack requires a target")
	// ErrNothingToPitch rejects a pitch while no play is pending.
	ErrNothingToPitch = errors.New("cannot pitch to nothing")
	// ErrCannotPitch rejects cards that produce no resources.
	ErrCannotPitch = errors.New("card cannot be pitched")
	// ErrNotInHand rejects a pitch of a card that is not in hand.
	ErrNotInHand = errors.New("card is not in hand")
	// ErrCannotBlock rejects blockers outside the hand or without a defense value.
	ErrCannotBlock = errors.New("card cannot block")
	// ErrUnknownIntent rejects intents of an unknown kind.
	ErrUnknownIntent = errors.New("unknown intent")
)

// LegalityResult is the outcome of checking an intent before it takes effect.
type LegalityResult struct {
	Legal   bool
	Reason  string
	Err     error
	Details map[string]string
}

func legal() LegalityResult {
	return LegalityResult{Legal: true}
}

func illegal(err error, reason string, details map[string]string) LegalityResult {
	return LegalityResult{
		Legal:   false,
		Reason:  reason,
		Err:     err,
		Details: details,
	}
}

// AsError returns nil for a legal result, otherwise the reason wrapping Err.
func (r LegalityResult) AsError() error {
	if r.Legal {
		return nil
	}
	if r.Reason == "" {
		return r.Err
	}
	return fmt.Errorf("%s: %w", r.Reason, r.Err)
}
