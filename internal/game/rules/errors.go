package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrNoParticipants means the priority tracker lost every participant.
	ErrNoParticipants = errors.New("no participants tracked")
	// ErrNoChainLink means a chain-link operation ran with an empty chain.
	ErrNoChainLink = errors.New("attack chain has no links")
	// ErrNotPriorityHolder rejects an intent from someone without priority.
	ErrNotPriorityHolder = errors.New("actor does not have priority")
	// ErrNotDeclaringBlocks rejects a block declaration outside a block window.
	ErrNotDeclaringBlocks = errors.New("actor is not declaring blocks")
	// ErrNoActionPoints rejects an action card when the actor has no action points.
	ErrNoActionPoints = errors.New("no action points")
)

// ShortfallError reports how many resources an actor still has to add before
// a card can be paid for.
type ShortfallError struct {
	Cost      int
	Available int
}

// Shortfall is the minimum amount of resources missing.
func (e *ShortfallError) Shortfall() int {
	return e.Cost - e.Available
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("insufficient resources: cost %d, available %d, short by %d", e.Cost, e.Available, e.Shortfall())
}

// InvariantError wraps a failure that leaves the game in an unusable state.
type InvariantError struct {
	Op  string
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %v", e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

// Invariant wraps err as an InvariantError for op.
func Invariant(op string, err error) error {
	if err == nil {
		return nil
	}
	return &InvariantError{Op: op, Err: err}
}
