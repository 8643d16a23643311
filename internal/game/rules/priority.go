package rules

import (
	"sync"
)

// PriorityTracker records who may act next.
//
// holding lists the participants who may still act in the current cycle in
// turn order; passed lists the participants who have passed, in the order they
// passed. The head of holding is the one who may act. Whether the game holds
// priority for itself is tracked separately and checked by callers.
type PriorityTracker struct {
	mu             sync.Mutex
	holding        []string
	passed         []string
	gameHolds      bool
	blocksOnly     bool
	actionOccurred bool
	version        uint64
}

// NewPriorityTracker creates a tracker whose holding sequence is the given
// participant order.
func NewPriorityTracker(participants ...string) *PriorityTracker {
	holding := make([]string, len(participants))
	copy(holding, participants)
	return &PriorityTracker{
		holding: holding,
		passed:  make([]string, 0, len(participants)),
		version: 1,
	}
}

// touch must be called with the lock held by every mutating method.
func (pt *PriorityTracker) touch() {
	pt.version++
}

// Version increases on every mutating call.
func (pt *PriorityTracker) Version() uint64 {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.version
}

// HasPriority reports whether p heads holding outside a block window. It does
// not consult Held.
func (pt *PriorityTracker) HasPriority(p string) bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.isHead(p) && !pt.blocksOnly
}

// IsDeclaringBlocks reports whether p heads holding inside a block window.
func (pt *PriorityTracker) IsDeclaringBlocks(p string) bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.isHead(p) && pt.blocksOnly
}

func (pt *PriorityTracker) isHead(p string) bool {
	return len(pt.holding) > 0 && pt.holding[0] == p
}

// PriorityHolder returns the head of the holding sequence.
func (pt *PriorityTracker) PriorityHolder() (string, bool) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if len(pt.holding) == 0 {
		return "", false
	}
	return pt.holding[0], true
}

// TurnPlayer returns the head of holding, falling back to the head of passed.
func (pt *PriorityTracker) TurnPlayer() (string, error) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if len(pt.holding) > 0 {
		return pt.holding[0], nil
	}
	if len(pt.passed) > 0 {
		return pt.passed[0], nil
	}
	return "", ErrNoParticipants
}

// Pass moves the head of holding to the back of passed. If holding is
// non-empty its head must be p. When passed is empty after the move and a
// paying action occurred this cycle, the tracker resets.
func (pt *PriorityTracker) Pass(p string) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if len(pt.holding) > 0 {
		if pt.holding[0] != p {
			return ErrNotPriorityHolder
		}
		pt.passed = append(pt.passed, pt.holding[0])
		pt.holding = pt.holding[1:]
	}
	if len(pt.passed) == 0 && pt.actionOccurred {
		pt.reset()
	}
	pt.touch()
	return nil
}

// AllPassed reports whether nobody is left holding and the game is not
// holding priority itself.
func (pt *PriorityTracker) AllPassed() bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return len(pt.holding) == 0 && !pt.gameHolds
}

// AnyoneHasPriority reports whether a participant may currently act.
func (pt *PriorityTracker) AnyoneHasPriority() bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return len(pt.holding) > 0 && !pt.gameHolds
}

// Hold gives the game exclusive control.
func (pt *PriorityTracker) Hold() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.gameHolds = true
	pt.touch()
}

// Release hands control back to the participants.
func (pt *PriorityTracker) Release() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.gameHolds = false
	pt.touch()
}

// Held reports whether the game is holding priority.
func (pt *PriorityTracker) Held() bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.gameHolds
}

// SetBlocksOnly restricts the head of holding to declaring blocks.
func (pt *PriorityTracker) SetBlocksOnly(v bool) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.blocksOnly = v
	pt.touch()
}

// BlocksOnly reports whether a block window is open.
func (pt *PriorityTracker) BlocksOnly() bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.blocksOnly
}

// MarkActionOccurred records that a paying action happened this cycle.
func (pt *PriorityTracker) MarkActionOccurred() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.actionOccurred = true
	pt.touch()
}

// ActionOccurred reports whether a paying action happened this cycle.
func (pt *PriorityTracker) ActionOccurred() bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.actionOccurred
}

// Reset restores turn order: holding becomes passed followed by holding.
func (pt *PriorityTracker) Reset() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.reset()
	pt.touch()
}

func (pt *PriorityTracker) reset() {
	merged := make([]string, 0, len(pt.passed)+len(pt.holding))
	merged = append(merged, pt.passed...)
	merged = append(merged, pt.holding...)
	pt.holding = merged
	pt.passed = pt.passed[:0]
}

// Cycle resets and then rotates holding left by one so the next participant
// becomes the turn player. The action-occurred flag only spans one cycle.
func (pt *PriorityTracker) Cycle() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.reset()
	if len(pt.holding) > 1 {
		pt.holding = append(pt.holding[1:], pt.holding[0])
	}
	pt.actionOccurred = false
	pt.touch()
}

// Holding returns a copy of the holding sequence.
func (pt *PriorityTracker) Holding() []string {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	cpy := make([]string, len(pt.holding))
	copy(cpy, pt.holding)
	return cpy
}

// Passed returns a copy of the passed sequence.
func (pt *PriorityTracker) Passed() []string {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	cpy := make([]string, len(pt.passed))
	copy(cpy, pt.passed)
	return cpy
}

// Participants returns every tracked participant, holding first.
func (pt *PriorityTracker) Participants() []string {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	all := make([]string, 0, len(pt.holding)+len(pt.passed))
	all = append(all, pt.holding...)
	return append(all, pt.passed...)
}
