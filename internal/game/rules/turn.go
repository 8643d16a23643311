package rules

import (
	"fmt"
	"strings"
	"sync"
)

// Phase represents the broad phases of a turn.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseAction
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseStart:  "START",
	PhaseAction: "ACTION",
	PhaseEnd:    "END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// CombatStep is the step of the attack currently being resolved. StepNone
// means no attack is in progress.
type CombatStep int

const (
	StepNone CombatStep = iota
	StepLayer
	StepAttack
	StepDefend
	StepReaction
	StepDamage
	StepResolution
	StepLink
	StepClose
)

var stepNames = map[CombatStep]string{
	StepNone:       "NONE",
	StepLayer:      "LAYER",
	StepAttack:     "ATTACK",
	StepDefend:     "DEFEND",
	StepReaction:   "REACTION",
	StepDamage:     "DAMAGE",
	StepResolution: "RESOLUTION",
	StepLink:       "LINK",
	StepClose:      "CLOSE",
}

func (s CombatStep) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// ParseCombatStep converts a step name back into a CombatStep.
func ParseCombatStep(name string) (CombatStep, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for step, stepName := range stepNames {
		if stepName == upper {
			return step, nil
		}
	}
	return StepNone, fmt.Errorf("unknown combat step %q", name)
}

// TurnState holds the live phase and combat step. Phase and step keep
// separate versions so phase observers are not woken by step changes.
type TurnState struct {
	mu           sync.Mutex
	phase        Phase
	step         CombatStep
	turn         int
	phaseVersion uint64
	stepVersion  uint64
}

// NewTurnState starts in the Start phase with no combat step.
func NewTurnState() *TurnState {
	return &TurnState{
		phase:        PhaseStart,
		step:         StepNone,
		phaseVersion: 1,
		stepVersion:  1,
	}
}

// Phase returns the current phase.
func (ts *TurnState) Phase() Phase {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.phase
}

// SetPhase moves to the given phase.
func (ts *TurnState) SetPhase(p Phase) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.phase = p
	ts.phaseVersion++
}

// Step returns the current combat step.
func (ts *TurnState) Step() CombatStep {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.step
}

// SetStep moves to the given combat step.
func (ts *TurnState) SetStep(s CombatStep) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.step = s
	ts.stepVersion++
}

// BeginTurn increments the turn counter and returns the new turn number.
func (ts *TurnState) BeginTurn() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.turn++
	return ts.turn
}

// Turn returns the current turn number, starting at 1.
func (ts *TurnState) Turn() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.turn
}

// PhaseVersion increases on every phase change.
func (ts *TurnState) PhaseVersion() uint64 {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.phaseVersion
}

// StepVersion increases on every step change.
func (ts *TurnState) StepVersion() uint64 {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.stepVersion
}
