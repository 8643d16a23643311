package game

import (
	"fmt"

	"go.uber.org/zap"
)

// maxTicks bounds how long one input may keep the engine advancing.
const maxTicks = 256

// watermark is the version of every watched resource at one instant.
type watermark struct {
	priority uint64
	staging  uint64
	phase    uint64
}

// observed pairs what a system saw at the end of its previous run with what
// it sees now. A resource "changed" when its version moved in between.
type observed struct {
	last watermark
	now  watermark
}

func (o observed) priorityChanged() bool { return o.last.priority != o.now.priority }
func (o observed) stagingChanged() bool  { return o.last.staging != o.now.staging }
func (o observed) phaseChanged() bool    { return o.last.phase != o.now.phase }

func (s *State) watermark() watermark {
	return watermark{
		priority: s.priority.Version(),
		staging:  s.staging.Version(),
		phase:    s.turn.PhaseVersion(),
	}
}

// system is one guarded transition. run reports whether its guard fired.
type system struct {
	name string
	run  func(s *State, o observed) (bool, error)
}

// schedule is the fixed evaluation order of a tick.
var schedule = []system{
	{name: "admission", run: admit},
	{name: "start_start_phase", run: startStartPhase},
	{name: "end_start_phase", run: endStartPhase},
	{name: "start_action_phase", run: startActionPhase},
	{name: "layer_step", run: enterLayer},
	{name: "attack_step", run: enterAttack},
	{name: "defend_step", run: enterDefend},
	{name: "blocks_declared", run: blocksDeclared},
	{name: "reaction_step", run: enterReaction},
	{name: "damage_step", run: enterDamage},
	{name: "resolution_step", run: enterResolution},
	{name: "link_step", run: enterLink},
	{name: "close_step", run: enterClose},
	{name: "trigger_end_phase", run: triggerEndPhase},
	{name: "end_action_phase", run: endActionPhase},
	{name: "start_end_phase", run: startEndPhase},
	{name: "end_end_phase", run: endEndPhase},
	{name: "resolve_stack", run: resolveStack},
}

// runTick evaluates every system once in schedule order. Each system's
// watermark is taken after it runs, so it never observes its own writes.
func (s *State) runTick() (bool, error) {
	s.tick++
	s.metrics.RecordTick()

	fired := false
	for _, sys := range schedule {
		o := observed{last: s.seen[sys.name], now: s.watermark()}
		ok, err := sys.run(s, o)
		s.seen[sys.name] = s.watermark()
		if err != nil {
			return fired, fmt.Errorf("%s: %w", sys.name, err)
		}
		if ok {
			fired = true
			s.logger.Debug("system fired",
				zap.Int("tick", s.tick),
				zap.String("system", sys.name),
				zap.String("phase", s.turn.Phase().String()),
				zap.String("step", s.turn.Step().String()),
			)
		}
		if s.status != StatusRunning {
			return true, nil
		}
	}
	return fired, nil
}

// advance ticks until a tick fires nothing. Settling while nobody may act is
// a stall; ticking forever is a runaway.
func (s *State) advance() error {
	for i := 0; i < maxTicks; i++ {
		fired, err := s.runTick()
		if err != nil {
			return s.fail(err)
		}
		if fired && s.onTick != nil {
			s.onTick(s)
		}
		if s.status != StatusRunning {
			return nil
		}
		if !fired {
			if !s.priority.AnyoneHasPriority() {
				s.logger.Warn("engine stalled",
					zap.String("phase", s.turn.Phase().String()),
					zap.String("step", s.turn.Step().String()),
				)
				return ErrStalled
			}
			return nil
		}
	}
	return s.fail(ErrRunaway)
}
