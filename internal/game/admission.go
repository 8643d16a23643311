package game

import (
	"errors"

	"go.uber.org/zap"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
	"github.com/TrevorCOConnor/rusty-cards/internal/metrics"
)

// admit runs the admission gate over the pending play whenever it is new or
// the actor has pitched towards it. A shortfall keeps the play pending so the
// actor can pitch; any other rejection drops it.
func admit(s *State, _ observed) (bool, error) {
	if s.pending == nil || !s.pending.dirty {
		return false, nil
	}
	p := s.pending
	p.dirty = false
	event := p.Event

	hero, err := s.store.Hero(event.Actor)
	if err != nil {
		s.pending = nil
		s.priority.Release()
		s.metrics.RecordAdmission(metrics.AdmissionMissingActor)
		s.logger.Warn("admission dropped play, actor no longer exists",
			zap.String("actor", event.Actor),
			zap.Error(err),
		)
		return true, nil
	}

	route, err := s.gate.Evaluate(p.Proposal, hero)
	if err != nil {
		s.reject(event, err)
		var shortfall *rules.ShortfallError
		if errors.As(err, &shortfall) {
			s.metrics.RecordAdmission(metrics.AdmissionShortfall)
		} else {
			s.pending = nil
			s.metrics.RecordAdmission(metrics.AdmissionNoAction)
		}
		return true, nil
	}

	s.pending = nil
	hero.RemoveFromHand(event.Source)
	s.logger.Info("play admitted",
		zap.String("actor", event.Actor),
		zap.String("card", event.Source),
		zap.Int("cost", p.Cost),
		zap.Int("resources", hero.Resources()),
		zap.Int("action_points", hero.ActionPoints()),
	)
	s.publish(rules.NewEventWithAmount(rules.EventCostPaid, event.Actor, event.Source, event.Target, p.Cost))

	switch route {
	case rules.RouteStaging:
		s.metrics.RecordAdmission(metrics.AdmissionStaging)
		s.publish(rules.NewEvent(rules.EventAttackStaged, event.Actor, event.Source, event.Target))
	case rules.RouteStack:
		s.metrics.RecordAdmission(metrics.AdmissionStack)
	}
	return true, nil
}

// reject records why admission refused a play. Submit reports it to the actor
// once the engine settles.
func (s *State) reject(event rules.PendingEvent, err error) {
	s.rejection = err
	s.logger.Info("play rejected",
		zap.String("actor", event.Actor),
		zap.String("card", event.Source),
		zap.Error(err),
	)
	evt := rules.NewEvent(rules.EventPlayRejected, event.Actor, event.Source, event.Target)
	evt.Data = err.Error()
	var shortfall *rules.ShortfallError
	if errors.As(err, &shortfall) {
		evt.Amount = shortfall.Shortfall()
	}
	s.publish(evt)
}
