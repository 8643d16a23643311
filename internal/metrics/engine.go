// Package metrics exposes Prometheus counters for the rules engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Intent outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Admission outcomes.
const (
	AdmissionStack        = "stack"
	AdmissionStaging      = "staging"
	AdmissionNoAction     = "no_action_points"
	AdmissionShortfall    = "shortfall"
	AdmissionMissingActor = "missing_actor"
)

// Attack outcomes.
const (
	AttackHit     = "hit"
	AttackBlocked = "blocked"
	AttackAborted = "aborted"
	AttackRefused = "refused"
)

// Engine groups the engine's collectors. All methods are safe on a nil
// receiver so callers can run without metrics.
type Engine struct {
	ticks          prometheus.Counter
	intents        *prometheus.CounterVec
	admissions     *prometheus.CounterVec
	phases         *prometheus.CounterVec
	steps          *prometheus.CounterVec
	attacks        *prometheus.CounterVec
	damage         prometheus.Counter
	gamesActive    prometheus.Gauge
	gamesCompleted *prometheus.CounterVec
}

// New registers the engine collectors on reg.
func New(reg prometheus.Registerer) *Engine {
	factory := promauto.With(reg)
	return &Engine{
		ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "rustycards_engine_ticks_total",
			Help: "Number of engine ticks evaluated",
		}),
		intents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rustycards_intents_total",
			Help: "Intents submitted, by kind and outcome",
		}, []string{"kind", "outcome"}),
		admissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rustycards_admissions_total",
			Help: "Admission gate decisions, by outcome",
		}, []string{"outcome"}),
		phases: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rustycards_phase_transitions_total",
			Help: "Phase transitions, by destination phase",
		}, []string{"phase"}),
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rustycards_combat_steps_total",
			Help: "Combat step transitions, by destination step",
		}, []string{"step"}),
		attacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rustycards_attacks_total",
			Help: "Attacks by outcome",
		}, []string{"outcome"}),
		damage: factory.NewCounter(prometheus.CounterOpts{
			Name: "rustycards_damage_dealt_total",
			Help: "Total combat damage dealt to heroes",
		}),
		gamesActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rustycards_games_active",
			Help: "Games currently running",
		}),
		gamesCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rustycards_games_completed_total",
			Help: "Games that ended, by status",
		}, []string{"status"}),
	}
}

// RecordTick counts one engine tick.
func (m *Engine) RecordTick() {
	if m == nil {
		return
	}
	m.ticks.Inc()
}

// RecordIntent counts a submitted intent.
func (m *Engine) RecordIntent(kind, outcome string) {
	if m == nil {
		return
	}
	m.intents.WithLabelValues(kind, outcome).Inc()
}

// RecordAdmission counts an admission gate decision.
func (m *Engine) RecordAdmission(outcome string) {
	if m == nil {
		return
	}
	m.admissions.WithLabelValues(outcome).Inc()
}

// RecordPhase counts a transition into phase.
func (m *Engine) RecordPhase(phase string) {
	if m == nil {
		return
	}
	m.phases.WithLabelValues(phase).Inc()
}

// RecordStep counts a transition into a combat step.
func (m *Engine) RecordStep(step string) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(step).Inc()
}

// RecordAttack counts an attack outcome.
func (m *Engine) RecordAttack(outcome string) {
	if m == nil {
		return
	}
	m.attacks.WithLabelValues(outcome).Inc()
}

// RecordDamage adds dealt combat damage.
func (m *Engine) RecordDamage(amount int) {
	if m == nil || amount <= 0 {
		return
	}
	m.damage.Add(float64(amount))
}

// GameStarted marks a game as running.
func (m *Engine) GameStarted() {
	if m == nil {
		return
	}
	m.gamesActive.Inc()
}

// GameEnded marks a game as no longer running.
func (m *Engine) GameEnded(status string) {
	if m == nil {
		return
	}
	m.gamesActive.Dec()
	m.gamesCompleted.WithLabelValues(status).Inc()
}
