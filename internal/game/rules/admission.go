package rules

// Account is the actor's resource and action-point ledger.
type Account interface {
	Resources() int
	ActionPoints() int
	Spend(resources, actionPoints int)
}

// Proposal is an intent that passed legality checks but has not been paid for.
type Proposal struct {
	Event          PendingEvent
	Cost           int
	ConsumesAction bool
}

// Route describes where an admitted event went.
type Route int

const (
	RouteNone Route = iota
	RouteStack
	RouteStaging
)

// AdmissionGate pays for proposals and routes them to the stack or the
// attack staging slot.
type AdmissionGate struct {
	priority *PriorityTracker
	stack    *ResolutionStack
	staging  *AttackStaging
}

// NewAdmissionGate wires a gate to the structures it feeds.
func NewAdmissionGate(priority *PriorityTracker, stack *ResolutionStack, staging *AttackStaging) *AdmissionGate {
	return &AdmissionGate{
		priority: priority,
		stack:    stack,
		staging:  staging,
	}
}

// Evaluate admits the proposal or rejects it with ErrNoActionPoints or a
// *ShortfallError. A rejection leaves the account untouched and releases
// priority. Admitted non-attacks also release priority so the actor keeps it.
func (g *AdmissionGate) Evaluate(p Proposal, acct Account) (Route, error) {
	if p.ConsumesAction && acct.ActionPoints() <= 0 {
		g.priority.Release()
		return RouteNone, ErrNoActionPoints
	}
	if available := acct.Resources(); available < p.Cost {
		g.priority.Release()
		return RouteNone, &ShortfallError{Cost: p.Cost, Available: available}
	}

	actionPoints := 0
	if p.ConsumesAction {
		actionPoints = 1
	}
	acct.Spend(p.Cost, actionPoints)
	g.priority.MarkActionOccurred()

	if p.Event.IsAttack {
		g.staging.Stage(p.Event)
		g.priority.Hold()
		return RouteStaging, nil
	}
	g.stack.Push(p.Event)
	g.priority.Release()
	return RouteStack, nil
}
