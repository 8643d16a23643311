// Package effects maps card kinds to the hooks the engine runs when a card is
// played, attacks, or hits.
package effects

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/TrevorCOConnor/rusty-cards/internal/catalog"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/store"
)

// Context is the part of a running game that hooks may touch.
type Context interface {
	Store() *store.Store
	Triggers() *rules.TriggerManager
	Logger() *zap.Logger
	LoseLife(heroID string, amount int, sourceID string) error
	GainActionPoints(heroID string, amount int, sourceID string) error
	GainResources(heroID string, amount int, sourceID string) error
}

// Invocation describes the card activity a hook runs for. Link is set for
// on-attack and on-hit hooks.
type Invocation struct {
	Actor  string
	Source string
	Target string
	Link   *rules.ChainLink
}

// Hook runs card behaviour at one extension point.
type Hook func(ctx Context, inv Invocation) error

// Hooks groups the extension points of one card kind.
type Hooks struct {
	OnPlay   Hook
	OnAttack Hook
	OnHit    Hook
}

// Registry maps card kinds to hooks.
type Registry struct {
	mu    sync.RWMutex
	hooks map[string]Hooks
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[string]Hooks)}
}

// NewDefaultRegistry registers the built-in cards and then every catalog card
// with declarative effects that has no built-in hooks.
func NewDefaultRegistry(cat *catalog.Catalog) *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	if cat != nil {
		r.RegisterCatalog(cat)
	}
	return r
}

// Register sets the hooks for a card kind, replacing earlier ones.
func (r *Registry) Register(kind string, hooks Hooks) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[kind] = hooks
}

// Lookup returns the hooks for a card kind.
func (r *Registry) Lookup(kind string) (Hooks, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hooks, ok := r.hooks[kind]
	return hooks, ok
}

// Kinds returns every registered kind in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.hooks))
	for kind := range r.hooks {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// RegisterCatalog turns declarative catalog effects into hooks.
func (r *Registry) RegisterCatalog(cat *catalog.Catalog) {
	for _, id := range cat.CardIDs() {
		def := cat.Cards[id]
		if !def.HasEffects() {
			continue
		}
		if _, exists := r.Lookup(id); exists {
			continue
		}
		r.Register(id, Hooks{
			OnPlay:   Declarative(def.OnPlay),
			OnAttack: Declarative(def.OnAttack),
			OnHit:    Declarative(def.OnHit),
		})
	}
}

// Declarative builds a hook that applies the effects in order. It returns nil
// for an empty list.
func Declarative(steps []catalog.Effect) Hook {
	if len(steps) == 0 {
		return nil
	}
	steps = append([]catalog.Effect(nil), steps...)
	return func(ctx Context, inv Invocation) error {
		for _, step := range steps {
			if err := apply(ctx, inv, step); err != nil {
				return err
			}
		}
		return nil
	}
}

func apply(ctx Context, inv Invocation, step catalog.Effect) error {
	switch step.Op {
	case catalog.OpLoseLife:
		target := inv.Target
		if inv.Link != nil {
			target = inv.Link.Target
		}
		if ctx.Store().KindOf(target) != store.KindHero {
			ctx.Logger().Debug("life loss skipped, target is not a hero",
				zap.String("source", inv.Source),
				zap.String("target", target),
			)
			return nil
		}
		return ctx.LoseLife(target, step.Amount, inv.Source)
	case catalog.OpGainAction:
		return ctx.GainActionPoints(inv.Actor, step.Amount, inv.Source)
	case catalog.OpGainResources:
		return ctx.GainResources(inv.Actor, step.Amount, inv.Source)
	default:
		return fmt.Errorf("unknown effect %q", step.Op)
	}
}
