package rules

import "sync"

// ChainLink tracks one attack from declaration to resolution.
type ChainLink struct {
	Target           string
	Attacker         string
	Attack           string
	Blocks           []string
	AttackReactions  []string
	DefenseReactions []string
	Hit              bool
	Damage           int
	Closed           bool
}

func (l ChainLink) clone() ChainLink {
	l.Blocks = append([]string(nil), l.Blocks...)
	l.AttackReactions = append([]string(nil), l.AttackReactions...)
	l.DefenseReactions = append([]string(nil), l.DefenseReactions...)
	return l
}

// AttackChain is the ledger of chain links opened this turn.
type AttackChain struct {
	mu    sync.Mutex
	links []*ChainLink
	open  bool
}

// NewAttackChain creates an empty chain.
func NewAttackChain() *AttackChain {
	return &AttackChain{}
}

// OpenLink appends a new link for an attack and marks the chain open.
func (ac *AttackChain) OpenLink(target, attacker, attack string) *ChainLink {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	link := &ChainLink{
		Target:   target,
		Attacker: attacker,
		Attack:   attack,
	}
	ac.links = append(ac.links, link)
	ac.open = true
	return link
}

// Current returns the most recently opened link.
func (ac *AttackChain) Current() (*ChainLink, error) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if len(ac.links) == 0 {
		return nil, ErrNoChainLink
	}
	return ac.links[len(ac.links)-1], nil
}

// CloseCurrent marks the most recent link closed.
func (ac *AttackChain) CloseCurrent() error {
	link, err := ac.Current()
	if err != nil {
		return err
	}
	ac.mu.Lock()
	defer ac.mu.Unlock()
	link.Closed = true
	return nil
}

// Open reports whether any link exists that has not been cleared.
func (ac *AttackChain) Open() bool {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.open
}

// Len returns the number of links.
func (ac *AttackChain) Len() int {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return len(ac.links)
}

// Links returns copies of every link, oldest first.
func (ac *AttackChain) Links() []ChainLink {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	out := make([]ChainLink, 0, len(ac.links))
	for _, link := range ac.links {
		out = append(out, link.clone())
	}
	return out
}

// Clear drops every link once the chain has fully resolved.
func (ac *AttackChain) Clear() {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.links = nil
	ac.open = false
}
