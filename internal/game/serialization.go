package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
)

// Checksum is a deterministic hash of a view. Two games fed the same seed and
// the same intents produce the same checksum after every tick.
type Checksum struct {
	Hash    string
	Version int
}

// Checksum hashes everything in the view except generated event IDs.
func (v *View) Checksum() (*Checksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(v.canonical())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}
	return &Checksum{
		Hash:    hex.EncodeToString(hash.Sum(nil)),
		Version: 1,
	}, nil
}

// canonical renders the view in a fixed order. Holding, passed, the stack and
// the chain are ordered by the rules, so they are written as they are.
func (v *View) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%s|%s|%d|%s|%s\n", v.GameID, v.Status, v.Winner, v.Turn, v.Phase, v.Step)
	fmt.Fprintf(&buf, "PRIORITY:%t|%t|%t|%s|%s\n", v.AnyoneHasPriority, v.BlocksOnly, v.GameHolds, v.PriorityHolder, v.TurnPlayer)
	fmt.Fprintf(&buf, "HOLDING:%s\n", strings.Join(v.Holding, ","))
	fmt.Fprintf(&buf, "PASSED:%s\n", strings.Join(v.Passed, ","))

	buf.WriteString("STACK:\n")
	for i, event := range v.Stack {
		fmt.Fprintf(&buf, "  %d:%s\n", i, pendingKey(event))
	}
	if v.Staged != nil {
		fmt.Fprintf(&buf, "STAGED:%s\n", pendingKey(*v.Staged))
	}

	buf.WriteString("CHAIN:\n")
	for i, link := range v.Chain {
		fmt.Fprintf(&buf, "  %d:%s|%s|%s|%t|%d|%t\n", i, link.Attacker, link.Attack, link.Target, link.Hit, link.Damage, link.Closed)
		fmt.Fprintf(&buf, "    BLOCKS:%s\n", strings.Join(link.Blocks, ","))
		fmt.Fprintf(&buf, "    AR:%s\n", strings.Join(link.AttackReactions, ","))
		fmt.Fprintf(&buf, "    DR:%s\n", strings.Join(link.DefenseReactions, ","))
	}

	for _, h := range v.Heroes {
		fmt.Fprintf(&buf, "HERO:%s|%d|%d|%d|%d|%d\n", h.ID, h.Health, h.Intellect, h.Resources, h.ActionPoints, h.DeckSize)
		fmt.Fprintf(&buf, "  HAND:%s\n", strings.Join(h.Hand, ","))
		fmt.Fprintf(&buf, "  PITCH:%s\n", strings.Join(h.Pitch, ","))
		fmt.Fprintf(&buf, "  GRAVEYARD:%s\n", strings.Join(h.Graveyard, ","))
	}
	return buf.String()
}

func pendingKey(e rules.PendingEvent) string {
	return fmt.Sprintf("%s|%s|%s|%t", e.Actor, e.Source, e.Target, e.IsAttack)
}

// VerifyChecksum reports whether the view still hashes to expected.
func (v *View) VerifyChecksum(expected *Checksum) (bool, error) {
	computed, err := v.Checksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == expected.Hash, nil
}

// MarshalBinary gob-encodes the view.
func (v *View) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	// Encode a copy so gob does not call MarshalBinary again.
	type plain View
	if err := gob.NewEncoder(&buf).Encode((*plain)(v)); err != nil {
		return nil, fmt.Errorf("failed to encode view: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a view written by MarshalBinary.
func (v *View) UnmarshalBinary(data []byte) error {
	type plain View
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode((*plain)(v)); err != nil {
		return fmt.Errorf("failed to decode view: %w", err)
	}
	return nil
}
