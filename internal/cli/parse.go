// Package cli reads player commands from a line-oriented stream and drives a
// game with them.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TrevorCOConnor/rusty-cards/internal/game"
)

// Verb is the action a command line asks for.
type Verb string

const (
	VerbPlay  Verb = "play"
	VerbPass  Verb = "pass"
	VerbPitch Verb = "pitch"
	VerbBlock Verb = "block"
	VerbEnd   Verb = "end"
	VerbShow  Verb = "show"
	VerbHelp  Verb = "help"
)

var (
	// ErrEmpty is returned for a blank line.
	ErrEmpty = errors.New("empty command")
	// ErrNoVerb is returned when a hero is named without an action.
	ErrNoVerb = errors.New("no action given")
	// ErrUnknownVerb is returned for an action the driver does not know.
	ErrUnknownVerb = errors.New("unknown action")
	// ErrMissingCard is returned when play or pitch names no card.
	ErrMissingCard = errors.New("no card given")
	// ErrUnterminatedQuote is returned for a quote that is never closed.
	ErrUnterminatedQuote = errors.New("unterminated quote")
)

// Command is one parsed line. Card, Target and Blocks are the tokens as typed;
// they are resolved to object IDs against a running game.
type Command struct {
	Hero   string
	Verb   Verb
	Card   string
	Target string
	Blocks []string
}

// Parse reads one line:
//
//	<hero> play <card> [target]
//	<hero> pass
//	<hero> pitch <card>
//	<hero> block [cards...]
//	end | show | help
//
// Tokens are separated by spaces; a card name containing spaces is quoted,
// e.g. alice play "Basic Attack" bob.
func Parse(line string) (Command, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return Command{}, err
	}
	if len(tokens) == 0 {
		return Command{}, ErrEmpty
	}

	if len(tokens) == 1 {
		switch v := Verb(strings.ToLower(tokens[0])); v {
		case VerbEnd, VerbShow, VerbHelp:
			return Command{Verb: v}, nil
		}
		return Command{}, fmt.Errorf("%q: %w", tokens[0], ErrNoVerb)
	}

	cmd := Command{Hero: tokens[0], Verb: Verb(strings.ToLower(tokens[1]))}
	args := tokens[2:]
	switch cmd.Verb {
	case VerbPlay:
		if len(args) == 0 {
			return Command{}, fmt.Errorf("play: %w", ErrMissingCard)
		}
		if len(args) > 2 {
			return Command{}, fmt.Errorf("play takes a card and an optional target, got %d arguments", len(args))
		}
		cmd.Card = args[0]
		if len(args) == 2 {
			cmd.Target = args[1]
		}
	case VerbPass:
		if len(args) > 0 {
			return Command{}, fmt.Errorf("pass takes no arguments, got %d", len(args))
		}
	case VerbPitch:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("pitch: %w", ErrMissingCard)
		}
		cmd.Card = args[0]
	case VerbBlock:
		cmd.Blocks = args
	default:
		return Command{}, fmt.Errorf("%q: %w", tokens[1], ErrUnknownVerb)
	}
	return cmd, nil
}

// tokenize splits on whitespace, keeping double-quoted runs together.
func tokenize(line string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		quoted bool
		inTok  bool
	)
	for _, r := range strings.TrimSpace(line) {
		switch {
		case r == '"':
			quoted = !quoted
			inTok = true
		case !quoted && (r == ' ' || r == '\t'):
			if inTok {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	if quoted {
		return nil, ErrUnterminatedQuote
	}
	if inTok {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// Resolver turns a typed token into an object ID. owner, when set, is the
// hero whose cards are preferred.
type Resolver func(token, owner string) (string, error)

// Intent resolves the command's tokens and builds the engine intent. Only
// hero commands have one.
func (c Command) Intent(resolve Resolver) (game.Intent, error) {
	hero, err := resolve(c.Hero, "")
	if err != nil {
		return game.Intent{}, fmt.Errorf("hero: %w", err)
	}

	switch c.Verb {
	case VerbPlay:
		card, err := resolve(c.Card, hero)
		if err != nil {
			return game.Intent{}, fmt.Errorf("card: %w", err)
		}
		var target string
		if c.Target != "" {
			if target, err = resolve(c.Target, ""); err != nil {
				return game.Intent{}, fmt.Errorf("target: %w", err)
			}
		}
		return game.Play(hero, card, target), nil
	case VerbPass:
		return game.Pass(hero), nil
	case VerbPitch:
		card, err := resolve(c.Card, hero)
		if err != nil {
			return game.Intent{}, fmt.Errorf("card: %w", err)
		}
		return game.Pitch(hero, card), nil
	case VerbBlock:
		blocks := make([]string, 0, len(c.Blocks))
		for _, token := range c.Blocks {
			id, err := resolve(token, hero)
			if err != nil {
				return game.Intent{}, fmt.Errorf("blocker: %w", err)
			}
			blocks = append(blocks, id)
		}
		return game.DeclareBlocks(hero, blocks...), nil
	}
	return game.Intent{}, fmt.Errorf("%s: %w", c.Verb, ErrUnknownVerb)
}
