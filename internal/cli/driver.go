package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/TrevorCOConnor/rusty-cards/internal/game"
)

// Engine is the part of *game.Engine the driver uses.
type Engine interface {
	View(gameID string) (*game.View, error)
	Resolve(gameID, token, owner string) (string, error)
	Submit(gameID string, intent game.Intent) error
}

// Driver feeds commands from In to one running game and reports to Out.
type Driver struct {
	Engine    Engine
	GameID    string
	In        io.Reader
	Out       io.Writer
	Logger    *zap.Logger
	EchoInput bool // echo each command after the prompt, for scripts
}

// Run reads commands until the game ends, the input is exhausted or an
// "end" command arrives. Rejected commands and stalls are reported and
// reading goes on; an engine failure stops the driver.
func (d *Driver) Run(ctx context.Context) error {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	view, err := d.Engine.View(d.GameID)
	if err != nil {
		return err
	}
	d.printLine(view.Summary())

	scanner := bufio.NewScanner(d.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if view.Status != game.StatusRunning.String() {
			return nil
		}

		d.print(prompt(view))
		if !scanner.Scan() {
			d.printLine("")
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if d.EchoInput {
			d.printLine(line)
		}

		cmd, err := Parse(line)
		if err != nil {
			d.printSystem(err.Error())
			continue
		}

		switch cmd.Verb {
		case VerbEnd:
			return nil
		case VerbHelp:
			d.help()
			continue
		case VerbShow:
			d.show(view)
			continue
		}

		intent, err := cmd.Intent(func(token, owner string) (string, error) {
			return d.Engine.Resolve(d.GameID, token, owner)
		})
		if err != nil {
			d.printSystem(err.Error())
			continue
		}

		if err := d.Engine.Submit(d.GameID, intent); err != nil {
			switch {
			case game.IsRejection(err):
				d.printSystem("rejected: " + err.Error())
			case errors.Is(err, game.ErrGameOver):
				d.printSystem("the game is over")
			case errors.Is(err, game.ErrStalled):
				d.Logger.Warn("game stalled",
					zap.String("game_id", d.GameID),
					zap.String("intent", intent.String()),
				)
				d.printSystem("stalled: " + err.Error())
			default:
				d.Logger.Error("game failed",
					zap.String("game_id", d.GameID),
					zap.String("intent", intent.String()),
					zap.Error(err),
				)
				return err
			}
		}

		if view, err = d.Engine.View(d.GameID); err != nil {
			return err
		}
		d.printLine(view.Summary())
	}
}

func prompt(v *game.View) string {
	if !v.AnyoneHasPriority {
		return "> "
	}
	return v.PriorityHolder + "> "
}

func (d *Driver) help() {
	lines := []string{
		"<hero> play <card> [target]  propose a card, attacks need a target",
		"<hero> pitch <card>          pitch a card for the pending play",
		"<hero> pass                  give up priority",
		"<hero> block [cards...]      declare blockers, none to take the hit",
		"show                         list hands, stack and chain",
		"end                          stop the game",
		"Cards are named by id (c3) or by name; quote names with spaces.",
	}
	for _, line := range lines {
		d.printLine(line)
	}
}

func (d *Driver) show(v *game.View) {
	name := func(id string) string {
		if c, ok := v.Card(id); ok {
			return fmt.Sprintf("%s(%s)", c.Name, c.ID)
		}
		return id
	}
	names := func(ids []string) string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, name(id))
		}
		return strings.Join(out, ", ")
	}

	for _, h := range v.Heroes {
		d.printLine(fmt.Sprintf("%s hp=%d res=%d ap=%d deck=%d", h.Name, h.Health, h.Resources, h.ActionPoints, h.DeckSize))
		d.printLine("  hand: " + names(h.Hand))
		if len(h.Pitch) > 0 {
			d.printLine("  pitch: " + names(h.Pitch))
		}
	}
	for i := len(v.Stack) - 1; i >= 0; i-- {
		p := v.Stack[i]
		d.printLine(fmt.Sprintf("stack: %s by %s", name(p.Source), p.Actor))
	}
	if v.Staged != nil {
		d.printLine(fmt.Sprintf("staged: %s by %s -> %s", name(v.Staged.Source), v.Staged.Actor, v.Staged.Target))
	}
	for i, link := range v.Chain {
		d.printLine(fmt.Sprintf("link %d: %s -> %s blocks=[%s] hit=%t closed=%t",
			i+1, name(link.Attack), link.Target, names(link.Blocks), link.Hit, link.Closed))
	}
}

func (d *Driver) printLine(text string) {
	fmt.Fprintln(d.Out, text)
}

func (d *Driver) print(text string) {
	fmt.Fprint(d.Out, text)
}

func (d *Driver) printSystem(text string) {
	fmt.Fprintf(d.Out, "[%s]\n", text)
}
