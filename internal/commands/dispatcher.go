package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/e-mault/stat-sage/internal/metrics"
	"github.com/e-mault/stat-sage/internal/notifier"
	"github.com/e-mault/stat-sage/internal/pubsub"
	"github.com/e-mault/stat-sage/internal/riot"
	"github.com/slack-go/slack"
)

// publishTimeout bounds how long a reply waits on event publishing.
const publishTimeout = 2 * time.Second

// New creates a Dispatcher.
func New(l ledger.Service, r riot.RiotClient, n notifier.Notifier, m metrics.Metrics, usage metrics.UsageStore, events pubsub.PubSubClient) *Dispatcher {
	return &Dispatcher{
		ledger:   l,
		riot:     r,
		notifier: n,
		metrics:  m,
		usage:    usage,
		events:   events,
		now:      time.Now,
	}
}

// Dispatch runs one command and returns the reply. Every failure is
// rendered as a reply; Dispatch itself never fails.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) slack.Message {
	start := d.now()

	req, err := Parse(inv)
	verb := req.Verb
	if err != nil {
		var unknown *UnknownCommandError
		if errors.As(err, &unknown) {
			log.Warn("Unknown command", "command", inv.Command, "text", inv.Text, "user", inv.UserID)
			d.metrics.IncCommand("unknown", metrics.OutcomeInvalid)
			if d.usage != nil {
				d.usage.Increment(ctx, "unknown")
			}
			return d.notifier.FormatText(err.Error())
		}
		verb = verbLabel(inv)
	}

	var msg slack.Message
	if err == nil {
		msg, err = d.run(ctx, inv, req)
	}

	outcome := outcomeOf(err)
	if err != nil {
		msg = d.reply(err)
		if outcome == metrics.OutcomeError {
			log.Error("Command failed", "command", verb, "user", inv.UserID, "error", err)
		} else {
			log.Info("Command rejected", "command", verb, "user", inv.UserID, "reason", err)
		}
	}

	d.metrics.IncCommand(verb, outcome)
	d.metrics.ObserveCommandDuration(verb, d.now().Sub(start).Seconds())
	if d.usage != nil {
		d.usage.Increment(ctx, verb)
	}
	return msg
}

func (d *Dispatcher) run(ctx context.Context, inv Invocation, req Request) (slack.Message, error) {
	switch req.Verb {
	case VerbUpdateStat:
		return d.updateStat(ctx, inv, req.Args)
	case VerbViewStats:
		view, err := d.ledger.GetUserStats(ctx, inv.UserID, optional(req.Args, 0))
		if err != nil {
			return slack.Message{}, err
		}
		return d.notifier.FormatUserStats(view), nil
	case VerbViewStatsAll:
		return d.viewStatsAll(ctx, inv, optional(req.Args, 0))
	case VerbLeaderboard:
		board, err := d.ledger.Rank(ctx, req.Args[0], optional(req.Args, 1))
		if err != nil {
			return slack.Message{}, err
		}
		return d.notifier.FormatLeaderboard(board), nil
	case VerbGetPUUID:
		return d.getPUUID(ctx, inv, req.Args[0], req.Args[1])
	case VerbTotalMastery:
		return d.totalMastery(ctx, req.Args[0], req.Args[1])
	case VerbHello:
		return d.notifier.FormatText("Hello! I'm the Stat Sage!"), nil
	case VerbPing:
		return d.notifier.FormatText("Pong!"), nil
	case VerbCommands:
		return d.notifier.FormatHelp(Help), nil
	}
	return slack.Message{}, &UnknownCommandError{Verb: req.Verb}
}

func (d *Dispatcher) updateStat(ctx context.Context, inv Invocation, args []string) (slack.Message, error) {
	parsed, err := parseUpdateStat(args)
	if err != nil {
		return slack.Message{}, err
	}
	update, err := d.ledger.UpdateStat(ctx, inv.UserID, parsed.Game, parsed.Character, parsed.Stat, parsed.Value)
	if err != nil {
		return slack.Message{}, err
	}
	d.metrics.IncStatUpdates(string(update.Game))

	d.publish(ctx, pubsub.EventStatUpdated, pubsub.StatUpdatedEvent{
		EventID:   pubsub.NewEventID(),
		UserID:    update.UserID,
		Game:      string(update.Game),
		Character: update.Character,
		Stat:      string(update.Stat),
		Value:     update.Value,
		Previous:  update.Previous,
		At:        d.now().UTC(),
	})
	return d.notifier.FormatStatUpdated(update, displayName(inv)), nil
}

func (d *Dispatcher) viewStatsAll(ctx context.Context, inv Invocation, gameName string) (slack.Message, error) {
	if gameName == "" {
		totals, err := d.ledger.CombineAllGames(ctx, inv.UserID)
		if err != nil {
			return slack.Message{}, err
		}
		return d.notifier.FormatCombinedStats(totals, displayName(inv)), nil
	}

	totals, err := d.ledger.CombineStats(ctx, inv.UserID, gameName)
	if err != nil {
		return slack.Message{}, err
	}
	game, err := ledger.ParseGame(gameName)
	if err != nil {
		return slack.Message{}, err
	}
	return d.notifier.FormatCombinedStats([]ledger.GameTotals{{Game: game, Totals: totals}}, displayName(inv)), nil
}

func (d *Dispatcher) getPUUID(ctx context.Context, inv Invocation, name, tag string) (slack.Message, error) {
	riotID := name + "#" + tag
	puuid, err := d.resolve(ctx, name, tag)
	if err != nil {
		return slack.Message{}, err
	}

	saved, err := d.ledger.SetCachedAccountID(ctx, inv.UserID, puuid)
	if err != nil {
		return slack.Message{}, err
	}
	if saved {
		d.publish(ctx, pubsub.EventAccountLinked, pubsub.AccountLinkedEvent{
			EventID:   pubsub.NewEventID(),
			UserID:    inv.UserID,
			AccountID: puuid,
			At:        d.now().UTC(),
		})
		return d.notifier.FormatAccountLinked(riotID, puuid, puuid, true), nil
	}

	cached, _, err := d.ledger.CachedAccountID(ctx, inv.UserID)
	if err != nil {
		return slack.Message{}, err
	}
	return d.notifier.FormatAccountLinked(riotID, puuid, cached, false), nil
}

func (d *Dispatcher) totalMastery(ctx context.Context, name, tag string) (slack.Message, error) {
	puuid, err := d.resolve(ctx, name, tag)
	if err != nil {
		return slack.Message{}, err
	}
	score, err := d.riot.GetTotalMasteryScore(ctx, puuid)
	if err != nil {
		if errors.Is(err, riot.ErrNotFound) {
			return slack.Message{}, &accountNotFoundError{RiotID: name + "#" + tag}
		}
		return slack.Message{}, &ledger.CollaboratorError{Op: "fetch mastery score", Err: err}
	}
	return d.notifier.FormatMasteryScore(name+"#"+tag, score), nil
}

func (d *Dispatcher) resolve(ctx context.Context, name, tag string) (string, error) {
	puuid, err := d.riot.GetPUUID(ctx, name, tag)
	if errors.Is(err, riot.ErrNotFound) {
		return "", &accountNotFoundError{RiotID: name + "#" + tag}
	}
	if err != nil {
		return "", &ledger.CollaboratorError{Op: "resolve riot id", Err: err}
	}
	return puuid, nil
}

// publish sends an event. Failures are logged and counted but never change
// the reply.
func (d *Dispatcher) publish(ctx context.Context, topic pubsub.EventType, event any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := d.events.SendMessage(ctx, topic, event); err != nil {
		log.Error("Failed to publish event", "topic", topic, "error", err)
		d.metrics.IncEventsFailed()
		return
	}
	d.metrics.IncEventsPublished()
}

// reply renders an error. Usage and lookup errors carry their own text;
// ledger errors go through the notifier.
func (d *Dispatcher) reply(err error) slack.Message {
	var (
		usage    *UsageError
		unknown  *UnknownCommandError
		notFound *accountNotFoundError
	)
	switch {
	case errors.As(err, &usage), errors.As(err, &unknown), errors.As(err, &notFound):
		return d.notifier.FormatText(err.Error())
	default:
		return d.notifier.FormatError(err)
	}
}

func outcomeOf(err error) string {
	var (
		usage    *UsageError
		verr     *ledger.ValidationError
		nferr    *ledger.NotFoundError
		eerr     *ledger.EmptyResultError
		notFound *accountNotFoundError
	)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &usage), errors.As(err, &verr):
		return metrics.OutcomeInvalid
	case errors.As(err, &nferr), errors.As(err, &eerr), errors.As(err, &notFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

// verbLabel names the verb of an invocation that failed to parse, looking
// past the root command to the verb the user typed.
func verbLabel(inv Invocation) string {
	verb := normalizeVerb(inv.Command)
	if verb == rootVerb || verb == "" {
		if fields := strings.Fields(inv.Text); len(fields) > 0 {
			return normalizeVerb(fields[0])
		}
	}
	return verb
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func displayName(inv Invocation) string {
	if inv.UserName != "" {
		return inv.UserName
	}
	return fmt.Sprintf("<@%s>", inv.UserID)
}
