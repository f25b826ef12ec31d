package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/e-mault/stat-sage/internal/notifier"
	"github.com/e-mault/stat-sage/internal/pubsub"
	"github.com/e-mault/stat-sage/internal/riot"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// notRecorded is shown for stats without a positive value.
const notRecorded = "Not recorded"

// Notifier renders replies as Block Kit messages and posts announcements
// to a channel.
type Notifier struct {
	api       slackClient
	channelID string
}

// NewNotifier creates a new Notifier. An empty token leaves announcements in
// dry-run mode.
func NewNotifier(token, channelID string) *Notifier {
	var api slackClient
	if token != "" {
		api = slack.New(token)
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil || s.channelID == "" {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// AnnounceStatUpdate posts a short line about a stat change to the channel.
func (s *Notifier) AnnounceStatUpdate(ctx context.Context, event pubsub.StatUpdatedEvent, dryRun bool) error {
	text := fmt.Sprintf("%s set %s (%s) %s to %d", mention(event.UserID), event.Character, event.Game, event.Stat, event.Value)
	if event.Previous != 0 {
		text += fmt.Sprintf(" (was %d)", event.Previous)
	}
	msg := slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
	_, _, err := s.sendMessage(ctx, msg, dryRun)
	return err
}

// AnnounceAccountLinked posts a line when a user links a Riot account.
func (s *Notifier) AnnounceAccountLinked(ctx context.Context, event pubsub.AccountLinkedEvent, dryRun bool) error {
	text := fmt.Sprintf("%s linked a Riot account.", mention(event.UserID))
	msg := slack.NewBlockMessage(
		slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", text, false, false)),
	)
	_, _, err := s.sendMessage(ctx, msg, dryRun)
	return err
}

// FormatStatUpdated confirms a stat write.
func (s *Notifier) FormatStatUpdated(update ledger.StatUpdate, userName string) slack.Message {
	text := fmt.Sprintf("Updated %s's %s (%s) %s to %d!", userName, update.Character, update.Game, update.Stat, update.Value)
	return textMessage(text)
}

// FormatUserStats renders each game's per-character breakdown.
func (s *Notifier) FormatUserStats(view ledger.UserView) slack.Message {
	blocks := make([]slack.Block, 0)
	for _, gv := range view.Games {
		headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s Stats", gv.Game), true, false)
		blocks = append(blocks, slack.NewHeaderBlock(headerText))

		lines := make([]string, 0, len(gv.Characters))
		for _, cv := range gv.Characters {
			parts := make([]string, 0, len(cv.Stats))
			for _, sv := range cv.Stats {
				value := notRecorded
				if sv.Recorded {
					value = fmt.Sprint(sv.Value)
				}
				parts = append(parts, fmt.Sprintf("%s: %s", sv.Stat, value))
			}
			lines = append(lines, fmt.Sprintf("*%s*: %s", cv.Name, strings.Join(parts, ", ")))
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))
	}
	return slack.NewBlockMessage(blocks...)
}

// FormatCombinedStats renders per-game totals, one field per stat.
func (s *Notifier) FormatCombinedStats(totals []ledger.GameTotals, userName string) slack.Message {
	blocks := make([]slack.Block, 0)
	for _, gt := range totals {
		headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s Combined Stats", gt.Game), true, false)
		blocks = append(blocks, slack.NewHeaderBlock(headerText))

		fields := make([]*slack.TextBlockObject, 0, len(gt.Totals))
		for _, line := range gt.Totals {
			fields = append(fields, slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*%s*\n%d", line.Stat, line.Value), false, false))
		}
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}
	if userName != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", fmt.Sprintf("Totals for %s across all characters.", userName), true, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

// FormatLeaderboard renders the per-stat rankings. The reply is posted in
// channel so everyone sees it.
func (s *Notifier) FormatLeaderboard(board ledger.Leaderboard) slack.Message {
	blocks := make([]slack.Block, 0)

	title := fmt.Sprintf("🏆 %s Leaderboard 🏆", board.Game)
	if board.Character != "" {
		title = fmt.Sprintf("🏆 %s Leaderboard: %s 🏆", board.Game, board.Character)
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)))

	for _, ranking := range board.Rankings {
		lines := make([]string, 0, len(ranking.Entries))
		for i, entry := range ranking.Entries {
			score := notRecorded
			if entry.Score > 0 {
				score = fmt.Sprint(entry.Score)
			}
			lines = append(lines, fmt.Sprintf("%d. %s%s: %s", i+1, medal(i+1), mention(entry.UserID), score))
		}
		text := fmt.Sprintf("*%s*\n%s", ranking.Stat, strings.Join(lines, "\n"))
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))
	}

	msg := slack.NewBlockMessage(blocks...)
	msg.ResponseType = "in_channel"
	return msg
}

// FormatAccountLinked reports a resolved PUUID and whether it was saved.
// cached is the PUUID already on file when it was not.
func (s *Notifier) FormatAccountLinked(riotID, puuid, cached string, saved bool) slack.Message {
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("The PUUID for %s is: `%s`", riotID, puuid), false, false), nil, nil),
	}
	note := "Your PUUID was already saved."
	switch {
	case saved:
		note = "Your PUUID has been saved successfully."
	case cached != "" && cached != puuid:
		note = fmt.Sprintf("Your saved PUUID is %s, which differs from this account. It was not changed.", cached)
	}
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", note, true, false)))
	return slack.NewBlockMessage(blocks...)
}

// FormatMasteryScore reports a total champion mastery score.
func (s *Notifier) FormatMasteryScore(riotID string, score int) slack.Message {
	return textMessage(fmt.Sprintf("%s has a total mastery score of: %d", riotID, score))
}

// FormatHelp lists the available commands.
func (s *Notifier) FormatHelp(commands []notifier.CommandHelp) slack.Message {
	lines := make([]string, 0, len(commands))
	for _, c := range commands {
		lines = append(lines, fmt.Sprintf("`%s` - %s", c.Usage, c.Description))
	}
	return slack.NewBlockMessage(
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "Available Commands", true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil),
	)
}

// FormatText wraps plain text in a single section.
func (s *Notifier) FormatText(text string) slack.Message {
	return textMessage(text)
}

// FormatError turns a ledger error into the text shown to the user.
func (s *Notifier) FormatError(err error) slack.Message {
	return textMessage(ErrorText(err))
}

// ErrorText maps the ledger error taxonomy to user-facing text.
func ErrorText(err error) string {
	var (
		verr  *ledger.ValidationError
		nferr *ledger.NotFoundError
		eerr  *ledger.EmptyResultError
		cerr  *ledger.CollaboratorError
	)
	switch {
	case errors.As(err, &verr):
		return validationText(verr)
	case errors.As(err, &nferr):
		if nferr.Game == "" {
			return "You don't have any recorded stats yet."
		}
		return fmt.Sprintf("You have no recorded stats for %s.", nferr.Game)
	case errors.As(err, &eerr):
		if eerr.Character == "" {
			return fmt.Sprintf("No stats available for %s.", eerr.Game)
		}
		return fmt.Sprintf("No stats available for the character '%s' in %s.", eerr.Character, eerr.Game)
	case errors.As(err, &cerr):
		var apiErr *riot.APIError
		if errors.As(cerr, &apiErr) {
			return riotErrorText(apiErr)
		}
		return fmt.Sprintf("Something went wrong (%s). Please try again later.", cerr.Op)
	default:
		return "Something went wrong. Please try again later."
	}
}

func riotErrorText(err *riot.APIError) string {
	if err.Status == http.StatusTooManyRequests {
		if err.RetryAfter > 0 {
			return fmt.Sprintf("The Riot API is rate limited, retry after %s.", err.RetryAfter)
		}
		return "The Riot API is rate limited. Please try again later."
	}
	return fmt.Sprintf("Riot API error: %d - %s.", err.Status, http.StatusText(err.Status))
}

func validationText(err *ledger.ValidationError) string {
	valid := strings.Join(err.Valid, ", ")
	switch err.Field {
	case "game":
		return fmt.Sprintf("Invalid game name. Valid games are: %s.", valid)
	case "character":
		if len(err.Valid) == 0 {
			return "Please provide a character name."
		}
		return fmt.Sprintf("Invalid character name. Please choose a valid %s character: %s.", err.Game, valid)
	case "stat":
		return fmt.Sprintf("Invalid stat name for %s. Valid stats are: %s.", err.Game, valid)
	default:
		return fmt.Sprintf("Invalid %s.", err.Field)
	}
}

func textMessage(text string) slack.Message {
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

func mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇 "
	case 2:
		return "🥈 "
	case 3:
		return "🥉 "
	}
	return ""
}
