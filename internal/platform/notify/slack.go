package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

// slackAPI is the subset of the Slack client used by the notifier.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts domain events to a Slack channel. One channel per
// tenant deployment; routing to per-project channels is handled by the
// Slack workspace configuration, not here.
type SlackNotifier struct {
	api     slackAPI
	channel string
	logger  zerolog.Logger
}

// NewSlackNotifier creates a notifier posting to the given channel ID.
func NewSlackNotifier(token, channel string, logger zerolog.Logger) *SlackNotifier {
	return &SlackNotifier{
		api:     slack.New(token),
		channel: channel,
		logger:  logger,
	}
}

func (s *SlackNotifier) Notify(ctx context.Context, ev Event) error {
	attachment := slack.Attachment{
		Color:  eventColor(ev.Kind),
		Title:  ev.Title,
		Text:   ev.Body,
		Footer: fmt.Sprintf("project %s", ev.ProjectID),
	}
	if ev.Link != "" {
		attachment.TitleLink = ev.Link
	}

	_, ts, err := s.api.PostMessageContext(ctx, s.channel,
		slack.MsgOptionAttachments(attachment),
	)
	if err != nil {
		s.logger.Error().Err(err).
			Str("kind", ev.Kind).
			Str("project_id", ev.ProjectID).
			Msg("slack notification failed")
		return fmt.Errorf("posting slack message: %w", err)
	}

	s.logger.Debug().
		Str("kind", ev.Kind).
		Str("channel", s.channel).
		Str("ts", ts).
		Msg("slack notification sent")
	return nil
}

// eventColor maps event kinds to Slack attachment colors. Recordable
// incidents get red, informational events get the neutral gray.
func eventColor(kind string) string {
	switch kind {
	case "incident_reported":
		return "warning"
	case "incident_classified":
		return "danger"
	case "issue_mention", "portal_response":
		return "#439FE0"
	default:
		return "#cccccc"
	}
}
