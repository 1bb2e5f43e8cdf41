package handler

import (
	"MomentumBot/model"
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

// Decorator emojis for non-error replies; errors always get :warning:.
var replyEmojis = []string{
	"partying_face", "white_check_mark", "tada", "rocket",
	"money_mouth_face", "champagne", "confetti_ball", "guitar",
	"bulb", "ok", "checkered_flag", "smile",
}

// Message is an ephemeral reply to the invoking user.
type Message struct {
	Header string
	Body   string
	Error  bool
}

// Notifier sends ephemeral replies to the user who invoked a command,
// in the channel the command came from.
type Notifier struct {
	api SlackAPI
}

// NewNotifier creates a Notifier on top of the Slack Web API.
func NewNotifier(api SlackAPI) *Notifier {
	return &Notifier{api: api}
}

// Send delivers the message. Failures are logged, never returned:
// notification is best-effort and must not fail the handler.
func (n *Notifier) Send(ctx context.Context, event model.EventInfo, msg Message) {
	if event.Channel == "" || event.User == "" {
		log.Warn().Msg("notifier: no channel or user provided")
		return
	}

	text := ""
	if msg.Header != "" {
		decorator := "warning"
		if !msg.Error {
			decorator = replyEmojis[rand.Intn(len(replyEmojis))]
		}
		text = fmt.Sprintf("*%s* :%s:\n\n", msg.Header, decorator)
	}
	text += msg.Body

	_, err := n.api.PostEphemeralContext(ctx, event.Channel, event.User,
		slack.MsgOptionText(text, false))
	if err != nil {
		log.Error().Err(err).
			Str("channel", event.Channel).
			Str("user", event.User).
			Msg("notifier: error posting ephemeral message")
	}
}
