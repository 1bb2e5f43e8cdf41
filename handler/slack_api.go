package handler

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackAPI abstracts the subset of slack.Client methods the bot uses.
// This allows tests to substitute a mock implementation without a live
// Slack connection.
type SlackAPI interface {
	// Messaging
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)

	// Directory
	GetUsersInConversationContext(ctx context.Context, params *slack.GetUsersInConversationParameters) ([]string, string, error)
	GetUserProfileContext(ctx context.Context, params *slack.GetUserProfileParameters) (*slack.UserProfile, error)
}
