package handler

import (
	"MomentumBot/config"
	"MomentumBot/model"
	"MomentumBot/repo"
	"context"
	"strings"
	"time"
)

const helpText = "Here's what I can do:\n" +
	"• `user register` - register yourself with the bot\n" +
	"• `event checkin <code>` - check in to an open event\n" +
	"• `committee <name>` - sign up for a committee (comms, special, partners)\n" +
	"• `coffee out` - sit out coffee roulette for a week\n\n" +
	"Admins can also use `event create \"<name>\"`, `event open <code>`, " +
	"`event close <code>` and `coffee create`."

// Router parses command text and dispatches to the domain handlers.
type Router struct {
	cfg      config.Config
	store    Store
	slack    SlackAPI
	notifier *Notifier
	codes    *repo.CodePool

	// now is swapped out in tests.
	now func() time.Time
}

// NewRouter wires up the command pipeline.
func NewRouter(cfg config.Config, store Store, api SlackAPI, codes *repo.CodePool) *Router {
	return &Router{
		cfg:      cfg,
		store:    store,
		slack:    api,
		notifier: NewNotifier(api),
		codes:    codes,
		now:      time.Now,
	}
}

// Route runs one command to completion: parse, dispatch, handle,
// notify. The first token picks the handler group by substring match,
// checked in fixed priority order; "userinfo" goes to the user group.
// The returned error is for logging only: every outcome the invoking
// user should know about has already been sent as an ephemeral reply.
func (r *Router) Route(ctx context.Context, event model.EventInfo) error {
	tokens := ParseCommand(event.Text)
	if len(tokens) == 0 {
		r.notifier.Send(ctx, event, Message{Body: helpText})
		return model.ErrInvalidCommand
	}

	word := strings.ToLower(tokens[0])
	switch {
	case strings.Contains(word, "user"):
		return r.handleUser(ctx, event, tokens)
	case strings.Contains(word, "event"):
		return r.handleEvent(ctx, event, tokens)
	case strings.Contains(word, "coffee"):
		return r.handleCoffee(ctx, event, tokens)
	case strings.Contains(word, "committee"):
		return r.handleCommittee(ctx, event, tokens)
	default:
		r.notifier.Send(ctx, event, Message{Body: helpText})
		return model.ErrInvalidCommand
	}
}

// checkAdmin reports whether the user holds the admin flag. Unknown
// users are not admins.
func (r *Router) checkAdmin(ctx context.Context, userID string) bool {
	user, err := r.store.GetUser(ctx, userID)
	if err != nil || user == nil {
		return false
	}
	return user.Admin
}
