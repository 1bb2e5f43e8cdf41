package handler

import (
	"MomentumBot/model"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// handleCommittee signs the caller up for a committee. A user holds at
// most one membership; joining another committee overwrites it. Each
// committee has a fixed capacity that is never exceeded.
func (r *Router) handleCommittee(ctx context.Context, event model.EventInfo, tokens []string) error {
	if len(tokens) < 2 {
		r.notifier.Send(ctx, event, Message{
			Body:  "Usage: `committee <name>` (comms, special, partners).",
			Error: true,
		})
		return model.ErrInvalidCommand
	}

	name := subcommand(tokens)
	limit, ok := r.cfg.Committees[name]
	if !ok {
		r.notifier.Send(ctx, event, Message{
			Header: "Invalid committee name",
			Body:   "Try a different committee name or contact an admin.",
			Error:  true,
		})
		return model.ErrInvalidCommand
	}

	if err := r.registerUser(ctx, event, false); err != nil {
		log.Warn().Err(err).Str("user", event.User).Msg("committee: auto-registration failed")
	}
	user, err := r.store.GetUser(ctx, event.User)
	if err != nil {
		return fmt.Errorf("committee: %w", err)
	}
	if user == nil {
		r.notifier.Send(ctx, event, Message{
			Header: "Error: User not found",
			Body:   "Contact an admin for assistance.",
			Error:  true,
		})
		return nil
	}

	membership, err := r.store.GetMembership(ctx, event.User)
	if err != nil {
		return fmt.Errorf("committee: %w", err)
	}
	if membership != nil && membership.Committee == name {
		r.notifier.Send(ctx, event, Message{Body: "You are already in this committee."})
		return nil
	}

	count, err := r.store.CountMembers(ctx, name)
	if err != nil {
		return fmt.Errorf("committee: %w", err)
	}
	if count >= limit {
		r.notifier.Send(ctx, event, Message{
			Header: "Committee full",
			Body:   "Sorry, the maximum number of members for that committee has been reached.",
			Error:  true,
		})
		return nil
	}

	err = r.store.PutMembership(ctx, event.User, model.CommitteeMembership{
		Committee: name,
		Name:      user.Name,
	})
	if err != nil {
		return fmt.Errorf("committee: %w", err)
	}

	r.notifier.Send(ctx, event, Message{
		Header: "Success!",
		Body:   fmt.Sprintf("You have been added to the %s committee.", name),
	})
	return nil
}
