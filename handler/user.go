package handler

import (
	"MomentumBot/model"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

const userUsage = "Usage: `user register` or `user makeadmin <password>`."

func (r *Router) handleUser(ctx context.Context, event model.EventInfo, tokens []string) error {
	if len(tokens) < 2 {
		r.notifier.Send(ctx, event, Message{Body: userUsage, Error: true})
		return model.ErrInvalidCommand
	}

	switch subcommand(tokens) {
	case "register":
		return r.registerUser(ctx, event, true)

	case "makeadmin":
		if len(tokens) < 3 || tokens[2] != r.cfg.AdminPassword {
			r.notifier.Send(ctx, event, Message{
				Header: "Incorrect password",
				Body:   "Contact an admin for assistance.",
				Error:  true,
			})
			return nil
		}
		return r.makeAdmin(ctx, event)

	case "update":
		if !r.checkAdmin(ctx, event.User) {
			r.notifier.Send(ctx, event, Message{
				Header: "Admin access required",
				Body:   "You must be an admin to backfill user records.",
				Error:  true,
			})
			return nil
		}
		return r.backfillUsers(ctx, event)

	default:
		r.notifier.Send(ctx, event, Message{Body: userUsage, Error: true})
		return model.ErrInvalidCommand
	}
}

// registerUser creates a user record from the caller's Slack profile.
// Registering twice is a no-op. Other handlers call this with
// notify=false to auto-register as a side effect.
func (r *Router) registerUser(ctx context.Context, event model.EventInfo, notify bool) error {
	user, err := r.store.GetUser(ctx, event.User)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if user != nil {
		if notify {
			r.notifier.Send(ctx, event, Message{Body: "You are already registered."})
		}
		return nil
	}

	profile, err := r.lookupProfile(ctx, event.User)
	if err != nil {
		log.Error().Err(err).Str("user", event.User).Msg("profile lookup failed")
		if notify {
			r.notifier.Send(ctx, event, Message{
				Header: "Error: User not found",
				Body:   "Contact an admin for assistance.",
				Error:  true,
			})
		}
		return fmt.Errorf("register: profile lookup: %w", err)
	}

	err = r.store.PutUser(ctx, event.User, model.User{
		Name:  profile.RealName,
		Email: profile.Email,
		Admin: false,
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	if notify {
		r.notifier.Send(ctx, event, Message{
			Header: "Success!",
			Body:   "You are registered! You can now checkin for events using `event checkin <event code>`.",
		})
	}
	return nil
}

// makeAdmin upgrades an existing record's admin flag, or creates a new
// admin record via the same profile-resolution path as registration.
func (r *Router) makeAdmin(ctx context.Context, event model.EventInfo) error {
	user, err := r.store.GetUser(ctx, event.User)
	if err != nil {
		return fmt.Errorf("makeadmin: %w", err)
	}

	if user != nil {
		if err := r.store.SetUserAdmin(ctx, event.User); err != nil {
			return fmt.Errorf("makeadmin: %w", err)
		}
	} else {
		profile, err := r.lookupProfile(ctx, event.User)
		if err != nil {
			log.Error().Err(err).Str("user", event.User).Msg("profile lookup failed")
			r.notifier.Send(ctx, event, Message{
				Header: "Error: User not found",
				Body:   "Contact an admin for assistance.",
				Error:  true,
			})
			return fmt.Errorf("makeadmin: profile lookup: %w", err)
		}

		err = r.store.PutUser(ctx, event.User, model.User{
			Name:  profile.RealName,
			Email: profile.Email,
			Admin: true,
		})
		if err != nil {
			return fmt.Errorf("makeadmin: %w", err)
		}
	}

	r.notifier.Send(ctx, event, Message{
		Header: "Success!",
		Body:   "You are now an admin! You can now create events using `event create <name>`.",
	})
	return nil
}

// backfillUsers re-resolves profiles for user records that are missing
// a name or email and fills them in.
func (r *Router) backfillUsers(ctx context.Context, event model.EventInfo) error {
	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("backfill: %w", err)
	}

	updated := 0
	for _, user := range users {
		if user.Name != "" && user.Email != "" {
			continue
		}
		profile, err := r.lookupProfile(ctx, user.Key)
		if err != nil {
			log.Warn().Err(err).Str("user", user.Key).Msg("backfill: profile lookup failed")
			continue
		}
		if err := r.store.UpdateUserProfile(ctx, user.Key, profile.RealName, profile.Email); err != nil {
			log.Warn().Err(err).Str("user", user.Key).Msg("backfill: update failed")
			continue
		}
		updated++
	}

	r.notifier.Send(ctx, event, Message{
		Body: fmt.Sprintf("Backfilled %d user record(s).", updated),
	})
	return nil
}

// lookupProfile fetches a user's profile from the workspace directory.
func (r *Router) lookupProfile(ctx context.Context, userID string) (*slack.UserProfile, error) {
	profile, err := r.slack.GetUserProfileContext(ctx, &slack.GetUserProfileParameters{UserID: userID})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func subcommand(tokens []string) string {
	return strings.ToLower(tokens[1])
}
