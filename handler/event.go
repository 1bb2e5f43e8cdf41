package handler

import (
	"MomentumBot/model"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

const eventUsage = "Usage: `event checkin <code>`, `event create \"<name>\"`, " +
	"`event open <code>` or `event close <code>`."

func (r *Router) handleEvent(ctx context.Context, event model.EventInfo, tokens []string) error {
	if len(tokens) < 2 {
		r.notifier.Send(ctx, event, Message{Body: eventUsage, Error: true})
		return model.ErrInvalidCommand
	}

	switch sub := subcommand(tokens); sub {
	case "checkin":
		if len(tokens) < 3 {
			r.notifier.Send(ctx, event, Message{Body: "Please provide an event code.", Error: true})
			return model.ErrInvalidCommand
		}
		return r.eventCheckin(ctx, event, strings.TrimSpace(tokens[2]))

	case "create":
		if len(tokens) < 3 {
			r.notifier.Send(ctx, event, Message{Body: "Please provide an event name.", Error: true})
			return model.ErrInvalidCommand
		}
		return r.eventCreate(ctx, event, tokens[2])

	case "open", "close":
		if len(tokens) < 3 {
			r.notifier.Send(ctx, event, Message{Body: "Please provide an event code.", Error: true})
			return model.ErrInvalidCommand
		}
		return r.eventToggle(ctx, event, strings.TrimSpace(tokens[2]), sub == "open")

	default:
		r.notifier.Send(ctx, event, Message{Body: eventUsage, Error: true})
		return model.ErrInvalidCommand
	}
}

// eventCheckin records attendance. The event must exist and be open,
// and a user can check in to an event only once. Unregistered users are
// registered as a side effect.
func (r *Router) eventCheckin(ctx context.Context, event model.EventInfo, code string) error {
	info, err := r.store.GetEvent(ctx, code)
	if err != nil {
		return fmt.Errorf("checkin: %w", err)
	}
	if info == nil {
		r.notifier.Send(ctx, event, Message{
			Header: "Invalid event code",
			Body:   "Try again or contact an admin.",
			Error:  true,
		})
		return nil
	}
	if !info.Open {
		r.notifier.Send(ctx, event, Message{
			Header: "Event closed",
			Body:   "Try again later or contact an admin.",
			Error:  true,
		})
		return nil
	}

	record, err := r.store.GetRecord(ctx, code, event.User)
	if err != nil {
		return fmt.Errorf("checkin: %w", err)
	}
	if record != nil {
		r.notifier.Send(ctx, event, Message{
			Body: fmt.Sprintf("You have already checked in to the event %q.", info.Name),
		})
		return nil
	}

	// Best-effort: a failed auto-registration still leaves a valid record.
	if err := r.registerUser(ctx, event, false); err != nil {
		log.Warn().Err(err).Str("user", event.User).Msg("checkin: auto-registration failed")
	}

	err = r.store.CreateRecord(ctx, model.AttendanceRecord{
		User:  event.User,
		Event: code,
		Time:  r.now().Unix(),
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		r.notifier.Send(ctx, event, Message{
			Body: fmt.Sprintf("You have already checked in to the event %q.", info.Name),
		})
		return nil
	}
	if err != nil {
		return fmt.Errorf("checkin: %w", err)
	}

	r.notifier.Send(ctx, event, Message{
		Header: "Congrats!",
		Body:   fmt.Sprintf("You have successfully checked in to the event %q.", info.Name),
	})
	return nil
}

// eventCreate allocates a code from the static pool and creates the
// event under it. A pool collision with an existing event is reported
// as a creation failure, never an overwrite.
func (r *Router) eventCreate(ctx context.Context, event model.EventInfo, name string) error {
	if !r.checkAdmin(ctx, event.User) {
		r.notifier.Send(ctx, event, Message{
			Header: "Admin access required",
			Body:   "You must be an admin to create events.",
			Error:  true,
		})
		return nil
	}

	code := r.codes.Draw()
	err := r.store.CreateEvent(ctx, code, model.Event{
		Name:      name,
		CreatedBy: event.User,
		CreatedAt: r.now().Unix(),
		Open:      false,
	})
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("event creation failed")
		r.notifier.Send(ctx, event, Message{
			Header: "Error creating event",
			Body:   "Sorry, an error occurred while creating the event. Try again.",
			Error:  true,
		})
		return nil
	}

	r.notifier.Send(ctx, event, Message{
		Header: "Congrats!",
		Body:   fmt.Sprintf("You have successfully created the event %q. Checkin using code `%s`.", name, code),
	})
	return nil
}

// eventToggle opens or closes an event for check-ins.
func (r *Router) eventToggle(ctx context.Context, event model.EventInfo, code string, open bool) error {
	if !r.checkAdmin(ctx, event.User) {
		r.notifier.Send(ctx, event, Message{
			Header: "Admin access required",
			Body:   "You must be an admin to open/close events.",
			Error:  true,
		})
		return nil
	}

	info, err := r.store.GetEvent(ctx, code)
	if err != nil {
		return fmt.Errorf("toggle: %w", err)
	}
	if info == nil {
		r.notifier.Send(ctx, event, Message{
			Header: "Invalid event code",
			Body:   "This event does not exist. Try a different code.",
			Error:  true,
		})
		return nil
	}

	if err := r.store.SetEventOpen(ctx, code, open); err != nil {
		return fmt.Errorf("toggle: %w", err)
	}

	if open {
		r.notifier.Send(ctx, event, Message{
			Header: "Event opened",
			Body:   fmt.Sprintf("Users can now check in to event %q.", info.Name),
		})
	} else {
		r.notifier.Send(ctx, event, Message{
			Header: "Event closed",
			Body:   fmt.Sprintf("Users can no longer check in to event %q.", info.Name),
		})
	}
	return nil
}
