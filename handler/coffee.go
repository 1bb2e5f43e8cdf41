package handler

import (
	"MomentumBot/model"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

// An opt-out lapses after a week and the user rejoins the pool.
const coffeeOptOutExpiry = 604800 // seconds

func (r *Router) handleCoffee(ctx context.Context, event model.EventInfo, tokens []string) error {
	if len(tokens) < 2 {
		r.notifier.Send(ctx, event, Message{Body: "Usage: `coffee create` or `coffee out`.", Error: true})
		return model.ErrInvalidCommand
	}

	switch subcommand(tokens) {
	case "create":
		return r.coffeeCreate(ctx, event)
	case "out":
		return r.coffeeOut(ctx, event)
	default:
		r.notifier.Send(ctx, event, Message{Body: "Invalid subcommand.", Error: true})
		return model.ErrInvalidCommand
	}
}

// coffeeCreate runs one round of coffee roulette: fetch the channel
// membership, filter to eligible users, pair them up and announce the
// matches in the channel.
func (r *Router) coffeeCreate(ctx context.Context, event model.EventInfo) error {
	if !r.checkAdmin(ctx, event.User) {
		r.notifier.Send(ctx, event, Message{
			Body:  "You do not have permission to use this command.",
			Error: true,
		})
		return nil
	}

	channelName, channelID, ok := strings.Cut(r.cfg.CoffeeChannel, ":")
	if !ok {
		log.Error().Str("channel", r.cfg.CoffeeChannel).Msg("coffee channel not configured as name:id")
		r.notifier.Send(ctx, event, Message{
			Body:  "The coffee channel is not configured. Contact an admin.",
			Error: true,
		})
		return nil
	}

	users, err := r.channelUsers(ctx, channelID)
	if err != nil {
		log.Error().Err(err).Str("channel", channelID).Msg("error fetching channel members")
		r.notifier.Send(ctx, event, Message{
			Body:  "Sorry, I'm not invited to that channel.",
			Error: true,
		})
		return fmt.Errorf("coffee: %w", err)
	}
	log.Info().Int("count", len(users)).Str("channel", channelName).Msg("fetched channel members")

	if len(users) < 2 {
		r.notifier.Send(ctx, event, Message{
			Body: fmt.Sprintf("Not enough users to make pairs in the channel <#%s>.", channelID),
		})
		return nil
	}

	pairs := MakePairs(users)
	log.Info().Int("pairs", len(pairs)).Msg("made coffee pairs")

	if err := r.postMatches(ctx, channelID, pairs); err != nil {
		log.Error().Err(err).Msg("error posting matches")
		r.notifier.Send(ctx, event, Message{
			Body:  "Sorry, an error occurred while posting the matches. Try again.",
			Error: true,
		})
		return fmt.Errorf("coffee: %w", err)
	}

	r.notifier.Send(ctx, event, Message{
		Body: fmt.Sprintf("Successfully made %d pairs in the channel <#%s>.", len(pairs), channelID),
	})
	return nil
}

// coffeeOut opts the caller out of pairing for the next week.
func (r *Router) coffeeOut(ctx context.Context, event model.EventInfo) error {
	if err := r.registerUser(ctx, event, false); err != nil {
		log.Warn().Err(err).Str("user", event.User).Msg("coffee out: auto-registration failed")
	}
	if err := r.store.SetUserCoffee(ctx, event.User, false, r.now().Unix()); err != nil {
		return fmt.Errorf("coffee out: %w", err)
	}
	r.notifier.Send(ctx, event, Message{Body: "You have opted out of coffee for this week."})
	return nil
}

// channelUsers lists the coffee channel's members, minus the bot user,
// reduced to those eligible for this round.
func (r *Router) channelUsers(ctx context.Context, channelID string) ([]string, error) {
	members, _, err := r.slack.GetUsersInConversationContext(ctx, &slack.GetUsersInConversationParameters{
		ChannelID: channelID,
		Limit:     r.cfg.ChannelFetchLimit,
	})
	if err != nil {
		return nil, err
	}

	candidates := members[:0]
	for _, member := range members {
		if member != r.cfg.BotUserID {
			candidates = append(candidates, member)
		}
	}

	return r.filterEligible(ctx, candidates, false)
}

// filterEligible applies the opt-out rules to a candidate list. A
// candidate with no record, an active opt-in, or an opt-out older than
// a week is eligible; lapsed and missing opt-ins are persisted back as
// a side effect so the next round sees them directly.
func (r *Router) filterEligible(ctx context.Context, candidates []string, excludeAdmins bool) ([]string, error) {
	eligible := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if excludeAdmins && r.checkAdmin(ctx, candidate) {
			continue
		}

		user, err := r.store.GetUser(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if user == nil {
			eligible = append(eligible, candidate)
			continue
		}
		if user.Coffee {
			eligible = append(eligible, candidate)
			continue
		}

		if user.CoffeeOutTime == 0 || r.now().Unix()-user.CoffeeOutTime > coffeeOptOutExpiry {
			if err := r.store.SetUserCoffee(ctx, candidate, true, 0); err != nil {
				return nil, err
			}
			eligible = append(eligible, candidate)
		}
	}
	return eligible, nil
}

// postMatches announces the round in the channel as a public message.
func (r *Router) postMatches(ctx context.Context, channelID string, pairs [][]string) error {
	matchText := "*Matches for this week:*\n"
	for _, pair := range pairs {
		if len(pair) == 3 {
			matchText += fmt.Sprintf("\n<@%s>, <@%s>, and <@%s>", pair[0], pair[1], pair[2])
			continue
		}
		matchText += fmt.Sprintf("\n<@%s> and <@%s>", pair[0], pair[1])
	}

	intro := fmt.Sprintf("A new round of pairings are in! :coffee:\n"+
		"Reach out to your coffee partner(s) and verify that you'll be there at *%s*! "+
		"Otherwise, you should arrange to find another time to meet this week.", r.cfg.CoffeeTime)
	outro := fmt.Sprintf("That's %d matches for this round! "+
		"If you have any questions or concerns, please reach out to <@%s>.", len(pairs), r.cfg.HelpContact)

	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, intro, false, false), nil, nil),
		slack.NewDividerBlock(),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, matchText, false, false), nil, nil),
		slack.NewDividerBlock(),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, outro, false, false), nil, nil),
	}

	_, _, err := r.slack.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(":coffee: Coffee matches for this week are in! :coffee:", false),
		slack.MsgOptionBlocks(blocks...))
	return err
}
