package handler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"MomentumBot/model"
)

func TestRouteDispatch(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantReply   string // substring of the ephemeral reply
		wantInvalid bool
	}{
		{
			name:      "user group",
			text:      "user",
			wantReply: "user register",
		},
		{
			name: "userinfo routes to user group by substring",
			text: "userinfo",
			// one token only, so the user handler answers with usage
			wantReply:   "user register",
			wantInvalid: true,
		},
		{
			name:        "event group",
			text:        "eventful",
			wantReply:   "event checkin",
			wantInvalid: true,
		},
		{
			name:        "coffee group",
			text:        "coffee",
			wantReply:   "coffee create",
			wantInvalid: true,
		},
		{
			name:        "committee group",
			text:        "committee",
			wantReply:   "committee <name>",
			wantInvalid: true,
		},
		{
			name:        "user wins over event by priority",
			text:        "userevent",
			wantReply:   "user register",
			wantInvalid: true,
		},
		{
			name:        "user wins over coffee by priority",
			text:        "coffeeuser",
			wantReply:   "user register",
			wantInvalid: true,
		},
		{
			name:        "unknown command gets help",
			text:        "frobnicate",
			wantReply:   "Here's what I can do",
			wantInvalid: true,
		},
		{
			name:        "empty text gets help",
			text:        "",
			wantReply:   "Here's what I can do",
			wantInvalid: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slackAPI := newFakeSlack()
			router := newTestRouter(t, newFakeStore(), slackAPI)

			event := testEvent("U_CALLER")
			event.Text = tt.text
			err := router.Route(context.Background(), event)

			if tt.wantInvalid && !errors.Is(err, model.ErrInvalidCommand) {
				t.Errorf("Route(%q) error = %v, want ErrInvalidCommand", tt.text, err)
			}

			got := lastEphemeralText(t, slackAPI)
			if !strings.Contains(got, tt.wantReply) {
				t.Errorf("Route(%q) reply = %q, want substring %q", tt.text, got, tt.wantReply)
			}
		})
	}
}

func TestRouteCaseInsensitive(t *testing.T) {
	slackAPI := newFakeSlack()
	store := newFakeStore()
	store.users["U_CALLER"] = model.User{Name: "Caller", Email: "c@x.com"}
	router := newTestRouter(t, store, slackAPI)

	event := testEvent("U_CALLER")
	event.Text = "USER Register"
	if err := router.Route(context.Background(), event); err != nil {
		t.Fatalf("Route: %v", err)
	}

	got := lastEphemeralText(t, slackAPI)
	if !strings.Contains(got, "already registered") {
		t.Errorf("reply = %q, want already-registered notice", got)
	}
}
