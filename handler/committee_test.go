package handler

import (
	"context"
	"fmt"
	"testing"

	"MomentumBot/model"

	"github.com/stretchr/testify/require"
)

func TestCommitteeSignup(t *testing.T) {
	store := newFakeStore()
	store.users["U_CALLER"] = modelUser("Jane Doe", "jane@x.com", false)
	slackAPI := newFakeSlack()
	router := newTestRouter(t, store, slackAPI)

	event := testEvent("U_CALLER")
	event.Text = "committee comms"
	require.NoError(t, router.Route(context.Background(), event))

	membership, err := store.GetMembership(context.Background(), "U_CALLER")
	require.NoError(t, err)
	require.NotNil(t, membership)
	require.Equal(t, "comms", membership.Committee)
	require.Equal(t, "Jane Doe", membership.Name)
	require.Contains(t, lastEphemeralText(t, slackAPI), "added to the comms committee")
}

func TestCommitteeAlreadyMember(t *testing.T) {
	store := newFakeStore()
	store.users["U_CALLER"] = modelUser("Jane Doe", "jane@x.com", false)
	store.memberships["U_CALLER"] = model.CommitteeMembership{Committee: "comms", Name: "Jane Doe"}
	slackAPI := newFakeSlack()
	router := newTestRouter(t, store, slackAPI)

	event := testEvent("U_CALLER")
	event.Text = "committee comms"
	require.NoError(t, router.Route(context.Background(), event))
	require.Contains(t, lastEphemeralText(t, slackAPI), "already in this committee")
}

func TestCommitteeSwitchOverwrites(t *testing.T) {
	store := newFakeStore()
	store.users["U_CALLER"] = modelUser("Jane Doe", "jane@x.com", false)
	store.memberships["U_CALLER"] = model.CommitteeMembership{Committee: "comms", Name: "Jane Doe"}
	slackAPI := newFakeSlack()
	router := newTestRouter(t, store, slackAPI)

	event := testEvent("U_CALLER")
	event.Text = "committee special"
	require.NoError(t, router.Route(context.Background(), event))

	membership, _ := store.GetMembership(context.Background(), "U_CALLER")
	require.Equal(t, "special", membership.Committee, "re-assignment overwrites the old membership")
	require.Len(t, store.memberships, 1)
}

func TestCommitteeCapacity(t *testing.T) {
	// The partners committee holds 2 members in the test config.
	store := newFakeStore()
	slackAPI := newFakeSlack()
	router := newTestRouter(t, store, slackAPI)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		id := fmt.Sprintf("U_MEMBER_%d", i)
		store.users[id] = modelUser(fmt.Sprintf("Member %d", i), fmt.Sprintf("m%d@x.com", i), false)
		event := testEvent(id)
		event.Text = "committee partners"
		require.NoError(t, router.Route(ctx, event))

		membership, _ := store.GetMembership(ctx, id)
		require.NotNil(t, membership, "sign-up below capacity must succeed")
	}

	store.users["U_LATE"] = modelUser("Late Comer", "late@x.com", false)
	event := testEvent("U_LATE")
	event.Text = "committee partners"
	require.NoError(t, router.Route(ctx, event))

	membership, _ := store.GetMembership(ctx, "U_LATE")
	require.Nil(t, membership, "sign-up at capacity must not create a record")
	require.Contains(t, lastEphemeralText(t, slackAPI), "Committee full")
}

func TestCommitteeUnknownName(t *testing.T) {
	store := newFakeStore()
	store.users["U_CALLER"] = modelUser("Jane Doe", "jane@x.com", false)
	slackAPI := newFakeSlack()
	router := newTestRouter(t, store, slackAPI)

	event := testEvent("U_CALLER")
	event.Text = "committee snacks"
	require.Error(t, router.Route(context.Background(), event))
	require.Contains(t, lastEphemeralText(t, slackAPI), "Invalid committee name")
}
