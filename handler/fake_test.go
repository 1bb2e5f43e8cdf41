package handler

import (
	"MomentumBot/config"
	"MomentumBot/model"
	"MomentumBot/repo"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/slack-go/slack"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	users       map[string]model.User
	events      map[string]model.Event
	records     map[string]model.AttendanceRecord
	memberships map[string]model.CommitteeMembership
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[string]model.User),
		events:      make(map[string]model.Event),
		records:     make(map[string]model.AttendanceRecord),
		memberships: make(map[string]model.CommitteeMembership),
	}
}

func (f *fakeStore) GetUser(_ context.Context, userID string) (*model.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	user.Key = userID
	return &user, nil
}

func (f *fakeStore) PutUser(_ context.Context, userID string, user model.User) error {
	user.Key = ""
	f.users[userID] = user
	return nil
}

func (f *fakeStore) SetUserAdmin(_ context.Context, userID string) error {
	user, ok := f.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	user.Admin = true
	f.users[userID] = user
	return nil
}

func (f *fakeStore) SetUserCoffee(_ context.Context, userID string, optedIn bool, outTime int64) error {
	user, ok := f.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	user.Coffee = optedIn
	if !optedIn {
		user.CoffeeOutTime = outTime
	}
	f.users[userID] = user
	return nil
}

func (f *fakeStore) UpdateUserProfile(_ context.Context, userID, name, email string) error {
	user, ok := f.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	user.Name = name
	user.Email = email
	f.users[userID] = user
	return nil
}

func (f *fakeStore) ListUsers(_ context.Context) ([]model.User, error) {
	var users []model.User
	for id, user := range f.users {
		user.Key = id
		users = append(users, user)
	}
	return users, nil
}

func (f *fakeStore) GetEvent(_ context.Context, code string) (*model.Event, error) {
	event, ok := f.events[code]
	if !ok {
		return nil, nil
	}
	event.Key = code
	return &event, nil
}

func (f *fakeStore) CreateEvent(_ context.Context, code string, event model.Event) error {
	if _, ok := f.events[code]; ok {
		return model.ErrAlreadyExists
	}
	f.events[code] = event
	return nil
}

func (f *fakeStore) SetEventOpen(_ context.Context, code string, open bool) error {
	event, ok := f.events[code]
	if !ok {
		return errors.New("no such event")
	}
	event.Open = open
	f.events[code] = event
	return nil
}

func (f *fakeStore) GetRecord(_ context.Context, code, userID string) (*model.AttendanceRecord, error) {
	record, ok := f.records[code+userID]
	if !ok {
		return nil, nil
	}
	record.Key = code + userID
	return &record, nil
}

func (f *fakeStore) CreateRecord(_ context.Context, record model.AttendanceRecord) error {
	id := record.Event + record.User
	if _, ok := f.records[id]; ok {
		return model.ErrAlreadyExists
	}
	f.records[id] = record
	return nil
}

func (f *fakeStore) GetMembership(_ context.Context, userID string) (*model.CommitteeMembership, error) {
	membership, ok := f.memberships[userID]
	if !ok {
		return nil, nil
	}
	membership.Key = userID
	return &membership, nil
}

func (f *fakeStore) PutMembership(_ context.Context, userID string, membership model.CommitteeMembership) error {
	f.memberships[userID] = membership
	return nil
}

func (f *fakeStore) CountMembers(_ context.Context, committee string) (int, error) {
	count := 0
	for _, membership := range f.memberships {
		if membership.Committee == committee {
			count++
		}
	}
	return count, nil
}

// postedEphemeral captures a PostEphemeral call.
type postedEphemeral struct {
	ChannelID string
	UserID    string
	Options   []slack.MsgOption
}

// postedMessage captures a PostMessage call.
type postedMessage struct {
	ChannelID string
	Options   []slack.MsgOption
}

// fakeSlack is a mock SlackAPI that records outbound calls.
type fakeSlack struct {
	Ephemerals []postedEphemeral
	Messages   []postedMessage

	members    []string
	membersErr error
	profiles   map[string]*slack.UserProfile
	profileErr error
}

func newFakeSlack() *fakeSlack {
	return &fakeSlack{profiles: make(map[string]*slack.UserProfile)}
}

func (f *fakeSlack) PostMessageContext(_ context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.Messages = append(f.Messages, postedMessage{ChannelID: channelID, Options: options})
	return channelID, "1234567890.000001", nil
}

func (f *fakeSlack) PostEphemeralContext(_ context.Context, channelID, userID string, options ...slack.MsgOption) (string, error) {
	f.Ephemerals = append(f.Ephemerals, postedEphemeral{ChannelID: channelID, UserID: userID, Options: options})
	return "1234567890.000001", nil
}

func (f *fakeSlack) GetUsersInConversationContext(_ context.Context, _ *slack.GetUsersInConversationParameters) ([]string, string, error) {
	if f.membersErr != nil {
		return nil, "", f.membersErr
	}
	return f.members, "", nil
}

func (f *fakeSlack) GetUserProfileContext(_ context.Context, params *slack.GetUserProfileParameters) (*slack.UserProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	profile, ok := f.profiles[params.UserID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return profile, nil
}

// lastEphemeralText extracts the text of the most recent ephemeral
// reply via the slack library's UnsafeApplyMsgOptions utility.
func lastEphemeralText(t *testing.T, f *fakeSlack) string {
	t.Helper()
	if len(f.Ephemerals) == 0 {
		t.Fatal("no ephemeral messages posted")
	}
	last := f.Ephemerals[len(f.Ephemerals)-1]
	_, vals, err := slack.UnsafeApplyMsgOptions("", last.ChannelID, "", last.Options...)
	if err != nil {
		t.Fatalf("UnsafeApplyMsgOptions: %v", err)
	}
	return vals.Get("text")
}

// testConfig returns a config with every knob the handlers read.
func testConfig() config.Config {
	return config.Config{
		AdminPassword:     "sekret",
		BotUserID:         "UBOT",
		HelpContact:       "UHELP",
		CoffeeChannel:     "coffee-roulette:C_COFFEE",
		CoffeeTime:        "Friday 4 pm at Medici",
		ChannelFetchLimit: 40,
		Committees: map[string]int{
			"comms":    10,
			"special":  10,
			"partners": 2,
		},
	}
}

// newTestRouter builds a Router over fakes with a frozen clock.
func newTestRouter(t *testing.T, store Store, api SlackAPI) *Router {
	t.Helper()

	path := filepath.Join(t.TempDir(), "codes.txt")
	if err := os.WriteFile(path, []byte("alpha-01\nbravo-02\ncharlie-03\n"), 0o644); err != nil {
		t.Fatalf("writing codes file: %v", err)
	}
	codes, err := repo.LoadCodePool(path)
	if err != nil {
		t.Fatalf("loading codes: %v", err)
	}

	router := NewRouter(testConfig(), store, api, codes)
	router.now = func() time.Time { return time.Unix(1700000000, 0) }
	return router
}

func testEvent(user string) model.EventInfo {
	return model.EventInfo{Text: "", Channel: "C_GENERAL", User: user}
}

func modelUser(name, email string, admin bool) model.User {
	return model.User{Name: name, Email: email, Admin: admin}
}
