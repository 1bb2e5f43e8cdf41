package repo

import (
	"MomentumBot/model"
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names, one per persisted entity.
const (
	usersCollection      = "users"
	eventsCollection     = "events"
	recordsCollection    = "records"
	committeesCollection = "committees"
)

// FirestoreConnector is the persistence gateway. Get methods return
// (nil, nil) when the document does not exist; Create methods return
// model.ErrAlreadyExists when it does.
type FirestoreConnector struct {
	app    *firebase.App
	client *firestore.Client
}

// NewFirestoreConnector creates a Firestore-backed connector. The
// credentials file is optional; without it the default application
// credentials are used.
func NewFirestoreConnector(ctx context.Context, projectID, credentialsFile string) (*FirestoreConnector, error) {
	conf := &firebase.Config{ProjectID: projectID}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	return &FirestoreConnector{
		app:    app,
		client: client,
	}, nil
}

// Close releases the underlying Firestore client.
func (fc *FirestoreConnector) Close() error {
	return fc.client.Close()
}

// ---------- users ----------

// GetUser reads a user by Slack user ID.
func (fc *FirestoreConnector) GetUser(ctx context.Context, userID string) (*model.User, error) {
	snap, err := fc.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading user: %w", err)
	}

	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("error decoding user: %w", err)
	}
	user.Key = snap.Ref.ID
	return &user, nil
}

// GetUserByEmail finds the user with the given email address.
func (fc *FirestoreConnector) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	iter := fc.client.Collection(usersCollection).
		Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}

	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("error decoding user: %w", err)
	}
	user.Key = snap.Ref.ID
	return &user, nil
}

// PutUser writes a user record, overwriting any existing one.
func (fc *FirestoreConnector) PutUser(ctx context.Context, userID string, user model.User) error {
	_, err := fc.client.Collection(usersCollection).Doc(userID).Set(ctx, user)
	if err != nil {
		return fmt.Errorf("error writing user: %w", err)
	}
	return nil
}

// SetUserAdmin flips the admin flag on an existing user record.
func (fc *FirestoreConnector) SetUserAdmin(ctx context.Context, userID string) error {
	_, err := fc.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "admin", Value: true},
	})
	if err != nil {
		return fmt.Errorf("error updating admin flag: %w", err)
	}
	return nil
}

// SetUserCoffee records the user's coffee roulette state. Opting in
// clears nothing; opting out records the opt-out timestamp.
func (fc *FirestoreConnector) SetUserCoffee(ctx context.Context, userID string, optedIn bool, outTime int64) error {
	updates := []firestore.Update{
		{Path: "coffee", Value: optedIn},
	}
	if !optedIn {
		updates = append(updates, firestore.Update{Path: "coffee_out_time", Value: outTime})
	}
	_, err := fc.client.Collection(usersCollection).Doc(userID).Update(ctx, updates)
	if err != nil {
		return fmt.Errorf("error updating coffee state: %w", err)
	}
	return nil
}

// UpdateUserProfile backfills the display name and email of a user.
func (fc *FirestoreConnector) UpdateUserProfile(ctx context.Context, userID, name, email string) error {
	_, err := fc.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "name", Value: name},
		{Path: "email", Value: email},
	})
	if err != nil {
		return fmt.Errorf("error updating user profile: %w", err)
	}
	return nil
}

// ListUsers returns every user record.
func (fc *FirestoreConnector) ListUsers(ctx context.Context) ([]model.User, error) {
	iter := fc.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	var users []model.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing users: %w", err)
		}
		var user model.User
		if err := snap.DataTo(&user); err != nil {
			return nil, fmt.Errorf("error decoding user: %w", err)
		}
		user.Key = snap.Ref.ID
		users = append(users, user)
	}
	return users, nil
}

// ---------- events ----------

// GetEvent reads an event by its short code.
func (fc *FirestoreConnector) GetEvent(ctx context.Context, code string) (*model.Event, error) {
	snap, err := fc.client.Collection(eventsCollection).Doc(code).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading event: %w", err)
	}

	var event model.Event
	if err := snap.DataTo(&event); err != nil {
		return nil, fmt.Errorf("error decoding event: %w", err)
	}
	event.Key = snap.Ref.ID
	return &event, nil
}

// CreateEvent writes a new event under the given code. Fails with
// model.ErrAlreadyExists if the code is already taken; an existing
// event is never overwritten.
func (fc *FirestoreConnector) CreateEvent(ctx context.Context, code string, event model.Event) error {
	_, err := fc.client.Collection(eventsCollection).Doc(code).Create(ctx, event)
	if status.Code(err) == codes.AlreadyExists {
		return model.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// SetEventOpen toggles whether an event accepts check-ins.
func (fc *FirestoreConnector) SetEventOpen(ctx context.Context, code string, open bool) error {
	_, err := fc.client.Collection(eventsCollection).Doc(code).Update(ctx, []firestore.Update{
		{Path: "open", Value: open},
	})
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	return nil
}

// ListEvents returns every event.
func (fc *FirestoreConnector) ListEvents(ctx context.Context) ([]model.Event, error) {
	iter := fc.client.Collection(eventsCollection).Documents(ctx)
	defer iter.Stop()

	var events []model.Event
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing events: %w", err)
		}
		var event model.Event
		if err := snap.DataTo(&event); err != nil {
			return nil, fmt.Errorf("error decoding event: %w", err)
		}
		event.Key = snap.Ref.ID
		events = append(events, event)
	}
	return events, nil
}

// ---------- attendance records ----------

func recordID(code, userID string) string {
	return code + userID
}

// GetRecord reads the attendance record for one (event, user) pair.
func (fc *FirestoreConnector) GetRecord(ctx context.Context, code, userID string) (*model.AttendanceRecord, error) {
	snap, err := fc.client.Collection(recordsCollection).Doc(recordID(code, userID)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading record: %w", err)
	}

	var record model.AttendanceRecord
	if err := snap.DataTo(&record); err != nil {
		return nil, fmt.Errorf("error decoding record: %w", err)
	}
	record.Key = snap.Ref.ID
	return &record, nil
}

// CreateRecord writes an attendance record. The composite document ID
// makes a duplicate check-in fail with model.ErrAlreadyExists instead
// of overwriting.
func (fc *FirestoreConnector) CreateRecord(ctx context.Context, record model.AttendanceRecord) error {
	id := recordID(record.Event, record.User)
	_, err := fc.client.Collection(recordsCollection).Doc(id).Create(ctx, record)
	if status.Code(err) == codes.AlreadyExists {
		return model.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("error creating record: %w", err)
	}
	return nil
}

// ListRecordsByEvent returns every attendance record for an event.
func (fc *FirestoreConnector) ListRecordsByEvent(ctx context.Context, code string) ([]model.AttendanceRecord, error) {
	return fc.listRecords(ctx, "event", code)
}

// ListRecordsByUser returns every attendance record for a user.
func (fc *FirestoreConnector) ListRecordsByUser(ctx context.Context, userID string) ([]model.AttendanceRecord, error) {
	return fc.listRecords(ctx, "user", userID)
}

func (fc *FirestoreConnector) listRecords(ctx context.Context, field, value string) ([]model.AttendanceRecord, error) {
	iter := fc.client.Collection(recordsCollection).
		Where(field, "==", value).Documents(ctx)
	defer iter.Stop()

	var records []model.AttendanceRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing records: %w", err)
		}
		var record model.AttendanceRecord
		if err := snap.DataTo(&record); err != nil {
			return nil, fmt.Errorf("error decoding record: %w", err)
		}
		record.Key = snap.Ref.ID
		records = append(records, record)
	}
	return records, nil
}

// ---------- committees ----------

// GetMembership reads a user's committee membership.
func (fc *FirestoreConnector) GetMembership(ctx context.Context, userID string) (*model.CommitteeMembership, error) {
	snap, err := fc.client.Collection(committeesCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading membership: %w", err)
	}

	var membership model.CommitteeMembership
	if err := snap.DataTo(&membership); err != nil {
		return nil, fmt.Errorf("error decoding membership: %w", err)
	}
	membership.Key = snap.Ref.ID
	return &membership, nil
}

// PutMembership writes a user's committee membership, overwriting any
// membership in another committee.
func (fc *FirestoreConnector) PutMembership(ctx context.Context, userID string, membership model.CommitteeMembership) error {
	_, err := fc.client.Collection(committeesCollection).Doc(userID).Set(ctx, membership)
	if err != nil {
		return fmt.Errorf("error writing membership: %w", err)
	}
	return nil
}

// CountMembers counts current members of a committee.
func (fc *FirestoreConnector) CountMembers(ctx context.Context, committee string) (int, error) {
	iter := fc.client.Collection(committeesCollection).
		Where("committee", "==", committee).Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("error counting members: %w", err)
		}
		count++
	}
	return count, nil
}
