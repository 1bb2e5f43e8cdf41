package handler

import (
	"MomentumBot/model"
	"context"
)

// Store is the subset of the persistence gateway the command handlers
// use. Get methods return (nil, nil) for missing records; Create
// methods return model.ErrAlreadyExists for duplicates.
type Store interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	PutUser(ctx context.Context, userID string, user model.User) error
	SetUserAdmin(ctx context.Context, userID string) error
	SetUserCoffee(ctx context.Context, userID string, optedIn bool, outTime int64) error
	UpdateUserProfile(ctx context.Context, userID, name, email string) error
	ListUsers(ctx context.Context) ([]model.User, error)

	GetEvent(ctx context.Context, code string) (*model.Event, error)
	CreateEvent(ctx context.Context, code string, event model.Event) error
	SetEventOpen(ctx context.Context, code string, open bool) error

	GetRecord(ctx context.Context, code, userID string) (*model.AttendanceRecord, error)
	CreateRecord(ctx context.Context, record model.AttendanceRecord) error

	GetMembership(ctx context.Context, userID string) (*model.CommitteeMembership, error)
	PutMembership(ctx context.Context, userID string, membership model.CommitteeMembership) error
	CountMembers(ctx context.Context, committee string) (int, error)
}
