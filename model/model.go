package model

// User is a workspace member known to the bot. Created on first
// registration or first admin promotion, never deleted.
type User struct {
	Name  string `firestore:"name" json:"name"`
	Email string `firestore:"email" json:"email"`
	Admin bool   `firestore:"admin" json:"admin"`

	// Coffee roulette state. CoffeeOutTime is epoch seconds; zero means
	// no opt-out was ever recorded.
	Coffee        bool  `firestore:"coffee" json:"coffee"`
	CoffeeOutTime int64 `firestore:"coffee_out_time" json:"coffee_out_time"`

	// Document ID (the Slack user ID), filled in on reads.
	Key string `firestore:"-" json:"key"`
}

// Event is a check-in event. The document ID is the short event code
// drawn from the code pool at creation time.
type Event struct {
	Name      string `firestore:"name" json:"name"`
	CreatedBy string `firestore:"created_by" json:"created_by"`
	CreatedAt int64  `firestore:"created_at" json:"created_at"`
	Open      bool   `firestore:"open" json:"open"`

	Key string `firestore:"-" json:"key"`
}

// AttendanceRecord asserts that a user attended an event. The document
// ID is the event code concatenated with the user ID, so at most one
// record can exist per (event, user) pair.
type AttendanceRecord struct {
	User  string `firestore:"user" json:"user"`
	Event string `firestore:"event" json:"event"`
	Time  int64  `firestore:"time" json:"time"`

	Key string `firestore:"-" json:"key"`
}

// CommitteeMembership places a user on a committee. The document ID is
// the user ID, so a user holds at most one membership; signing up for
// another committee overwrites it.
type CommitteeMembership struct {
	Committee string `firestore:"committee" json:"committee"`
	Name      string `firestore:"name" json:"name"`

	Key string `firestore:"-" json:"key"`
}
