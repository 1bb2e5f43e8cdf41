// Package config loads the bot configuration from the environment into
// an immutable struct that is passed explicitly to every component.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. It is built once in main and
// never mutated afterwards.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// Slack credentials and identities.
	SlackBotToken string
	BotUserID     string
	// HelpContact is the Slack user ID shown as the point of contact in
	// coffee announcements.
	HelpContact string

	// AdminPassword is the shared secret for `user makeadmin`.
	AdminPassword string

	// CoffeeChannel is "name:channelID" of the coffee roulette channel.
	CoffeeChannel string
	// CoffeeTime is the standing meeting slot quoted in announcements.
	CoffeeTime string
	// ChannelFetchLimit caps how many channel members one round considers.
	ChannelFetchLimit int

	// Firestore settings.
	FirebaseProjectID       string
	FirebaseCredentialsFile string

	// CodesFile is the newline-delimited pool of event codes.
	CodesFile string

	// Committees maps committee name to its membership capacity.
	Committees map[string]int
}

// Load reads configuration from the environment, loading a .env file
// first if one is present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                    getenv("PORT", "8080"),
		SlackBotToken:           os.Getenv("SLACK_BOT_TOKEN"),
		BotUserID:               os.Getenv("BOT_USER_ID"),
		HelpContact:             os.Getenv("HELP_CONTACT"),
		AdminPassword:           os.Getenv("ADMIN_PW"),
		CoffeeChannel:           os.Getenv("COFFEE_CHANNEL"),
		CoffeeTime:              getenv("COFFEE_TIME", "Friday 4 pm at Medici"),
		ChannelFetchLimit:       40,
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsFile: os.Getenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH"),
		CodesFile:               getenv("CODES_FILE", "codes.txt"),
		Committees: map[string]int{
			"comms":    10,
			"special":  10,
			"partners": 5,
		},
	}

	if limit := os.Getenv("CHANNEL_FETCH_LIMIT"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CHANNEL_FETCH_LIMIT %q: %w", limit, err)
		}
		cfg.ChannelFetchLimit = n
	}

	if cfg.SlackBotToken == "" {
		return Config{}, fmt.Errorf("SLACK_BOT_TOKEN environment variable not set")
	}
	if cfg.AdminPassword == "" {
		return Config{}, fmt.Errorf("ADMIN_PW environment variable not set")
	}
	if cfg.FirebaseProjectID == "" {
		return Config{}, fmt.Errorf("FIREBASE_PROJECT_ID environment variable not set")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
