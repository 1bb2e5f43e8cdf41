package model

// Envelope types sent by the Slack Events API.
const (
	EventTypeURLVerification = "url_verification"
	EventTypeAppRateLimited  = "app_rate_limited"
)

// EventInfo describes the inner event of an Events API delivery: the
// message text plus where and from whom it came.
type EventInfo struct {
	Text    string `json:"text"`
	Channel string `json:"channel"`
	User    string `json:"user"`
}

// EventEnvelope is the outer Events API payload posted to the webhook.
type EventEnvelope struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	Challenge string    `json:"challenge"`
	Event     EventInfo `json:"event"`
}
