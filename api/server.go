// Package api exposes the Slack events webhook and the read API used
// by external dashboards.
package api

import (
	"MomentumBot/model"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Dispatcher runs one parsed command pipeline to completion.
type Dispatcher interface {
	Route(ctx context.Context, event model.EventInfo) error
}

// Store is the read-side subset of the persistence gateway.
type Store interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, code string) (*model.Event, error)
	ListRecordsByEvent(ctx context.Context, code string) ([]model.AttendanceRecord, error)
	ListRecordsByUser(ctx context.Context, userID string) ([]model.AttendanceRecord, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Server holds the HTTP handlers.
type Server struct {
	store  Store
	router Dispatcher
}

// NewServer creates the HTTP server façade.
func NewServer(store Store, router Dispatcher) *Server {
	return &Server{store: store, router: router}
}

// RegisterRoutes attaches all endpoints to the engine.
func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/", s.handleRoot)
	engine.POST("/slack", s.handleSlackEvent)

	engine.GET("/events", s.handleGetEvents)
	engine.GET("/admin/events", s.handleGetAdminEvents)
	engine.GET("/admin/events/:id", s.handleGetEventByID)
	engine.GET("/users/:email", s.handleGetUserByEmail)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to the official Texas Momentum Slack Bot!")
}

// handleSlackEvent accepts Events API deliveries. URL verification
// echoes the challenge, rate-limit notices are acknowledged and
// dropped, and retried deliveries (marked by the retry header) are
// acknowledged without reprocessing. Everything else runs the command
// pipeline synchronously; the response is always 200 so Slack does not
// keep retrying.
func (s *Server) handleSlackEvent(c *gin.Context) {
	var envelope model.EventEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		log.Warn().Err(err).Msg("malformed event envelope")
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	switch envelope.Type {
	case model.EventTypeURLVerification:
		c.String(http.StatusOK, envelope.Challenge)
		return
	case model.EventTypeAppRateLimited:
		log.Warn().Msg("app rate limited")
		c.String(http.StatusOK, "ok")
		return
	}

	if c.GetHeader("X-Slack-Retry-Num") != "" {
		log.Info().Msg("retried delivery, skipping")
		c.String(http.StatusOK, "ok")
		return
	}

	if err := s.router.Route(c.Request.Context(), envelope.Event); err != nil {
		log.Warn().Err(err).
			Str("user", envelope.Event.User).
			Str("text", envelope.Event.Text).
			Msg("command failed")
	}
	c.String(http.StatusOK, "ok")
}
