package api

import (
	"MomentumBot/model"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// attendeeView is an attendance record, optionally joined with the
// attending user's info.
type attendeeView struct {
	model.AttendanceRecord
	Info *model.User `json:"info,omitempty"`
}

// eventView is an event with its attendance records.
type eventView struct {
	model.Event
	Users []attendeeView `json:"users"`
}

// historyView is an attendance record joined with its event's info.
type historyView struct {
	model.AttendanceRecord
	Info *model.Event `json:"info,omitempty"`
}

// userView is a user with their full attendance history.
type userView struct {
	model.User
	Events []historyView `json:"events"`
}

// handleGetEvents lists all events.
func (s *Server) handleGetEvents(c *gin.Context) {
	events, err := s.store.ListEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

// handleGetAdminEvents lists all events with their attendance records;
// with ?return_users=true each record is joined with user info.
func (s *Server) handleGetAdminEvents(c *gin.Context) {
	ctx := c.Request.Context()
	returnUsers := c.Query("return_users") == "true"

	events, err := s.store.ListEvents(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	views := make([]eventView, 0, len(events))
	for _, event := range events {
		view, err := s.eventWithAttendees(c, event, returnUsers)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}

// handleGetEventByID fetches one event with joined attendees. With
// ?formatted=true the attendee list renders as an HTML page instead.
func (s *Server) handleGetEventByID(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Param("id")

	event, err := s.store.GetEvent(ctx, code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found."})
		return
	}

	view, err := s.eventWithAttendees(c, *event, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("formatted") == "true" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(formatAttendeePage(view)))
		return
	}
	c.JSON(http.StatusOK, view)
}

// handleGetUserByEmail looks up a user by email and returns their full
// event-attendance history.
func (s *Server) handleGetUserByEmail(c *gin.Context) {
	ctx := c.Request.Context()
	email := c.Param("email")

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		return
	}

	records, err := s.store.ListRecordsByUser(ctx, user.Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	view := userView{User: *user, Events: make([]historyView, 0, len(records))}
	for _, record := range records {
		h := historyView{AttendanceRecord: record}
		info, err := s.store.GetEvent(ctx, record.Event)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		h.Info = info
		view.Events = append(view.Events, h)
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) eventWithAttendees(c *gin.Context, event model.Event, withUsers bool) (eventView, error) {
	ctx := c.Request.Context()

	records, err := s.store.ListRecordsByEvent(ctx, event.Key)
	if err != nil {
		return eventView{}, err
	}

	view := eventView{Event: event, Users: make([]attendeeView, 0, len(records))}
	for _, record := range records {
		attendee := attendeeView{AttendanceRecord: record}
		if withUsers {
			info, err := s.store.GetUser(ctx, record.User)
			if err != nil {
				return eventView{}, err
			}
			attendee.Info = info
		}
		view.Users = append(view.Users, attendee)
	}
	return view, nil
}

// formatAttendeePage renders a minimal HTML attendee list for printing
// or projection at the event itself.
func formatAttendeePage(view eventView) string {
	names := make([]string, 0, len(view.Users))
	for _, attendee := range view.Users {
		if attendee.Info != nil {
			names = append(names, attendee.Info.Name)
		}
	}

	return fmt.Sprintf(`<style>
    body {
        font-family: sans-serif;
    }
    h1 {
        margin-bottom: 0.2em;
    }
</style>
<h1>%s</h1>
<code>%s</code>

<p>%s</p>
<br>
<p><strong>Total Attendees:</strong> %d</p>
`, view.Name, view.Key, strings.Join(names, "<br>"), len(names))
}
