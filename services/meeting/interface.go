// File: services/meeting/interface.go
package meeting

import (
	"context"

	"golang.org/x/oauth2"

	"tutorhive/models"
)

// MeetingService is the calendar collaborator boundary: create a meeting link
// for a lesson envelope, and drive the tutor OAuth linking flow.
type MeetingService interface {
	// CreateMeeting schedules a calendar event with a conference link using
	// the tutor's stored credential and returns the join link.
	CreateMeeting(ctx context.Context, event models.MeetingEvent, credential *oauth2.Token) (string, error)
	// GenerateAuthURL returns the consent URL the client is redirected to
	// when the tutor has no stored credential yet.
	GenerateAuthURL(state string) string
	// ExchangeCode trades an OAuth callback code for a storable credential.
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
}
