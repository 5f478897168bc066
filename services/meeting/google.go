// File: services/meeting/google.go
package meeting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"tutorhive/config"
	"tutorhive/models"
)

// createMeetingTimeout bounds the external calendar call so a slow provider
// cannot hold the whole booking request.
const createMeetingTimeout = 8 * time.Second

// GoogleMeetingService creates Google Calendar events with Meet links.
type GoogleMeetingService struct {
	oauth *oauth2.Config
}

// NewGoogleMeetingService builds the service from the configured OAuth client.
func NewGoogleMeetingService() *GoogleMeetingService {
	return &GoogleMeetingService{
		oauth: &oauth2.Config{
			ClientID:     config.AppConfig.GoogleClientID,
			ClientSecret: config.AppConfig.GoogleClientSecret,
			RedirectURL:  config.AppConfig.GoogleRedirectURL,
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
	}
}

func (s *GoogleMeetingService) CreateMeeting(ctx context.Context, event models.MeetingEvent, credential *oauth2.Token) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, createMeetingTimeout)
	defer cancel()

	src := s.oauth.TokenSource(ctx, credential)
	svc, err := calendar.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return "", fmt.Errorf("failed to build calendar client: %w", err)
	}

	ev := &calendar.Event{
		Summary:     event.Description,
		Description: event.Description,
		Start:       &calendar.EventDateTime{DateTime: event.StartTime.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: event.EndTime.Format(time.RFC3339)},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.New().String(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}

	created, err := svc.Events.Insert("primary", ev).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}
	if created.HangoutLink == "" {
		return "", fmt.Errorf("calendar event created without a meeting link")
	}
	return created.HangoutLink, nil
}

func (s *GoogleMeetingService) GenerateAuthURL(state string) string {
	return s.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (s *GoogleMeetingService) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return token, nil
}
