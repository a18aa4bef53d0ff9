package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/AnshRaj112/recruiter-gateway/internal/repository"
	"github.com/AnshRaj112/recruiter-gateway/internal/rowstore"
)

// Column names of the appointments (schedules) table.
const (
	ColScheduleCandidate = "Candidato"
	ColScheduleJob       = "Vaga"
	ColScheduleOwner     = "usuario"
	ColScheduleStart     = "data_hora"
	ColScheduleEventID   = "google_event_id"
	ColScheduleEventLink = "link_evento"
)

const defaultEventDuration = time.Hour

// EventInserter creates an event on the calendar of the user owning refreshToken.
type EventInserter interface {
	InsertEvent(ctx context.Context, refreshToken string, ev *calendar.Event) (*calendar.Event, error)
}

// GoogleCalendar inserts events through the Calendar v3 API.
type GoogleCalendar struct {
	oauth      *GoogleOAuth
	calendarID string
	opts       []option.ClientOption
}

func NewGoogleCalendar(oauth *GoogleOAuth, calendarID string, opts ...option.ClientOption) *GoogleCalendar {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendar{oauth: oauth, calendarID: calendarID, opts: opts}
}

func (g *GoogleCalendar) InsertEvent(ctx context.Context, refreshToken string, ev *calendar.Event) (*calendar.Event, error) {
	ctx, cancel := g.oauth.withDeadline(ctx)
	defer cancel()

	opts := append([]option.ClientOption{option.WithHTTPClient(g.oauth.Client(ctx, refreshToken))}, g.opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	return svc.Events.Insert(g.calendarID, ev).SendUpdates("all").Context(ctx).Do()
}

type EventData struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	TimeZone    string    `json:"timeZone"`
}

// localLayouts are the offset-less forms a browser datetime-local input sends.
var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}

// UnmarshalJSON accepts RFC3339 times, or wall-clock times read in TimeZone
// (UTC when TimeZone is empty).
func (e *EventData) UnmarshalJSON(b []byte) error {
	type plain EventData
	var raw struct {
		plain
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	loc := time.UTC
	if raw.TimeZone != "" {
		l, err := time.LoadLocation(raw.TimeZone)
		if err != nil {
			return fmt.Errorf("unknown timeZone %q", raw.TimeZone)
		}
		loc = l
	}

	start, err := parseEventTime(raw.Start, loc)
	if err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}
	end, err := parseEventTime(raw.End, loc)
	if err != nil {
		return fmt.Errorf("invalid end: %w", err)
	}

	*e = EventData(raw.plain)
	e.Start, e.End = start, end
	return nil
}

func parseEventTime(v string, loc *time.Location) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an RFC3339 or local date-time", v)
}

type CandidateRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type JobRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type CreateEventInput struct {
	UserID    string
	Event     *EventData
	Candidate *CandidateRef
	Job       *JobRef
}

type CreatedEvent struct {
	EventID  string `json:"event_id"`
	HTMLLink string `json:"html_link,omitempty"`
}

// CalendarService schedules interviews on the recruiter's Google Calendar.
type CalendarService struct {
	users          repository.UserRepository
	events         EventInserter
	store          rowstore.Store
	schedulesTable string
	log            *zap.Logger
}

func NewCalendarService(users repository.UserRepository, events EventInserter, store rowstore.Store, schedulesTable string, log *zap.Logger) *CalendarService {
	return &CalendarService{
		users:          users,
		events:         events,
		store:          store,
		schedulesTable: schedulesTable,
		log:            log,
	}
}

// CreateEvent is a single attempt; provider failures are not retried.
func (s *CalendarService) CreateEvent(ctx context.Context, in CreateEventInput) (*CreatedEvent, error) {
	if strings.TrimSpace(in.UserID) == "" || in.Event == nil || in.Candidate == nil || in.Job == nil {
		return nil, validationError("userId, eventData, candidate and job are required")
	}
	if in.Event.Start.IsZero() {
		return nil, validationError("eventData.start is required")
	}
	end := in.Event.End
	if end.IsZero() {
		end = in.Event.Start.Add(defaultEventDuration)
	}
	if !end.After(in.Event.Start) {
		return nil, validationError("eventData.end must be after eventData.start")
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, newError(ErrNotFound, "user not found", err)
		}
		return nil, internalError("could not load user", err)
	}
	if !user.HasGoogleGrant() {
		return nil, newError(ErrAuthorizationRequired, "user is not connected to Google Calendar", nil)
	}

	created, err := s.events.InsertEvent(ctx, user.RefreshToken, buildEvent(in.Event, end, in.Candidate, in.Job))
	if err != nil {
		return nil, newError(ErrCalendarOperation, "failed to create event", err)
	}

	out := &CreatedEvent{EventID: created.Id, HTMLLink: created.HtmlLink}
	s.recordAppointment(ctx, in, out)
	return out, nil
}

// recordAppointment is best-effort: the calendar event already exists, so a
// failed write is logged rather than turned into an error for the caller.
func (s *CalendarService) recordAppointment(ctx context.Context, in CreateEventInput, ev *CreatedEvent) {
	if s.store == nil || s.schedulesTable == "" {
		return
	}
	fields := map[string]any{
		ColScheduleCandidate: []int64{in.Candidate.ID},
		ColScheduleJob:       []int64{in.Job.ID},
		ColScheduleStart:     in.Event.Start.UTC().Format(time.RFC3339),
		ColScheduleEventID:   ev.EventID,
		ColScheduleEventLink: ev.HTMLLink,
	}
	if owner, err := strconv.ParseInt(in.UserID, 10, 64); err == nil {
		fields[ColScheduleOwner] = []int64{owner}
	}
	if _, err := s.store.Insert(ctx, s.schedulesTable, fields); err != nil {
		s.log.Warn("failed to record appointment",
			zap.String("user_id", in.UserID),
			zap.String("event_id", ev.EventID),
			zap.Error(err))
	}
}

func buildEvent(data *EventData, end time.Time, candidate *CandidateRef, job *JobRef) *calendar.Event {
	summary := data.Summary
	if summary == "" {
		summary = fmt.Sprintf("Entrevista: %s - %s", candidate.Name, job.Title)
	}

	ev := &calendar.Event{
		Summary:     summary,
		Description: data.Description,
		Location:    data.Location,
		Start:       &calendar.EventDateTime{DateTime: data.Start.Format(time.RFC3339), TimeZone: data.TimeZone},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: data.TimeZone},
	}
	if candidate.Email != "" {
		ev.Attendees = []*calendar.EventAttendee{{Email: candidate.Email, DisplayName: candidate.Name}}
	}
	return ev
}
