package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/AnshRaj112/recruiter-gateway/internal/models"
	"github.com/AnshRaj112/recruiter-gateway/internal/repository"
	"github.com/AnshRaj112/recruiter-gateway/internal/rowstore"
)

const schedulesTable = "713"

type fakeInserter struct {
	calls        int
	refreshToken string
	event        *calendar.Event
	err          error
}

func (f *fakeInserter) InsertEvent(_ context.Context, refreshToken string, ev *calendar.Event) (*calendar.Event, error) {
	f.calls++
	f.refreshToken = refreshToken
	f.event = ev
	if f.err != nil {
		return nil, f.err
	}
	return &calendar.Event{Id: "evt-1", HtmlLink: "https://calendar.google.com/event?eid=evt-1"}, nil
}

func newCalendar(t *testing.T, refreshToken string) (*CalendarService, *fakeInserter, *countingStore, string) {
	t.Helper()
	store := newCountingStore()
	users := repository.NewUserRepository(store, usersTable)
	u, err := users.Create(context.Background(), &models.User{Name: "Ana", Email: "a@x.com"})
	require.NoError(t, err)
	if refreshToken != "" {
		require.NoError(t, users.SetRefreshToken(context.Background(), u.ID, refreshToken))
	}
	ins := &fakeInserter{}
	return NewCalendarService(users, ins, store, schedulesTable, zap.NewNop()), ins, store, u.ID
}

func validInput(userID string) CreateEventInput {
	return CreateEventInput{
		UserID:    userID,
		Event:     &EventData{Start: time.Date(2026, 11, 3, 14, 0, 0, 0, time.UTC), TimeZone: "America/Sao_Paulo"},
		Candidate: &CandidateRef{ID: 10, Name: "Bruno", Email: "bruno@x.com"},
		Job:       &JobRef{ID: 5, Title: "Backend Developer"},
	}
}

func TestCreateEvent_NotConnectedNeverCallsProvider(t *testing.T) {
	s, ins, _, userID := newCalendar(t, "")

	_, err := s.CreateEvent(context.Background(), validInput(userID))

	assert.ErrorIs(t, err, ErrAuthorizationRequired)
	assert.Zero(t, ins.calls)
}

func TestCreateEvent_Validation(t *testing.T) {
	s, ins, _, userID := newCalendar(t, "1//rt")

	missing := []func(*CreateEventInput){
		func(in *CreateEventInput) { in.UserID = "" },
		func(in *CreateEventInput) { in.Event = nil },
		func(in *CreateEventInput) { in.Candidate = nil },
		func(in *CreateEventInput) { in.Job = nil },
		func(in *CreateEventInput) { in.Event.Start = time.Time{} },
		func(in *CreateEventInput) { in.Event.End = in.Event.Start.Add(-time.Minute) },
	}
	for _, mutate := range missing {
		in := validInput(userID)
		mutate(&in)
		_, err := s.CreateEvent(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Zero(t, ins.calls)
}

func TestCreateEvent_Success(t *testing.T) {
	s, ins, store, userID := newCalendar(t, "1//rt")
	ctx := context.Background()

	out, err := s.CreateEvent(ctx, validInput(userID))
	require.NoError(t, err)

	assert.Equal(t, "evt-1", out.EventID)
	assert.Equal(t, 1, ins.calls)
	assert.Equal(t, "1//rt", ins.refreshToken)
	assert.Equal(t, "Entrevista: Bruno - Backend Developer", ins.event.Summary)
	assert.Equal(t, "2026-11-03T14:00:00Z", ins.event.Start.DateTime)
	assert.Equal(t, "2026-11-03T15:00:00Z", ins.event.End.DateTime)
	require.Len(t, ins.event.Attendees, 1)
	assert.Equal(t, "bruno@x.com", ins.event.Attendees[0].Email)

	rows, err := store.Find(ctx, schedulesTable, rowstore.LinkRowHas(ColScheduleOwner, userID))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "evt-1", rows[0].String(ColScheduleEventID))
}

func TestCreateEvent_ProviderFailure(t *testing.T) {
	s, ins, _, userID := newCalendar(t, "1//rt")
	ins.err = errors.New("googleapi: Error 403: insufficient permissions")

	_, err := s.CreateEvent(context.Background(), validInput(userID))

	assert.ErrorIs(t, err, ErrCalendarOperation)
	assert.Equal(t, 1, ins.calls, "single attempt, no retry")
}

func TestCreateEvent_UnknownUser(t *testing.T) {
	s, ins, _, _ := newCalendar(t, "")

	_, err := s.CreateEvent(context.Background(), validInput("999"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, ins.calls)
}

func TestCreateEvent_AppointmentFailureDoesNotFailEvent(t *testing.T) {
	s, _, store, userID := newCalendar(t, "1//rt")
	s.store = &failingInsertStore{Store: store}

	out, err := s.CreateEvent(context.Background(), validInput(userID))
	require.NoError(t, err)
	assert.Equal(t, "evt-1", out.EventID)
}

type failingInsertStore struct {
	rowstore.Store
}

func (f *failingInsertStore) Insert(context.Context, string, map[string]any) (rowstore.Row, error) {
	return nil, errors.New("row store down")
}

func TestGoogleCalendar_InsertEventUsesFreshAccessToken(t *testing.T) {
	var tokenRequests int
	var gotAuth string
	var gotEvent calendar.Event

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			tokenRequests++
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "1//rt", r.PostForm.Get("refresh_token"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
		case "/calendar/v3/calendars/primary/events":
			gotAuth = r.Header.Get("Authorization")
			assert.Equal(t, "all", r.URL.Query().Get("sendUpdates"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotEvent))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"evt-9","htmlLink":"https://calendar.google.com/event?eid=evt-9"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	oauth := NewGoogleOAuth("id", "secret", "http://localhost/callback")
	oauth.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	gc := NewGoogleCalendar(oauth, "", option.WithEndpoint(srv.URL+"/calendar/v3/"))

	ev, err := gc.InsertEvent(context.Background(), "1//rt", &calendar.Event{Summary: "Entrevista"})
	require.NoError(t, err)

	assert.Equal(t, "evt-9", ev.Id)
	assert.Equal(t, 1, tokenRequests)
	assert.Equal(t, "Bearer at-1", gotAuth)
	assert.Equal(t, "Entrevista", gotEvent.Summary)
}

func TestGoogleCalendar_InsertEventTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
			return
		}
		<-r.Context().Done()
	}))
	defer srv.Close()

	oauth := NewGoogleOAuth("id", "secret", "http://localhost/callback").WithTimeout(50 * time.Millisecond)
	oauth.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	gc := NewGoogleCalendar(oauth, "", option.WithEndpoint(srv.URL+"/calendar/v3/"))

	start := time.Now()
	_, err := gc.InsertEvent(context.Background(), "1//rt", &calendar.Event{Summary: "Entrevista"})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestEventData_UnmarshalTimes(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		start time.Time
		end   time.Time
	}{
		{
			name:  "rfc3339",
			body:  `{"start":"2024-05-01T10:00:00-03:00","timeZone":"America/Sao_Paulo"}`,
			start: time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC),
		},
		{
			name:  "datetime-local in time zone",
			body:  `{"start":"2024-05-01T10:00","end":"2024-05-01T10:45:30","timeZone":"America/Sao_Paulo"}`,
			start: time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 5, 1, 13, 45, 30, 0, time.UTC),
		},
		{
			name:  "datetime-local without time zone is utc",
			body:  `{"start":"2024-05-01T10:00","summary":"Entrevista"}`,
			start: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ev EventData
			require.NoError(t, json.Unmarshal([]byte(tc.body), &ev))
			assert.True(t, tc.start.Equal(ev.Start), "start %s", ev.Start)
			assert.True(t, tc.end.Equal(ev.End), "end %s", ev.End)
		})
	}

	var ev EventData
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-05-01T10:00","summary":"S","location":"L","timeZone":"UTC"}`), &ev))
	assert.Equal(t, "S", ev.Summary)
	assert.Equal(t, "L", ev.Location)
	assert.Equal(t, "UTC", ev.TimeZone)
}

func TestEventData_UnmarshalRejects(t *testing.T) {
	for _, body := range []string{
		`{"start":"tomorrow at ten"}`,
		`{"start":"2024-05-01T10:00","timeZone":"Mars/Olympus"}`,
		`{"start":"2024-05-01T10:00","end":"later"}`,
	} {
		var ev EventData
		assert.Error(t, json.Unmarshal([]byte(body), &ev), body)
	}
}
