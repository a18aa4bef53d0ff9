package services

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// CalendarScopes are requested on every authorization URL.
var CalendarScopes = []string{calendar.CalendarEventsScope}

// GoogleOAuth owns the OAuth2 client configuration. It holds no per-user
// credentials; authorized clients are built per call from a refresh token.
type GoogleOAuth struct {
	config  *oauth2.Config
	timeout time.Duration
}

func NewGoogleOAuth(clientID, clientSecret, redirectURI string) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint:     google.Endpoint,
			Scopes:       CalendarScopes,
		},
	}
}

// AuthCodeURL asks for offline access and forces the consent screen, since
// Google only returns a refresh token on first consent or forced consent.
func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// WithTimeout bounds every call to Google made through g. Zero means no deadline.
func (g *GoogleOAuth) WithTimeout(d time.Duration) *GoogleOAuth {
	g.timeout = d
	return g
}

func (g *GoogleOAuth) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := g.withDeadline(ctx)
	defer cancel()
	return g.config.Exchange(ctx, code)
}

// Client returns a request-scoped HTTP client that mints access tokens from
// refreshToken on first use. The access token is never persisted.
func (g *GoogleOAuth) Client(ctx context.Context, refreshToken string) *http.Client {
	return g.config.Client(ctx, &oauth2.Token{RefreshToken: refreshToken})
}
