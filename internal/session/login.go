package session

import (
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"psicocitas-web/internal/config"
)

// googleEndpoint is Google's OAuth 2.0 endpoint.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.google.com/o/oauth2/auth",
	TokenURL:  "https://oauth2.googleapis.com/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// CalendarScope grants the calendar access the backend needs to book meetings.
const CalendarScope = "https://www.googleapis.com/auth/calendar"

// LoginFlow builds the Google authorization redirect. The code exchange is
// done by the identity API.
type LoginFlow struct {
	oauth        *oauth2.Config
	hostedDomain string
}

// NewLoginFlow creates a flow from the Google configuration.
func NewLoginFlow(cfg config.GoogleOAuthConfig) *LoginFlow {
	return &LoginFlow{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"profile", "email", CalendarScope},
			Endpoint:     googleEndpoint,
		},
		hostedDomain: cfg.HostedDomain,
	}
}

// NewState returns a random value for the OAuth state parameter.
func NewState() string {
	return uuid.NewString()
}

// AuthURL is the consent page URL. Offline access with forced consent makes
// Google return a refresh token on every sign-in.
func (f *LoginFlow) AuthURL(state string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	}
	if f.hostedDomain != "" {
		opts = append(opts, oauth2.SetAuthURLParam("hd", f.hostedDomain))
	}
	return f.oauth.AuthCodeURL(state, opts...)
}
