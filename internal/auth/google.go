package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUserInfo is the subset of the Google userinfo response we consume.
type GoogleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleExchanger exchanges federated-login authorization codes for the
// identity of the signed-in Google account.
type GoogleExchanger interface {
	Exchange(ctx context.Context, code string) (*GoogleUserInfo, error)
}

type googleExchanger struct {
	config *oauth2.Config
	logger zerolog.Logger
}

// NewGoogleExchanger creates an exchanger backed by Google's OAuth endpoints.
func NewGoogleExchanger(clientID, clientSecret, redirectURL string, logger zerolog.Logger) GoogleExchanger {
	return &googleExchanger{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		logger: logger.With().Str("component", "google-oauth").Logger(),
	}
}

// Exchange trades the authorization code for tokens and fetches the user's
// profile from the userinfo endpoint.
func (g *googleExchanger) Exchange(ctx context.Context, code string) (*GoogleUserInfo, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		g.logger.Warn().Err(err).Msg("authorization code exchange failed")
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := g.config.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("userinfo response did not include an email")
	}

	return &info, nil
}
