package services

import (
	"context"
	"net/http"
	"time"

	"github.com/desertthunder/galx/internal/shared"
	"golang.org/x/oauth2"
)

// NewHTTPClient builds the transport for the gallery API from the configured credentials.
//
// A refresh token plus token URL yields an auto-refreshing client, a bare access token a static bearer client,
// and no token a plain client that relies on [SessionHeaders].
func NewHTTPClient(ctx context.Context, auth shared.AuthConfig, timeout time.Duration) *http.Client {
	var client *http.Client

	switch {
	case auth.RefreshToken != "" && auth.TokenURL != "":
		client = auth.OAuthConfig().Client(ctx, &oauth2.Token{AccessToken: auth.AccessToken, RefreshToken: auth.RefreshToken})
	case auth.AccessToken != "":
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: auth.AccessToken, TokenType: "Bearer"}))
	default:
		client = &http.Client{}
	}

	client.Timeout = timeout
	return client
}

// SessionHeaders replays an imported browser session.
//
// The cookie is sent on every request. The CSRF token is only attached to mutating verbs.
func SessionHeaders(s *shared.Session) RequestDecorator {
	return func(req *http.Request) {
		if s == nil {
			return
		}
		if s.Cookie != "" {
			req.Header.Set("Cookie", s.Cookie)
		}
		if s.CSRFToken == "" || !isMutating(req.Method) {
			return
		}
		header := s.CSRFHeader
		if header == "" {
			header = "X-CSRFToken"
		}
		req.Header.Set(header, s.CSRFToken)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
