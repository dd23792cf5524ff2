package server

import (
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/oauth2"
)

const defaultCallbackPath = "/callback"

var page = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html lang="en">
<meta charset="utf-8">
<title>galx - {{.Title}}</title>
<style>
  html, body { height: 100%; margin: 0; }
  body { display: grid; place-items: center; background: #1e1e2e; color: #cdd6f4;
         font: 15px/1.5 ui-monospace, SFMono-Regular, Menlo, monospace; }
  main { max-width: 28rem; padding: 1.5rem 2rem; border: 1px solid #45475a; border-radius: 6px; }
  h1 { font-size: 1.2rem; margin: 0 0 .5rem; color: {{.Color}}; }
  p { margin: 0; color: #a6adc8; }
</style>
<main>
  <h1>{{.Title}}</h1>
  <p>{{.Detail}}</p>
</main>
</html>
`))

// OAuthResult is the outcome of one authorization code callback.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler serves the redirect target of the authorization code flow.
//
// It checks the state token, exchanges the code and publishes exactly one result. Later callbacks are rejected.
type OAuthHandler struct {
	config     *oauth2.Config
	state      string
	path       string
	resultChan chan OAuthResult
	once       sync.Once

	mu          sync.Mutex
	callbackHit bool
}

// NewOAuthHandler creates a handler for config's redirect URL. state must be unguessable.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	path := defaultCallbackPath
	if u, err := url.Parse(config.RedirectURL); err == nil && u.Path != "" && u.Path != "/" {
		path = u.Path
	}
	return &OAuthHandler{
		config:     config,
		state:      state,
		path:       path,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the redirect URL path.
func (h *OAuthHandler) Routes() []string {
	return []string{h.path}
}

// AuthCodeURL returns the provider URL the user must visit.
func (h *OAuthHandler) AuthCodeURL() string {
	return h.config.AuthCodeURL(h.state, oauth2.AccessTypeOffline)
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	query := r.URL.Query()
	if query.Get("state") != h.state {
		h.Send(OAuthResult{err: fmt.Errorf("invalid state parameter")})
		render(w, http.StatusBadRequest, "Authorization Failed", "The state parameter did not match. Run the login again.")
		return
	}

	code := query.Get("code")
	if code == "" {
		err := fmt.Errorf("authorization failed: %s - %s", query.Get("error"), query.Get("error_description"))
		h.Send(OAuthResult{err: err})
		render(w, http.StatusBadRequest, "Authorization Failed", "The gallery did not grant access.")
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("token exchange failed: %w", err)})
		render(w, http.StatusInternalServerError, "Authorization Failed", "The authorization code could not be exchanged.")
		return
	}

	h.Send(OAuthResult{Token: token})
	render(w, http.StatusOK, "✓ Signed in to galx", "You can close this window and return to the terminal.")
}

func render(w http.ResponseWriter, status int, title, detail string) {
	color := "#04B575"
	if status != http.StatusOK {
		color = "#FF0000"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = page.Execute(w, struct{ Title, Detail, Color string }{title, detail, color})
}

// Send publishes result. Only the first call has any effect.
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns a channel that receives exactly one result and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

// CallbackAddr returns the host:port a local server must listen on to receive redirectURL.
func CallbackAddr(redirectURL string) (string, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URL: %w", err)
	}
	if u.Scheme != "http" {
		return "", fmt.Errorf("redirect URL must use http on a local address, got %q", redirectURL)
	}
	host, port := u.Hostname(), u.Port()
	if host == "" {
		return "", fmt.Errorf("redirect URL %q has no host", redirectURL)
	}
	if port == "" {
		port = "80"
	}
	return net.JoinHostPort(host, port), nil
}
