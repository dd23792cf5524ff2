// Browser session import from "Copy as cURL" snippets.
package shared

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	headerFlag = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	cookieFlag = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
)

// csrfHeaderNames lists header names servers commonly read the CSRF token from (lowercase).
var csrfHeaderNames = []string{"x-csrftoken", "x-csrf-token", "x-xsrf-token"}

// csrfCookieNames lists cookies that carry the CSRF token when no header is present.
var csrfCookieNames = []string{"csrftoken", "csrf_token", "XSRF-TOKEN"}

// CurlHeaders represents parsed headers and cookies from a cURL command.
type CurlHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers.
func ParseCurlFile(path string) (*CurlHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts headers.
//
// A cookie passed with -b takes precedence over a Cookie header.
func ParseCurlCommand(data []byte) (*CurlHeaders, error) {
	cmd := strings.ReplaceAll(string(data), "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\", "")

	parsed := &CurlHeaders{Headers: make(map[string]string)}
	var headerCookie string

	for _, match := range headerFlag.FindAllStringSubmatch(cmd, -1) {
		key, value, ok := splitHeader(firstGroup(match))
		if !ok {
			continue
		}
		if strings.EqualFold(key, "cookie") {
			if headerCookie == "" {
				headerCookie = value
			}
			continue
		}
		parsed.Headers[key] = value
	}

	if match := cookieFlag.FindStringSubmatch(cmd); match != nil {
		parsed.Cookie = firstGroup(match)
	}
	if parsed.Cookie == "" {
		parsed.Cookie = headerCookie
	}

	if len(parsed.Headers) == 0 && parsed.Cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}
	return parsed, nil
}

func firstGroup(match []string) string {
	for _, g := range match[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

func splitHeader(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

// Session is the browser session replayed on API calls: the cookie always, the CSRF token on mutating verbs.
type Session struct {
	Cookie     string `json:"cookie"`
	CSRFHeader string `json:"csrf_header,omitempty"`
	CSRFToken  string `json:"csrf_token,omitempty"`
}

// SessionFromCurl extracts the cookie and CSRF token from parsed cURL headers.
//
// The token is read from a known CSRF header first, then from a CSRF cookie.
func SessionFromCurl(h *CurlHeaders) Session {
	s := Session{Cookie: h.Cookie, CSRFHeader: "X-CSRFToken"}

	for key, value := range h.Headers {
		for _, name := range csrfHeaderNames {
			if strings.EqualFold(key, name) {
				s.CSRFHeader = key
				s.CSRFToken = value
				return s
			}
		}
	}

	for _, part := range strings.Split(h.Cookie, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		for _, want := range csrfCookieNames {
			if name == want {
				s.CSRFToken = value
				return s
			}
		}
	}
	return s
}

// SaveSession writes the session as JSON with owner-only permissions.
func SaveSession(path string, s Session) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := MarshalJSON(s, true)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// LoadSession reads a session file written by [SaveSession].
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: malformed session file: %v", ErrInvalidInput, err)
	}
	return &s, nil
}
