package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

var getRuntime = func() string { return runtime.GOOS }

// browserCommand returns the command that opens target in the default browser.
func browserCommand(target string) (*exec.Cmd, error) {
	switch rt := getRuntime(); rt {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux":
		return exec.Command("xdg-open", target), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", target), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", rt)
	}
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(target string) error {
	cmd, err := browserCommand(target)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// UnlockURL builds the web unlock page address for a protected container.
func UnlockURL(baseURL, safeID, mode string) (string, error) {
	if safeID == "" {
		return "", fmt.Errorf("%w: unlock requires a safe identifier", ErrMissingArgument)
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/unlock/" + url.PathEscape(safeID))
	if err != nil {
		return "", fmt.Errorf("%w: bad base URL: %v", ErrInvalidConfig, err)
	}
	if mode != "" {
		q := u.Query()
		q.Set("mode", mode)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
