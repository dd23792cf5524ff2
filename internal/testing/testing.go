// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// RecordingView captures selection syncs.
type RecordingView struct {
	mu             sync.Mutex
	Marked         []string
	ToolbarVisible bool
	ToolbarCount   int
	Syncs          int
}

func (v *RecordingView) MarkSelected(ids []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Marked = append([]string(nil), ids...)
}

func (v *RecordingView) SetToolbar(visible bool, count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ToolbarVisible = visible
	v.ToolbarCount = count
	v.Syncs++
}

// Toolbar returns the last toolbar state.
func (v *RecordingView) Toolbar() (bool, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ToolbarVisible, v.ToolbarCount
}

// RecordingNotifier captures blocking notifications.
type RecordingNotifier struct {
	mu       sync.Mutex
	Messages []string
}

func (n *RecordingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, message)
}

// Count returns how many notifications were shown.
func (n *RecordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Messages)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
