package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBaseURL string = "http://localhost:8000"

// RequestDecorator mutates every outgoing request before it is sent.
type RequestDecorator func(*http.Request)

// APIError is a non-2xx response from the gallery API.
type APIError struct {
	StatusCode int
	Detail     string
	Endpoint   string

	kind error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("gallery API error (status %d) %s: %s", e.StatusCode, e.Endpoint, e.Detail)
	}
	return fmt.Sprintf("gallery API error (status %d) %s", e.StatusCode, e.Endpoint)
}

func (e *APIError) Unwrap() []error {
	if e.kind == nil {
		return []error{shared.ErrAPIRequest}
	}
	return []error{shared.ErrAPIRequest, e.kind}
}

func newAPIError(status int, endpoint, detail string) *APIError {
	e := &APIError{StatusCode: status, Endpoint: endpoint, Detail: detail}
	switch {
	case status == http.StatusNotFound && strings.HasPrefix(endpoint, "/api/albums/"):
		e.kind = shared.ErrAlbumNotFound
	case status == http.StatusNotFound && strings.HasPrefix(endpoint, "/api/folders/"):
		e.kind = shared.ErrFolderNotFound
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		e.kind = shared.ErrServiceUnavailable
	}
	return e
}

// GalleryClient talks to the gallery HTTP/JSON API.
type GalleryClient struct {
	baseURL    string
	httpClient *http.Client
	decorators []RequestDecorator
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures a [GalleryClient].
type Option func(*GalleryClient)

// WithDecorator appends a request decorator.
func WithDecorator(d RequestDecorator) Option {
	return func(c *GalleryClient) {
		if d != nil {
			c.decorators = append(c.decorators, d)
		}
	}
}

// WithRateLimit paces requests to rps per second. Zero or less disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *GalleryClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			c.limiter = nil
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(l *log.Logger) Option {
	return func(c *GalleryClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewGalleryClient creates a client for the API rooted at baseURL.
func NewGalleryClient(baseURL string, client *http.Client, opts ...Option) *GalleryClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	c := &GalleryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root without a trailing slash.
func (c *GalleryClient) BaseURL() string {
	return c.baseURL
}

// send performs the request and returns the response once the status is known to be 2xx.
func (c *GalleryClient) send(ctx context.Context, method, endpoint string, body any) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", shared.ErrAPIRequest, err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, d := range c.decorators {
		d(req)
	}

	c.logger.Debug("gallery request", "method", method, "endpoint", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", shared.ErrAPIRequest, method, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, newAPIError(resp.StatusCode, endpoint, readDetail(resp.Body))
	}
	return resp, nil
}

// doRequest sends a JSON request and decodes the JSON response into result when non-nil.
func (c *GalleryClient) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	resp, err := c.send(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty response from %s", shared.ErrAPIRequest, endpoint)
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readDetail extracts a server message from an error body.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var errResp struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &errResp); err != nil {
		return ""
	}
	switch {
	case errResp.Detail != "":
		return errResp.Detail
	case errResp.Error != "":
		return errResp.Error
	default:
		return errResp.Message
	}
}

func albumPath(albumID string, rest ...string) string {
	return "/api/albums/" + url.PathEscape(albumID) + strings.Join(rest, "")
}

// GetAlbum fetches an album and normalizes legacy and current shapes.
//
// Calls GET /api/albums/{id}.
func (c *GalleryClient) GetAlbum(ctx context.Context, albumID string) (*models.Album, error) {
	if albumID == "" {
		return nil, fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}
	var w wireAlbum
	if err := c.doRequest(ctx, http.MethodGet, albumPath(albumID), nil, &w); err != nil {
		return nil, err
	}
	return w.toModel(albumID), nil
}

// CreateAlbum creates an album in folderID and returns its id.
//
// Calls POST /api/albums.
func (c *GalleryClient) CreateAlbum(ctx context.Context, name, folderID string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}
	var w wireCreated
	if err := c.doRequest(ctx, http.MethodPost, "/api/albums", albumRequest{Name: name, FolderID: folderID}, &w); err != nil {
		return "", err
	}
	id := w.id()
	if id == "" {
		return "", fmt.Errorf("%w: create album response has no id", shared.ErrAPIRequest)
	}
	return id, nil
}

// UpdateAlbum renames or moves an album.
//
// Calls PUT /api/albums/{id}.
func (c *GalleryClient) UpdateAlbum(ctx context.Context, albumID, name, folderID string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}
	return c.doRequest(ctx, http.MethodPut, albumPath(albumID), albumRequest{Name: name, FolderID: folderID}, nil)
}

// DeleteAlbum calls DELETE /api/albums/{id}.
func (c *GalleryClient) DeleteAlbum(ctx context.Context, albumID string) error {
	return c.doRequest(ctx, http.MethodDelete, albumPath(albumID), nil, nil)
}

// ReorderAlbum calls PUT /api/albums/{id}/reorder with the full ordered member list.
func (c *GalleryClient) ReorderAlbum(ctx context.Context, albumID string, itemIDs []string, seq uint64) error {
	return c.doRequest(ctx, http.MethodPut, albumPath(albumID, "/reorder"), itemIDsRequest{ItemIDs: itemIDs, Sequence: seq}, nil)
}

// AddItems calls POST /api/albums/{id}/items.
func (c *GalleryClient) AddItems(ctx context.Context, albumID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return fmt.Errorf("%w: no items to add", shared.ErrMissingArgument)
	}
	return c.doRequest(ctx, http.MethodPost, albumPath(albumID, "/items"), itemIDsRequest{ItemIDs: itemIDs}, nil)
}

// RemoveItems calls DELETE /api/albums/{id}/items.
func (c *GalleryClient) RemoveItems(ctx context.Context, albumID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return fmt.Errorf("%w: no items to remove", shared.ErrMissingArgument)
	}
	return c.doRequest(ctx, http.MethodDelete, albumPath(albumID, "/items"), itemIDsRequest{ItemIDs: itemIDs}, nil)
}

// SetCover calls PUT /api/albums/{id}/cover.
func (c *GalleryClient) SetCover(ctx context.Context, albumID, itemID string) error {
	return c.doRequest(ctx, http.MethodPut, albumPath(albumID, "/cover"), coverRequest{ItemID: itemID}, nil)
}

// FolderContent lists the items rendered for a folder.
//
// Calls GET /api/folders/{id}/content.
func (c *GalleryClient) FolderContent(ctx context.Context, folderID string) (*models.FolderContent, error) {
	if folderID == "" {
		return nil, fmt.Errorf("%w: folder id", shared.ErrMissingArgument)
	}
	var w wireFolder
	endpoint := "/api/folders/" + url.PathEscape(folderID) + "/content"
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &w); err != nil {
		return nil, err
	}
	return w.toModel(folderID), nil
}

// BatchDownload requests an archive of the given photos.
//
// Calls POST /api/photos/batch-download. The returned body must be closed by the caller.
func (c *GalleryClient) BatchDownload(ctx context.Context, photoIDs []string) (io.ReadCloser, error) {
	if len(photoIDs) == 0 {
		return nil, fmt.Errorf("%w: no photos to download", shared.ErrMissingArgument)
	}
	resp, err := c.send(ctx, http.MethodPost, "/api/photos/batch-download", photoIDsRequest{PhotoIDs: photoIDs})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// MovePhotos calls POST /api/photos/move.
func (c *GalleryClient) MovePhotos(ctx context.Context, photoIDs []string, targetFolderID string) error {
	if targetFolderID == "" {
		return fmt.Errorf("%w: target folder", shared.ErrMissingArgument)
	}
	return c.doRequest(ctx, http.MethodPost, "/api/photos/move", photoIDsRequest{PhotoIDs: photoIDs, TargetFolderID: targetFolderID}, nil)
}

// DeletePhoto calls DELETE /api/photos/{id}.
func (c *GalleryClient) DeletePhoto(ctx context.Context, photoID string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/photos/"+url.PathEscape(photoID), nil, nil)
}
