// Package services implements the HTTP client for the gallery API.
//
// # Gallery Interface
//
// [Gallery] is the remote store consumed by the engine packages. [GalleryClient] implements it over HTTP/JSON
// and is the only place that knows about wire shapes.
//
// # Shape Normalization
//
// The server has shipped two response shapes over time and both are still in the wild:
//   - albums list members under "items" or "photos", with "cover_item_id" or "cover_photo_id"
//   - items carry either a legacy single "type" tag or the typed "item_type"/"media_type" pair
//   - members may be full objects or bare ids, and ids may be strings or numbers
//
// Everything is folded into [models.Album] and [models.FolderContent] before it leaves the package.
//
// # Authentication
//
// [NewHTTPClient] builds an [http.Client] from [shared.AuthConfig] using [oauth2]: a refresh-token source when a
// token URL is configured, a static bearer token otherwise. [SessionHeaders] replays an imported browser session:
// the cookie on every request and the CSRF token on mutating verbs.
//
// # Error Handling
//
// Non-2xx responses become [*APIError], which unwraps to:
//   - [shared.ErrAPIRequest] : any failed call
//   - [shared.ErrAlbumNotFound] : 404 on an album route
//   - [shared.ErrFolderNotFound] : 404 on a folder route
//   - [shared.ErrServiceUnavailable] : 502, 503 and 504
//
// Requests are paced by an optional [rate.Limiter] so best-effort loops cannot flood the server.
package services
