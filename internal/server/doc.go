// Package server runs the short-lived local HTTP server behind `galx setup login`.
//
// # Router
//
// [BasicRouter] registers handlers on [http.ServeMux] method patterns and wraps each one in the
// [Middleware] stack, the first added being outermost. [RequestLogger] writes one debug line per request.
//
// # OAuth Callback
//
// [OAuthHandler] serves the redirect URL of the gallery's authorization code flow. It validates the
// state parameter, exchanges the code for a token and publishes the result on [OAuthHandler.Result].
// Only the first callback is processed so a replayed redirect cannot overwrite the token.
//
// The login command listens on [CallbackAddr] of the configured redirect URL, opens the browser on
// [OAuthHandler.AuthCodeURL] and shuts the server down once a result arrives.
package server
