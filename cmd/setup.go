package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/galx/internal/server"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const defaultLoginTimeout = 2 * time.Minute

// SetupConfig writes the template config file to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", r.configPath)

	r.writePlain("✓ Config written to %s\n", r.configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set server.base_url to your gallery\n")
	r.writePlain("2. Run 'galx setup session --curl-file request.sh' or 'galx setup login'\n")
	return nil
}

// SetupDatabase initializes the journal database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.OpenJournal(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("✓ Journal database ready at %s\n", r.config.Database.Path)
	return nil
}

// SetupSession imports the gallery's browser session from a copied cURL request.
//
// The cookie and CSRF token are written to the session file and replayed on every API call.
func (r *Runner) SetupSession(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	outputPath := cmd.String("output")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var curlHeaders *shared.CurlHeaders
	var err error

	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	session := shared.SessionFromCurl(curlHeaders)
	if session.Cookie == "" {
		return fmt.Errorf("%w: the request carries no cookie", shared.ErrMissingCredentials)
	}
	if session.CSRFToken == "" {
		r.logger.Warn("no CSRF token found, mutating requests may be rejected")
	}

	if outputPath == "" {
		outputPath = r.config.Auth.SessionFile
	}
	if outputPath == "" {
		return fmt.Errorf("%w: --output or auth.session_file must be set", shared.ErrMissingArgument)
	}

	if err := shared.SaveSession(outputPath, session); err != nil {
		return err
	}
	r.logger.Info("session saved", "path", outputPath)

	r.writePlain("✓ Browser session imported\n")
	r.writePlain("Session file saved to: %s\n", outputPath)
	if outputPath != r.config.Auth.SessionFile {
		r.writePlainln("Next steps:")
		r.writePlain("Update %s with: auth.session_file = \"%s\"\n", r.configPath, outputPath)
	}
	return nil
}

// SetupLogin performs the OAuth2 authorization code flow and stores the tokens in the config file.
//
// Starts a local HTTP server on the redirect URL, opens the browser for user authorization and exchanges
// the returned code for tokens.
func (r *Runner) SetupLogin(ctx context.Context, cmd *cli.Command) error {
	auth := r.config.Auth
	if auth.ClientID == "" || auth.AuthURL == "" || auth.TokenURL == "" || auth.RedirectURL == "" {
		return fmt.Errorf("%w: auth.client_id, auth.auth_url, auth.token_url and auth.redirect_url must be set in %s",
			shared.ErrMissingCredentials, r.configPath)
	}

	token, err := r.doOAuth(ctx, auth.OAuthConfig(), cmd.Duration("timeout"), !cmd.Bool("no-browser"))
	if err != nil {
		return err
	}

	if err := r.config.Auth.Update(token); err != nil {
		return fmt.Errorf("failed to update auth configuration: %w", err)
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n", r.configPath)
	return nil
}

func (r *Runner) doOAuth(ctx context.Context, config *oauth2.Config, timeout time.Duration, openBrowser bool) (*oauth2.Token, error) {
	addr, err := server.CallbackAddr(config.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	oauthHandler := server.NewOAuthHandler(config, shared.GenerateID())
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(shared.WithLogger(r.logger, "component", "oauth")))
	router.Handler(oauthHandler)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	authURL := oauthHandler.AuthCodeURL()
	if openBrowser {
		r.writePlain("→ Opening browser for authorization...\n")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}
	} else {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%v timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization timed out after %v", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}

