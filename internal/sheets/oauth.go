package sheets

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// DefaultCallbackAddr is where the interactive flow listens for the redirect.
const DefaultCallbackAddr = "localhost:8080"

// authTimeout bounds how long the interactive flow waits for the browser.
const authTimeout = 5 * time.Minute

// OAuth2Config describes the desktop OAuth client used for Sheets access.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	// TokenFile caches the token between runs; empty disables caching.
	TokenFile string
	// CallbackAddr defaults to DefaultCallbackAddr.
	CallbackAddr string
	// Prompt receives the consent URL; nil logs it instead.
	Prompt io.Writer
}

func (c OAuth2Config) addr() string {
	if c.CallbackAddr == "" {
		return DefaultCallbackAddr
	}
	return c.CallbackAddr
}

func (c OAuth2Config) oauth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://" + c.addr() + "/callback",
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// callbackServer receives the single redirect of one consent flow.
type callbackServer struct {
	server *http.Server
	state  string
	codes  chan string
	errs   chan error
}

func newCallbackServer() (*callbackServer, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}
	cb := &callbackServer{
		state: hex.EncodeToString(nonce),
		codes: make(chan string, 1),
		errs:  make(chan error, 1),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", cb.handle)
	cb.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	return cb, nil
}

func (cb *callbackServer) handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("state") != cb.state || q.Get("code") == "" {
		http.Error(w, "Authorization failed. Run the command again.", http.StatusBadRequest)
		cb.fail(errors.New("no valid authorization code received"))
		return
	}
	_, _ = fmt.Fprint(w, "Budget can now write to Google Sheets. You can close this window.")
	select {
	case cb.codes <- q.Get("code"):
	default:
	}
}

func (cb *callbackServer) fail(err error) {
	select {
	case cb.errs <- err:
	default:
	}
}

func (cb *callbackServer) serve(listener net.Listener) {
	if err := cb.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cb.fail(fmt.Errorf("callback server failed: %w", err))
	}
}

// wait returns the authorization code, or why none arrived.
func (cb *callbackServer) wait(ctx context.Context) (string, error) {
	timer := time.NewTimer(authTimeout)
	defer timer.Stop()
	select {
	case code := <-cb.codes:
		return code, nil
	case err := <-cb.errs:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", fmt.Errorf("authorization timed out after %s", authTimeout)
	}
}

// AuthenticateOAuth2Interactive runs the browser consent flow and returns a
// token carrying a refresh token. The token is cached when TokenFile is set.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	cb, err := newCallbackServer()
	if err != nil {
		return nil, err
	}
	listener, err := net.Listen("tcp", config.addr())
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	go cb.serve(listener)
	defer func() {
		if err := cb.server.Shutdown(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to stop callback server", "error", err)
		}
	}()

	oauthConfig := config.oauth()
	authURL := oauthConfig.AuthCodeURL(cb.state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	if config.Prompt != nil {
		_, _ = fmt.Fprintf(config.Prompt, "Open this URL to allow access to Google Sheets:\n\n  %s\n\n", authURL)
	} else {
		slog.Info("open this URL to allow access to Google Sheets", "url", authURL)
	}

	code, err := cb.wait(ctx)
	if err != nil {
		return nil, err
	}
	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	cacheToken(config.TokenFile, token)
	return token, nil
}

// LoadToken reads a cached token.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("failed to decode token %s: %w", tokenFile, err)
	}
	return token, nil
}

// saveToken replaces path atomically with an owner-only copy of token.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace token: %w", err)
	}
	return nil
}

func cacheToken(path string, token *oauth2.Token) {
	if path == "" {
		return
	}
	if err := saveToken(path, token); err != nil {
		slog.Warn("failed to cache token", "file", path, "error", err)
		return
	}
	slog.Debug("token cached", "file", path)
}

// RefreshTokenIfNeeded returns token unchanged while it is valid, otherwise
// a refreshed token, cached when TokenFile is set.
func RefreshTokenIfNeeded(ctx context.Context, config OAuth2Config, token *oauth2.Token) (*oauth2.Token, error) {
	if token.Valid() {
		return token, nil
	}
	slog.Info("sheets token expired, refreshing")
	fresh, err := config.oauth().TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	cacheToken(config.TokenFile, fresh)
	return fresh, nil
}

// GetOrCreateToken returns the cached token, refreshed when expired, and
// falls back to the interactive flow when there is none.
func GetOrCreateToken(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	if config.TokenFile != "" {
		token, err := LoadToken(config.TokenFile)
		if err == nil {
			slog.Debug("loaded cached token", "file", config.TokenFile)
			return RefreshTokenIfNeeded(ctx, config, token)
		}
		slog.Debug("no cached token, starting OAuth2 flow", "file", config.TokenFile, "error", err)
	}
	return AuthenticateOAuth2Interactive(ctx, config)
}
