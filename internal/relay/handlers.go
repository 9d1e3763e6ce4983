package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/peptalk/peptalk-cli/internal/logger"
	"github.com/peptalk/peptalk-cli/internal/models"
)

// Service implements the two-endpoint OAuth relay. Stateless: nothing
// is held in memory between /oauth/start and /oauth/callback besides
// what round-trips through the signed state parameter, so instances
// scale horizontally without session affinity.
type Service struct {
	cfg     *Config
	nowFunc func() time.Time
}

func NewService(cfg *Config) *Service {
	return &Service{
		cfg:     cfg,
		nowFunc: time.Now,
	}
}

// Routes registers the relay's HTTP surface on mux.
func (s *Service) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /oauth/start", s.handleStart)
	mux.HandleFunc("GET /oauth/callback", s.handleCallback)
}

func (s *Service) oauthConfig(scheme, host string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.GoogleClientID,
		ClientSecret: s.cfg.GoogleClientSecret,
		RedirectURL:  s.cfg.redirectURI(scheme, host),
		Scopes:       []string{GoogleScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  s.cfg.AuthURL,
			TokenURL: s.cfg.TokenURL,
		},
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		logger.Error("Failed to write health response", "error", err)
	}
}

// handleStart builds the provider authorization URL for a client that
// cannot hold the client secret itself.
func (s *Service) handleStart(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.credentialsConfigured() {
		writeJSONError(w, http.StatusInternalServerError, "Google OAuth is not configured")
		return
	}

	appRedirect := r.URL.Query().Get("appRedirect")
	if appRedirect == "" {
		writeJSONError(w, http.StatusBadRequest, "appRedirect is required")
		return
	}
	if u, err := url.Parse(appRedirect); err != nil || !u.IsAbs() {
		writeJSONError(w, http.StatusBadRequest, "appRedirect must be an absolute URL")
		return
	}

	state, err := EncodeState(StatePayload{
		AppRedirect: appRedirect,
		Nonce:       uuid.NewString(),
		IssuedAt:    s.nowFunc().UnixMilli(),
	}, s.cfg.StateSecret)
	if err != nil {
		logger.Error("Failed to encode state", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to build authorization URL")
		return
	}

	authURL := s.oauthConfig(requestScheme(r), r.Host).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	writeJSON(w, http.StatusOK, map[string]string{"url": authURL})
	logger.Info("Authorization URL issued", "app_redirect", appRedirect)
}

// handleCallback is the provider's redirect target: it exchanges the
// authorization code, verifies calendar access once, and hands the
// resulting bundle back to the app via its redirect.
func (s *Service) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	stateToken := r.URL.Query().Get("state")
	if code == "" || stateToken == "" {
		writeJSONError(w, http.StatusBadRequest, "code and state are required")
		return
	}

	// Without a recoverable appRedirect no redirect can be issued
	// safely, so state failures answer the raw HTTP caller directly.
	state, err := DecodeState(stateToken, s.cfg.StateSecret, s.nowFunc(), s.cfg.StateMaxAge)
	if err != nil {
		logger.Warn("Rejected callback state", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid state payload")
		return
	}
	if state.AppRedirect == "" {
		writeJSONError(w, http.StatusBadRequest, "appRedirect missing in state")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	token, err := s.oauthConfig(requestScheme(r), r.Host).Exchange(ctx, code)
	if err != nil {
		logger.Warn("Token exchange failed", "error", err)
		redirectError(w, r, state.AppRedirect, "Google token exchange failed")
		return
	}

	test, err := s.testCalendarAccess(ctx, token)
	if err != nil {
		logger.Warn("Calendar verification failed", "error", err)
		redirectError(w, r, state.AppRedirect, "Google Calendar test failed")
		return
	}

	scope, _ := token.Extra("scope").(string)
	bundle := models.CalendarTokenBundle{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken, // empty when withheld on repeat consent
		ExpiresAt:    token.Expiry.UnixMilli(),
		Scope:        scope,
		TokenType:    token.TokenType,
		Test:         test,
	}

	payload, err := json.Marshal(bundle)
	if err != nil {
		logger.Error("Failed to encode token bundle", "error", err)
		redirectError(w, r, state.AppRedirect, "failed to encode token payload")
		return
	}

	target, err := url.Parse(state.AppRedirect)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "appRedirect is not a valid URL")
		return
	}
	q := target.Query()
	q.Set("status", "success")
	q.Set("payload", base64.RawURLEncoding.EncodeToString(payload))
	target.RawQuery = q.Encode()

	http.Redirect(w, r, target.String(), http.StatusFound)
	logger.Info("OAuth flow completed", "calendar_count", test.CalendarCount)
}

// testCalendarAccess lists at most one calendar with the new access
// token, purely as a confidence signal for the client.
func (s *Service) testCalendarAccess(ctx context.Context, token *oauth2.Token) (*models.CalendarTestResult, error) {
	svc, err := calendar.NewService(ctx,
		option.WithTokenSource(oauth2.StaticTokenSource(token)),
		option.WithEndpoint(s.cfg.CalendarURL),
	)
	if err != nil {
		return nil, err
	}

	list, err := svc.CalendarList.List().MaxResults(1).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(list)
	if err != nil {
		raw = nil
	}
	if len(raw) > 1024 {
		raw = raw[:1024]
	}

	return &models.CalendarTestResult{
		CalendarCount: len(list.Items),
		ResponseText:  string(raw),
	}, nil
}

func redirectError(w http.ResponseWriter, r *http.Request, appRedirect, message string) {
	target, err := url.Parse(appRedirect)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "appRedirect is not a valid URL")
		return
	}
	q := target.Query()
	q.Set("status", "error")
	q.Set("error", message)
	target.RawQuery = q.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	return "http"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
