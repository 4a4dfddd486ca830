// Package credentials keeps the API tokens and profile of the signed-in user
// in the panel session and renews the access token when the API rejects it.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Session slot names.
const (
	SlotAccess  = "access_token"
	SlotRefresh = "refresh_token"
	SlotUser    = "user"
	SlotCSRF    = "csrftoken"
)

// RefreshPath is the token renewal endpoint.
const RefreshPath = "/token/refresh/"

// ErrSessionExpired means the refresh token was rejected and the user must sign in again.
var ErrSessionExpired = errors.New("credentials: session expired")

// Slots is the persisted key/value storage behind a Store.
type Slots interface {
	Get(key string) string
	Set(key, value string)
	Delete(key string)
}

// Poster sends unauthenticated JSON posts to the API.
type Poster interface {
	PostAnonymous(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// Session is a snapshot of the signed-in identity.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         User
}

// Store exposes one user's credentials for the lifetime of a request.
type Store struct {
	slots  Slots
	api    Poster
	group  *singleflight.Group
	logger *slog.Logger

	mu      sync.Mutex
	session Session
	csrf    string
	expired bool
}

func newStore(slots Slots, api Poster, group *singleflight.Group, logger *slog.Logger) *Store {
	s := &Store{slots: slots, api: api, group: group, logger: logger}
	s.Load()
	return s
}

// Load reads the slots into memory. An unreadable profile is treated as absent.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{
		AccessToken:  s.slots.Get(SlotAccess),
		RefreshToken: s.slots.Get(SlotRefresh),
	}
	if raw := s.slots.Get(SlotUser); raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.session.User); err != nil {
			s.session.User = User{}
		}
	}
	s.csrf = s.slots.Get(SlotCSRF)
}

// Session returns the current snapshot.
func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// User returns the cached profile.
func (s *Store) User() User {
	return s.Session().User
}

// Authenticated reports whether an access token is held.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.AccessToken != ""
}

// Expired reports whether a refresh failed during this request.
func (s *Store) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired
}

// AccessToken implements apiclient.Credentials.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.AccessToken
}

// CSRFToken implements apiclient.Credentials.
func (s *Store) CSRFToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.csrf
}

// SetCSRFToken implements apiclient.Credentials.
func (s *Store) SetCSRFToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.csrf = token
	s.slots.Set(SlotCSRF, token)
}

type refreshResponse struct {
	Access string `json:"access"`
}

// Refresh exchanges the refresh token for a new access token. The refresh token
// itself is kept. Any failure clears the session and returns ErrSessionExpired;
// the caller must not retry.
func (s *Store) Refresh(ctx context.Context) error {
	refresh := s.Session().RefreshToken
	if refresh == "" {
		s.expire()
		return ErrSessionExpired
	}

	// The flight is shared by every request holding this refresh token, so it
	// must outlive the request that happened to start it.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(refresh, func() (any, error) {
		raw, err := s.api.PostAnonymous(flightCtx, RefreshPath, map[string]string{"refresh": refresh})
		if err != nil {
			return "", err
		}
		var resp refreshResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", err
		}
		if resp.Access == "" {
			return "", errors.New("refresh response carried no access token")
		}
		return resp.Access, nil
	})
	if err != nil {
		s.logger.Warn("token refresh failed", slog.Any("error", err))
		s.expire()
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	access := v.(string)
	s.mu.Lock()
	s.session.AccessToken = access
	s.slots.Set(SlotAccess, access)
	s.mu.Unlock()
	s.logger.Debug("access token refreshed", slog.Bool("shared", shared))
	return nil
}

func (s *Store) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = true
	s.clearLocked()
}

func (s *Store) clearLocked() {
	s.session = Session{}
	s.csrf = ""
	for _, key := range []string{SlotAccess, SlotRefresh, SlotUser, SlotCSRF} {
		s.slots.Delete(key)
	}
}
