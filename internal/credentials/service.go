package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/catalyst-admin/catalyst-admin/internal/apiclient"
	"github.com/catalyst-admin/catalyst-admin/internal/shared"
)

// LoginPath is the API endpoint that exchanges a password for tokens.
const LoginPath = "/users/login/"

// LoginResponse is the payload returned by a successful login.
type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

// Service opens Stores and performs login and logout. It is shared by every
// request so concurrent refreshes of one token collapse into a single call.
type Service struct {
	api    Poster
	group  singleflight.Group
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(api Poster, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, logger: logger}
}

// Open builds a Store over slots.
func (s *Service) Open(slots Slots) *Store {
	return newStore(slots, s.api, &s.group, s.logger)
}

// Login authenticates and stores the resulting tokens and profile.
func (s *Service) Login(ctx context.Context, store *Store, username, password string) (LoginResponse, error) {
	raw, err := s.api.PostAnonymous(ctx, LoginPath, map[string]string{"username": username, "password": password})
	if err != nil {
		var httpErr *apiclient.HTTPError
		if errors.As(err, &httpErr) && (httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusBadRequest) {
			return LoginResponse{}, fmt.Errorf("credentials: login: %w: %w", shared.ErrInvalidCredentials, err)
		}
		return LoginResponse{}, fmt.Errorf("credentials: login: %w", err)
	}
	var resp LoginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return LoginResponse{}, fmt.Errorf("credentials: decode login: %w", err)
	}
	if resp.Access == "" || resp.Refresh == "" {
		return LoginResponse{}, fmt.Errorf("credentials: login: %w", shared.ErrInvalidCredentials)
	}
	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("credentials: encode user: %w", err)
	}

	store.mu.Lock()
	store.expired = false
	store.session = Session{AccessToken: resp.Access, RefreshToken: resp.Refresh, User: resp.User}
	store.slots.Set(SlotAccess, resp.Access)
	store.slots.Set(SlotRefresh, resp.Refresh)
	store.slots.Set(SlotUser, string(userJSON))
	store.mu.Unlock()

	s.logger.Info("user signed in", slog.String("username", resp.User.Username), slog.String("role", string(resp.User.Role)))
	return resp, nil
}

// Logout clears every credential slot. No endpoint is called.
func (s *Service) Logout(store *Store) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.clearLocked()
}
