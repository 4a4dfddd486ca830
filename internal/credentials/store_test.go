package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalyst-admin/catalyst-admin/internal/apiclient"
	"github.com/catalyst-admin/catalyst-admin/internal/shared"
)

type stubPoster struct {
	calls   atomic.Int32
	release chan struct{}
	paths   []string
	bodies  []any
	mu      sync.Mutex
	resp    json.RawMessage
	err     error
	// honorCancel fails the call when ctx is done by the time it is released.
	honorCancel bool
}

func (p *stubPoster) PostAnonymous(ctx context.Context, path string, body any) (json.RawMessage, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.paths = append(p.paths, path)
	p.bodies = append(p.bodies, body)
	p.mu.Unlock()
	if p.release != nil {
		<-p.release
	}
	if p.honorCancel && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return p.resp, p.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signedIn(t *testing.T) *shared.Session {
	t.Helper()
	sess := &shared.Session{ID: "s"}
	sess.Set(SlotAccess, "a1")
	sess.Set(SlotRefresh, "r1")
	sess.Set(SlotUser, `{"id":7,"username":"ana","role":"gerente"}`)
	return sess
}

func TestLoadReadsSlots(t *testing.T) {
	svc := NewService(&stubPoster{}, quietLogger())
	sess := signedIn(t)
	sess.Set(SlotCSRF, "c1")

	store := svc.Open(sess)
	got := store.Session()
	assert.Equal(t, "a1", got.AccessToken)
	assert.Equal(t, "r1", got.RefreshToken)
	assert.Equal(t, RoleGerente, got.User.Role)
	assert.Equal(t, "c1", store.CSRFToken())
	assert.True(t, store.Authenticated())
	assert.False(t, store.Expired())
}

func TestLoadToleratesCorruptProfile(t *testing.T) {
	sess := signedIn(t)
	sess.Set(SlotUser, "{not json")
	store := NewService(&stubPoster{}, quietLogger()).Open(sess)
	assert.Equal(t, User{}, store.User())
	assert.True(t, store.Authenticated())
}

func TestRefreshReplacesOnlyAccessToken(t *testing.T) {
	api := &stubPoster{resp: json.RawMessage(`{"access":"a2"}`)}
	sess := signedIn(t)
	store := NewService(api, quietLogger()).Open(sess)

	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, "a2", store.AccessToken())
	assert.Equal(t, "a2", sess.Get(SlotAccess))
	assert.Equal(t, "r1", sess.Get(SlotRefresh))
	assert.Equal(t, []string{RefreshPath}, api.paths)
	assert.Equal(t, map[string]string{"refresh": "r1"}, api.bodies[0])
}

func TestRefreshFailureClearsEverything(t *testing.T) {
	cases := map[string]*stubPoster{
		"status":    {err: &apiclient.HTTPError{StatusCode: 401, Body: json.RawMessage(`{}`)}},
		"transport": {err: apiclient.ErrTransport},
		"no access": {resp: json.RawMessage(`{}`)},
	}
	for name, api := range cases {
		t.Run(name, func(t *testing.T) {
			sess := signedIn(t)
			sess.Set(SlotCSRF, "c1")
			store := NewService(api, quietLogger()).Open(sess)

			err := store.Refresh(context.Background())
			assert.ErrorIs(t, err, ErrSessionExpired)
			assert.True(t, store.Expired())
			assert.False(t, store.Authenticated())
			for _, slot := range []string{SlotAccess, SlotRefresh, SlotUser, SlotCSRF} {
				assert.Empty(t, sess.Get(slot), slot)
			}
			assert.EqualValues(t, 1, api.calls.Load())
		})
	}
}

func TestRefreshWithoutRefreshTokenExpiresImmediately(t *testing.T) {
	api := &stubPoster{}
	store := NewService(api, quietLogger()).Open(&shared.Session{})
	assert.ErrorIs(t, store.Refresh(context.Background()), ErrSessionExpired)
	assert.Zero(t, api.calls.Load())
}

func TestConcurrentRefreshesCollapse(t *testing.T) {
	api := &stubPoster{resp: json.RawMessage(`{"access":"a2"}`), release: make(chan struct{})}
	svc := NewService(api, quietLogger())

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	start := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Open(signedIn(t)).Refresh(context.Background())
		}()
	}
	start()
	require.Eventually(t, func() bool { return api.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	for i := 0; i < 3; i++ {
		start()
	}
	time.Sleep(50 * time.Millisecond)
	close(api.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 1, api.calls.Load())
}

func TestSharedRefreshSurvivesCancelledLeader(t *testing.T) {
	api := &stubPoster{resp: json.RawMessage(`{"access":"a2"}`), release: make(chan struct{}), honorCancel: true}
	svc := NewService(api, quietLogger())

	leaderCtx, cancel := context.WithCancel(context.Background())
	leader := svc.Open(signedIn(t))
	follower := svc.Open(signedIn(t))
	leaderErr := make(chan error, 1)
	followerErr := make(chan error, 1)

	go func() { leaderErr <- leader.Refresh(leaderCtx) }()
	require.Eventually(t, func() bool { return api.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	go func() { followerErr <- follower.Refresh(context.Background()) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	close(api.release)

	require.NoError(t, <-followerErr)
	require.NoError(t, <-leaderErr)
	assert.Equal(t, "a2", follower.AccessToken())
	assert.False(t, follower.Expired())
	assert.EqualValues(t, 1, api.calls.Load())
}

func TestLoginStoresTokensAndProfile(t *testing.T) {
	api := &stubPoster{resp: json.RawMessage(`{"access":"a","refresh":"r","user":{"id":1,"username":"root","role":"super_admin","first_name":"Ro","last_name":"Ot"}}`)}
	svc := NewService(api, quietLogger())
	sess := &shared.Session{}
	store := svc.Open(sess)

	resp, err := svc.Login(context.Background(), store, "root", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "r", resp.Refresh)
	assert.Equal(t, []string{LoginPath}, api.paths)
	assert.Equal(t, "a", sess.Get(SlotAccess))
	assert.Equal(t, "r", sess.Get(SlotRefresh))
	assert.Equal(t, RoleSuperAdmin, store.User().Role)
	assert.Equal(t, "Ro Ot", store.User().DisplayName())

	reloaded := svc.Open(sess)
	assert.Equal(t, int64(1), reloaded.User().ID)
}

func TestLoginRejected(t *testing.T) {
	api := &stubPoster{err: &apiclient.HTTPError{StatusCode: 401, Body: json.RawMessage(`{"error":"Credenciales inválidas"}`)}}
	svc := NewService(api, quietLogger())
	sess := &shared.Session{}

	_, err := svc.Login(context.Background(), svc.Open(sess), "x", "y")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	var httpErr *apiclient.HTTPError
	assert.True(t, errors.As(err, &httpErr))
	assert.Empty(t, sess.Get(SlotAccess))
}

func TestLogoutClearsWithoutCallingTheAPI(t *testing.T) {
	api := &stubPoster{}
	svc := NewService(api, quietLogger())
	sess := signedIn(t)
	store := svc.Open(sess)

	svc.Logout(store)
	assert.False(t, store.Authenticated())
	assert.Empty(t, sess.Get(SlotUser))
	assert.Zero(t, api.calls.Load())
}

func TestRoleHelpers(t *testing.T) {
	assert.Equal(t, "Gerente", RoleGerente.Label())
	assert.Equal(t, "ana", User{Username: "ana"}.DisplayName())
}
