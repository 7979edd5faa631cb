package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/directory-client/internal/auth"
	"github.com/spec-kit/directory-client/internal/domain"
	"github.com/spec-kit/directory-client/internal/events"
	"github.com/spec-kit/directory-client/internal/persistence"
)

func credentialFor(t *testing.T, id domain.UserID, role domain.Role) string {
	t.Helper()
	credential, err := auth.IssueCredential("test-secret", domain.Identity{ID: id, Role: role}, 0)
	require.NoError(t, err)
	return credential
}

func rawCredential(payload string) string {
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) subscribe(d events.Dispatcher) {
	for _, et := range []events.EventType{events.EventSessionEstablished, events.EventSessionCleared, events.EventCredentialDiscarded} {
		d.Subscribe(et, func(_ context.Context, e events.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, e)
			return nil
		})
	}
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestManager(store persistence.Store) (*Manager, *recorder) {
	rec := &recorder{}
	dispatcher := events.NewInMemoryDispatcher()
	rec.subscribe(dispatcher)
	return NewManager(Options{Store: store, Dispatcher: dispatcher}), rec
}

func storedCredential(t *testing.T, store persistence.Store) (string, bool) {
	t.Helper()
	val, err := store.Get(context.Background(), DefaultTokenKey)
	if errors.Is(err, persistence.ErrNotFound) {
		return "", false
	}
	require.NoError(t, err)
	return val, true
}

func TestLogin_AdminScenario(t *testing.T) {
	store := persistence.NewMemory()
	mgr, rec := newTestManager(store)

	snap := mgr.Login(context.Background(), rawCredential(`{"user_id":42,"user_type":"admin"}`))
	require.True(t, snap.Authenticated())

	assert.True(t, mgr.HasRole(domain.RoleAdmin))
	assert.True(t, mgr.IsAdmin())
	assert.False(t, mgr.HasRole(domain.RoleConsumer))
	assert.False(t, mgr.IsAdvertiser())

	identity, ok := mgr.Identity()
	require.True(t, ok)
	id, ok := identity.ID.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, persisted := storedCredential(t, store)
	assert.True(t, persisted)
	assert.Equal(t, []events.EventType{events.EventSessionEstablished}, rec.types())
}

func TestLogin_IdentityMatchesPayload(t *testing.T) {
	cases := []struct {
		id   domain.UserID
		role domain.Role
	}{
		{"1", domain.RoleConsumer},
		{"0", domain.RoleAdmin},
		{"987654321", domain.RoleAdvertiser},
		{"user-x", domain.RoleConsumer},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s/%s", tc.id, tc.role), func(t *testing.T) {
			mgr, _ := newTestManager(persistence.NewMemory())
			mgr.Login(context.Background(), credentialFor(t, tc.id, tc.role))

			identity, ok := mgr.Identity()
			require.True(t, ok)
			assert.Equal(t, tc.id, identity.ID)
			assert.Equal(t, tc.role, identity.Role)
			assert.True(t, mgr.HasRole(tc.role))
		})
	}
}

var malformedCredentials = map[string]string{
	"not-a-jwt":       "not-a-jwt",
	"segment count":   "a.b",
	"bad encoding":    "a.%%%.c",
	"invalid json":    rawCredential(`{user_id:1`),
	"missing user_id": rawCredential(`{"user_type":"consumer"}`),
	"missing role":    rawCredential(`{"user_id":5}`),
}

func TestLogin_MalformedCredentialLeavesAnonymousAndClearsStore(t *testing.T) {
	for name, credential := range malformedCredentials {
		t.Run(name, func(t *testing.T) {
			store := persistence.NewMemory()
			mgr, rec := newTestManager(store)
			mgr.Login(context.Background(), credentialFor(t, "3", domain.RoleConsumer))

			snap := mgr.Login(context.Background(), credential)

			assert.False(t, snap.Authenticated())
			assert.False(t, mgr.Authenticated())
			_, ok := mgr.Credential()
			assert.False(t, ok)
			_, persisted := storedCredential(t, store)
			assert.False(t, persisted)
			assert.Equal(t, []events.EventType{events.EventSessionEstablished, events.EventCredentialDiscarded}, rec.types())
		})
	}
}

func TestHydrate_MalformedCredentialIsDiscarded(t *testing.T) {
	for name, credential := range malformedCredentials {
		t.Run(name, func(t *testing.T) {
			store := persistence.NewMemory()
			require.NoError(t, store.Set(context.Background(), DefaultTokenKey, credential))
			mgr, rec := newTestManager(store)

			snap := mgr.Hydrate(context.Background())

			assert.False(t, snap.Authenticated())
			assert.False(t, mgr.HasRole(domain.RoleAdmin))
			_, persisted := storedCredential(t, store)
			assert.False(t, persisted)
			assert.Equal(t, []events.EventType{events.EventCredentialDiscarded}, rec.types())
		})
	}
}

func TestHydrate_EmptyStoreStaysAnonymous(t *testing.T) {
	mgr, rec := newTestManager(persistence.NewMemory())

	snap := mgr.Hydrate(context.Background())
	assert.False(t, snap.Authenticated())
	assert.Empty(t, rec.types())
}

func TestHydrate_ReproducesLoginAfterRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	credential := credentialFor(t, "42", domain.RoleAdvertiser)

	first, err := persistence.OpenBolt(path, "")
	require.NoError(t, err)
	before := NewManager(Options{Store: first}).Login(context.Background(), credential)
	require.NoError(t, first.Close())

	second, err := persistence.OpenBolt(path, "")
	require.NoError(t, err)
	defer second.Close()
	after := NewManager(Options{Store: second}).Hydrate(context.Background())

	require.True(t, after.Authenticated())
	assert.Equal(t, before.Credential, after.Credential)
	assert.Equal(t, *before.Identity, *after.Identity)
}

func TestLogin_TrimsCredential(t *testing.T) {
	store := persistence.NewMemory()
	mgr, _ := newTestManager(store)
	credential := credentialFor(t, "5", domain.RoleConsumer)

	snap := mgr.Login(context.Background(), "  "+credential+"\n")
	require.True(t, snap.Authenticated())
	assert.Equal(t, credential, snap.Credential)

	served, ok := mgr.Credential()
	require.True(t, ok)
	assert.Equal(t, credential, served)

	stored, ok := storedCredential(t, store)
	require.True(t, ok)
	assert.Equal(t, credential, stored)
}

func TestHydrate_TrimsStoredCredential(t *testing.T) {
	store := persistence.NewMemory()
	credential := credentialFor(t, "5", domain.RoleConsumer)
	require.NoError(t, store.Set(context.Background(), DefaultTokenKey, credential+"\n"))

	snap := NewManager(Options{Store: store}).Hydrate(context.Background())
	require.True(t, snap.Authenticated())
	assert.Equal(t, credential, snap.Credential)
}

func TestLogin_UppercaseRoleIsNotAdmin(t *testing.T) {
	store := persistence.NewMemory()
	mgr, rec := newTestManager(store)

	snap := mgr.Login(context.Background(), rawCredential(`{"user_id":42,"user_type":"ADMIN"}`))
	assert.False(t, snap.Authenticated())
	assert.False(t, mgr.HasRole(domain.RoleAdmin))
	assert.Contains(t, rec.types(), events.EventCredentialDiscarded)
}

func TestLogin_UnreadableExpiryKeepsSession(t *testing.T) {
	store := persistence.NewMemory()
	mgr, _ := newTestManager(store)
	credential := rawCredential(`{"user_id":42,"user_type":"admin","exp":"soon"}`)

	snap := mgr.Login(context.Background(), credential)
	require.True(t, snap.Authenticated())
	assert.True(t, mgr.HasRole(domain.RoleAdmin))
	assert.Nil(t, snap.Identity.ExpiresAt)

	stored, ok := storedCredential(t, store)
	require.True(t, ok)
	assert.Equal(t, credential, stored)
}

func TestLogout_IsIdempotent(t *testing.T) {
	store := persistence.NewMemory()
	mgr, rec := newTestManager(store)
	mgr.Login(context.Background(), credentialFor(t, "9", domain.RoleConsumer))

	mgr.Logout(context.Background())
	once := mgr.Snapshot()
	mgr.Logout(context.Background())
	twice := mgr.Snapshot()

	assert.Equal(t, once, twice)
	assert.False(t, twice.Authenticated())
	_, persisted := storedCredential(t, store)
	assert.False(t, persisted)
	assert.Equal(t, []events.EventType{events.EventSessionEstablished, events.EventSessionCleared}, rec.types())
}

func TestHasRole_FalseWhenAnonymous(t *testing.T) {
	mgr, _ := newTestManager(persistence.NewMemory())
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleAdvertiser, domain.RoleConsumer} {
		assert.False(t, mgr.HasRole(role))
	}
	assert.False(t, Snapshot{}.HasRole(domain.RoleAdmin))
}

func TestExpireSession_PublishesUnauthorizedSource(t *testing.T) {
	mgr, rec := newTestManager(persistence.NewMemory())
	mgr.Login(context.Background(), credentialFor(t, "1", domain.RoleAdmin))

	mgr.ExpireSession(context.Background())

	assert.False(t, mgr.Authenticated())
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.events, 2)
	assert.Equal(t, events.SourceUnauthorized, rec.events[1].Source)
}

func TestSnapshot_IsACopy(t *testing.T) {
	mgr, _ := newTestManager(persistence.NewMemory())
	mgr.Login(context.Background(), credentialFor(t, "1", domain.RoleConsumer))

	snap := mgr.Snapshot()
	snap.Identity.Role = domain.RoleAdmin

	assert.False(t, mgr.IsAdmin())
}

type failingStore struct {
	*persistence.Memory
	getErr error
	setErr error
}

func (f *failingStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.Memory.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Memory.Set(ctx, key, value)
}

func TestHydrate_StoreFailureMeansAnonymous(t *testing.T) {
	store := &failingStore{Memory: persistence.NewMemory(), getErr: errors.New("disk gone")}
	mgr, rec := newTestManager(store)

	snap := mgr.Hydrate(context.Background())
	assert.False(t, snap.Authenticated())
	assert.Empty(t, rec.types())
}

func TestLogin_StoreWriteFailureKeepsInMemorySession(t *testing.T) {
	store := &failingStore{Memory: persistence.NewMemory(), setErr: errors.New("read-only")}
	mgr, _ := newTestManager(store)

	snap := mgr.Login(context.Background(), credentialFor(t, "5", domain.RoleConsumer))
	assert.True(t, snap.Authenticated())
	assert.True(t, mgr.IsConsumer())
}

func TestManager_ConcurrentReadersSeeWholeStates(t *testing.T) {
	mgr, _ := newTestManager(persistence.NewMemory())
	admin := credentialFor(t, "1", domain.RoleAdmin)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := mgr.Snapshot()
				if snap.Identity != nil {
					assert.Equal(t, admin, snap.Credential)
				} else {
					assert.Empty(t, snap.Credential)
				}
			}
		}()
	}
	for j := 0; j < 50; j++ {
		mgr.Login(context.Background(), admin)
		mgr.Logout(context.Background())
	}
	wg.Wait()
}
