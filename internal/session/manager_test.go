package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sekolahapps/kebiasaan/internal/session"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
	"github.com/stretchr/testify/assert"
)

var (
	subjectID   = uuid.New()
	testProfile = entity.Profile{
		ID:    subjectID,
		Name:  "Test Siswa",
		Role:  entity.RoleSiswa,
		Email: "siswa@sekolah.id",
	}
)

type profileSourceMock struct {
	fail  bool
	calls int
}

func (m *profileSourceMock) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	m.calls++
	if m.fail {
		return nil, errors.New("db error")
	}
	p := testProfile
	p.ID = id
	return &p, nil
}

type revocationMock struct {
	fail    bool
	revoked map[string]time.Time
}

func newRevocationMock() *revocationMock {
	return &revocationMock{revoked: make(map[string]time.Time)}
}

func (m *revocationMock) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if m.fail {
		return errors.New("store error")
	}
	m.revoked[tokenID] = until
	return nil
}

func (m *revocationMock) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if m.fail {
		return false, errors.New("store error")
	}
	_, ok := m.revoked[tokenID]
	return ok, nil
}

type pingerMock struct {
	fail bool
}

func (m *pingerMock) Ping(ctx context.Context) error {
	if m.fail {
		return errors.New("connection refused")
	}
	return nil
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	t.Run("placeholder config ends unconfigured without pinging", func(t *testing.T) {
		pinger := &pingerMock{fail: true}
		m := session.New(&profileSourceMock{}, nil, nil, pinger)
		state := m.Initialize(ctx, []string{"JWT_SECRET"})
		// would be errored if the ping had run
		assert.Equal(t, session.StateUnconfigured, state)
		assert.Equal(t, session.StateUnconfigured, m.State())
	})
	t.Run("failing store ends errored", func(t *testing.T) {
		m := session.New(&profileSourceMock{}, nil, nil, &pingerMock{fail: true})
		assert.Equal(t, session.StateErrored, m.Initialize(ctx, nil))
	})
	t.Run("healthy store ends ready", func(t *testing.T) {
		m := session.New(&profileSourceMock{}, nil, nil, &pingerMock{})
		assert.Equal(t, session.StateReady, m.Initialize(ctx, nil))
	})
	t.Run("nil store ends ready", func(t *testing.T) {
		m := session.New(&profileSourceMock{}, nil, nil, nil)
		assert.Equal(t, session.StateReady, m.Initialize(ctx, nil))
	})
	t.Run("terminal states never move again", func(t *testing.T) {
		m := session.New(&profileSourceMock{}, nil, nil, &pingerMock{fail: true})
		assert.Equal(t, session.StateErrored, m.Initialize(ctx, nil))
		// store recovered, state must not
		assert.Equal(t, session.StateErrored, m.Initialize(ctx, nil))
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	t.Run("resolved profile is returned and cached", func(t *testing.T) {
		source := &profileSourceMock{}
		m := session.New(source, nil, nil, nil)
		profile := m.Resolve(ctx, subjectID)
		assert.NotNil(t, profile)
		assert.Equal(t, subjectID, profile.ID)
		cached, ok := m.LastKnown(ctx, subjectID)
		assert.True(t, ok)
		assert.Equal(t, *profile, *cached)
	})
	t.Run("lookup failure yields anonymous, not an error", func(t *testing.T) {
		source := &profileSourceMock{fail: true}
		m := session.New(source, nil, nil, nil)
		assert.Nil(t, m.Resolve(ctx, subjectID))
		_, ok := m.LastKnown(ctx, subjectID)
		assert.False(t, ok)
	})
	t.Run("resolving twice asks the source twice, cache is advisory", func(t *testing.T) {
		source := &profileSourceMock{}
		m := session.New(source, nil, nil, nil)
		m.Resolve(ctx, subjectID)
		m.Resolve(ctx, subjectID)
		assert.Equal(t, 2, source.calls)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	tokenID := uuid.NewString()
	expiry := time.Now().Add(time.Hour)
	t.Run("projection cleared and token revoked", func(t *testing.T) {
		revoked := newRevocationMock()
		m := session.New(&profileSourceMock{}, nil, revoked, nil)
		m.Resolve(ctx, subjectID)
		m.Logout(ctx, subjectID, tokenID, expiry)
		_, ok := m.LastKnown(ctx, subjectID)
		assert.False(t, ok)
		assert.True(t, m.IsRevoked(ctx, tokenID))
	})
	t.Run("projection cleared even when the revocation write fails", func(t *testing.T) {
		revoked := newRevocationMock()
		revoked.fail = true
		m := session.New(&profileSourceMock{}, nil, revoked, nil)
		m.Resolve(ctx, subjectID)
		m.Logout(ctx, subjectID, tokenID, expiry)
		_, ok := m.LastKnown(ctx, subjectID)
		assert.False(t, ok)
	})
	t.Run("store errors keep tokens live", func(t *testing.T) {
		revoked := newRevocationMock()
		m := session.New(&profileSourceMock{}, nil, revoked, nil)
		m.Logout(ctx, subjectID, tokenID, expiry)
		revoked.fail = true
		assert.False(t, m.IsRevoked(ctx, tokenID))
	})
}

func TestMemoryRevocationStore(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryRevocationStore()
	tokenID := uuid.NewString()
	t.Run("expired revocations fall away", func(t *testing.T) {
		err := store.Revoke(ctx, tokenID, time.Now().Add(-time.Minute))
		assert.NoError(t, err)
		revoked, err := store.IsRevoked(ctx, tokenID)
		assert.NoError(t, err)
		assert.False(t, revoked)
	})
	t.Run("live revocations hold", func(t *testing.T) {
		err := store.Revoke(ctx, tokenID, time.Now().Add(time.Hour))
		assert.NoError(t, err)
		revoked, err := store.IsRevoked(ctx, tokenID)
		assert.NoError(t, err)
		assert.True(t, revoked)
	})
}
