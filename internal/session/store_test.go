package session

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thongnus/TrainTicket-sub000/internal/models"
)

const chromeOnWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func testStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := NewStore(ttl, logger)
	t.Cleanup(store.Close)
	return store
}

func TestStore_CreateAndGet(t *testing.T) {
	store := testStore(t, time.Hour)

	sess := store.Create()
	require.NotNil(t, sess)
	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.Equal(t, 1, store.Count())

	got := store.Get(sess.ID)
	assert.Same(t, sess, got)
}

func TestStore_UnknownIDReturnsNil(t *testing.T) {
	store := testStore(t, time.Hour)
	assert.Nil(t, store.Get(uuid.New()))
}

func TestStore_ExpiredSessionIsDropped(t *testing.T) {
	store := testStore(t, 50*time.Millisecond)
	sess := store.Create()

	sess.lastSeen = time.Now().Add(-time.Second)
	assert.Nil(t, store.Get(sess.ID))
	assert.Equal(t, 0, store.Count())
}

func TestStore_GetTouchesLastSeen(t *testing.T) {
	store := testStore(t, 100*time.Millisecond)
	sess := store.Create()

	sess.lastSeen = time.Now().Add(-80 * time.Millisecond)
	require.NotNil(t, store.Get(sess.ID))

	// The touch reset the idle clock: the session survives past the point
	// the original lastSeen would have expired it.
	sess2 := store.Get(sess.ID)
	assert.Same(t, sess, sess2)
}

func TestStore_Delete(t *testing.T) {
	store := testStore(t, time.Hour)
	sess := store.Create()

	store.Delete(sess.ID)
	assert.Nil(t, store.Get(sess.ID))
	assert.Equal(t, 0, store.Count())
}

func TestStore_EvictExpired(t *testing.T) {
	store := testStore(t, time.Minute)
	stale := store.Create()
	fresh := store.Create()

	stale.lastSeen = time.Now().Add(-2 * time.Minute)
	store.evictExpired()

	assert.Equal(t, 1, store.Count())
	assert.Nil(t, store.Get(stale.ID))
	assert.NotNil(t, store.Get(fresh.ID))
}

func TestSession_HydrateAndClear(t *testing.T) {
	store := testStore(t, time.Hour)
	sess := store.Create()
	sess.Lock()
	defer sess.Unlock()

	assert.False(t, sess.LoggedIn())

	sess.Hydrate(&models.AuthResult{
		TokenPair: models.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"},
		User:      models.User{ID: 9, Email: "an@example.com"},
	}, chromeOnWindows)

	assert.True(t, sess.LoggedIn())
	assert.Equal(t, "access-1", sess.Tokens().AccessToken)
	require.NotNil(t, sess.User())
	assert.Equal(t, int64(9), sess.User().ID)
	assert.Contains(t, sess.Device(), "Chrome")
	assert.Contains(t, sess.Device(), "Windows")

	sess.ClearAuth()
	assert.False(t, sess.LoggedIn())
	assert.Nil(t, sess.User())
	assert.Equal(t, "", sess.Device())
	assert.Nil(t, sess.Results)
	assert.Nil(t, sess.Checkout)
}

func TestSession_UpdateTokensRotatesPair(t *testing.T) {
	store := testStore(t, time.Hour)
	sess := store.Create()
	sess.Lock()
	defer sess.Unlock()

	sess.Hydrate(&models.AuthResult{
		TokenPair: models.TokenPair{AccessToken: "old", RefreshToken: "old-r"},
	}, "")

	sess.UpdateTokens(models.TokenPair{AccessToken: "new", RefreshToken: "new-r"})
	assert.Equal(t, "new", sess.Tokens().AccessToken)
	assert.Equal(t, "new-r", sess.Tokens().RefreshToken)
}

func TestDescribeDevice(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"empty header", "", "unknown device"},
		{"garbage header", "definitely-not-a-browser", "unknown device"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeDevice(tt.userAgent))
		})
	}
}
