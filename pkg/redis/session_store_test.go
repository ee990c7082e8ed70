package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0000000000000000000000000000000000000000000000000000000000000000"

func TestNewSessionStoreValidation(t *testing.T) {
	_, err := NewSessionStore("zz")
	assert.Error(t, err)

	_, err = NewSessionStore("0011")
	assert.Error(t, err)

	store, err := NewSessionStore(testKey)
	assert.NoError(t, err)
	assert.NotNil(t, store)
}

func TestSessionStoreEncryptDecrypt(t *testing.T) {
	store, err := NewSessionStore(testKey)
	require.NoError(t, err)

	enc, err := store.encrypt([]byte(`{"x":1}`))
	require.NoError(t, err)

	dec, err := store.decrypt(enc)
	require.NoError(t, err)
	assert.Contains(t, string(dec), `"x":1`)

	_, err = store.decrypt("00")
	assert.Error(t, err)

	_, err = store.decrypt("zz-not-hex")
	assert.Error(t, err)
}

func TestSessionStoreInvalidKeyMaterial(t *testing.T) {
	store := &SessionStore{encryptionKey: []byte("short-key")}
	_, err := store.encrypt([]byte("x"))
	assert.Error(t, err)

	_, err = store.decrypt("00")
	assert.Error(t, err)
}

func useTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv := miniredis.RunT(t)
	prev := GetClient()
	c := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	SetClient(c)
	t.Cleanup(func() {
		SetClient(prev)
		_ = c.Close()
	})
	return srv
}

func TestSessionStoreSaveConsumeRevoke(t *testing.T) {
	srv := useTestRedis(t)

	store, err := NewSessionStore(testKey)
	require.NoError(t, err)
	ctx := context.Background()

	userID := uuid.New()
	issued := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Save(ctx, "tok-1", &RefreshSession{UserID: userID, IssuedAt: issued}, time.Minute))

	raw, err := srv.Get("refresh:tok-1")
	require.NoError(t, err)
	assert.NotContains(t, raw, userID.String(), "payload must be encrypted at rest")

	got, err := store.Consume(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.True(t, issued.Equal(got.IssuedAt))
	assert.False(t, srv.Exists("refresh:tok-1"))

	_, err = store.Consume(ctx, "tok-1")
	assert.True(t, IsNil(err), "a consumed session cannot be redeemed again")

	require.NoError(t, store.Save(ctx, "tok-2", &RefreshSession{UserID: userID}, time.Minute))
	require.NoError(t, store.Revoke(ctx, "tok-2"))
	_, err = store.Consume(ctx, "tok-2")
	assert.True(t, IsNil(err))

	require.NoError(t, store.Save(ctx, "tok-3", &RefreshSession{UserID: userID}, time.Minute))
	srv.FastForward(2 * time.Minute)
	_, err = store.Consume(ctx, "tok-3")
	assert.True(t, IsNil(err))
}

func TestSessionStoreConsumeConcurrentOnlyOneWins(t *testing.T) {
	useTestRedis(t)

	store, err := NewSessionStore(testKey)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "tok-race", &RefreshSession{UserID: uuid.New()}, time.Minute))

	const workers = 8
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		wins  atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := store.Consume(ctx, "tok-race"); err == nil {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestSessionStoreConsumeCorruptPayload(t *testing.T) {
	srv := useTestRedis(t)

	store, err := NewSessionStore(testKey)
	require.NoError(t, err)
	require.NoError(t, srv.Set("refresh:bad", "not-hex"))

	_, err = store.Consume(context.Background(), "bad")
	assert.Error(t, err)
}
