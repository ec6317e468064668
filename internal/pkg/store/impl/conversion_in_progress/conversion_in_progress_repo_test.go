package conversion_in_progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadconversion/internal/pkg/consts"
	"leadconversion/internal/pkg/store/repository"
)

const leadID = "00Q4C00000AhuQzUAJ"

func setupRepo(t *testing.T) (*ConversionInProgressRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewConversionInProgressRepository(repository.NewRedisStoreAdapter(client), time.Minute), server
}

func TestCreateEntry_OnlyOnce(t *testing.T) {
	repo, server := setupRepo(t)
	ctx := context.Background()

	created, err := repo.CreateEntry(ctx, leadID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, time.Minute, server.TTL(consts.ConversionInProgressKey(leadID)))

	created, err = repo.CreateEntry(ctx, leadID)
	require.NoError(t, err)
	assert.False(t, created)

	created, err = repo.CreateEntry(ctx, "00Q4C00000OtherUAJ")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestCreateEntry_AfterExpiry(t *testing.T) {
	repo, server := setupRepo(t)
	ctx := context.Background()

	_, err := repo.CreateEntry(ctx, leadID)
	require.NoError(t, err)
	server.FastForward(2 * time.Minute)

	created, err := repo.CreateEntry(ctx, leadID)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestDeleteEntry(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.CreateEntry(ctx, leadID)
	require.NoError(t, err)

	exists, err := repo.CheckEntryExists(ctx, leadID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.DeleteEntry(ctx, leadID))

	exists, err = repo.CheckEntryExists(ctx, leadID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_StoreErrors(t *testing.T) {
	repo, server := setupRepo(t)
	ctx := context.Background()
	server.SetError("READONLY You can't write against a read only replica.")

	created, err := repo.CreateEntry(ctx, leadID)
	assert.Error(t, err)
	assert.False(t, created)

	assert.Error(t, repo.DeleteEntry(ctx, leadID))

	_, err = repo.CheckEntryExists(ctx, leadID)
	assert.Error(t, err)
}

type failingStore struct{}

func (failingStore) SetNX(context.Context, string, interface{}, time.Duration) (bool, error) {
	return false, errors.New("down")
}
func (failingStore) Delete(context.Context, string) error { return errors.New("down") }
func (failingStore) Exists(context.Context, string) (bool, error) {
	return false, errors.New("down")
}
func (failingStore) TTL(context.Context, string) (time.Duration, error) {
	return 0, errors.New("down")
}

func TestRepository_WithFailingStore(t *testing.T) {
	repo := NewConversionInProgressRepository(failingStore{}, time.Minute)

	_, err := repo.CreateEntry(context.Background(), leadID)
	assert.EqualError(t, err, "down")
}

func TestRemainingTTL(t *testing.T) {
	repo, server := setupRepo(t)
	ctx := context.Background()

	ttl, err := repo.RemainingTTL(ctx, leadID)
	require.NoError(t, err)
	assert.Zero(t, ttl)

	_, err = repo.CreateEntry(ctx, leadID)
	require.NoError(t, err)
	server.FastForward(20 * time.Second)

	ttl, err = repo.RemainingTTL(ctx, leadID)
	require.NoError(t, err)
	assert.Equal(t, 40*time.Second, ttl)

	_, err = failingRepo().RemainingTTL(ctx, leadID)
	assert.EqualError(t, err, "down")
}

func failingRepo() *ConversionInProgressRepository {
	return NewConversionInProgressRepository(failingStore{}, time.Minute)
}
