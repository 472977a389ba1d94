package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"folio/internal/database"
	"folio/internal/errcode"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestGormStoreRoundTrip(t *testing.T) {
	s := NewGormStore(newTestDB(t), "device-1", 0)
	ctx := context.Background()

	_, err := s.Get(ctx, "main")
	assert.ErrorIs(t, err, errcode.ErrProfileNotFound)

	require.NoError(t, s.Put(ctx, "main", []byte(`{"version":1,"data":{}}`)))
	require.NoError(t, s.Put(ctx, "alt", []byte(`{"version":1,"data":{"a":1}}`)))
	require.NoError(t, s.Put(ctx, "main", []byte(`{"version":1,"data":{"b":2}}`)))

	got, err := s.Get(ctx, "main")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"data":{"b":2}}`, string(got))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alt", "main"}, keys)
}

func TestGormStoreScopedByOwner(t *testing.T) {
	s := NewGormStore(newTestDB(t), "device-1", 0)
	other := s.Scoped("device-2")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "main", []byte(`{}`)))

	_, err := other.Get(ctx, "main")
	assert.ErrorIs(t, err, errcode.ErrProfileNotFound)
	keys, err := other.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestGormStoreDelete(t *testing.T) {
	s := NewGormStore(newTestDB(t), "device-1", 0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "main", []byte(`{}`)))
	require.NoError(t, s.Delete(ctx, "main"))
	_, err := s.Get(ctx, "main")
	assert.ErrorIs(t, err, errcode.ErrProfileNotFound)
}

func TestGormStoreLimits(t *testing.T) {
	s := NewGormStore(newTestDB(t), "device-1", 8)
	ctx := context.Background()

	assert.ErrorIs(t, s.Put(ctx, "main", []byte(`{"too":"large"}`)), errcode.ErrStorageQuota)
	assert.ErrorIs(t, s.Put(ctx, "bad*name", []byte(`{}`)), errcode.ErrMalformedEntry)
}
