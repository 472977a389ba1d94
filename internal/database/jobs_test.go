package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"folio/internal/errcode"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestPrintJobsLifecycle(t *testing.T) {
	jobs := NewPrintJobs(newTestDB(t))
	ctx := context.Background()

	job := &PrintJob{CorrelationID: "c-1", SessionID: "s-1", ThemeID: "modern", Mode: "resume"}
	require.NoError(t, jobs.CreateJob(ctx, job))
	assert.Equal(t, PrintPending, job.Status)

	got, err := jobs.FindJob(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", got.SessionID)
	assert.Empty(t, got.ObjectKey)

	require.NoError(t, jobs.FinishJob(ctx, "c-1", "exports/s-1/a.pdf", PrintCompleted, ""))
	got, err = jobs.FindJob(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, PrintCompleted, got.Status)
	assert.Equal(t, "exports/s-1/a.pdf", got.ObjectKey)
}

func TestPrintJobsFailureKeepsObjectKey(t *testing.T) {
	jobs := NewPrintJobs(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, jobs.CreateJob(ctx, &PrintJob{CorrelationID: "c-2", SessionID: "s-1"}))
	require.NoError(t, jobs.FinishJob(ctx, "c-2", "", PrintFailed, "browser crashed"))

	got, err := jobs.FindJob(ctx, "c-2")
	require.NoError(t, err)
	assert.Equal(t, PrintFailed, got.Status)
	assert.Equal(t, "browser crashed", got.Error)
	assert.Empty(t, got.ObjectKey)
}

func TestPrintJobsDuplicateCorrelation(t *testing.T) {
	jobs := NewPrintJobs(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, jobs.CreateJob(ctx, &PrintJob{CorrelationID: "dup"}))
	assert.Error(t, jobs.CreateJob(ctx, &PrintJob{CorrelationID: "dup"}))
}

func TestFindJobMissing(t *testing.T) {
	jobs := NewPrintJobs(newTestDB(t))

	_, err := jobs.FindJob(context.Background(), "nope")
	assert.ErrorIs(t, err, errcode.ErrResourceMissing)
}
