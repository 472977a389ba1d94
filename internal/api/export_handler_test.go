package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/database"
	"folio/internal/errcode"
	"folio/internal/tasks"
)

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

type fakeJobs struct {
	jobs map[string]*database.PrintJob
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{jobs: map[string]*database.PrintJob{}}
}

func (f *fakeJobs) CreateJob(_ context.Context, job *database.PrintJob) error {
	if job.Status == "" {
		job.Status = database.PrintPending
	}
	f.jobs[job.CorrelationID] = job
	return nil
}

func (f *fakeJobs) FindJob(_ context.Context, correlationID string) (*database.PrintJob, error) {
	job, ok := f.jobs[correlationID]
	if !ok {
		return nil, errcode.Wrap(errcode.ErrResourceMissing, "print job %q", correlationID)
	}
	return job, nil
}

type fakeSigner struct {
	params map[string]string
}

func (s *fakeSigner) GeneratePresignedURLWithParams(_ context.Context, objectKey string, _ time.Duration, params map[string]string) (string, error) {
	s.params = params
	return "https://example.invalid/" + objectKey, nil
}

func withExports(queue taskEnqueuer, jobs printJobStore, signer linkSigner) envOption {
	return func(d *Deps) {
		d.Exports = NewExportHandler(queue, jobs, signer)
	}
}

func TestRequestPDF(t *testing.T) {
	queue := &fakeQueue{}
	jobs := newFakeJobs()
	env := newTestEnv(t, withExports(queue, jobs, &fakeSigner{}))
	token, sessionID := env.newSession(t, "device-1")

	rec := env.do(t, http.MethodPost, "/v1/exports/pdf", token, map[string]any{"mode": "cover", "preview": true})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	body := decode[struct {
		CorrelationID string `json:"correlationId"`
		Status        string `json:"status"`
	}](t, rec)
	assert.Equal(t, database.PrintPending, body.Status)

	job, ok := jobs.jobs[body.CorrelationID]
	require.True(t, ok)
	assert.Equal(t, sessionID, job.SessionID)
	assert.Equal(t, "cover", job.Mode)

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, tasks.TypeDocumentPrint, queue.tasks[0].Type())
	var payload tasks.PrintPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	assert.Equal(t, body.CorrelationID, payload.CorrelationID)
	assert.Equal(t, "device-1", payload.Owner)
	assert.True(t, payload.Preview)
	assert.Contains(t, string(payload.Document), `"version"`)
}

func TestRequestPDFQueueDown(t *testing.T) {
	env := newTestEnv(t, withExports(&fakeQueue{err: errors.New("redis down")}, newFakeJobs(), &fakeSigner{}))
	token, _ := env.newSession(t, "")

	rec := env.do(t, http.MethodPost, "/v1/exports/pdf", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDownloadLink(t *testing.T) {
	jobs := newFakeJobs()
	signer := &fakeSigner{}
	env := newTestEnv(t, withExports(&fakeQueue{}, jobs, signer))
	token, sessionID := env.newSession(t, "")

	jobs.jobs["pending"] = &database.PrintJob{CorrelationID: "pending", SessionID: sessionID, Status: database.PrintPending}
	jobs.jobs["done"] = &database.PrintJob{CorrelationID: "done", SessionID: sessionID, Status: database.PrintCompleted, ObjectKey: "exports/s/a.pdf", Mode: "resume"}
	jobs.jobs["foreign"] = &database.PrintJob{CorrelationID: "foreign", SessionID: "other", Status: database.PrintCompleted, ObjectKey: "exports/o/b.pdf"}

	rec := env.do(t, http.MethodGet, "/v1/exports/link?correlation_id=pending", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "url")

	env.do(t, http.MethodPost, "/v1/sessions/current/import", token, `{"personalInfo":{"fullName":"Ada Lovelace"}}`)
	rec = env.do(t, http.MethodGet, "/v1/exports/link?correlation_id=done", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://example.invalid/exports/s/a.pdf")
	assert.Equal(t, "application/pdf", signer.params["response-content-type"])
	assert.Contains(t, signer.params["response-content-disposition"], "Ada%20Lovelace.pdf")

	rec = env.do(t, http.MethodGet, "/v1/exports/link?correlation_id=foreign", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/exports/link?correlation_id=unknown", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/exports/link", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
