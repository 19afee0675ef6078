package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govtalent/pool-admin-api/internal/models"
	"github.com/govtalent/pool-admin-api/pkg/jobs"
	"github.com/govtalent/pool-admin-api/pkg/storage"
)

type exportJobRepoStub struct {
	jobsByID map[string]*models.ExportJob
}

func (s *exportJobRepoStub) Create(ctx context.Context, job *models.ExportJob) error {
	if s.jobsByID == nil {
		s.jobsByID = make(map[string]*models.ExportJob)
	}
	s.jobsByID[job.ID] = job
	return nil
}

func (s *exportJobRepoStub) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	if job, ok := s.jobsByID[id]; ok {
		return job, nil
	}
	return nil, errors.New("not found")
}

func (s *exportJobRepoStub) ListByPool(ctx context.Context, poolID string) ([]models.ExportJob, error) {
	var out []models.ExportJob
	for _, job := range s.jobsByID {
		if job.PoolID == poolID {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (s *exportJobRepoStub) SetRunning(ctx context.Context, id string) error {
	s.jobsByID[id].Status = models.ExportJobStatusRunning
	return nil
}

func (s *exportJobRepoStub) SetCompleted(ctx context.Context, id, filePath string, completedAt time.Time) error {
	job := s.jobsByID[id]
	job.Status = models.ExportJobStatusCompleted
	job.FilePath = &filePath
	job.CompletedAt = &completedAt
	return nil
}

func (s *exportJobRepoStub) SetFailed(ctx context.Context, id, errMsg string, completedAt time.Time) error {
	job := s.jobsByID[id]
	job.Status = models.ExportJobStatusFailed
	job.Error = &errMsg
	job.CompletedAt = &completedAt
	return nil
}

type candidateSourceStub struct {
	candidates []models.PoolCandidate
	err        error
}

func (s *candidateSourceStub) ListAll(ctx context.Context, poolID string) ([]models.PoolCandidate, error) {
	return s.candidates, s.err
}

type poolSourceStub struct {
	pool *models.Pool
}

func (s *poolSourceStub) GetByID(ctx context.Context, id string) (*models.Pool, error) {
	if s.pool == nil {
		return nil, errors.New("not found")
	}
	return s.pool, nil
}

type storageStub struct {
	saved map[string][]byte
}

func (s *storageStub) Save(filename string, data []byte) (string, error) {
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	s.saved[filename] = data
	return "exports/" + filename, nil
}

func (s *storageStub) Open(filename string) (*os.File, error)           { return nil, errors.New("no file") }
func (s *storageStub) Delete(filename string) error                     { return nil }
func (s *storageStub) CleanupOlderThan(time.Duration) ([]string, error) { return nil, nil }

func newExportFixture() (*ExportService, *exportJobRepoStub, *storageStub) {
	repo := &exportJobRepoStub{}
	store := &storageStub{}
	signer := storage.NewSignedURLSigner("export-secret", 30*time.Minute)
	candidates := &candidateSourceStub{candidates: []models.PoolCandidate{
		{ID: "cand-1", PoolID: "pool-1", Email: "a@example.com", FullName: "Alex A", Status: models.CandidateStatusNew, SubmittedAt: time.Now()},
		{ID: "cand-2", PoolID: "pool-1", Email: "b@example.com", FullName: "Blair B", Status: models.CandidateStatusQualified, SubmittedAt: time.Now()},
	}}
	pools := &poolSourceStub{pool: completePoolFixture(models.PoolStatusPublished)}
	service := NewExportService(repo, candidates, pools, store, signer, ExportConfig{APIPrefix: "/api/v1"}, nil, nil)
	return service, repo, store
}

func TestExportServiceProcessCSV(t *testing.T) {
	service, repo, store := newExportFixture()
	job := &models.ExportJob{
		ID:     "job-1",
		PoolID: "pool-1",
		Format: models.ExportFormatCSV,
		Status: models.ExportJobStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), job))

	err := service.process(context.Background(), jobs.Job{ID: "job-1", Payload: "job-1"})
	require.NoError(t, err)

	assert.Equal(t, models.ExportJobStatusCompleted, job.Status)
	require.NotNil(t, job.FilePath)
	require.Len(t, store.saved, 1)
	for name, data := range store.saved {
		assert.True(t, strings.HasSuffix(name, ".csv"))
		content := string(data)
		assert.Contains(t, content, "Full Name")
		assert.Contains(t, content, "Alex A")
		assert.Contains(t, content, "QUALIFIED")
	}
}

func TestExportServiceProcessFailureMarksJob(t *testing.T) {
	service, repo, _ := newExportFixture()
	service.candidates = &candidateSourceStub{err: errors.New("db down")}
	job := &models.ExportJob{
		ID:     "job-1",
		PoolID: "pool-1",
		Format: models.ExportFormatCSV,
		Status: models.ExportJobStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), job))

	err := service.process(context.Background(), jobs.Job{ID: "job-1", Payload: "job-1"})
	require.Error(t, err)
	assert.Equal(t, models.ExportJobStatusFailed, job.Status)
	require.NotNil(t, job.Error)
	assert.Contains(t, *job.Error, "db down")
}

func TestExportServiceViewSignsCompletedJobs(t *testing.T) {
	service, repo, _ := newExportFixture()
	path := "exports/candidates.csv"
	completed := time.Now().UTC()
	job := &models.ExportJob{
		ID:          "job-1",
		PoolID:      "pool-1",
		Format:      models.ExportFormatCSV,
		Status:      models.ExportJobStatusCompleted,
		FilePath:    &path,
		CompletedAt: &completed,
	}
	require.NoError(t, repo.Create(context.Background(), job))

	view, err := service.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(view.DownloadURL, "/api/v1/exports/download/"))
	require.NotNil(t, view.ExpiresAt)

	pending := &models.ExportJob{ID: "job-2", PoolID: "pool-1", Format: models.ExportFormatPDF, Status: models.ExportJobStatusPending}
	require.NoError(t, repo.Create(context.Background(), pending))
	view, err = service.Get(context.Background(), "job-2")
	require.NoError(t, err)
	assert.Empty(t, view.DownloadURL)
}

func TestExportServiceProcessSkipsCompletedJobs(t *testing.T) {
	service, repo, store := newExportFixture()
	path := "exports/done.csv"
	job := &models.ExportJob{
		ID:       "job-1",
		PoolID:   "pool-1",
		Format:   models.ExportFormatCSV,
		Status:   models.ExportJobStatusCompleted,
		FilePath: &path,
	}
	require.NoError(t, repo.Create(context.Background(), job))

	require.NoError(t, service.process(context.Background(), jobs.Job{ID: "job-1", Payload: "job-1"}))
	assert.Empty(t, store.saved)
}
