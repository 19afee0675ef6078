package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
	"github.com/govtalent/pool-admin-api/pkg/export"
	"github.com/govtalent/pool-admin-api/pkg/jobs"
	"github.com/govtalent/pool-admin-api/pkg/storage"
)

type exportJobRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	ListByPool(ctx context.Context, poolID string) ([]models.ExportJob, error)
	SetRunning(ctx context.Context, id string) error
	SetCompleted(ctx context.Context, id, filePath string, completedAt time.Time) error
	SetFailed(ctx context.Context, id, errMsg string, completedAt time.Time) error
}

type exportCandidateSource interface {
	ListAll(ctx context.Context, poolID string) ([]models.PoolCandidate, error)
}

type exportPoolSource interface {
	GetByID(ctx context.Context, id string) (*models.Pool, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix  string
	ResultTTL  time.Duration
	Workers    int
	MaxRetries int
}

// ExportService runs candidate-list exports as background jobs. The HTTP
// handler enqueues and polls; workers render the file, store it, and the
// completed job is served through a signed URL.
type ExportService struct {
	repo       exportJobRepository
	candidates exportCandidateSource
	pools      exportPoolSource
	storage    fileStorage
	csv        csvRenderer
	pdf        pdfRenderer
	signer     *storage.SignedURLSigner
	queue      *jobs.Queue
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(repo exportJobRepository, candidates exportCandidateSource, pools exportPoolSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, metrics *MetricsService) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	svc := &ExportService{
		repo:       repo,
		candidates: candidates,
		pools:      pools,
		storage:    store,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		signer:     signer,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
	}
	svc.queue = jobs.NewQueue("candidate-export", svc.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return svc
}

// Start launches the export worker pool.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export worker pool.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Enqueue records a new export job and hands it to the workers.
func (s *ExportService) Enqueue(ctx context.Context, poolID, userID string, req dto.ExportCandidatesRequest) (*dto.ExportJobView, error) {
	if _, err := s.pools.GetByID(ctx, poolID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "pool not found")
	}
	job := &models.ExportJob{
		ID:          uuid.NewString(),
		PoolID:      poolID,
		Format:      req.Format,
		Status:      models.ExportJobStatusPending,
		RequestedBy: userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "candidate-export", Payload: job.ID}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	return s.view(job), nil
}

// Get returns the job status, with a signed download URL once completed.
func (s *ExportService) Get(ctx context.Context, id string) (*dto.ExportJobView, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return s.view(job), nil
}

// ListByPool returns the export history for a pool.
func (s *ExportService) ListByPool(ctx context.Context, poolID string) ([]dto.ExportJobView, error) {
	list, err := s.repo.ListByPool(ctx, poolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list export jobs")
	}
	views := make([]dto.ExportJobView, 0, len(list))
	for i := range list {
		views = append(views, *s.view(&list[i]))
	}
	return views, nil
}

// OpenDownload validates the signed token and opens the underlying file.
func (s *ExportService) OpenDownload(token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, relPath, nil
}

// Cleanup removes stored files older than the result TTL.
func (s *ExportService) Cleanup() ([]string, error) {
	return s.storage.CleanupOlderThan(s.cfg.ResultTTL)
}

// StartCleanup runs Cleanup on the given interval until the context ends.
func (s *ExportService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.Cleanup()
				if err != nil {
					s.logger.Warn("export cleanup failed", zap.Error(err))
					continue
				}
				if len(removed) > 0 {
					s.logger.Info("export cleanup", zap.Int("removed", len(removed)))
				}
			}
		}
	}()
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	jobID, _ := job.Payload.(string)
	if jobID == "" {
		jobID = job.ID
	}
	record, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if record.Status == models.ExportJobStatusCompleted {
		return nil
	}
	if err := s.repo.SetRunning(ctx, record.ID); err != nil {
		return err
	}

	relPath, renderErr := s.render(ctx, record)
	now := time.Now().UTC()
	if renderErr != nil {
		if err := s.repo.SetFailed(ctx, record.ID, renderErr.Error(), now); err != nil {
			s.logger.Error("failed to mark export job failed", zap.String("job_id", record.ID), zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.RecordExportJob(string(record.Format), false)
		}
		return renderErr
	}
	if err := s.repo.SetCompleted(ctx, record.ID, relPath, now); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordExportJob(string(record.Format), true)
	}
	s.logger.Info("export job completed",
		zap.String("job_id", record.ID),
		zap.String("pool_id", record.PoolID),
		zap.String("format", string(record.Format)))
	return nil
}

func (s *ExportService) render(ctx context.Context, job *models.ExportJob) (string, error) {
	pool, err := s.pools.GetByID(ctx, job.PoolID)
	if err != nil {
		return "", fmt.Errorf("load pool: %w", err)
	}
	candidates, err := s.candidates.ListAll(ctx, job.PoolID)
	if err != nil {
		return "", fmt.Errorf("load candidates: %w", err)
	}

	dataset := candidateDataset(candidates)
	title := fmt.Sprintf("Candidates %s", pool.Name.En)

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("candidates_%s_%s.%s", job.PoolID, time.Now().UTC().Format("20060102_150405"), strings.ToLower(string(job.Format)))
	return s.storage.Save(filename, payload)
}

func candidateDataset(candidates []models.PoolCandidate) export.Dataset {
	rows := make([]map[string]string, 0, len(candidates))
	for _, c := range candidates {
		notes := ""
		if c.Notes != nil {
			notes = *c.Notes
		}
		rows = append(rows, map[string]string{
			"Full Name":    c.FullName,
			"Email":        c.Email,
			"Status":       string(c.Status),
			"Submitted At": c.SubmittedAt.UTC().Format(time.RFC3339),
			"Notes":        notes,
		})
	}
	return export.Dataset{
		Headers: []string{"Full Name", "Email", "Status", "Submitted At", "Notes"},
		Rows:    rows,
	}
}

func (s *ExportService) view(job *models.ExportJob) *dto.ExportJobView {
	view := &dto.ExportJobView{
		ID:          job.ID,
		PoolID:      job.PoolID,
		Format:      job.Format,
		Status:      job.Status,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}
	if job.Error != nil {
		view.Error = *job.Error
	}
	if job.Status == models.ExportJobStatusCompleted && job.FilePath != nil {
		token, expiresAt, err := s.signer.Generate(job.ID, *job.FilePath)
		if err != nil {
			s.logger.Warn("failed to sign export download", zap.String("job_id", job.ID), zap.Error(err))
			return view
		}
		prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
		if prefix == "" {
			prefix = "/api/v1"
		}
		view.DownloadURL = fmt.Sprintf("%s/exports/download/%s", prefix, token)
		view.ExpiresAt = &expiresAt
	}
	return view
}
