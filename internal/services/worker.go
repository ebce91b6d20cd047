package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hiringdesk/resume-intake/internal/auth"
	"hiringdesk/resume-intake/internal/logger"
	"hiringdesk/resume-intake/internal/models"
)

// IngestJob is one file queued for bulk intake. When Upload.Data is nil the
// worker reads the file at Path.
type IngestJob struct {
	Path   string
	Upload Upload
}

type IngestOutcome struct {
	Job    IngestJob
	Resume *models.Resume
	Err    error
}

// IngestWorker runs Ingest for queued files on a fixed number of goroutines.
// Outcomes arrive in completion order; Results is closed once Stop returns.
type IngestWorker interface {
	Start(ctx context.Context)
	Enqueue(ctx context.Context, job IngestJob) bool
	Stop()
	Results() <-chan IngestOutcome
}

type ingestWorker struct {
	intake      IntakeService
	identity    auth.Identity
	batchID     uuid.UUID
	jobQueue    chan IngestJob
	results     chan IngestOutcome
	concurrency int
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

func NewIngestWorker(intake IntakeService, identity auth.Identity, batchID uuid.UUID, concurrency int) IngestWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ingestWorker{
		intake:      intake,
		identity:    identity,
		batchID:     batchID,
		jobQueue:    make(chan IngestJob, concurrency),
		results:     make(chan IngestOutcome, concurrency),
		concurrency: concurrency,
	}
}

func (w *ingestWorker) Start(ctx context.Context) {
	log.Debug().Int("workers", w.concurrency).Str("batch_id", w.batchID.String()).Msg("starting ingest workers")

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Enqueue blocks until a worker has room or ctx is done.
func (w *ingestWorker) Enqueue(ctx context.Context, job IngestJob) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case w.jobQueue <- job:
		return true
	case <-ctx.Done():
		return false
	}
}

// Stop closes the queue and waits for in-flight jobs. No Enqueue may follow it.
func (w *ingestWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.jobQueue)
		w.wg.Wait()
		close(w.results)
	})
}

func (w *ingestWorker) Results() <-chan IngestOutcome {
	return w.results
}

func (w *ingestWorker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for job := range w.jobQueue {
		if err := ctx.Err(); err != nil {
			w.results <- IngestOutcome{Job: job, Err: err}
			continue
		}

		if job.Upload.Data == nil {
			data, err := os.ReadFile(job.Path)
			if err != nil {
				w.results <- IngestOutcome{Job: job, Err: fmt.Errorf("failed to read %s: %w", job.Path, err)}
				continue
			}
			job.Upload.Data = data
		}
		if job.Upload.Filename == "" {
			job.Upload.Filename = filepath.Base(job.Path)
		}

		resume, err := w.intake.Ingest(ctx, w.identity, w.batchID, job.Upload)
		if err != nil {
			log.Debug().Err(err).Int("worker", workerID).Str("file", logger.TruncateForLog(job.Path, maxLoggedFilename)).Msg("ingest failed")
		}
		w.results <- IngestOutcome{Job: job, Resume: resume, Err: err}
	}
}
