package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/cvextract/internal/anchor"
	"github.com/dgallion1/cvextract/internal/config"
	"github.com/dgallion1/cvextract/internal/extract"
	"github.com/dgallion1/cvextract/internal/store"
)

// Orchestrator manages the document extraction pipeline.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	extractor *extract.Extractor
	docs      *store.DocumentStore
	log       *slog.Logger
	cfg       config.Config
	entityCfg anchor.EntityConfig

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline; Start launches its workers.
func NewOrchestrator(cfg config.Config, extractor *extract.Extractor, docs *store.DocumentStore, log *slog.Logger) *Orchestrator {
	entityCfg := anchor.DefaultEntityConfig()
	if cfg.EntityMinCapRatio > 0 {
		entityCfg.MinCapRatio = cfg.EntityMinCapRatio
	}
	if cfg.EntityHighCapRatio > 0 {
		entityCfg.HighCapRatio = cfg.EntityHighCapRatio
	}
	if cfg.EntityMaxWords > 0 {
		entityCfg.MaxWords = cfg.EntityMaxWords
	}

	return &Orchestrator{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		extractor: extractor,
		docs:      docs,
		log:       log,
		cfg:       cfg,
		entityCfg: entityCfg,
	}
}

// NewJob allocates a job with fresh IDs and the raw file bytes attached.
func NewJob(filename string, data []byte) *Job {
	now := time.Now()
	job := &Job{
		ID:        generateULID(),
		DocID:     generateULID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)
	return job
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.extractor, o.docs, o.log, o.entityCfg, o.cfg.SegmentationStrategy)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit registers the job, inserts its document row and queues it.
func (o *Orchestrator) Submit(ctx context.Context, job *Job) error {
	if err := o.docs.Insert(ctx, job.DocID, job.Filename); err != nil {
		return fmt.Errorf("insert document row: %w", err)
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		if err := o.docs.SetStatus(ctx, job.DocID, store.StatusFailed, "queue full"); err != nil {
			o.log.Error("status update failed", "doc_id", job.DocID, "error", err)
		}
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Documents returns the document store for direct use by API handlers.
func (o *Orchestrator) Documents() *store.DocumentStore {
	return o.docs
}
