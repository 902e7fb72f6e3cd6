package app

import (
	"context"
	"sync"
	"time"

	"github.com/primehealth/scorecard/internal/adapters/repository"
	"github.com/primehealth/scorecard/internal/domain/evidence"
)

// BatchJob is one subject's evidence snapshot queued for generation.
type BatchJob struct {
	SubjectID string
	Evidence  evidence.Set
}

// BatchResult is the outcome for one BatchJob.
type BatchResult struct {
	SubjectID string
	Record    repository.Record
	Cached    bool
	Err       error
}

// GenerateBatch runs GenerateOrReuse for many subjects over a bounded pool
// of workers. Each computation is independent; concurrency never crosses a
// single subject's evaluation. Results come back in job order. A canceled
// context marks the remaining jobs with the context error.
func (s *Service) GenerateBatch(ctx context.Context, jobs []BatchJob, now time.Time) []BatchResult {
	results := make([]BatchResult, len(jobs))
	indexes := make(chan int)

	var wg sync.WaitGroup
	workers := s.batchWorkers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				job := jobs[i]
				rec, cached, err := s.GenerateOrReuse(ctx, job.SubjectID, job.Evidence, now)
				results[i] = BatchResult{
					SubjectID: job.SubjectID,
					Record:    rec,
					Cached:    cached,
					Err:       err,
				}
			}
		}()
	}

	for i := range jobs {
		if err := ctx.Err(); err != nil {
			results[i] = BatchResult{SubjectID: jobs[i].SubjectID, Err: err}
			continue
		}
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return results
}
