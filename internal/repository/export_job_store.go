package repository

import (
	"sync"

	"github.com/dfma-ops/checkin-api/internal/models"
)

// ExportJobStore tracks export jobs in memory. Jobs are ephemeral by
// design: the rendered files carry their own signed, expiring tokens, so
// losing job metadata on restart costs nothing but a re-request.
type ExportJobStore struct {
	mu   sync.RWMutex
	jobs map[string]models.ExportJob
}

// NewExportJobStore constructs an empty store.
func NewExportJobStore() *ExportJobStore {
	return &ExportJobStore{jobs: make(map[string]models.ExportJob)}
}

// Create registers a new job.
func (s *ExportJobStore) Create(job models.ExportJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// Get returns a job by id.
func (s *ExportJobStore) Get(id string) (models.ExportJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// Update replaces the stored job.
func (s *ExportJobStore) Update(job models.ExportJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}
