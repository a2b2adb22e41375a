package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/codedoc/internal/doctree"
	"github.com/google/uuid"
)

// JobStatus represents the state of a scan job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusScanning  JobStatus = "scanning"
	StatusEncoding  JobStatus = "encoding"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Input is one uploaded file, scanned in the order it was submitted.
type Input struct {
	Filename string
	Data     []byte
}

// Job tracks the state of a single scan over one or more files.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`
	Files  []string  `json:"files"`

	Progress Progress `json:"progress"`

	// InputHash identifies the submitted inputs; ContentHash the encoded tree.
	InputHash   string    `json:"input_hash,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	inputs  []Input
	tree    *doctree.Tree
	encoded []byte
	errors  []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalFiles   int      `json:"total_files"`
	FilesScanned int      `json:"files_scanned"`
	Nodes        int      `json:"nodes"`
	Errors       []string `json:"errors"`
}

// NewJob creates a queued job for the given inputs.
func NewJob(inputs []Input) *Job {
	now := time.Now()
	files := make([]string, len(inputs))
	for i, in := range inputs {
		files[i] = in.Filename
	}
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Phase:     "queued",
		Files:     files,
		Progress:  Progress{TotalFiles: len(inputs)},
		InputHash: InputsHashHex(inputs),
		CreatedAt: now,
		UpdatedAt: now,
		inputs:    inputs,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// FindCompleted returns a completed job, other than exclude, whose inputs
// hash to inputHash.
func (s *JobStore) FindCompleted(inputHash, exclude string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		if id == exclude {
			continue
		}
		job.mu.Lock()
		ok := job.InputHash == inputHash && job.Status == StatusCompleted
		job.mu.Unlock()
		if ok {
			return job
		}
	}
	return nil
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrFilesScanned atomically increments the scanned file count.
func (j *Job) IncrFilesScanned() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FilesScanned++
	j.UpdatedAt = time.Now()
}

// Inputs returns the files still waiting to be scanned.
func (j *Job) Inputs() []Input {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inputs
}

// SetResult stores the finished tree and its XML encoding, and releases
// the raw inputs.
func (j *Job) SetResult(tree *doctree.Tree, encoded []byte, nodes int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.tree = tree
	j.encoded = encoded
	j.ContentHash = ContentHashHex(encoded)
	j.Progress.Nodes = nodes
	j.Progress.FilesScanned = j.Progress.TotalFiles
	j.inputs = nil
	j.UpdatedAt = time.Now()
}

// Result returns the finished tree and its XML encoding. Both are nil until
// the job completes; callers must treat them as read-only.
func (j *Job) Result() (*doctree.Tree, []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.tree, j.encoded
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Files       []string  `json:"files"`
	Progress    Progress  `json:"progress"`
	ContentHash string    `json:"content_hash,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:     j.ID,
		Status: j.Status,
		Phase:  j.Phase,
		Files:  append([]string(nil), j.Files...),
		Progress: Progress{
			TotalFiles:   j.Progress.TotalFiles,
			FilesScanned: j.Progress.FilesScanned,
			Nodes:        j.Progress.Nodes,
			Errors:       errs,
		},
		ContentHash: j.ContentHash,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// InputsHashHex hashes filenames and contents in order, so the same files
// submitted in a different order hash differently.
func InputsHashHex(inputs []Input) string {
	h := sha256.New()
	for _, in := range inputs {
		fmt.Fprintf(h, "%d:%s:%d:", len(in.Filename), in.Filename, len(in.Data))
		h.Write(in.Data)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
