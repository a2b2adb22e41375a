package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/codedoc/internal/doctree"
	"github.com/dgallion1/codedoc/internal/parser"
	"github.com/dgallion1/codedoc/internal/scanner"
	"golang.org/x/sync/semaphore"
)

// Worker processes scan jobs.
type Worker struct {
	scanner *scanner.Scanner
	jobs    *JobStore
	log     *slog.Logger

	// sem is shared by every worker and bounds concurrent file scans.
	sem *semaphore.Weighted
}

func NewWorker(sc *scanner.Scanner, jobs *JobStore, log *slog.Logger, sem *semaphore.Weighted) *Worker {
	return &Worker{
		scanner: sc,
		jobs:    jobs,
		log:     log,
		sem:     sem,
	}
}

// Process scans every input of the job, in submission order, into one tree.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	// Phase 1: Dedup
	if w.jobs != nil {
		if prev := w.jobs.FindCompleted(job.InputHash, job.ID); prev != nil {
			tree, encoded := prev.Result()
			if tree != nil {
				log.Info("identical inputs already scanned, reusing result", "previous_job_id", prev.ID)
				job.SetResult(tree, encoded, prev.Snapshot().Progress.Nodes)
				job.SetStatus(StatusCompleted, "dedup")
				return
			}
		}
	}

	// Phase 2: Scan
	job.SetStatus(StatusScanning, "scanning")
	tree := doctree.New()
	for _, in := range job.Inputs() {
		p, err := parser.ForFile(in.Filename, w.scanner)
		if err != nil {
			log.Error("unsupported format", "file", in.Filename, "error", err)
			job.AddError(err.Error())
			job.SetStatus(StatusFailed, "scanning")
			return
		}
		if err := w.parse(ctx, p, in, tree); err != nil {
			log.Error("scan failed", "file", in.Filename, "error", err)
			job.AddError(fmt.Sprintf("%s: %s", in.Filename, err))
			job.SetStatus(StatusFailed, "scanning")
			return
		}
		job.IncrFilesScanned()
	}

	// Phase 3: Encode
	job.SetStatus(StatusEncoding, "encoding")
	var buf bytes.Buffer
	if err := doctree.Encode(&buf, tree); err != nil {
		log.Error("encode failed", "error", err)
		job.AddError(fmt.Sprintf("encode: %s", err))
		job.SetStatus(StatusFailed, "encoding")
		return
	}

	nodes := tree.Len() - 1
	job.SetResult(tree, buf.Bytes(), nodes)
	job.SetStatus(StatusCompleted, "done")
	log.Info("scan complete", "files", len(job.Files), "nodes", nodes)
}

// parse scans one input into tree while holding a slot of the shared
// semaphore.
func (w *Worker) parse(ctx context.Context, p parser.Parser, in Input, tree *doctree.Tree) error {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer w.sem.Release(1)
	return p.Parse(bytes.NewReader(in.Data), in.Filename, tree)
}
