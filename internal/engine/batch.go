package engine

import (
	"context"

	"github.com/BaranTeyin1/Aegiscan-cli/internal/findings"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared"
)

// Result statuses of a scanned file.
const (
	StatusOK     = "OK"
	StatusFailed = "FAILED"
)

// File is one named source handed to ScanFiles.
type File struct {
	Filename string
	Source   []byte
}

// FileResult is the outcome for one file of a batch. Err is set when the file
// could not be analysed; Findings is then nil, never an empty clean result.
type FileResult struct {
	Filename string
	Findings []findings.Finding
	Err      error
}

// Status returns StatusOK or StatusFailed.
func (r FileResult) Status() string {
	if r.Err != nil {
		return StatusFailed
	}
	return StatusOK
}

// BatchResult holds per-file results in input order.
type BatchResult struct {
	Files []FileResult
}

// Findings returns the findings of all analysed files, ordered by input file order.
func (b BatchResult) Findings() []findings.Finding {
	var all []findings.Finding
	for _, f := range b.Files {
		all = append(all, f.Findings...)
	}
	return all
}

// Failures returns the results of files that could not be analysed, in input order.
func (b BatchResult) Failures() []FileResult {
	var failed []FileResult
	for _, f := range b.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// ScanFiles scans files with at most workers concurrent scans. Each file is
// scanned independently; a file that fails does not stop the others. Results
// are placed by input index, so the output order never depends on scheduling.
// Files not yet started when ctx is done fail with ctx.Err().
func (e *Engine) ScanFiles(ctx context.Context, files []File, workers int) BatchResult {
	e.logger.Info("scan starting", "files", len(files), "rules", len(e.rules), "goroutines", workers)

	results := make([]FileResult, len(files))
	shared.ForEveryWithBoundedGoroutines(workers, files, func(i int, file File) {
		results[i] = FileResult{Filename: file.Filename}
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			return
		}

		found, err := e.Scan(ctx, file.Source, file.Filename)
		if err != nil {
			e.logger.Debug("file could not be analysed", "file", file.Filename, "error", err)
			results[i].Err = err
			return
		}
		results[i].Findings = found
	})

	batch := BatchResult{Files: results}
	e.logger.Info("scan finished", "files", len(files), "findings", len(batch.Findings()), "failed", len(batch.Failures()))
	return batch
}
