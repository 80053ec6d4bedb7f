package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"studymatrix-backend/internal/analysis"
	"studymatrix-backend/internal/shared/metrics"
	"studymatrix-backend/internal/shared/telemetry"
	"studymatrix-backend/internal/studies"
)

const (
	defaultHeartbeat = 800 * time.Millisecond
	defaultTimeout   = 120 * time.Second

	// initialProgress is shown as soon as a file enters processing; the
	// heartbeat's random increments top out just below 90.
	initialProgress = 10
	maxIncrement    = 15
)

// GenericFailure is the error detail shown when a failure carries no
// usable message. Kept in Arabic to match the matrix display language.
const GenericFailure = "فشل التحليل"

// Pipeline turns a batch of uploaded files into StudyRecords. Files are
// analyzed concurrently with per-file status tracking; one file's failure
// never affects its siblings.
type Pipeline struct {
	Store    *studies.Store
	Analysis analysis.Client

	// Validate rejects payloads that cannot be submitted for analysis.
	// Nil skips validation.
	Validate func(data []byte) error

	// HeartbeatInterval drives simulated progress; zero means the default.
	HeartbeatInterval time.Duration

	// Timeout bounds each analysis call; zero means the default.
	Timeout time.Duration
}

// Process enters a batch: it creates one pending status per file in a
// single atomic append, then completes the batch asynchronously. The
// returned statuses are the entries just created.
func (p *Pipeline) Process(ctx context.Context, files []studies.UploadFile) (string, []studies.FileStatus, error) {
	if len(files) == 0 {
		return "", nil, errors.New("no files in batch")
	}

	statuses := make([]studies.FileStatus, 0, len(files))
	for _, f := range files {
		statuses = append(statuses, studies.FileStatus{
			FileID:   f.FileID,
			FileName: f.FileName,
			State:    studies.StatePending,
		})
	}
	if err := p.Store.BeginBatch(statuses); err != nil {
		return "", nil, err
	}

	batchID := uuid.NewString()
	telemetry.Info("batch.start", map[string]any{
		"request_id": studies.RequestIDFrom(ctx),
		"batch_id":   batchID,
		"files":      len(files),
	})
	metrics.IncBatchStarted()

	go p.run(detach(ctx), batchID, files)

	return batchID, statuses, nil
}

// run drives the batch to completion: independent per-file fan-out, then
// an all-settled join before the successes are published in one append,
// preserving original selection order.
func (p *Pipeline) run(ctx context.Context, batchID string, files []studies.UploadFile) {
	results := make([]*studies.StudyRecord, len(files))

	var g errgroup.Group
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			results[i] = p.processFile(ctx, f)
			// Failures are reflected in the status list, never propagated
			// into the group: a sibling must not be cancelled.
			return nil
		})
	}
	_ = g.Wait()

	records := make([]studies.StudyRecord, 0, len(files))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	p.Store.FinishBatch(records)
	metrics.IncBatchCompleted()

	telemetry.Info("batch.complete", map[string]any{
		"request_id": studies.RequestIDFrom(ctx),
		"batch_id":   batchID,
		"files":      len(files),
		"succeeded":  len(records),
		"failed":     len(files) - len(records),
	})
}

// processFile walks one file through pending -> processing -> terminal.
// It returns the finished record, or nil when the file failed.
func (p *Pipeline) processFile(ctx context.Context, f studies.UploadFile) (record *studies.StudyRecord) {
	defer func() {
		if r := recover(); r != nil {
			p.fail(ctx, f, fmt.Errorf("panic: %v", r))
			record = nil
		}
	}()

	startedAt := time.Now().UTC()
	metrics.IncFileAnalysisStarted()
	p.Store.MarkProcessing(f.FileID, initialProgress)
	telemetry.Info("file.status", map[string]any{
		"request_id":        studies.RequestIDFrom(ctx),
		"file_id":           f.FileID,
		"file_name":         f.FileName,
		"status":            studies.StateProcessing,
		"status_transition": "pending->processing",
	})

	stop := p.startHeartbeat(f.FileID)
	defer stop()

	if len(f.Data) == 0 {
		p.fail(ctx, f, errors.New("empty file payload"))
		return nil
	}
	if p.Validate != nil {
		if err := p.Validate(f.Data); err != nil {
			p.fail(ctx, f, fmt.Errorf("read file %s: %w", f.FileName, err))
			return nil
		}
	}

	if p.Analysis == nil {
		p.fail(ctx, f, errors.New("missing analysis client"))
		return nil
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := p.Analysis.AnalyzeStudy(callCtx, analysis.Input{
		FileName:  f.FileName,
		PDFBase64: base64.StdEncoding.EncodeToString(f.Data),
	})
	if err != nil {
		p.fail(ctx, f, err)
		return nil
	}

	var fields studies.FieldSet
	if err := json.Unmarshal(raw, &fields); err != nil {
		p.fail(ctx, f, fmt.Errorf("analysis output invalid: %w", err))
		return nil
	}

	// The heartbeat must be silenced before the terminal transition so no
	// orphaned tick can touch a finalized status.
	stop()
	p.Store.MarkCompleted(f.FileID)
	metrics.IncFileAnalysisCompleted()
	completedAt := time.Now().UTC()
	metrics.ObserveFileAnalysisDurationMs(float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0)
	telemetry.Info("file.status", map[string]any{
		"request_id":        studies.RequestIDFrom(ctx),
		"file_id":           f.FileID,
		"file_name":         f.FileName,
		"status":            studies.StateCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0,
	})

	rec := studies.NewRecord(f.FileID, f.FileName, fields)
	return &rec
}

func (p *Pipeline) fail(ctx context.Context, f studies.UploadFile, err error) {
	detail := sanitizeError(err)
	if detail == "" {
		detail = GenericFailure
	}
	p.Store.MarkError(f.FileID, detail)
	metrics.IncFileAnalysisFailed()
	telemetry.Info("file.status", map[string]any{
		"request_id":        studies.RequestIDFrom(ctx),
		"file_id":           f.FileID,
		"file_name":         f.FileName,
		"status":            studies.StateError,
		"status_transition": "processing->error",
		"error":             detail,
	})
}

// startHeartbeat advances the file's simulated progress on a fixed
// interval until stopped. The returned stop function is safe to call more
// than once; the ticker is released exactly once.
func (p *Pipeline) startHeartbeat(fileID string) func() {
	interval := p.HeartbeatInterval
	if interval <= 0 {
		interval = defaultHeartbeat
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.Store.AdvanceProgress(fileID, rand.Float64()*maxIncrement)
			}
		}
	}()

	stopped := false
	return func() {
		if !stopped {
			stopped = true
			close(done)
		}
	}
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

// detach severs batch processing from the request's cancellation while
// keeping its request ID for log correlation.
func detach(ctx context.Context) context.Context {
	requestID := studies.RequestIDFrom(ctx)
	if requestID == "" {
		return context.Background()
	}
	return studies.WithRequestID(context.Background(), requestID)
}

var _ studies.BatchProcessor = (*Pipeline)(nil)
