package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	batchStartedTotal   atomic.Uint64
	batchCompletedTotal atomic.Uint64

	fileAnalysisStartedTotal   atomic.Uint64
	fileAnalysisCompletedTotal atomic.Uint64
	fileAnalysisFailedTotal    atomic.Uint64

	fileAnalysisDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncBatchStarted increments the batches-started counter.
func IncBatchStarted() {
	batchStartedTotal.Add(1)
}

// IncBatchCompleted increments the batches-completed counter.
func IncBatchCompleted() {
	batchCompletedTotal.Add(1)
}

// IncFileAnalysisStarted increments the started counter.
func IncFileAnalysisStarted() {
	fileAnalysisStartedTotal.Add(1)
}

// IncFileAnalysisCompleted increments the completed counter.
func IncFileAnalysisCompleted() {
	fileAnalysisCompletedTotal.Add(1)
}

// IncFileAnalysisFailed increments the failed counter.
func IncFileAnalysisFailed() {
	fileAnalysisFailedTotal.Add(1)
}

// ObserveFileAnalysisDurationMs records a per-file analysis duration in milliseconds.
func ObserveFileAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	fileAnalysisDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "batch_started_total", "Total upload batches started", batchStartedTotal.Load())
	writeCounter(&buf, "batch_completed_total", "Total upload batches completed", batchCompletedTotal.Load())
	writeCounter(&buf, "file_analysis_started_total", "Total file analyses started", fileAnalysisStartedTotal.Load())
	writeCounter(&buf, "file_analysis_completed_total", "Total file analyses completed", fileAnalysisCompletedTotal.Load())
	writeCounter(&buf, "file_analysis_failed_total", "Total file analyses failed", fileAnalysisFailedTotal.Load())
	writeHistogram(&buf, "file_analysis_duration_ms", "File analysis duration in milliseconds", fileAnalysisDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
