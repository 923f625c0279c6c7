// Package metrics keeps in-process counters for the intake pipeline and
// reminder delivery, rendered in Prometheus text format.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	intakeStartedTotal   atomic.Uint64
	intakeCompletedTotal atomic.Uint64
	intakeFailedTotal    atomic.Uint64

	reminderSentTotal       atomic.Uint64
	reminderSendFailedTotal atomic.Uint64

	// OCR dominates pipeline latency, so the buckets stretch well past a minute.
	intakeDuration = newHistogram([]float64{250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000})
)

// IncIntakeStarted increments the started counter.
func IncIntakeStarted() {
	intakeStartedTotal.Add(1)
}

// IncIntakeCompleted increments the completed counter.
func IncIntakeCompleted() {
	intakeCompletedTotal.Add(1)
}

// IncIntakeFailed increments the failed counter.
func IncIntakeFailed() {
	intakeFailedTotal.Add(1)
}

// ObserveIntakeDurationMs records one pipeline run's duration in milliseconds.
func ObserveIntakeDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	intakeDuration.Observe(value)
}

// IncReminderSent increments the delivered-reminder counter.
func IncReminderSent() {
	reminderSentTotal.Add(1)
}

// IncReminderSendFailed increments the failed-delivery counter.
func IncReminderSendFailed() {
	reminderSendFailedTotal.Add(1)
}

// SinceMs returns the elapsed time since start in milliseconds.
func SinceMs(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// Handler serves the metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders every metric in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "intake_started_total", "Total document intakes started", intakeStartedTotal.Load())
	writeCounter(&buf, "intake_completed_total", "Total document intakes completed", intakeCompletedTotal.Load())
	writeCounter(&buf, "intake_failed_total", "Total document intakes failed", intakeFailedTotal.Load())
	writeHistogram(&buf, "intake_duration_ms", "Intake pipeline duration in milliseconds", intakeDuration.Snapshot())
	writeCounter(&buf, "reminders_sent_total", "Total reminder emails delivered", reminderSentTotal.Load())
	writeCounter(&buf, "reminders_send_failed_total", "Total reminder deliveries that failed", reminderSendFailedTotal.Load())
	return buf.String()
}

type histogram struct {
	mu     sync.Mutex
	bounds []float64
	counts []uint64
	sum    float64
	count  uint64
}

type histogramSnapshot struct {
	bounds []float64
	counts []uint64
	sum    float64
	count  uint64
}

func newHistogram(bounds []float64) *histogram {
	return &histogram{
		bounds: bounds,
		counts: make([]uint64, len(bounds)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.bounds {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		bounds: append([]float64(nil), h.bounds...),
		counts: append([]uint64(nil), h.counts...),
		sum:    h.sum,
		count:  h.count,
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
	for i, bound := range snap.bounds {
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
