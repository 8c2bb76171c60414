package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/response"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
)

const (
	metricsInterval = 7 * time.Second
	queueTimeout    = 2 * time.Second
)

// SystemHandler reports snapshot and runtime health and forces reloads.
type SystemHandler struct {
	rdb       *redis.Client
	catalog   *service.CatalogService
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(rdb *redis.Client, catalog *service.CatalogService, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		rdb:       rdb,
		catalog:   catalog,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type systemStatus struct {
	Timestamp int64  `json:"timestamp"`
	Uptime    string `json:"uptime"`

	// Catalog snapshot
	SnapshotLoaded bool   `json:"snapshot_loaded"`
	CurrentTerm    string `json:"current_term,omitempty"`
	CourseCount    int    `json:"course_count"`
	OfferedCount   int    `json:"offered_count"`
	SectionCount   int    `json:"section_count"`

	// Go Application
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapSys    uint64 `json:"heap_sys"`
	NumGC      uint32 `json:"num_gc"`
	GoVersion  string `json:"go_version"`
	NumCPU     int    `json:"num_cpu"`

	// Worker Queues
	QueueAnalytics int64 `json:"queue_analytics"`
}

// GetStatus godoc
// GET /api/v1/admin/system/status
func (h *SystemHandler) GetStatus(c *gin.Context) {
	response.Success(c, http.StatusOK, h.collect(c.Request.Context()))
}

// Reload godoc
// POST /api/v1/admin/system/reload
// Rebuilds this instance's snapshot from the store.
func (h *SystemHandler) Reload(c *gin.Context) {
	if err := h.catalog.Reload(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("Manual reload failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrCatalogUnavailable)
		return
	}
	response.Success(c, http.StatusOK, h.collect(c.Request.Context()))
}

// SystemMetricsSSE godoc
// GET /api/v1/admin/system/metrics
func (h *SystemHandler) SystemMetricsSSE(c *gin.Context) {
	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	h.log.Info().Msg("Admin connected to system metrics SSE")

	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	// Send immediately on connect, then every tick
	h.writeStatus(c)

	for {
		select {
		case <-reqCtx.Done():
			h.log.Info().Msg("Admin disconnected from system metrics SSE")
			return
		case <-ticker.C:
			h.writeStatus(c)
		}
	}
}

func (h *SystemHandler) writeStatus(c *gin.Context) {
	data, err := json.Marshal(h.collect(c.Request.Context()))
	if err != nil {
		return
	}
	c.Writer.Write([]byte("data: "))
	c.Writer.Write(data)
	c.Writer.Write([]byte("\n\n"))
	c.Writer.Flush()
}

func (h *SystemHandler) collect(ctx context.Context) systemStatus {
	s := systemStatus{
		Timestamp: time.Now().Unix(),
		Uptime:    formatDuration(time.Since(h.startTime)),
		GoVersion: runtime.Version(),
		NumCPU:    runtime.NumCPU(),
	}

	if snap, err := h.catalog.Snapshot(); err == nil {
		o := snap.Offerings()
		s.SnapshotLoaded = true
		s.CurrentTerm = snap.CurrentTerm().Label()
		s.CourseCount = len(snap.Courses())
		s.OfferedCount = len(o.OfferedCodes)
		s.SectionCount = len(o.Sections)
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.Goroutines = runtime.NumGoroutine()
	s.HeapAlloc = ms.HeapAlloc
	s.HeapSys = ms.HeapSys
	s.NumGC = ms.NumGC

	if h.rdb != nil {
		qctx, cancel := context.WithTimeout(ctx, queueTimeout)
		defer cancel()
		s.QueueAnalytics, _ = h.rdb.LLen(qctx, config.WorkerKey.AnalyticsEventsQueue).Result()
	}

	return s
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
