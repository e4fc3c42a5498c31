package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	startTime time.Time
	version   string
	modelSize func() int
}

func NewMetricsHandler(version string, modelSize func() int) *MetricsHandler {
	return &MetricsHandler{
		startTime: time.Now(),
		version:   version,
		modelSize: modelSize,
	}
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	bytesPerMB       = 1024 * 1024
)

// formatUptime formats the uptime duration with seconds rounded to 2 decimal places
func formatUptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % secondsPerMinute
	seconds := d.Seconds() - float64(hours*secondsPerHour) - float64(minutes*secondsPerMinute)

	if hours > 0 {
		return fmt.Sprintf("%dh%dm%.2fs", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%.2fs", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", seconds)
}

type MetricsResponse struct {
	Status    string        `json:"status"`
	Uptime    string        `json:"uptime"`
	Timestamp string        `json:"timestamp"`
	Version   string        `json:"version"`
	StartTime string        `json:"start_time"`
	System    SystemMetrics `json:"system"`
	Engine    EngineMetrics `json:"engine"`
}

type SystemMetrics struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAllocMB   uint64 `json:"mem_alloc_mb"`
	MemTotalMB   uint64 `json:"mem_total_mb"`
	NumGC        uint32 `json:"num_gc"`
}

type EngineMetrics struct {
	ModelSize int `json:"model_size"` // distinct transition windows learned
}

// GetMetrics returns runtime and engine metrics
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	now := time.Now()
	c.JSON(http.StatusOK, MetricsResponse{
		Status:    "ok",
		Uptime:    formatUptime(now.Sub(h.startTime)),
		Timestamp: now.UTC().Format(time.RFC3339),
		Version:   h.version,
		StartTime: h.startTime.UTC().Format(time.RFC3339),
		System: SystemMetrics{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAllocMB:   memStats.Alloc / bytesPerMB,
			MemTotalMB:   memStats.TotalAlloc / bytesPerMB,
			NumGC:        memStats.NumGC,
		},
		Engine: EngineMetrics{
			ModelSize: h.modelSize(),
		},
	})
}
