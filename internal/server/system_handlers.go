package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/budgetwise/internal/database"
	"github.com/aristath/budgetwise/internal/scheduler"
)

// SystemHandlers serves health, status and manual job trigger endpoints.
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	startupTime time.Time
	databases   map[string]*database.DB
	scheduler   *scheduler.Scheduler

	// Jobs are set after registration in main
	backupJob       scheduler.Job
	quoteRefreshJob scheduler.Job
	cacheCleanupJob scheduler.Job
}

// NewSystemHandlers creates the system handlers.
func NewSystemHandlers(log zerolog.Logger, dataDir string, databases map[string]*database.DB, sched *scheduler.Scheduler) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		dataDir:     dataDir,
		startupTime: time.Now(),
		databases:   databases,
		scheduler:   sched,
	}
}

// SetJobs registers job references for manual triggering.
func (h *SystemHandlers) SetJobs(backup, quoteRefresh, cacheCleanup scheduler.Job) {
	h.backupJob = backup
	h.quoteRefreshJob = quoteRefresh
	h.cacheCleanupJob = cacheCleanup
}

// HandleHealth handles GET /health
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK

	for name, db := range h.databases {
		if err := db.QuickCheck(r.Context()); err != nil {
			h.log.Error().Err(err).Str("database", name).Msg("Health check failed")
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  status,
		"service": "budgetwise",
	})
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuAvg, ramPercent := h.systemStats()

	var diskFreeMB float64
	if usage, err := disk.Usage(h.dataDir); err == nil {
		diskFreeMB = float64(usage.Free) / 1024 / 1024
	}

	h.writeJSON(w, map[string]interface{}{
		"status":       "running",
		"uptime_hours": time.Since(h.startupTime).Hours(),
		"cpu_percent":  cpuAvg,
		"ram_percent":  ramPercent,
		"disk_free_mb": diskFreeMB,
		"goroutines":   runtime.NumGoroutine(),
	})
}

// HandleDatabaseStats handles GET /api/system/databases
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats := make([]map[string]interface{}, 0, len(h.databases))
	totalSizeMB := 0.0

	for name := range h.databases {
		path := filepath.Join(h.dataDir, name+".db")
		entry := map[string]interface{}{"name": name, "path": path}

		if info, err := os.Stat(path); err == nil {
			sizeMB := float64(info.Size()) / 1024 / 1024
			entry["size_mb"] = sizeMB
			totalSizeMB += sizeMB
		}
		stats = append(stats, entry)
	}

	h.writeJSON(w, map[string]interface{}{
		"databases":     stats,
		"total_size_mb": totalSizeMB,
		"last_checked":  time.Now().Format(time.RFC3339),
	})
}

// HandleTriggerBackup handles POST /api/jobs/backup
func (h *SystemHandlers) HandleTriggerBackup(w http.ResponseWriter, r *http.Request) {
	h.triggerJob(w, h.backupJob, "backup")
}

// HandleTriggerQuoteRefresh handles POST /api/jobs/quote-refresh
func (h *SystemHandlers) HandleTriggerQuoteRefresh(w http.ResponseWriter, r *http.Request) {
	h.triggerJob(w, h.quoteRefreshJob, "quote refresh")
}

// HandleTriggerCacheCleanup handles POST /api/jobs/cache-cleanup
func (h *SystemHandlers) HandleTriggerCacheCleanup(w http.ResponseWriter, r *http.Request) {
	h.triggerJob(w, h.cacheCleanupJob, "cache cleanup")
}

func (h *SystemHandlers) triggerJob(w http.ResponseWriter, job scheduler.Job, label string) {
	if job == nil {
		h.writeJSON(w, map[string]string{
			"status":  "error",
			"message": label + " job not registered",
		})
		return
	}

	h.log.Info().Str("job", job.Name()).Msg("Manual job trigger")

	if err := h.scheduler.RunNow(job); err != nil {
		h.log.Error().Err(err).Str("job", job.Name()).Msg("Manual job run failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{
		"status":  "success",
		"message": label + " completed",
	})
}

// systemStats returns average CPU and RAM usage percentages.
// CPU is sampled over 100ms to keep the endpoint responsive.
func (h *SystemHandlers) systemStats() (cpuAvg, ramPercent float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuAvg, 0
	}

	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
