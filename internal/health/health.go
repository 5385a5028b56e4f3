package health

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is anything that can be probed, such as *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthChecker struct {
	db    Pinger
	redis Pinger
}

type HealthStatus struct {
	Status   string          `json:"status"`
	Database ComponentHealth `json:"database"`
	Redis    ComponentHealth `json:"redis"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

// DetailedStatus adds host resource usage to HealthStatus
type DetailedStatus struct {
	HealthStatus
	Host HostStats `json:"host"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
	DiskPercent   float64 `json:"disk_percent"`
	Goroutines    int     `json:"goroutines"`
}

// NewHealthChecker probes the database and, when redis is non-nil, the cache
func NewHealthChecker(db Pinger, redis Pinger) *HealthChecker {
	return &HealthChecker{db: db, redis: redis}
}

// CheckBasic reports "unhealthy" when the database is down. A missing cache only
// degrades the service.
func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := check(h.db)

	redisHealth := ComponentHealth{Status: "disabled"}
	if h.redis != nil {
		redisHealth = check(h.redis)
	}

	status := "healthy"
	switch {
	case dbHealth.Status != "healthy":
		status = "unhealthy"
	case redisHealth.Status == "unhealthy":
		status = "degraded"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Redis:    redisHealth,
	}
}

// CheckDetailed adds CPU, memory and disk usage of the host
func (h *HealthChecker) CheckDetailed() DetailedStatus {
	out := DetailedStatus{HealthStatus: h.CheckBasic()}
	out.Host.Goroutines = runtime.NumGoroutine()

	if cpuPercents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(cpuPercents) > 0 {
		out.Host.CPUPercent = cpuPercents[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil {
		out.Host.MemoryPercent = memStats.UsedPercent
		out.Host.MemoryUsedMB = memStats.Used / (1024 * 1024)
		out.Host.MemoryTotalMB = memStats.Total / (1024 * 1024)
	}
	if diskStats, err := disk.Usage("/"); err == nil {
		out.Host.DiskPercent = diskStats.UsedPercent
	}
	return out
}

func check(p Pinger) ComponentHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
