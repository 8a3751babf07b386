package handler

import (
	"context"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	searchapp "github.com/shopscout/backend/internal/application/search"
	"github.com/shopscout/backend/internal/infrastructure/persistence"
)

// healthCheckTimeout bounds the dependency pings of /system/health
const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency that can report liveness
type Pinger interface {
	Ping(ctx context.Context) error
}

// poolStatser is implemented by databases exposing connection pool statistics
type poolStatser interface {
	Stats() (persistence.ConnectionStats, error)
}

// SystemHandler handles system endpoints
type SystemHandler struct {
	BaseHandler
	service   *searchapp.Service
	database  Pinger
	name      string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. database may be nil when no
// database is configured.
func NewSystemHandler(service *searchapp.Service, database Pinger, name, version string) *SystemHandler {
	return &SystemHandler{
		service:   service,
		database:  database,
		name:      name,
		version:   version,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// DatabaseHealth reports database reachability
type DatabaseHealth struct {
	Configured bool                         `json:"configured"`
	Reachable  bool                         `json:"reachable"`
	Error      string                       `json:"error,omitempty"`
	Pool       *persistence.ConnectionStats `json:"pool,omitempty"`
}

// HealthResponse is the body of /system/health
type HealthResponse struct {
	searchapp.HealthReport
	Database DatabaseHealth `json:"database"`
}

// GetSystemInfo returns the service name, version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ping is a liveness probe
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Health reports cache, database and provider availability. A degraded service
// still answers 200 since searches keep working without the cache.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{HealthReport: h.service.Health(ctx)}
	if h.database != nil {
		resp.Database.Configured = true
		resp.Database.Reachable = true
		if err := h.database.Ping(ctx); err != nil {
			resp.Database.Reachable = false
			resp.Database.Error = err.Error()
			resp.Status = searchapp.HealthDegraded
		} else if ps, ok := h.database.(poolStatser); ok {
			if stats, err := ps.Stats(); err == nil {
				resp.Database.Pool = &stats
			}
		}
	}
	h.Success(c, resp)
}

// RegisterRoutes registers the system routes on the versioned API group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/system")
	g.GET("/ping", h.Ping)
	g.GET("/info", h.GetSystemInfo)
	g.GET("/health", h.Health)
}
