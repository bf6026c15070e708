package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/pratik-mahalle/arcgate/internal/api/dto"
	"github.com/pratik-mahalle/arcgate/internal/pkg/logger"
	"github.com/pratik-mahalle/arcgate/internal/pkg/utils"
)

// Checker reports whether a dependency is reachable
type Checker func(ctx context.Context) error

// HealthHandler handles health check requests
type HealthHandler struct {
	checks map[string]Checker
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler. checks are run by Readyz,
// keyed by the name reported in the response.
func NewHealthHandler(checks map[string]Checker, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: log,
	}
}

// Healthz handles liveness probe
// @Summary Liveness probe
// @Description Check if the application is alive
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Application is alive"
// @Router /healthz [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// Readyz handles readiness probe
// @Summary Readiness probe
// @Description Check the user store and session store are reachable
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Application is ready"
// @Failure 503 {object} dto.HealthResponse "Service unavailable"
// @Router /readyz [get]
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ready", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WithError(err).Errorf("Readiness check %s failed", name)
			resp.Checks[name] = "unavailable"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	utils.WriteJSON(w, status, resp)
}
