package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-sync/internal/app"
)

// CircuitReporter exposes the circuit breaker guarding the remote endpoint.
type CircuitReporter interface {
	Circuit() clients.Snapshot
}

// SyncHandler handles reconciliation endpoints.
type SyncHandler struct {
	sync    *app.SyncService
	circuit CircuitReporter
}

// NewSyncHandler creates a new sync handler. circuit may be nil.
func NewSyncHandler(sync *app.SyncService, circuit CircuitReporter) *SyncHandler {
	return &SyncHandler{
		sync:    sync,
		circuit: circuit,
	}
}

// syncStatusResponse is the response structure for GET /api/v1/sync/status.
type syncStatusResponse struct {
	Last    *app.SyncResult   `json:"last"`
	Circuit *clients.Snapshot `json:"circuit,omitempty"`
}

// TriggerSync handles POST /api/v1/sync
// Runs a reconciliation pass, or joins the one already running.
//
// @Summary Reconcile with the remote endpoint
// @Tags sync
// @Produce json
// @Success 200 {object} app.SyncResult
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/sync [post]
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	result, err := h.sync.Reconcile(c.Request.Context(), app.TriggerManual)
	if errors.Is(err, app.ErrSyncStopped) {
		dto.RespondWithErrorCode(c, dto.ErrorCodeUnavailable, "sync is shutting down")
		return
	}

	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SyncStatus handles GET /api/v1/sync/status
// Reports the last pass and the state of the remote circuit breaker.
//
// @Summary Last reconciliation outcome
// @Tags sync
// @Produce json
// @Success 200 {object} syncStatusResponse
// @Router /api/v1/sync/status [get]
func (h *SyncHandler) SyncStatus(c *gin.Context) {
	var resp syncStatusResponse

	if last, ok := h.sync.LastResult(); ok {
		resp.Last = last
	}

	if h.circuit != nil {
		snap := h.circuit.Circuit()
		resp.Circuit = &snap
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterSyncRoutes registers sync routes on the given router group.
func (h *SyncHandler) RegisterSyncRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.TriggerSync)
	rg.GET("/sync/status", h.SyncStatus)
}
