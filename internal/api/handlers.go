package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stock_harvester/internal/domain"
	"stock_harvester/internal/scheduler"
)

type handlers struct {
	ctrl   Controller
	health HealthChecker
}

func (h *handlers) healthCheck(c *gin.Context) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := h.health.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"cycle_running": h.ctrl.Running(),
	})
}

func (h *handlers) triggerCycle(c *gin.Context) {
	result, err := h.ctrl.Trigger("api")
	switch {
	case errors.Is(err, domain.ErrCycleInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	case errors.Is(err, scheduler.ErrNotRunning):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": err.Error(),
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": result,
	})
}

type lastCycleResponse struct {
	Reason  string              `json:"reason"`
	EndedAt time.Time           `json:"ended_at"`
	Error   string              `json:"error,omitempty"`
	Report  *domain.CycleReport `json:"report,omitempty"`
}

func (h *handlers) lastCycle(c *gin.Context) {
	outcome, ok := h.ctrl.LastOutcome()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no cycle has finished yet",
		})
		return
	}

	resp := lastCycleResponse{
		Reason:  outcome.Reason,
		EndedAt: outcome.EndedAt,
		Report:  outcome.Report,
	}
	if outcome.Err != nil {
		resp.Error = outcome.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
