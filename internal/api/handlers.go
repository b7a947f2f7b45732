package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kalepail/zkp-pong/internal/validator"
	"github.com/kalepail/zkp-pong/pkg/models"
)

// POST /api/v1/logs/validate
// Validates a submitted CompactLog and returns the verdict without
// persisting anything — used by clients that only want a fairness
// check, e.g. before deciding whether to submit the match for storage.
func (h *APIHandler) handleValidateLog(c *gin.Context) {
	var log models.CompactLog
	if err := c.ShouldBindJSON(&log); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	out := validator.ValidateLog(log)
	c.JSON(http.StatusOK, out)
}

// POST /api/v1/logs
// Validates and persists a finished match.
func (h *APIHandler) handleSubmitMatch(c *gin.Context) {
	var log models.CompactLog
	if err := c.ShouldBindJSON(&log); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	out := validator.ValidateLog(log)
	if !out.Fair {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Match rejected by validator",
			"reason": out.Reason,
		})
		return
	}

	if h.dbStore != nil {
		if err := h.dbStore.SaveMatch(c.Request.Context(), log); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist match: " + err.Error()})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "accepted",
		"result": out,
	})
}

// GET /api/v1/logs/:gameId
// Fetches a previously persisted match by game ID.
func (h *APIHandler) handleGetMatch(c *gin.Context) {
	if h.dbStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No database configured"})
		return
	}

	gameID, err := strconv.ParseUint(c.Param("gameId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gameId"})
		return
	}

	log, err := h.dbStore.GetMatch(context.Background(), uint32(gameID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, log)
}

// GET /api/v1/sessions
// Lists every tracked relay/producer session, live or finished.
func (h *APIHandler) handleListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.matches.ListSessions()})
}

// GET /api/v1/sessions/:id
// Returns one tracked session's current lifecycle state.
func (h *APIHandler) handleGetSession(c *gin.Context) {
	s := h.matches.GetSession(c.Param("id"))
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}
