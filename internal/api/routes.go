// Package api wires matchmgr, validator, db, and relay behind a gin HTTP
// router — the same CORS/auth/rate-limit envelope the teacher uses for
// its forensics API, re-themed to serve match logs instead of
// transaction analysis.
package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kalepail/zkp-pong/internal/db"
	"github.com/kalepail/zkp-pong/internal/matchmgr"
	"github.com/kalepail/zkp-pong/internal/relay"
)

// APIHandler holds every collaborator a route handler might need.
type APIHandler struct {
	dbStore    *db.Store
	relayMgr   *relay.Manager
	matches    *matchmgr.Manager
	spectators *SpectatorHub
}

// SetupRouter builds the gin engine: public health/relay/spectate
// endpoints, bearer-token-and-rate-limit-protected log submission/fetch
// endpoints.
func SetupRouter(dbStore *db.Store, relayMgr *relay.Manager, spectators *SpectatorHub) *gin.Engine {
	r := gin.Default()

	// Enable CORS — configurable via ALLOWED_ORIGINS env var.
	// Production: ALLOWED_ORIGINS=https://example.com
	// Development: leave empty for *.
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{
		dbStore:    dbStore,
		relayMgr:   relayMgr,
		matches:    matchmgr.New(),
		spectators: spectators,
	}

	// ── Public endpoints (no auth) ─────────────────────────────
	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/relay/:sessionId", handler.handleRelayUpgrade)
		if spectators != nil {
			pub.GET("/spectate", spectators.Subscribe)
		}
	}

	// ── Protected endpoints (require bearer token if API_AUTH_TOKEN set) ──
	auth := r.Group("/api/v1")
	auth.Use(AuthMiddleware())
	// Validation replays an entire match, so the protected group is
	// rate-limited; the one limiter covers every route in the group,
	// session status lookups included.
	auth.Use(NewRateLimiter(30, 5).Middleware())
	{
		auth.POST("/logs/validate", handler.handleValidateLog)
		auth.POST("/logs", handler.handleSubmitMatch)
		auth.GET("/logs/:gameId", handler.handleGetMatch)
		auth.GET("/sessions", handler.handleListSessions)
		auth.GET("/sessions/:id", handler.handleGetSession)
	}

	return r
}

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "operational",
		"service":     "zkp-pong match engine",
		"dbConnected": h.dbStore != nil,
	})
}

func (h *APIHandler) handleRelayUpgrade(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if h.matches.GetSession(sessionID) == nil {
		h.matches.CreateSession(sessionID, 0)
	}
	h.relayMgr.ServeSession(c, sessionID)
}
