package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sui-direct/node/service"
)

const (
	globalRateLimit  = 100
	globalRateWindow = 5 * time.Minute
	pingRateLimit    = 5000
	pingRateWindow   = time.Minute
)

// SetupRouter wires the read-only endpoints. /ping bypasses the global
// limiter and carries its own, much looser one.
func SetupRouter(peerID string, transfer *service.TransferService) *gin.Engine {
	router := gin.Default()
	router.Use(SecurityHeaders())
	router.Use(CORS())
	router.Use(RateLimitMiddleware(globalRateLimit, globalRateWindow, "/ping"))

	handlers := NewRepoHandlers(peerID, transfer)

	router.GET("/peer-id", handlers.PeerID)
	router.GET("/ping", RateLimitMiddleware(pingRateLimit, pingRateWindow), handlers.Ping)
	router.GET("/list/:owner", handlers.List)
	router.GET("/repo/:id", handlers.Content)
	router.GET("/repo/:id/metadata", handlers.Metadata)

	return router
}
