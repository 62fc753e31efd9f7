package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/markhook/markhook/internal/sync"
	"github.com/markhook/markhook/internal/webhook"
)

// PushProcessor handles an authenticated push event.
type PushProcessor interface {
	ProcessPush(ctx context.Context, event *webhook.PushEvent) *sync.Result
}

// signatureHeader carries the HMAC digest of the raw request body.
const signatureHeader = "X-Hub-Signature-256"

// New creates the HTTP server with all routes configured.
func New(engine PushProcessor, secret string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/webhooks/github", handleWebhook(engine, secret))

	return r
}

// handleWebhook verifies the delivery signature against the raw body
// before anything is parsed; re-serialized payloads are not byte-stable,
// so verification must happen on the exact bytes received.
func handleWebhook(engine PushProcessor, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		if !webhook.VerifySignature(body, c.GetHeader(signatureHeader), secret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		if c.GetHeader("X-GitHub-Event") == "ping" {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
			return
		}

		var event webhook.PushEvent
		if err := json.Unmarshal(body, &event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid push payload"})
			return
		}

		// Partial failure still answers 200; callers inspect the errors
		// array, not the HTTP status.
		result := engine.ProcessPush(c.Request.Context(), &event)
		c.JSON(http.StatusOK, result)
	}
}

// requestLogger logs one line per request through the process logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Info("request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}
