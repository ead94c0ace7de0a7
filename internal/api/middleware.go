package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeaderKey)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeaderKey, requestID)
		c.Set(RequestIDContextKey, requestID)
		c.Next()
	}
}

// loggerMiddleware writes access lines to logrus at debug level.
func loggerMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output: log.StandardLogger().WriterLevel(log.DebugLevel),
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("[%s] %s \"%s %s %s\" %d %s %s\n",
				param.TimeStamp.Format("2006/01/02 - 15:04:05"),
				param.ClientIP,
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Keys[RequestIDContextKey],
			)
		},
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestID(c *gin.Context) string {
	if id, ok := c.Get(RequestIDContextKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return "unknown"
}

// handleError logs err and answers with a user facing message.
func handleError(c *gin.Context, err error, status int, message string) {
	id := requestID(c)
	if status >= http.StatusInternalServerError {
		log.Errorf("request %s %s %s failed: %v", id, c.Request.Method, c.Request.URL.Path, err)
	} else {
		log.Debugf("request %s %s %s rejected: %v", id, c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(status, gin.H{
		"error":      message,
		"request_id": id,
	})
}

func handleBadRequest(c *gin.Context, err error) {
	handleError(c, err, http.StatusBadRequest, err.Error())
}
