package middleware

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Bodies can be large; only this much lands in the log.
const maxLoggedBodyBytes = 2048

// Logger logs one line per request: method, path, query, status, latency.
// At debug level the request body is logged too, truncated, before the
// handler consumes it.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		logRequestBody(c)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.Info().
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Dur("latency_ms", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP Request")
	}
}

// logRequestBody drains the body for logging and puts it back so binding
// downstream still sees the full payload.
func logRequestBody(c *gin.Context) {
	if c.Request.Body == nil {
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	if len(raw) == 0 {
		return
	}

	logged := raw
	if len(logged) > maxLoggedBodyBytes {
		logged = logged[:maxLoggedBodyBytes]
	}

	log.Debug().
		Str("request_id", c.GetString("request_id")).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("body_bytes", len(raw)).
		Str("body", string(logged)).
		Msg("request body")
}
