package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewHandler(feedPath, indexPath, version string, registry *prometheus.Registry) *Handler {
	return &Handler{
		feedPath:  feedPath,
		indexPath: indexPath,
		version:   version,
		registry:  registry,
	}
}

func (h *Handler) GetFeed(c *gin.Context) {
	h.serveFile(c, h.feedPath, "application/rss+xml; charset=utf-8")
}

func (h *Handler) GetIndex(c *gin.Context) {
	h.serveFile(c, h.indexPath, "text/html; charset=utf-8")
}

func (h *Handler) serveFile(c *gin.Context, path, contentType string) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Failed to stat artifact", "path", path, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read artifact", "path", path, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if info, err := os.Stat(h.feedPath); err == nil {
		health["feed_updated_at"] = info.ModTime().In(time.Local).Format(time.RFC3339)
		health["feed_bytes"] = info.Size()
	} else {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Feed not available",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) metricsHandler() http.Handler {
	if h.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
}
