package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qoach/quiz-backend/internal/health"
)

type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Liveness. Says nothing about dependencies.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// All reports both dependencies. Always 200: a degraded deployment is
// communicated in the body, the endpoint itself stays reachable.
func (h *HealthHandler) All(c *gin.Context) {
	report := h.checker.CheckAll(c.Request.Context())
	c.JSON(http.StatusOK, report)
}

func (h *HealthHandler) Database(c *gin.Context) {
	status := h.checker.CheckDatabase(c.Request.Context())
	c.JSON(http.StatusOK, status)
}

func (h *HealthHandler) Redis(c *gin.Context) {
	status := h.checker.CheckCache(c.Request.Context())
	c.JSON(http.StatusOK, status)
}
