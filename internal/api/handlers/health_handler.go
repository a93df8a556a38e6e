package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentmatch/internal/services"
)

type HealthHandler struct {
	svc services.HealthService
}

func NewHealthHandler(svc services.HealthService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func (h *HealthHandler) Health(c *gin.Context) {
	rep := h.svc.Check(c.Request.Context())
	status := http.StatusOK
	if !rep.OK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, rep)
}
