package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentmatch/internal/services"
)

type PositionHandler struct {
	svc services.PositionService
}

func NewPositionHandler(svc services.PositionService) *PositionHandler {
	return &PositionHandler{svc: svc}
}

// GET /positions?q=&limit=&offset=
func (h *PositionHandler) List(c *gin.Context) {
	limit, offset := pageParams(c, 100, 1000)
	rows, err := h.svc.List(c.Request.Context(), c.Query("q"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *PositionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PositionHandler) Create(c *gin.Context) {
	var in services.PositionInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PositionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.PositionInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PositionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": p})
}
