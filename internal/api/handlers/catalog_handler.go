package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentmatch/internal/services"
)

type CatalogHandler struct {
	svc services.CatalogService
}

func NewCatalogHandler(svc services.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) Keywords(c *gin.Context) {
	rows, err := h.svc.Keywords(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

func (h *CatalogHandler) AddKeyword(c *gin.Context) {
	var req keywordRequest
	if !bindJSON(c, &req) {
		return
	}
	k, err := h.svc.AddKeyword(c.Request.Context(), req.Keyword)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, k)
}

// GET /tags?category=
func (h *CatalogHandler) Tags(c *gin.Context) {
	rows, err := h.svc.Tags(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
