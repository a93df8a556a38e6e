package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentmatch/internal/services"
)

const (
	matchPageDefault = 2000
	matchPageMax     = 10000
)

type MatchHandler struct {
	svc services.MatchService
}

func NewMatchHandler(svc services.MatchService) *MatchHandler {
	return &MatchHandler{svc: svc}
}

// GET /positions/:id/match
func (h *MatchHandler) MatchPosition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	items, err := h.svc.MatchPosition(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	limit, offset := pageParams(c, matchPageDefault, matchPageMax)
	c.JSON(http.StatusOK, listResponse[services.CandidateMatch]{
		Items: services.Page(items, limit, offset),
		Total: len(items),
	})
}

// GET /resumes/:id/match
func (h *MatchHandler) MatchResume(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	items, err := h.svc.MatchResume(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	limit, offset := pageParams(c, matchPageDefault, matchPageMax)
	c.JSON(http.StatusOK, listResponse[services.PositionMatch]{
		Items: services.Page(items, limit, offset),
		Total: len(items),
	})
}
