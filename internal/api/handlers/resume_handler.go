package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentmatch/internal/services"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

// GET /resumes?limit=&offset= lists; with q it searches.
func (h *ResumeHandler) List(c *gin.Context) {
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		h.search(c, q)
		return
	}

	limit, offset := pageParams(c, 200, 1000)
	items, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ResumeHandler) search(c *gin.Context, q string) {
	limit, offset := pageParams(c, 200, 1000)
	items, total, err := h.svc.Search(c.Request.Context(), q, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse[services.ResumeItem]{Items: items, Total: total})
}

func (h *ResumeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	d, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *ResumeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// POST /resumes/:id/attach_file
func (h *ResumeHandler) AttachFile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.AttachFileInput
	if !bindJSON(c, &in) {
		return
	}
	if in.UploadedBy == "" {
		if who, ok := c.Get("identity"); ok {
			in.UploadedBy = displayName(who)
		}
	}

	f, err := h.svc.AttachFile(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}
