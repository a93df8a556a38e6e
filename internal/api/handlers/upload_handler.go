package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/services"
	"github.com/yoockh/talentmatch/internal/utils"
)

type UploadHandler struct {
	svc      services.UploadService
	maxBytes int64
}

func NewUploadHandler(svc services.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{svc: svc, maxBytes: maxBytes}
}

type uploadResult struct {
	FileName string             `json:"file_name"`
	OK       bool               `json:"ok"`
	File     *models.ResumeFile `json:"file,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// POST /uploads (multipart: uploaded_by, files...)
func (h *UploadHandler) Upload(c *gin.Context) {
	const op = "UploadHandler.Upload"

	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid multipart form", err))
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "no files in request", nil))
		return
	}

	uploadedBy := strings.TrimSpace(c.PostForm("uploaded_by"))
	if uploadedBy == "" {
		if who, ok := c.Get("identity"); ok {
			uploadedBy = displayName(who)
		}
	}

	results := make([]uploadResult, 0, len(files))
	for _, fh := range files {
		res := uploadResult{FileName: fh.Filename}

		r, err := fh.Open()
		if err != nil {
			res.Error = "cannot read file"
			results = append(results, res)
			continue
		}
		f, err := h.svc.Upload(c.Request.Context(), uploadedBy, fh.Filename, fh.Header.Get("Content-Type"), r)
		_ = r.Close()

		if err != nil {
			_ = c.Error(err)
			res.Error = errorDetail(err)
		} else {
			res.OK = true
			res.File = f
		}
		results = append(results, res)
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

type presignRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// POST /uploads/presign
func (h *UploadHandler) Presign(c *gin.Context) {
	var req presignRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.Presign(c.Request.Context(), req.FileName, req.ContentType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type completeRequest struct {
	FileName   string `json:"file_name"`
	ObjectKey  string `json:"object_key"`
	UploadedBy string `json:"uploaded_by"`
}

// POST /uploads/complete
func (h *UploadHandler) Complete(c *gin.Context) {
	var req completeRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.UploadedBy == "" {
		if who, ok := c.Get("identity"); ok {
			req.UploadedBy = displayName(who)
		}
	}
	f, err := h.svc.Complete(c.Request.Context(), req.UploadedBy, req.FileName, req.ObjectKey)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}
