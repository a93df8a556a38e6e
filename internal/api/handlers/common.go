package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/utils"
)

type APIError struct {
	Code   utils.Code `json:"code"`
	Detail string     `json:"detail"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:   ae.Code,
			Detail: errorDetail(err),
		})
		return
	}

	c.JSON(status, APIError{
		Code:   utils.CodeInternal,
		Detail: http.StatusText(status),
	})
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "Request", "invalid "+name+": "+strconv.Quote(raw), err))
		return 0, false
	}
	return id, true
}

// pageParams reads limit/offset query parameters, clamping limit to max.
func pageParams(c *gin.Context, def, max int) (limit, offset int) {
	limit, offset = def, 0
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		limit = n
	}
	if limit > max {
		limit = max
	}
	if n, err := strconv.Atoi(c.Query("offset")); err == nil && n > 0 {
		offset = n
	}
	return limit, offset
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "Request", "invalid json body", err))
		return false
	}
	return true
}

func currentIdentity(c *gin.Context) (*models.Identity, bool) {
	if v, ok := c.Get("identity"); ok {
		if id, ok := v.(*models.Identity); ok && id != nil {
			return id, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return nil, false
}

func displayName(v any) string {
	if id, ok := v.(*models.Identity); ok && id != nil {
		return id.Username
	}
	return ""
}

// errorDetail is the client-safe message of err.
func errorDetail(err error) string {
	var ae *utils.AppError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return http.StatusText(utils.HTTPStatus(err))
}
