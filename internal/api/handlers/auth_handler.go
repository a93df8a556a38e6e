package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentmatch/internal/api/middleware"
	"github.com/yoockh/talentmatch/internal/services"
)

type AuthHandler struct {
	svc          services.AuthService
	secureCookie bool
}

func NewAuthHandler(svc services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{svc: svc, secureCookie: secureCookie}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Username, req.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		writeError(c, err)
		return
	}

	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, res.Token, maxAge, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, res)
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}
	if err := h.svc.Logout(c.Request.Context(), id.SessionID); err != nil {
		writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, id)
}
