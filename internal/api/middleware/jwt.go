package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/utils"
)

// AuthCookie is the cookie the login handler sets.
const AuthCookie = "auth"

type apiError struct {
	Code   utils.Code `json:"code"`
	Detail string     `json:"detail"`
}

// Authenticator resolves a raw token to the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

// JWTAuth accepts "Authorization: Bearer <token>" or the auth cookie.
func JWTAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw, _ = c.Cookie(AuthCookie)
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:   utils.CodeUnauthorized,
				Detail: "missing token",
			})
			return
		}

		id, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			detail := "invalid token"
			var ae *utils.AppError
			if errors.As(err, &ae) && ae.Message != "" {
				detail = ae.Message
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(utils.HTTPStatus(err), apiError{
				Code:   codeOf(err),
				Detail: detail,
			})
			return
		}

		c.Set("identity", id)
		c.Set("user_id", id.UserID)
		c.Set("role", string(id.Role))
		c.Set("session_id", id.SessionID)
		c.Next()
	}
}

func bearerToken(h string) string {
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func codeOf(err error) utils.Code {
	var ae *utils.AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return utils.CodeUnauthorized
}
