package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/errors"
)

// RequireAuth validates the session token carried by the Authorization
// header or the auth cookie. Browsers without a session are sent to the
// login page, other clients get a 401.
func RequireAuth(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, reason := extractToken(c)
		if tokenString == "" {
			unauthorized(c, reason)
			return
		}

		// Validate token and session via AuthService
		user, err := authSvc.ValidateSession(c.Request.Context(), tokenString)
		if err != nil {
			if !errors.IsUnauthorized(err) {
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					constants.ResponseError: http.StatusText(http.StatusInternalServerError),
					"code":                  errors.GetErrorCode(err),
					"data":                  nil,
				})
				return
			}
			unauthorized(c, errors.PublicMessage(err))
			return
		}

		authSvc.TouchSession(c.Request.Context(), user.SessionID)

		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyToken, tokenString)

		c.Next()
	}
}

// extractToken prefers the Authorization header and falls back to the
// cookie set by the login form
func extractToken(c *gin.Context) (string, string) {
	if authHeader := c.GetHeader(constants.HeaderAuthorization); authHeader != "" {
		// Extract token (format: "Bearer <token>")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != strings.TrimSpace(constants.BearerPrefix) {
			return "", "Invalid authorization header format"
		}
		return parts[1], ""
	}
	if cookie, err := c.Cookie(constants.CookieAuthToken); err == nil && cookie != "" {
		return cookie, ""
	}
	return "", "No authorization token provided"
}

func unauthorized(c *gin.Context, message string) {
	if wantsHTML(c) {
		c.Redirect(http.StatusFound, constants.PathLogin)
		c.Abort()
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{
		constants.ResponseError: "Unauthorized",
		constants.FieldMessage:  message,
		"code":                  "UNAUTHORIZED",
		"data":                  nil,
	})
	c.Abort()
}

// wantsHTML reports whether the request comes from a browser page load
func wantsHTML(c *gin.Context) bool {
	if c.GetHeader(constants.HeaderRequestedWith) == constants.XMLHttpRequest {
		return false
	}
	if c.Query(constants.ParamFormat) != "" {
		return c.Query(constants.ParamFormat) == "html"
	}
	accept := c.GetHeader(constants.HeaderAccept)
	return strings.Contains(accept, "text/html")
}
