package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/pkg/auth"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/errors"
)

type AuthHandler struct {
	svcMgr *services.ServiceManager
	// secureCookies marks the auth cookie Secure outside development
	secureCookies bool
}

func NewAuthHandler(svcMgr *services.ServiceManager, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		svcMgr:        svcMgr,
		secureCookies: secureCookies,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response
type LoginResponse struct {
	Success   bool                   `json:"success"`
	Token     string                 `json:"token,omitempty"`
	User      map[string]interface{} `json:"user,omitempty"`
	ExpiresAt string                 `json:"expires_at,omitempty"`
}

func userData(u auth.UserSession) map[string]interface{} {
	return map[string]interface{}{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"admin": u.Admin,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !BindJSON(c, &req) {
		return
	}

	if !auth.IsValidEmail(req.Email) {
		RespondAppError(c, errors.NewValidationError("email", "Invalid email format"))
		return
	}

	result, err := h.svcMgr.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success:   true,
		Token:     result.Token,
		User:      userData(result.User),
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		RespondAppError(c, errors.NewUnauthorizedError("No token provided"))
		return
	}

	if err := h.svcMgr.Auth.Logout(c.Request.Context(), user.SessionID); err != nil {
		RespondAppError(c, err)
		return
	}
	h.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{constants.FieldMessage: "Logged out successfully"})
}

// GetMe handles GET /api/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	HandleGetEnvelope(c, "user", func() (interface{}, error) {
		user := GetUserFromContext(c)
		if user == nil {
			return nil, errors.NewUnauthorizedError("User not found")
		}
		return gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"admin": user.Admin,
		}, nil
	})
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	renderView(c, h.svcMgr.Settings, http.StatusOK, "login", gin.H{"Title": "Login", "Email": ""})
}

// LoginForm handles POST /login: a successful login stores the token in a
// cookie and opens the leads index
func (h *AuthHandler) LoginForm(c *gin.Context) {
	email := c.PostForm("email")
	result, err := h.svcMgr.Auth.Login(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		status := errors.GetHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		renderView(c, h.svcMgr.Settings, status, "login", gin.H{
			"Title": "Login",
			"Email": email,
			"Error": errors.PublicMessage(err),
		})
		return
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.CookieAuthToken, result.Token, maxAge, "/", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, constants.PathLeads)
}

// LogoutForm handles POST /logout
func (h *AuthHandler) LogoutForm(c *gin.Context) {
	if user := GetUserFromContext(c); user != nil {
		if err := h.svcMgr.Auth.Logout(c.Request.Context(), user.SessionID); err != nil {
			_ = c.Error(err)
		}
	}
	h.clearCookie(c)
	c.Redirect(http.StatusFound, constants.PathLogin)
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.CookieAuthToken, "", -1, "/", "", h.secureCookies, true)
}
