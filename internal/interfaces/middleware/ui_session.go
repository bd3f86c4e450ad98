package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

// UISession loads the UI state of the authenticated session and saves
// pending changes before the first byte of the response goes out.
// Must run after RequireAuth.
func UISession(sessions *services.SessionService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := c.MustGet(constants.ContextKeyUser).(*models.UserSession)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		sess, err := sessions.Load(c.Request.Context(), user.SessionID)
		if err != nil {
			logger.Error("failed to load ui session", zap.String("session_id", user.SessionID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				constants.ResponseError: "Internal Server Error",
				constants.FieldMessage:  "failed to load session",
				"code":                  "INTERNAL_ERROR",
				"data":                  nil,
			})
			return
		}
		c.Set(constants.ContextKeySession, sess)

		flush := func() {
			if err := sessions.Save(c.Request.Context(), sess); err != nil {
				logger.Error("failed to save ui session", zap.String("session_id", sess.ID()), zap.Error(err))
			}
		}
		c.Writer = &sessionWriter{ResponseWriter: c.Writer, flush: flush}

		c.Next()
		flush()
	}
}

// sessionWriter saves the session ahead of the response body
type sessionWriter struct {
	gin.ResponseWriter
	flush func()
}

func (w *sessionWriter) WriteHeaderNow() {
	if !w.Written() {
		w.flush()
	}
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(data []byte) (int, error) {
	if !w.Written() {
		w.flush()
	}
	return w.ResponseWriter.Write(data)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	if !w.Written() {
		w.flush()
	}
	return w.ResponseWriter.WriteString(s)
}
