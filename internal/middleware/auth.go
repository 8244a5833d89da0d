package middleware

import (
	"errors"
	"net/http"

	"github.com/SebbieMzingKe/iam-profile/internal/logger"
	"github.com/SebbieMzingKe/iam-profile/internal/models"
	"github.com/SebbieMzingKe/iam-profile/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IDTokenKey is the gin context key holding the session id_token.
const IDTokenKey = "id_token"

// RequireSession loads the session for the request. Anonymous requests are
// handed to onAnonymous. Authenticated responses carry the id_token in
// their Authorization header so the page can read it.
func RequireSession(store session.Store, onAnonymous gin.HandlerFunc, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Request)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) && !errors.Is(err, session.ErrSessionExpired) {
				log.Error("session lookup failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
					Error:   "session_error",
					Message: "failed to load session",
					Code:    http.StatusInternalServerError,
				})
				return
			}
			log.Debug("no session", zap.String("path", c.Request.URL.Path), zap.Error(err))
			onAnonymous(c)
			c.Abort()
			return
		}

		log.Debug("setting authorization header", zap.String("token", logger.TokenPrefix(sess.IDToken)))
		c.Header("Authorization", "Bearer "+sess.IDToken)
		c.Set(IDTokenKey, sess.IDToken)
		c.Next()
	}
}

// IDToken returns the id_token stored by RequireSession.
func IDToken(c *gin.Context) (string, bool) {
	v, ok := c.Get(IDTokenKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
