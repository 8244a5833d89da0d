package handlers

import (
	"net/http"

	"github.com/SebbieMzingKe/iam-profile/internal/middleware"
	"github.com/SebbieMzingKe/iam-profile/internal/models"
	"github.com/SebbieMzingKe/iam-profile/internal/render"
	"github.com/SebbieMzingKe/iam-profile/internal/token"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ClaimsHandler struct {
	renderer *render.Renderer
	log      *zap.Logger
}

func NewClaimsHandler(renderer *render.Renderer, log *zap.Logger) *ClaimsHandler {
	if renderer == nil {
		renderer = render.NewRenderer()
	}
	return &ClaimsHandler{renderer: renderer, log: log}
}

// GetClaims renders the session id_token the same way the profile page
// does. Decode failures and expiry are reported in the result body.
func (h *ClaimsHandler) GetClaims(c *gin.Context) {
	idToken, ok := middleware.IDToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "no session token available",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	claims, err := token.Decode(idToken)
	if err != nil {
		h.log.Warn("failed to decode session token", zap.Error(err))
	}
	c.JSON(http.StatusOK, h.renderer.Render(claims))
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
