package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SebbieMzingKe/iam-profile/internal/config"
	"github.com/SebbieMzingKe/iam-profile/internal/middleware"
	"github.com/SebbieMzingKe/iam-profile/internal/models"
	"github.com/SebbieMzingKe/iam-profile/internal/render"
	"github.com/SebbieMzingKe/iam-profile/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the public OAuth endpoints and the session-protected
// content of one profile.
func NewRouter(cfg *config.Config, auth *AuthHandler, store session.Store, log *zap.Logger) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	r.GET("/healthz", Health)
	r.GET("/login", auth.Login)
	r.GET("/callback", auth.Callback)
	r.GET("/logout", auth.Logout)

	requireSession := middleware.RequireSession(store, auth.Anonymous, log)

	claims := NewClaimsHandler(render.NewRenderer(), log)
	r.GET("/api/claims", requireSession, claims.GetClaims)

	var content gin.HandlerFunc
	if cfg.StaticDir != "" {
		log.Info("serving static files", zap.String("dir", cfg.StaticDir))
		content = NewStaticHandler(cfg.StaticDir)
	} else {
		proxy, err := NewProxyHandler(cfg.DestinationURL, log)
		if err != nil {
			return nil, err
		}
		log.Info("proxy mode enabled", zap.String("destination", cfg.DestinationURL))
		content = proxy
	}
	r.NoRoute(requireSession, content)

	return r, nil
}

func writeJSONError(w http.ResponseWriter, status int, body models.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
