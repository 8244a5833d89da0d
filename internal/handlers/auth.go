package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/SebbieMzingKe/iam-profile/internal/config"
	"github.com/SebbieMzingKe/iam-profile/internal/logger"
	"github.com/SebbieMzingKe/iam-profile/internal/models"
	"github.com/SebbieMzingKe/iam-profile/internal/session"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type AuthHandler struct {
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
	store        session.Store
	welcomePage  string
	sessionTTL   time.Duration
	log          *zap.Logger
	now          func() time.Time
}

// NewAuthHandler builds the OAuth endpoints for one profile. With an OIDC
// provider configured the endpoints come from discovery and id_tokens are
// verified; otherwise the client-secrets file is used as is.
func NewAuthHandler(ctx context.Context, cfg *config.Config, store session.Store, log *zap.Logger) (*AuthHandler, error) {
	h := &AuthHandler{
		store:       store,
		welcomePage: cfg.WelcomePage,
		sessionTTL:  cfg.SessionTTL,
		log:         log,
		now:         time.Now,
	}

	if cfg.UseDiscovery() {
		provider, err := oidc.NewProvider(ctx, cfg.OIDCProviderURL)
		if err != nil {
			return nil, fmt.Errorf("oidc discovery for %s: %w", cfg.OIDCProviderURL, err)
		}
		h.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})
		h.oauth2Config = &oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			RedirectURL:  cfg.OIDCRedirectURI,
		}
		return h, nil
	}

	oauthConfig, err := config.LoadOAuthFile(cfg.OAuthConfigFile)
	if err != nil {
		return nil, err
	}
	h.oauth2Config = oauthConfig
	return h, nil
}

// Login starts the OAuth flow and returns to "/" afterwards.
func (h *AuthHandler) Login(c *gin.Context) {
	h.log.Info("initiating oauth flow from login page")
	h.startOAuthFlow(c)
}

// Anonymous handles a protected request without a session: the welcome page
// when one is configured, the OAuth flow otherwise.
func (h *AuthHandler) Anonymous(c *gin.Context) {
	if h.welcomePage != "" {
		h.showWelcomePage(c)
		return
	}
	h.startOAuthFlow(c)
}

func (h *AuthHandler) startOAuthFlow(c *gin.Context) {
	target := c.Request.URL.RequestURI()
	if strings.EqualFold(target, "/login") {
		target = "/"
	}
	state := base64.URLEncoding.EncodeToString([]byte(target))
	authURL := h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	h.log.Debug("starting oauth flow", zap.String("target", target))
	c.Redirect(http.StatusFound, authURL)
}

func (h *AuthHandler) Callback(c *gin.Context) {
	if oauthErr := c.Query("error"); oauthErr != "" {
		h.log.Warn("oauth error",
			zap.String("error", oauthErr),
			zap.String("description", c.Query("error_description")),
		)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "oauth_error",
			Message: "OAuth error: " + oauthErr,
			Code:    http.StatusBadRequest,
		})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "missing code",
			Message: "authorization code is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	ctx := c.Request.Context()
	token, err := h.oauth2Config.Exchange(ctx, code)
	if err != nil {
		h.log.Error("token exchange failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "token_exchange_failed",
			Message: "failed to exchange token",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "id_token_missing",
			Message: "no id_token in token response",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if h.verifier != nil {
		if _, err := h.verifier.Verify(ctx, rawIDToken); err != nil {
			h.log.Warn("id_token verification failed", zap.Error(err))
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "invalid_id_token",
				Message: err.Error(),
				Code:    http.StatusUnauthorized,
			})
			return
		}
	}

	fallback := token.Expiry
	if fallback.IsZero() {
		fallback = h.now().Add(h.sessionTTL)
	}
	sess := session.Session{
		IDToken:   rawIDToken,
		ExpiresAt: session.ExpiryFromToken(rawIDToken, fallback),
	}
	if err := h.store.Save(c.Writer, sess); err != nil {
		h.log.Error("failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "session_save_failed",
			Message: "failed to save session",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	redirectPath := redirectTarget(c.Query("state"))
	h.log.Info("login complete",
		zap.String("token", logger.TokenPrefix(rawIDToken)),
		zap.String("redirect", redirectPath),
	)
	c.Redirect(http.StatusFound, redirectPath)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.store.Clear(c.Writer, c.Request); err != nil {
		h.log.Error("failed to clear session", zap.Error(err))
	}
	if h.welcomePage != "" {
		h.showWelcomePage(c)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) showWelcomePage(c *gin.Context) {
	content, err := os.ReadFile(h.welcomePage)
	if err != nil {
		h.log.Error("failed to read welcome page", zap.String("path", h.welcomePage), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "internal server error",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", content)
}

// redirectTarget decodes the OAuth state back into the path the user asked
// for. Anything that is not a local absolute path becomes "/".
func redirectTarget(state string) string {
	if state == "" {
		return "/"
	}
	decoded, err := base64.URLEncoding.DecodeString(state)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(state)
		if err != nil {
			return "/"
		}
	}
	path := string(decoded)
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return "/"
	}
	return path
}
