package handlers

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/SebbieMzingKe/iam-profile/internal/middleware"
	"github.com/SebbieMzingKe/iam-profile/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewProxyHandler forwards authenticated requests to destination with the
// session id_token as a bearer credential.
func NewProxyHandler(destination string, log *zap.Logger) (gin.HandlerFunc, error) {
	target, err := url.Parse(destination)
	if err != nil {
		return nil, fmt.Errorf("invalid destination url %q: %w", destination, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid destination url %q: scheme and host are required", destination)
	}

	proxy := &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = target.Scheme
			req.URL.Host = target.Host
			req.Host = target.Host
			// replaced by the client address once the director returns
			req.Header.Del("X-Forwarded-For")
		},
		ModifyResponse: func(resp *http.Response) error {
			log.Debug("backend response",
				zap.Int("status_code", resp.StatusCode),
				zap.String("url", resp.Request.URL.String()),
			)
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error("backend unavailable", zap.String("destination", target.Host), zap.Error(err))
			writeJSONError(w, http.StatusBadGateway, models.ErrorResponse{
				Error:   "backend_unavailable",
				Message: "Backend unavailable",
				Code:    http.StatusBadGateway,
			})
		},
	}

	return func(c *gin.Context) {
		idToken, ok := middleware.IDToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Authentication required",
				Code:    http.StatusUnauthorized,
			})
			return
		}

		c.Request.Header.Set("Authorization", "Bearer "+idToken)
		proxy.ServeHTTP(c.Writer, c.Request)
	}, nil
}

// NewStaticHandler serves files from dir.
func NewStaticHandler(dir string) gin.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	return func(c *gin.Context) {
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
