// Package page drives the profile view: it fetches the current page to read
// the bearer token from the response headers, decodes and renders it onto a
// Surface, and handles the refresh and logout actions.
package page

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/SebbieMzingKe/iam-profile/internal/render"
	"github.com/SebbieMzingKe/iam-profile/internal/token"
	"go.uber.org/zap"
)

const (
	bearerPrefix      = "Bearer "
	defaultLogoutPath = "/logout"
)

// Controller runs the load cycle and the logout action against a Surface.
type Controller struct {
	client     *http.Client
	pageURL    *url.URL
	logoutPath string
	renderer   *render.Renderer
	logger     *zap.Logger
	surface    Surface
}

// Option customizes a Controller.
type Option func(*Controller)

// WithHTTPClient sets the client used for both requests. Its cookie jar, if
// any, supplies the same-origin credentials for logout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		c.client = client
	}
}

// WithRenderer overrides the claims renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(c *Controller) {
		c.renderer = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithLogoutPath overrides the logout endpoint path.
func WithLogoutPath(path string) Option {
	return func(c *Controller) {
		c.logoutPath = path
	}
}

// NewController creates a controller for the page at pageURL.
func NewController(pageURL string, surface Surface, opts ...Option) (*Controller, error) {
	if surface == nil {
		return nil, fmt.Errorf("surface is required")
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("page url must be absolute: %q", pageURL)
	}

	c := &Controller{
		pageURL:    u,
		logoutPath: defaultLogoutPath,
		surface:    surface,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.client = &http.Client{Jar: jar}
	}
	if c.renderer == nil {
		c.renderer = render.NewRenderer()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

// PageURL returns the URL the controller loads.
func (c *Controller) PageURL() *url.URL {
	u := *c.pageURL
	return &u
}

// Bind registers the refresh and logout handlers on the surface.
func (c *Controller) Bind() {
	c.surface.OnRefresh(func(ctx context.Context) {
		_ = c.LoadUserData(ctx)
	})
	c.surface.OnLogout(func(ctx context.Context) {
		_ = c.Logout(ctx)
	})
}

// Start binds the actions and runs the initial load.
func (c *Controller) Start(ctx context.Context) error {
	c.Bind()
	return c.LoadUserData(ctx)
}

// LoadUserData fetches the page, reads the bearer token from the response
// headers and renders its claims. Every failure ends in a visible error
// state; the error is also returned.
func (c *Controller) LoadUserData(ctx context.Context) error {
	c.surface.HideError()

	header, err := c.fetchAuthorization(ctx)
	if err != nil {
		c.logger.Debug("page fetch failed", zap.String("url", c.pageURL.String()), zap.Error(err))
		c.surface.ShowError(fmt.Sprintf(msgProcessing, err))
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	raw, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		c.surface.ShowError(MsgMissingToken)
		return ErrMissingToken
	}

	claims, decodeErr := token.Decode(raw)
	result := c.renderer.Render(claims)
	Apply(c.surface, result)

	switch {
	case decodeErr != nil:
		c.logger.Debug("token decode failed", zap.Error(decodeErr))
		return decodeErr
	case result.Failed():
		return token.ErrExpired
	}
	c.logger.Debug("claims rendered", zap.Int("claims", len(result.Rows)), zap.Bool("profile", result.Profile != nil))
	return nil
}

// Logout calls the logout endpoint. A redirected response navigates to its
// final URL; anything else, request failures included, reloads the page.
func (c *Controller) Logout(ctx context.Context) error {
	target := c.pageURL.ResolveReference(&url.URL{Path: c.logoutPath})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		c.logger.Error("logout request failed", zap.Error(err))
		c.surface.Reload()
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("logout request failed", zap.String("url", target.String()), zap.Error(err))
		c.surface.Reload()
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.Request != nil && resp.Request.URL != nil && resp.Request.URL.String() != target.String() {
		c.logger.Debug("logout redirected", zap.String("location", resp.Request.URL.String()))
		c.surface.Navigate(resp.Request.URL.String())
		return nil
	}

	c.surface.Reload()
	return nil
}

func (c *Controller) fetchAuthorization(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return resp.Header.Get("Authorization"), nil
}

// Apply puts a rendered result on the surface.
func Apply(surface Surface, result render.Result) {
	if result.Failed() {
		surface.ShowError(result.Error)
		return
	}
	if result.Profile != nil {
		surface.ShowProfile(*result.Profile)
	} else {
		surface.HideProfile()
	}
	surface.SetClaims(result.Rows)
}
