// Package commands implements the profilectl subcommands.
package commands

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/SebbieMzingKe/iam-profile/internal/logger"
	"github.com/SebbieMzingKe/iam-profile/internal/page"
	"github.com/SebbieMzingKe/iam-profile/internal/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Options are the flags shared by the commands that talk to a profile page.
type Options struct {
	URL     string
	Cookies []string
	Timeout time.Duration
	Debug   bool
}

func (o *Options) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.URL, "url", "", "absolute URL of the profile page")
	cmd.Flags().StringArrayVar(&o.Cookies, "cookie", nil, "cookie to send as NAME=VALUE (repeatable)")
	cmd.Flags().DurationVar(&o.Timeout, "timeout", 10*time.Second, "HTTP request timeout")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "enable debug logging on stderr")
	_ = cmd.MarkFlagRequired("url")
}

// controller builds a page controller that renders to out.
func (o *Options) controller(out io.Writer) (*page.Controller, *terminal.Surface, error) {
	pageURL, err := url.Parse(o.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	cookies, err := parseCookies(o.Cookies)
	if err != nil {
		return nil, nil, err
	}
	jar.SetCookies(pageURL, cookies)

	log := zap.NewNop()
	if o.Debug {
		if log, err = logger.NewDevelopmentLogger(true); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	surface := terminal.NewSurface(out)
	ctrl, err := page.NewController(o.URL, surface,
		page.WithHTTPClient(&http.Client{Jar: jar, Timeout: o.Timeout}),
		page.WithLogger(log),
	)
	if err != nil {
		return nil, nil, err
	}
	return ctrl, surface, nil
}

func parseCookies(values []string) ([]*http.Cookie, error) {
	cookies := make([]*http.Cookie, 0, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --cookie %q: expected NAME=VALUE", v)
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	return cookies, nil
}
