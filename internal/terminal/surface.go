// Package terminal implements a page.Surface that prints the profile view to
// a writer, for command-line use.
package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/SebbieMzingKe/iam-profile/internal/page"
	"github.com/SebbieMzingKe/iam-profile/internal/render"
)

// Surface writes every view update to out as it happens.
type Surface struct {
	mu      sync.Mutex
	out     io.Writer
	refresh page.Action
	logout  page.Action

	// reloading guards against a reload triggered from inside a refresh.
	reloading bool
	navigated string
}

func NewSurface(out io.Writer) *Surface {
	return &Surface{out: out}
}

func (s *Surface) ShowError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "error: %s\n", message)
	fmt.Fprintln(s.out, "== Claims ==")
	fmt.Fprintf(s.out, "  %s\n", message)
}

func (s *Surface) HideError() {}

func (s *Surface) ShowProfile(p render.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, "== Profile ==")
	fmt.Fprintf(s.out, "name   : %s\n", p.Name)
	fmt.Fprintf(s.out, "email  : %s\n", p.Email)
	fmt.Fprintf(s.out, "avatar : %s\n", p.AvatarURL)
}

func (s *Surface) HideProfile() {}

func (s *Surface) SetClaims(rows []render.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, "== Claims ==")
	width := 0
	for _, row := range rows {
		if len(row.Label) > width {
			width = len(row.Label)
		}
	}
	for _, row := range rows {
		value := strings.ReplaceAll(row.Text(), "\n", "\n"+strings.Repeat(" ", width+3))
		fmt.Fprintf(s.out, "%-*s : %s\n", width, row.Label, value)
	}
}

func (s *Surface) Navigate(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigated = url
	fmt.Fprintf(s.out, "navigate: %s\n", url)
}

// Reload re-runs the refresh handler, which is what reloading the page does.
func (s *Surface) Reload() {
	s.mu.Lock()
	fmt.Fprintln(s.out, "reload")
	action := s.refresh
	if s.reloading {
		action = nil
	}
	s.reloading = true
	s.mu.Unlock()

	if action != nil {
		action(context.Background())
	}

	s.mu.Lock()
	s.reloading = false
	s.mu.Unlock()
}

func (s *Surface) OnRefresh(action page.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = action
}

func (s *Surface) OnLogout(action page.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logout = action
}

// Navigated returns the last navigation target, if any.
func (s *Surface) Navigated() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigated
}

// Dispatch runs the handler bound to a command: "r" refresh, "l" logout.
// It reports false for unknown commands.
func (s *Surface) Dispatch(ctx context.Context, command string) bool {
	s.mu.Lock()
	var action page.Action
	switch strings.TrimSpace(command) {
	case "r", "refresh":
		action = s.refresh
	case "l", "logout":
		action = s.logout
	default:
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	if action != nil {
		action(ctx)
	}
	return true
}
