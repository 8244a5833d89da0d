package page

import (
	"context"

	"github.com/SebbieMzingKe/iam-profile/internal/render"
)

// Action is a user-triggered handler registered on a Surface.
type Action func(ctx context.Context)

// Surface is the set of UI regions the controller drives: an error banner,
// a profile card, a claim list, and the browser-level navigation hooks.
type Surface interface {
	// ShowError sets the banner message, reveals the banner, hides the
	// profile card and replaces the claim list with one placeholder row
	// carrying the same message. Calling it repeatedly is harmless.
	ShowError(message string)
	HideError()

	ShowProfile(p render.Profile)
	HideProfile()
	SetClaims(rows []render.Row)

	Navigate(url string)
	Reload()

	OnRefresh(action Action)
	OnLogout(action Action)
}
