package page

import (
	"context"
	"sync"

	"github.com/SebbieMzingKe/iam-profile/internal/render"
)

// MemoryState is a snapshot of a MemorySurface.
type MemoryState struct {
	ErrorVisible   bool
	ErrorMessage   string
	ProfileVisible bool
	Profile        render.Profile
	Rows           []render.Row
	Placeholder    string
	Navigations    []string
	Reloads        int
}

// MemorySurface is an in-memory Surface, safe for concurrent use.
type MemorySurface struct {
	mu      sync.Mutex
	state   MemoryState
	refresh Action
	logout  Action
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

func (m *MemorySurface) ShowError(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.ErrorMessage = message
	m.state.ErrorVisible = true
	m.state.ProfileVisible = false
	m.state.Rows = nil
	m.state.Placeholder = message
}

func (m *MemorySurface) HideError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.ErrorVisible = false
}

func (m *MemorySurface) ShowProfile(p render.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Profile = p
	m.state.ProfileVisible = true
}

func (m *MemorySurface) HideProfile() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.ProfileVisible = false
}

func (m *MemorySurface) SetClaims(rows []render.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Rows = append([]render.Row(nil), rows...)
	m.state.Placeholder = ""
}

func (m *MemorySurface) Navigate(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Navigations = append(m.state.Navigations, url)
}

func (m *MemorySurface) Reload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Reloads++
}

func (m *MemorySurface) OnRefresh(action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh = action
}

func (m *MemorySurface) OnLogout(action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logout = action
}

// ClickRefresh runs the bound refresh handler, if any.
func (m *MemorySurface) ClickRefresh(ctx context.Context) {
	m.mu.Lock()
	action := m.refresh
	m.mu.Unlock()
	if action != nil {
		action(ctx)
	}
}

// ClickLogout runs the bound logout handler, if any.
func (m *MemorySurface) ClickLogout(ctx context.Context) {
	m.mu.Lock()
	action := m.logout
	m.mu.Unlock()
	if action != nil {
		action(ctx)
	}
}

// State returns a copy of the current state.
func (m *MemorySurface) State() MemoryState {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	s.Rows = append([]render.Row(nil), m.state.Rows...)
	s.Navigations = append([]string(nil), m.state.Navigations...)
	return s
}
