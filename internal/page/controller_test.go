package page

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/SebbieMzingKe/iam-profile/internal/render"
	"github.com/SebbieMzingKe/iam-profile/internal/token"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tokenString
}

func pageServer(t *testing.T, authHeader string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authHeader != "" {
			w.Header().Set("Authorization", authHeader)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html></html>")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestController(t *testing.T, pageURL string, surface Surface, opts ...Option) *Controller {
	t.Helper()
	c, err := NewController(pageURL, surface, opts...)
	require.NoError(t, err)
	return c
}

func TestLoadUserData(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	past := time.Now().Add(-time.Hour).Unix()

	tests := []struct {
		name         string
		authHeader   string
		expectedErr  error
		errorMessage string
		profile      *render.Profile
		rowCount     int
	}{
		{
			name:       "valid token with profile",
			authHeader: "Bearer " + generateTestToken(t, jwt.MapClaims{"name": "Alice", "email": "a@x.com", "exp": future}),
			profile: &render.Profile{
				Name:      "Alice",
				Email:     "a@x.com",
				AvatarURL: render.DefaultAvatarURL,
			},
			rowCount: 3,
		},
		{
			name:       "valid token without name",
			authHeader: "Bearer " + generateTestToken(t, jwt.MapClaims{"sub": "42"}),
			rowCount:   1,
		},
		{
			name:         "expired token",
			authHeader:   "Bearer " + generateTestToken(t, jwt.MapClaims{"exp": past}),
			expectedErr:  token.ErrExpired,
			errorMessage: render.MsgTokenExpired,
		},
		{
			name:         "missing authorization header",
			authHeader:   "",
			expectedErr:  ErrMissingToken,
			errorMessage: MsgMissingToken,
		},
		{
			name:         "lowercase bearer prefix",
			authHeader:   "bearer " + generateTestToken(t, jwt.MapClaims{"sub": "42"}),
			expectedErr:  ErrMissingToken,
			errorMessage: MsgMissingToken,
		},
		{
			name:         "basic auth header",
			authHeader:   "Basic dXNlcjpwYXNz",
			expectedErr:  ErrMissingToken,
			errorMessage: MsgMissingToken,
		},
		{
			name:         "malformed token",
			authHeader:   "Bearer not-a-jwt",
			expectedErr:  token.ErrMalformedToken,
			errorMessage: render.MsgDecodeFailed,
		},
		{
			name:         "undecodable payload",
			authHeader:   "Bearer a." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".c",
			expectedErr:  token.ErrDecode,
			errorMessage: render.MsgDecodeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := pageServer(t, tt.authHeader)
			surface := NewMemorySurface()
			controller := newTestController(t, srv.URL+"/profile", surface)

			err := controller.LoadUserData(context.Background())
			state := surface.State()

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.True(t, state.ErrorVisible)
				assert.Equal(t, tt.errorMessage, state.ErrorMessage)
				assert.Equal(t, tt.errorMessage, state.Placeholder)
				assert.False(t, state.ProfileVisible)
				assert.Empty(t, state.Rows)
				return
			}

			require.NoError(t, err)
			assert.False(t, state.ErrorVisible)
			assert.Empty(t, state.Placeholder)
			assert.Len(t, state.Rows, tt.rowCount)
			if tt.profile != nil {
				assert.True(t, state.ProfileVisible)
				assert.Equal(t, *tt.profile, state.Profile)
			} else {
				assert.False(t, state.ProfileVisible)
			}
		})
	}
}

func TestLoadUserDataBypassesCache(t *testing.T) {
	var cacheControl, pragma string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cacheControl = r.Header.Get("Cache-Control")
		pragma = r.Header.Get("Pragma")
		w.Header().Set("Authorization", "Bearer "+generateTestToken(t, jwt.MapClaims{"sub": "42"}))
	}))
	defer srv.Close()

	controller := newTestController(t, srv.URL, NewMemorySurface())
	require.NoError(t, controller.LoadUserData(context.Background()))

	assert.Equal(t, "no-cache", cacheControl)
	assert.Equal(t, "no-cache", pragma)
}

func TestLoadUserDataNetworkFailure(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://profile.example.com/",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	surface := NewMemorySurface()
	controller := newTestController(t, "https://profile.example.com/", surface)

	err := controller.LoadUserData(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)

	state := surface.State()
	assert.True(t, state.ErrorVisible)
	assert.Contains(t, state.ErrorMessage, "Error processing token")
	assert.Contains(t, state.ErrorMessage, "connection refused")
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestLoadUserDataRecoversAfterError(t *testing.T) {
	header := ""
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if header != "" {
			w.Header().Set("Authorization", header)
		}
	}))
	defer srv.Close()

	surface := NewMemorySurface()
	controller := newTestController(t, srv.URL, surface)

	assert.ErrorIs(t, controller.LoadUserData(context.Background()), ErrMissingToken)
	assert.True(t, surface.State().ErrorVisible)

	header = "Bearer " + generateTestToken(t, jwt.MapClaims{"name": "Alice"})
	require.NoError(t, controller.LoadUserData(context.Background()))

	state := surface.State()
	assert.False(t, state.ErrorVisible)
	assert.True(t, state.ProfileVisible)
	assert.Len(t, state.Rows, 1)
}

func TestLogoutRedirect(t *testing.T) {
	var sawCookie bool
	mux := http.NewServeMux()
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session_default"); err == nil && c.Value == "abc" {
			sawCookie = true
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "login")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	u, _ := url.Parse(srv.URL)
	jar.SetCookies(u, []*http.Cookie{{Name: "session_default", Value: "abc", Path: "/"}})

	surface := NewMemorySurface()
	controller := newTestController(t, srv.URL+"/profile/index.html", surface, WithHTTPClient(&http.Client{Jar: jar}))

	require.NoError(t, controller.Logout(context.Background()))

	state := surface.State()
	assert.Equal(t, []string{srv.URL + "/login"}, state.Navigations)
	assert.Equal(t, 0, state.Reloads)
	assert.True(t, sawCookie)
}

func TestLogoutWithoutRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/logout", r.URL.Path)
		fmt.Fprint(w, "<html>welcome</html>")
	}))
	defer srv.Close()

	surface := NewMemorySurface()
	controller := newTestController(t, srv.URL, surface)

	require.NoError(t, controller.Logout(context.Background()))

	state := surface.State()
	assert.Empty(t, state.Navigations)
	assert.Equal(t, 1, state.Reloads)
}

func TestLogoutFailureReloads(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://profile.example.com/logout",
		httpmock.NewErrorResponder(errors.New("connection reset")))

	surface := NewMemorySurface()
	controller := newTestController(t, "https://profile.example.com/", surface)

	err := controller.Logout(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)

	state := surface.State()
	assert.Equal(t, 1, state.Reloads)
	assert.Empty(t, state.Navigations)
}

func TestStartBindsActions(t *testing.T) {
	loads := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		loads++
		w.Header().Set("Authorization", "Bearer "+generateTestToken(t, jwt.MapClaims{"name": "Alice"}))
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	surface := NewMemorySurface()
	controller := newTestController(t, srv.URL+"/", surface)

	ctx := context.Background()
	require.NoError(t, controller.Start(ctx))
	assert.Equal(t, 1, loads)

	surface.ClickRefresh(ctx)
	assert.Equal(t, 2, loads)

	surface.ClickLogout(ctx)
	assert.Equal(t, 1, surface.State().Reloads)
}

func TestShowErrorIsIdempotent(t *testing.T) {
	surface := NewMemorySurface()
	surface.ShowProfile(render.Profile{Name: "Alice"})
	surface.SetClaims([]render.Row{{Label: "name", Value: "Alice"}})

	surface.ShowError("boom")
	first := surface.State()
	surface.ShowError("boom")
	second := surface.State()

	assert.Equal(t, first, second)
	assert.True(t, second.ErrorVisible)
	assert.False(t, second.ProfileVisible)
	assert.Empty(t, second.Rows)
	assert.Equal(t, "boom", second.Placeholder)
}

func TestNewControllerValidation(t *testing.T) {
	_, err := NewController("/relative", NewMemorySurface())
	assert.Error(t, err)

	_, err = NewController("https://example.com", nil)
	assert.Error(t, err)

	c, err := NewController("https://example.com/app/", NewMemorySurface(), WithLogoutPath("/signout"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/app/", c.PageURL().String())
}
