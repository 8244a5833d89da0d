package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/SebbieMzingKe/iam-profile/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func generateTestToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := &models.IDTokenClaims{
		Email: "test@example.com",
		Name:  "test user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "test@example.com",
		},
	}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tokenString
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("", filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	return db
}

// requestWith replays the cookies set on rec into a new request.
func requestWith(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestExpiryFromToken(t *testing.T) {
	fallback := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	tests := []struct {
		name     string
		token    string
		expected time.Time
	}{
		{name: "token with exp", token: generateTestToken(t, exp), expected: exp},
		{name: "token without exp", token: generateTestToken(t, time.Time{}), expected: fallback},
		{name: "garbage", token: "not-a-token", expected: fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(ExpiryFromToken(tt.token, fallback)))
		})
	}
}

func TestCookieStore(t *testing.T) {
	store := NewCookieStore("session_default", true)
	tokenString := generateTestToken(t, time.Now().Add(time.Hour))

	_, err := store.Get(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)

	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(rec, Session{IDToken: tokenString, ExpiresAt: time.Now().Add(time.Hour)}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_default", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	sess, err := store.Get(requestWith(rec))
	require.NoError(t, err)
	assert.Equal(t, tokenString, sess.IDToken)

	clearRec := httptest.NewRecorder()
	require.NoError(t, store.Clear(clearRec, requestWith(rec)))
	cleared := clearRec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestDBStore(t *testing.T) {
	db := setupTestDB(t)
	store, err := NewDBStore(db, "default", "session_default", false, zap.NewNop())
	require.NoError(t, err)

	tokenString := generateTestToken(t, time.Now().Add(time.Hour))

	t.Run("round trip", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, store.Save(rec, Session{IDToken: tokenString, ExpiresAt: time.Now().Add(time.Hour)}))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.NotEqual(t, tokenString, cookies[0].Value)
		assert.Len(t, cookies[0].Value, 36)

		sess, err := store.Get(requestWith(rec))
		require.NoError(t, err)
		assert.Equal(t, tokenString, sess.IDToken)

		clearRec := httptest.NewRecorder()
		require.NoError(t, store.Clear(clearRec, requestWith(rec)))

		_, err = store.Get(requestWith(rec))
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session_default", Value: "00000000-0000-0000-0000-000000000000"})
		_, err := store.Get(req)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("other profile", func(t *testing.T) {
		other, err := NewDBStore(db, "admin", "session_default", false, zap.NewNop())
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		require.NoError(t, other.Save(rec, Session{IDToken: tokenString, ExpiresAt: time.Now().Add(time.Hour)}))

		_, err = store.Get(requestWith(rec))
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("expired session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, store.Save(rec, Session{IDToken: tokenString, ExpiresAt: time.Now().Add(-time.Minute)}))

		_, err := store.Get(requestWith(rec))
		assert.ErrorIs(t, err, ErrSessionExpired)

		_, err = store.Get(requestWith(rec))
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("delete expired", func(t *testing.T) {
		for _, exp := range []time.Time{time.Now().Add(-2 * time.Hour), time.Now().Add(-time.Hour), time.Now().Add(time.Hour)} {
			require.NoError(t, store.Save(httptest.NewRecorder(), Session{IDToken: tokenString, ExpiresAt: exp}))
		}

		deleted, err := store.DeleteExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)
	})

	t.Run("session without expiry survives collection", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, store.Save(rec, Session{IDToken: tokenString}))

		deleted, err := store.DeleteExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)

		sess, err := store.Get(requestWith(rec))
		require.NoError(t, err)
		assert.Equal(t, tokenString, sess.IDToken)
	})
}

type countingDeleter struct {
	calls int
	err   error
}

func (d *countingDeleter) DeleteExpired(context.Context) (int64, error) {
	d.calls++
	return 3, d.err
}

func TestGarbageCollector(t *testing.T) {
	t.Run("collect", func(t *testing.T) {
		d := &countingDeleter{}
		gc := NewGarbageCollector(d, time.Hour, zap.NewNop())

		n, err := gc.Collect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.Equal(t, 1, d.calls)
	})

	t.Run("collect error", func(t *testing.T) {
		gc := NewGarbageCollector(&countingDeleter{err: errors.New("db down")}, time.Hour, zap.NewNop())

		_, err := gc.Collect(context.Background())
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("start stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := NewGarbageCollector(&countingDeleter{}, time.Hour, zap.NewNop()).Start(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
