package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestJWTRoundTrip(t *testing.T) {
	j := NewJWT(secret)
	tok, exp, err := j.Sign("code-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), exp, time.Minute)

	claims, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "code-1", claims.Subject)
}

func TestJWTRejectsExpiredAndForeign(t *testing.T) {
	j := NewJWT(secret)
	j.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	old, _, err := j.Sign("code-1")
	require.NoError(t, err)

	fresh := NewJWT(secret)
	_, err = fresh.Verify(old)
	assert.Error(t, err)

	other, _, err := NewJWT("ffffffffffffffffffffffffffffffff").Sign("code-1")
	require.NoError(t, err)
	_, err = fresh.Verify(other)
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	j := NewJWT(secret)
	tok, _, err := j.Sign("code-1")
	require.NoError(t, err)

	h := RequireAuth(j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(c.Subject))
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no credentials", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: "x.y.z"}) }, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: tok}) }, http.StatusOK},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/insights", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequireAuthErrorBody(t *testing.T) {
	h := RequireAuth(NewJWT(secret))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"unauthorized","code":"UNAUTHORIZED"}`, rec.Body.String())
}

func TestSessionCookie(t *testing.T) {
	c := SessionCookie("tok", true)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, int(SessionTTL.Seconds()), c.MaxAge)

	assert.Equal(t, -1, SessionCookie("", false).MaxAge)
}

func openCodes(t *testing.T) *Codes {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&AccessCode{}))
	return &Codes{DB: gdb}
}

func TestCodesVerify(t *testing.T) {
	codes := openCodes(t)
	ctx := context.Background()

	added, err := codes.Add(ctx, "research team", "open-sesame")
	require.NoError(t, err)
	assert.NotEqual(t, "open-sesame", added.CodeHash)

	got, err := codes.Verify(ctx, "  open-sesame ")
	require.NoError(t, err)
	assert.Equal(t, added.ID, got.ID)

	_, err = codes.Verify(ctx, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = codes.Verify(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidCode)
}
