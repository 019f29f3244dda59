package auth

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoUserID writes the context user ID (or "anon") so tests can see what the
// middleware stored.
var echoUserID = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		w.Write([]byte("anon"))
		return
	}
	w.Write([]byte(strconv.FormatInt(id, 10)))
})

func TestRequireAuth(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate(7)
	require.NoError(t, err)

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		wantCode int
		wantBody string
	}{
		{
			name:     "bearer header",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantCode: http.StatusOK,
			wantBody: "7",
		},
		{
			name:     "cookie",
			setup:    func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: token}) },
			wantCode: http.StatusOK,
			wantBody: "7",
		},
		{
			name:     "missing",
			setup:    func(r *http.Request) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "bad bearer",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			RequireAuth(ts)(echoUserID).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"success":false`)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate(3)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	OptionalAuth(ts)(echoUserID).ServeHTTP(rec, req)
	assert.Equal(t, "anon", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	OptionalAuth(ts)(echoUserID).ServeHTTP(rec, req)
	assert.Equal(t, "3", rec.Body.String())
}
