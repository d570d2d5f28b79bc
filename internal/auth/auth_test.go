package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	j := NewJWT("secret")
	tok, err := j.Sign("notehub-web", time.Hour)
	require.NoError(t, err)

	sub, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "notehub-web", sub)

	_, err = NewJWT("other").Verify(tok)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	j := NewJWT("secret")
	tok, err := j.Sign("x", -time.Minute)
	require.NoError(t, err)
	// negative ttl means no expiry
	_, err = j.Verify(tok)
	require.NoError(t, err)

	tok, err = j.Sign("x", time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	_, err = j.Verify(tok)
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	j := NewJWT("secret")
	h := RequireAuth(j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, _ := SubjectFromContext(r.Context())
		_, _ = w.Write([]byte(sub))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := j.Sign("dev", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Body.String())
}

func TestRequireAuthChallenge(t *testing.T) {
	j := NewJWT("secret")
	h := RequireAuth(j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tok, err := j.Sign("dev", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		header string
		status int
		auth   string
	}{
		{"", http.StatusUnauthorized, `Bearer realm="notehub"`},
		{"Basic abc", http.StatusUnauthorized, `Bearer realm="notehub"`},
		{"Bearer junk", http.StatusUnauthorized, `Bearer realm="notehub", error="invalid_token"`},
		{"bearer " + tok, http.StatusOK, ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/notes", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, tc.header)
		assert.Equal(t, tc.auth, rec.Header().Get("WWW-Authenticate"), tc.header)
	}
}
