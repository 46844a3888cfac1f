package identity

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewell-health/carewell/config"
	"github.com/carewell-health/carewell/internal/rbac"
)

const testSecret = "test-jwt-secret"

func testClient(baseURL string) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(config.IdentityConfig{
		BaseURL:    baseURL,
		AnonKey:    "anon-key",
		ServiceKey: "service-key",
		JWTSecret:  testSecret,
		CookieName: "cw-access-token",
		Timeout:    time.Second,
	}, log)
}

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   uuid.NewString(),
		"email": "user@carewell.test",
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func requestWithCookie(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/patient", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "cw-access-token", Value: token})
	}
	return req
}

func TestCurrentSession(t *testing.T) {
	userID := uuid.New()
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    userID.String(),
			"email": "doc@carewell.test",
			"user_metadata": map[string]interface{}{
				"role": "doctor",
			},
		})
	}))
	defer srv.Close()

	token := signToken(t, testSecret, time.Now().Add(time.Hour))
	sess, err := testClient(srv.URL).CurrentSession(context.Background(), requestWithCookie(token))

	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, userID, sess.UserID)
	assert.Equal(t, "doc@carewell.test", sess.Email)
	assert.Equal(t, "doctor", sess.Role)
	assert.Equal(t, rbac.RoleDoctor, sess.ParsedRole())
	assert.Equal(t, "Bearer "+token, gotAuth)
}

func TestCurrentSessionNoCookie(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	sess, err := testClient(srv.URL).CurrentSession(context.Background(), requestWithCookie(""))

	assert.NoError(t, err)
	assert.Nil(t, sess)
	assert.False(t, called, "provider must not be called without a cookie")
}

func TestCurrentSessionRejectsBadTokensLocally(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	sess, err := client.CurrentSession(context.Background(), requestWithCookie("not-a-jwt"))
	assert.NoError(t, err)
	assert.Nil(t, sess)

	forged := signToken(t, "wrong-secret", time.Now().Add(time.Hour))
	sess, err = client.CurrentSession(context.Background(), requestWithCookie(forged))
	assert.NoError(t, err)
	assert.Nil(t, sess)

	expired := signToken(t, testSecret, time.Now().Add(-time.Hour))
	sess, err = client.CurrentSession(context.Background(), requestWithCookie(expired))
	assert.NoError(t, err)
	assert.Nil(t, sess)

	assert.False(t, called, "invalid tokens must never reach the provider")
}

func TestCurrentSessionRevokedUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	token := signToken(t, testSecret, time.Now().Add(time.Hour))
	sess, err := testClient(srv.URL).CurrentSession(context.Background(), requestWithCookie(token))

	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestCurrentSessionProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	token := signToken(t, testSecret, time.Now().Add(time.Hour))
	sess, err := testClient(srv.URL).CurrentSession(context.Background(), requestWithCookie(token))

	assert.Error(t, err)
	assert.Nil(t, sess)
}

func TestListUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"users": []map[string]interface{}{
				{
					"id":            uuid.NewString(),
					"email":         "a@carewell.test",
					"user_metadata": map[string]interface{}{"role": "admin", "full_name": "A"},
				},
				{
					"id":            "not-a-uuid",
					"email":         "broken@carewell.test",
					"user_metadata": map[string]interface{}{"role": "patient"},
				},
			},
			"total": 2,
		})
	}))
	defer srv.Close()

	users, total, err := testClient(srv.URL).ListUsers(context.Background(), 2, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	// Malformed records are skipped, not fatal.
	require.Len(t, users, 1)
	assert.Equal(t, "a@carewell.test", users[0].Email)
	assert.Equal(t, "admin", users[0].Role)
	assert.Equal(t, "A", users[0].FullName)
}

func TestGetUserNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	user, err := testClient(srv.URL).GetUser(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUpdateUserRole(t *testing.T) {
	targetID := uuid.New()
	var gotPath string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := testClient(srv.URL).UpdateUserRole(context.Background(), targetID, rbac.RoleDoctor)

	require.NoError(t, err)
	assert.Equal(t, "/auth/v1/admin/users/"+targetID.String(), gotPath)
	metadata, ok := gotBody["user_metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "doctor", metadata["role"])
}
