package authsvc_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklending/internal/domain"
	"booklending/internal/svc/authsvc"
)

func setupTransport(t *testing.T) *authsvc.HTTPTransport {
	t.Helper()

	svc, _ := setupTestService(t)

	return authsvc.NewHTTPTransport(svc)
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestHTTPTransport_Register_Validation(t *testing.T) {
	transport := setupTransport(t)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{
			name: "all fields present",
			body: map[string]string{"username": "alice", "password": "pw", "name": "Alice"},
			want: http.StatusCreated,
		},
		{
			name: "missing username",
			body: map[string]string{"password": "pw", "name": "Alice"},
			want: http.StatusBadRequest,
		},
		{
			name: "missing password",
			body: map[string]string{"username": "bob", "name": "Bob"},
			want: http.StatusBadRequest,
		},
		{
			name: "missing name",
			body: map[string]string{"username": "bob", "password": "pw"},
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, transport, "/api/register", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHTTPTransport_Register_OmitsCredentials(t *testing.T) {
	transport := setupTransport(t)

	rec := postJSON(t, transport, "/api/register", map[string]string{
		"username": "alice", "password": "pw", "name": "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user domain.PublicUser
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.NotEmpty(t, user.ID)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHTTPTransport_Login_ReturnsTokenAndUser(t *testing.T) {
	transport := setupTransport(t)

	rec := postJSON(t, transport, "/api/register", map[string]string{
		"username": "alice", "password": "pw", "name": "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, transport, "/api/login", map[string]string{
		"username": "alice", "password": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.SessionTokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestHTTPTransport_Login_Validation(t *testing.T) {
	transport := setupTransport(t)

	rec := postJSON(t, transport, "/api/login", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, transport, "/api/login", map[string]string{"password": "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
