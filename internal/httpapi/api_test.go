package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/repository"
	"github.com/abdulrehan17773/am-backend/internal/service"
	"github.com/abdulrehan17773/am-backend/internal/token"
	"github.com/abdulrehan17773/am-backend/pkg/metrics"
)

// memUserRepo is just enough of port.UserRepository for the auth
// middleware paths.
type memUserRepo struct {
	users map[string]domain.User // by uid
}

func (m *memUserRepo) GetUser(_ context.Context, userID uuid.UUID) (domain.User, error) {
	for _, u := range m.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *memUserRepo) GetUserByUID(_ context.Context, uid string) (domain.User, error) {
	u, ok := m.users[uid]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *memUserRepo) GetUsers(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]domain.User, error) {
	return map[uuid.UUID]domain.User{}, nil
}

func (m *memUserRepo) SearchUsers(_ context.Context, _ string, _ domain.Page) ([]domain.User, int64, error) {
	return nil, 0, nil
}

func (m *memUserRepo) InsertUser(_ context.Context, user domain.User) (domain.User, error) {
	user.ID = uuid.New()
	m.users[user.UID] = user
	return user, nil
}

func (m *memUserRepo) UpdateUser(_ context.Context, user domain.User) (domain.User, error) {
	m.users[user.UID] = user
	return user, nil
}

func (m *memUserRepo) SoftDeleteUser(_ context.Context, _ uuid.UUID) error { return nil }

var testMetrics = metrics.NewServerMetrics("test")

func newTestAPI(t *testing.T) (*API, *token.Manager, domain.User) {
	t.Helper()

	user := domain.User{
		ID:       uuid.New(),
		UID:      "u1a2b3c4d5e6",
		FullName: "Jordan Smith",
		Email:    "jordan@example.com",
		Role:     domain.RoleUser,
		Currency: currency.USD,
	}

	users := &memUserRepo{users: map[string]domain.User{user.UID: user}}
	tokens := token.NewManager("test-secret", time.Hour)

	api := New(Deps{
		Auth:    service.NewAuthService(users, tokens, currency.USD),
		Logger:  slog.Default(),
		Metrics: testMetrics,
	})

	return api, tokens, user
}

func doRequest(t *testing.T, handler http.Handler, method, target, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAPI_Health(t *testing.T) {
	api, _, _ := newTestAPI(t)
	handler := api.Handler()

	rec := doRequest(t, handler, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, http.StatusOK, body.StatusCode)
}

func TestAPI_AuthMiddleware(t *testing.T) {
	api, tokens, user := newTestAPI(t)
	handler := api.Handler()

	valid, err := tokens.Issue(user)
	require.NoError(t, err)

	tests := []struct {
		name     string
		bearer   string
		wantCode int
	}{
		{name: "no token", bearer: "", wantCode: http.StatusUnauthorized},
		{name: "garbage token", bearer: "garbage.token.value", wantCode: http.StatusUnauthorized},
		{name: "valid token", bearer: valid, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, handler, http.MethodGet, "/api/v1/users/me", tt.bearer)
			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode != http.StatusOK {
				var body errorEnvelope
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.False(t, body.Success)
				assert.Equal(t, tt.wantCode, body.StatusCode)
				assert.NotEmpty(t, body.Errors)
			}
		})
	}
}

func TestAPI_AuthMiddleware_Cookie(t *testing.T) {
	api, tokens, user := newTestAPI(t)
	handler := api.Handler()

	valid, err := tokens.Issue(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: valid})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_AdminMiddleware_Forbidden(t *testing.T) {
	api, tokens, user := newTestAPI(t)
	handler := api.Handler()

	// user has Role=User
	valid, err := tokens.Issue(user)
	require.NoError(t, err)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/admin/users/getall", valid)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_MeEnvelope(t *testing.T) {
	api, tokens, user := newTestAPI(t)
	handler := api.Handler()

	valid, err := tokens.Issue(user)
	require.NoError(t, err)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/users/me", valid)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		StatusCode int     `json:"statusCode"`
		Data       userDTO `json:"data"`
		Success    bool    `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, user.UID, body.Data.UID)
	assert.Equal(t, "jordan@example.com", body.Data.Email)
}
