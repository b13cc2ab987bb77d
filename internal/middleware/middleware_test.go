package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christianEkogha/basic-cash-card/internal/auth"
)

// ---- mock implementation ----

type mockCredentials struct {
	verifyFn func(username, password string) (*auth.Identity, error)
}

func (m *mockCredentials) Verify(_ context.Context, username, password string) (*auth.Identity, error) {
	return m.verifyFn(username, password)
}

func staticCredentials() *mockCredentials {
	return &mockCredentials{verifyFn: func(username, password string) (*auth.Identity, error) {
		switch {
		case username == "christian" && password == "abc123":
			return &auth.Identity{Username: "christian", Roles: []string{auth.RoleCardOwner}}, nil
		case username == "hanks" && password == "hankspassword":
			return &auth.Identity{Username: "hanks", Roles: []string{"NON-OWNER"}}, nil
		}
		return nil, auth.ErrInvalidCredentials
	}}
}

// ---- helpers ----

func newAuthTestRouter(tokens TokenParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/cashcards", AuthMiddleware(staticCredentials(), tokens), RequireRole(auth.RoleCardOwner))
	g.GET("", func(c *gin.Context) {
		identity, _ := GetIdentity(c)
		c.String(http.StatusOK, identity.Username)
	})
	return r
}

// ---- tests ----

func TestAuthMiddleware(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("secret"), time.Hour)
	ownerToken, err := issuer.Issue(&auth.Identity{Username: "karl", Roles: []string{auth.RoleCardOwner}})
	require.NoError(t, err)
	nonOwnerToken, err := issuer.Issue(&auth.Identity{Username: "hanks", Roles: []string{"NON-OWNER"}})
	require.NoError(t, err)

	tests := []struct {
		name           string
		setAuth        func(*http.Request)
		expectedStatus int
		expectedUser   string
	}{
		{
			name:           "success - basic auth card owner",
			setAuth:        func(r *http.Request) { r.SetBasicAuth("christian", "abc123") },
			expectedStatus: http.StatusOK,
			expectedUser:   "christian",
		},
		{
			name:           "success - bearer token card owner",
			setAuth:        func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+ownerToken) },
			expectedStatus: http.StatusOK,
			expectedUser:   "karl",
		},
		{
			name:           "unauthorised - no credentials",
			setAuth:        func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unauthorised - unknown user",
			setAuth:        func(r *http.Request) { r.SetBasicAuth("BAD-USER", "abc123") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unauthorised - bad password",
			setAuth:        func(r *http.Request) { r.SetBasicAuth("christian", "BAD-PASSWORD") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unauthorised - garbage bearer token",
			setAuth:        func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unauthorised - unknown scheme",
			setAuth:        func(r *http.Request) { r.Header.Set("Authorization", "Digest abc") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "forbidden - basic auth without owner role",
			setAuth:        func(r *http.Request) { r.SetBasicAuth("hanks", "hankspassword") },
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "forbidden - token without owner role",
			setAuth:        func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+nonOwnerToken) },
			expectedStatus: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(issuer)
			req, _ := http.NewRequest(http.MethodGet, "/cashcards", nil)
			tt.setAuth(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedUser != "" {
				assert.Equal(t, tt.expectedUser, w.Body.String())
			}
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
			}
		})
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireRole(auth.RoleCardOwner), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoggingMiddlewareRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestValidateRequest(t *testing.T) {
	type payload struct {
		Name *string `json:"name" validate:"required"`
	}
	errs := ValidateRequest(payload{})
	require.Len(t, errs, 1)
	assert.Equal(t, "Name", errs[0].Field)
	assert.Equal(t, "required", errs[0].Type)

	name := "ok"
	assert.Nil(t, ValidateRequest(payload{Name: &name}))
}

func TestValidateRequestMaxLength(t *testing.T) {
	type payload struct {
		Username string `json:"username" validate:"required,max=3"`
	}
	errs := ValidateRequest(payload{Username: "abcd"})
	require.Len(t, errs, 1)
	assert.Equal(t, "max", errs[0].Type)
	assert.Equal(t, "Value is too long", errs[0].Message)
}
