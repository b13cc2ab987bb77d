package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/christianEkogha/basic-cash-card/internal/auth"
)

const identityKey = "identity"

// TokenParser turns a bearer token into an identity.
type TokenParser interface {
	Parse(token string) (*auth.Identity, error)
}

// AuthMiddleware accepts HTTP Basic credentials or a bearer token issued by
// /auth/login. Anything else is rejected with 401 before a handler runs.
func AuthMiddleware(creds auth.CredentialStore, tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := authenticate(c, creds, tokens)
		if identity == nil {
			c.Header("WWW-Authenticate", `Basic realm="cashcards"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authentication required",
			})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func authenticate(c *gin.Context, creds auth.CredentialStore, tokens TokenParser) *auth.Identity {
	if username, password, ok := c.Request.BasicAuth(); ok {
		identity, err := creds.Verify(c.Request.Context(), username, password)
		if err != nil {
			log.Debug().Str("username", username).Msg("basic auth rejected")
			return nil
		}
		return identity
	}

	scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || tokens == nil {
		return nil
	}
	identity, err := tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil
	}
	return identity
}

// RequireRole rejects authenticated callers without role with 403.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}
		if !auth.HasRole(identity, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Insufficient role"})
			return
		}
		c.Next()
	}
}

func GetIdentity(c *gin.Context) (*auth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*auth.Identity)
	return identity, ok && identity != nil
}

// SetIdentity stores identity on the request context the way AuthMiddleware does.
func SetIdentity(c *gin.Context, identity *auth.Identity) {
	c.Set(identityKey, identity)
}
