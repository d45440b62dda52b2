package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/hospital-admin/internal/handler"
	"github.com/jwalitptl/hospital-admin/pkg/security"
)

const HeaderAPIKey = "X-API-Key"

// APIKeyMiddleware checks a shared key against its bcrypt hash. Keys that
// already matched are remembered.
type APIKeyMiddleware struct {
	hash     string
	hasher   security.KeyHasher
	accepted *cache.Cache
}

func NewAPIKeyMiddleware(hash string, hasher security.KeyHasher) *APIKeyMiddleware {
	return &APIKeyMiddleware{
		hash:     hash,
		hasher:   hasher,
		accepted: cache.New(cache.NoExpiration, 0),
	}
}

// Authenticate accepts X-API-Key or "Authorization: Bearer <key>". With no
// hash configured every request passes.
func (m *APIKeyMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.hash == "" {
			c.Next()
			return
		}

		key := c.GetHeader(HeaderAPIKey)
		if key == "" {
			if parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
				key = parts[1]
			}
		}
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing api key"))
			return
		}

		if _, ok := m.accepted.Get(key); !ok {
			if err := m.hasher.Compare(m.hash, key); err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid api key"))
				return
			}
			m.accepted.Set(key, struct{}{}, cache.NoExpiration)
		}
		c.Next()
	}
}
