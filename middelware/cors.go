package middelware

import (
	"net/http"
	"strings"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware answers browser preflights for the public directory API.
// The allowed-origin list comes from cors_origins and is parsed once.
type CORSMiddleware struct {
	allowAll bool
	exact    map[string]bool
	suffixes []string
}

func NewCORSMiddleware(cfg *models.Config) *CORSMiddleware {
	m := &CORSMiddleware{exact: make(map[string]bool)}
	for _, origin := range cfg.CORSOrigins {
		switch {
		case origin == "*":
			m.allowAll = true
		case strings.HasPrefix(origin, "*."):
			m.suffixes = append(m.suffixes, origin[1:])
		default:
			m.exact[origin] = true
		}
	}
	return m
}

// CORS returns the gin handler applying the configured origin policy.
func (m *CORSMiddleware) CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && m.originAllowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, Accept-Language")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func (m *CORSMiddleware) originAllowed(origin string) bool {
	if m.allowAll || m.exact[origin] {
		return true
	}
	for _, suffix := range m.suffixes {
		// ".1009.uz" matches any subdomain; the bare domain is listed
		// separately when it should be allowed.
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}
