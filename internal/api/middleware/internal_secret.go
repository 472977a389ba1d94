package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

const internalSecretHeader = "X-Internal-Secret"

// InternalSecretMiddleware 保护运维端点（/metrics）。secret 为空时放行。
// 除自定义头外也接受 Authorization: Bearer，方便 Prometheus 的 bearer_token 配置。
// 密钥不从 query 读取。
func InternalSecretMiddleware(secret string) gin.HandlerFunc {
	expected := []byte(strings.TrimSpace(secret))
	return func(c *gin.Context) {
		if len(expected) == 0 {
			c.Next()
			return
		}
		presented := presentedSecret(c)
		if presented == "" || subtle.ConstantTimeCompare([]byte(presented), expected) != 1 {
			LoggerFromContext(c).Warn("internal endpoint rejected", "remote", c.ClientIP())
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

func presentedSecret(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader(internalSecretHeader)); v != "" {
		return v
	}
	return bearerToken(c)
}
