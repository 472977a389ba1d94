package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"folio/internal/auth"
)

const sessionClaimsKey = "sessionClaims"

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// bearerToken 取出 Authorization: Bearer 后的令牌，格式不符时返回空串。
func bearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	token = strings.TrimSpace(token)
	if strings.ContainsAny(token, " \t") {
		return ""
	}
	return token
}

// SessionMiddleware 要求有效的会话令牌。通过后声明存入上下文，请求 logger 追加 session_id 与 owner。
func SessionMiddleware(tokens *auth.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}
		claims, err := tokens.Validate(token)
		if err != nil {
			LoggerFromContext(c).Debug("session token rejected", slog.Any("error", err))
			abortUnauthorized(c)
			return
		}

		c.Set(sessionClaimsKey, claims)
		c.Set(slogLoggerKey, LoggerFromContext(c).With(
			slog.String("session_id", claims.SessionID),
			slog.String("owner", claims.Owner),
		))
		c.Next()
	}
}

// ClaimsFromContext 返回 SessionMiddleware 存入的声明。
func ClaimsFromContext(c *gin.Context) (*auth.SessionClaims, bool) {
	claims, ok := c.Get(sessionClaimsKey)
	if !ok {
		return nil, false
	}
	sc, ok := claims.(*auth.SessionClaims)
	return sc, ok && sc != nil
}
