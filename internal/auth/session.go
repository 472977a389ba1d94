package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTypeSession = "session"

// SessionService 负责编辑会话令牌的签发与校验。
type SessionService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// SessionClaims 表示令牌中的会话字段，便于中间件读取。
type SessionClaims struct {
	SessionID string `json:"session_id"`
	Owner     string `json:"owner"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// NewSessionService 使用 HMAC 密钥构造服务实例。
func NewSessionService(secret string, ttl time.Duration) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("session secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue 为会话签发令牌。
func (s *SessionService) Issue(sessionID, owner string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		SessionID: sessionID,
		Owner:     owner,
		TokenType: tokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate 解析并验证令牌。
func (s *SessionService) Validate(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.TokenType != tokenTypeSession || claims.SessionID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// TTL 暴露令牌有效期。
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}
