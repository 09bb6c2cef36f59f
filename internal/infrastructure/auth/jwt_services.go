package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/honeynil/rotrade/internal/infrastructure/redis"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
)

//go:generate mockgen -source=jwt_services.go -destination=mocks/mock_jwt_services.go -package=mocks

type TokenIssuer interface {
	Issue(ctx context.Context, userID int64) (string, error)
}

type TokenValidator interface {
	Validate(ctx context.Context, token string) (int64, error)
}

// TokenService signs HS256 tokens and keeps the latest one per user in
// Redis, so a new login revokes the previous token.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	store  redis.RedisClient
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, store redis.RedisClient) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, store: store, now: time.Now}
}

func tokenKey(userID int64) string {
	return fmt.Sprintf("user:%d:token", userID)
}

func (s *TokenService) Issue(ctx context.Context, userID int64) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("JWT secret not set")
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	if err := s.store.Set(ctx, tokenKey(userID), signed, s.ttl); err != nil {
		slog.Error("failed to cache JWT", "user_id", userID, "error", err)
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Validate(ctx context.Context, tokenStr string) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return 0, pkgerrors.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, pkgerrors.ErrUnauthorized
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, pkgerrors.ErrUnauthorized
	}
	userID := int64(rawID)

	stored, err := s.store.Get(ctx, tokenKey(userID))
	if err != nil && !stderrors.Is(err, redis.ErrKeyNotFound) {
		return 0, fmt.Errorf("failed to read token store: %w", err)
	}
	if stored != tokenStr {
		slog.Warn("invalid or revoked token", "user_id", userID)
		return 0, pkgerrors.ErrUnauthorized
	}
	return userID, nil
}
