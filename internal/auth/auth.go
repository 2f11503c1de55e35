// Package auth resolves caller identity from permission tokens and checks
// chat ownership.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xiaot623/genai-chat/internal/domain"
	"github.com/xiaot623/genai-chat/internal/repository"
)

// Service resolves identity and authorizes access to chats.
type Service interface {
	// GetUserDetails resolves the caller's user and tenant from a permission token.
	GetUserDetails(securePermissions string) (userID, tenantID string, err error)
	// ValidateChatID fails with domain.ErrUnauthorized unless the caller owns the chat.
	ValidateChatID(ctx context.Context, securePermissions, chatID string) error
}

// JWTService implements Service with HS256 permission tokens. Chat ownership
// is checked against the store.
type JWTService struct {
	secret []byte
	store  repository.ChatStore
}

// NewJWTService creates a new JWT auth service.
func NewJWTService(secret string, store repository.ChatStore) *JWTService {
	return &JWTService{secret: []byte(secret), store: store}
}

// GetUserDetails parses the token and returns the sub and tenant claims.
func (s *JWTService) GetUserDetails(securePermissions string) (string, string, error) {
	token, err := jwt.Parse(securePermissions, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", domain.ErrUnauthorized
	}
	userID, _ := claims["sub"].(string)
	tenantID, _ := claims["tenant"].(string)
	if userID == "" || tenantID == "" {
		return "", "", domain.ErrUnauthorized
	}
	return userID, tenantID, nil
}

// ValidateChatID checks that the caller owns the chat. Unknown chats are
// reported as unauthorized rather than revealing whether they exist.
func (s *JWTService) ValidateChatID(ctx context.Context, securePermissions, chatID string) error {
	userID, tenantID, err := s.GetUserDetails(securePermissions)
	if err != nil {
		return err
	}
	ownerUser, ownerTenant, err := s.store.ChatOwner(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			return domain.ErrUnauthorized
		}
		return err
	}
	if ownerUser != userID || ownerTenant != tenantID {
		return domain.ErrUnauthorized
	}
	return nil
}

// GenerateToken mints a permission token. Used by tests and local tooling.
func GenerateToken(secret, userID, tenantID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":    userID,
		"tenant": tenantID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
