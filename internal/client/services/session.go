package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/studysync/internal/client/repositories/kv"
	"github.com/dmitrijs2005/studysync/internal/common"
	"github.com/dmitrijs2005/studysync/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

const sessionTokenKey = "session_access_token"

// TokenSetter receives the access token of the current session.
type TokenSetter interface {
	SetAccessToken(token string)
}

// SessionService keeps the access token issued by the identity provider
// and derives the owner id from it. The token survives restarts in the
// local store so that the CLI can start authenticated while offline.
type SessionService struct {
	store  kv.Store
	tokens TokenSetter
	logger logging.Logger
	now    func() time.Time
}

func NewSessionService(store kv.Store, tokens TokenSetter, logger logging.Logger) *SessionService {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &SessionService{store: store, tokens: tokens, logger: logger.With("module", "session"), now: time.Now}
}

// OwnerFromToken returns the subject of token without verifying its
// signature; the server verifies it on every call. Expired tokens are
// rejected.
func OwnerFromToken(token string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.Subject == common.AnonymousOwner {
		return "", fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(now) {
		return "", common.ErrTokenExpired
	}
	return claims.Subject, nil
}

// Login stores token and returns its owner.
func (s *SessionService) Login(ctx context.Context, token string) (string, error) {
	owner, err := OwnerFromToken(token, s.now())
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, sessionTokenKey, []byte(token)); err != nil {
		s.logger.Warn(ctx, "session not persisted", "error", err)
	}
	if s.tokens != nil {
		s.tokens.SetAccessToken(token)
	}
	return owner, nil
}

// Restore reloads a stored session. It returns "" when there is none or
// when the stored token is no longer usable.
func (s *SessionService) Restore(ctx context.Context) string {
	raw, err := s.store.Get(ctx, sessionTokenKey)
	if err != nil || len(raw) == 0 {
		return ""
	}
	token := string(raw)
	owner, err := OwnerFromToken(token, s.now())
	if err != nil {
		s.logger.Info(ctx, "stored session discarded", "error", err)
		_ = s.store.Delete(ctx, sessionTokenKey)
		return ""
	}
	if s.tokens != nil {
		s.tokens.SetAccessToken(token)
	}
	return owner
}

// Logout forgets the stored token.
func (s *SessionService) Logout(ctx context.Context) error {
	if s.tokens != nil {
		s.tokens.SetAccessToken("")
	}
	if err := s.store.Delete(ctx, sessionTokenKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
