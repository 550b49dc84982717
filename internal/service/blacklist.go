package service

import (
	"context"
	"time"

	"github.com/qnrlabs/order_service/internal/logging"
	"github.com/qnrlabs/order_service/internal/models"
	"github.com/qnrlabs/order_service/internal/repo"
	"github.com/qnrlabs/order_service/internal/tokens"
)

// TokenBlacklistService is the revocation side-table for otherwise
// stateless access tokens. Entries are append-only; an expired token fails
// verification before the blacklist is ever consulted, so entries never
// need to be pruned for correctness.
type TokenBlacklistService struct {
	Repo *repo.GormRepo
}

// BlacklistToken records the token's fingerprint. Blacklisting the same
// token twice is a no-op, not an error.
func (s *TokenBlacklistService) BlacklistToken(ctx context.Context, token, username string, expiresAt time.Time) error {
	l := logging.FromContext(ctx).With("svc", "blacklist.add")

	entry := &models.BlacklistedToken{
		Token:         tokens.Sha256Hex(token),
		Username:      username,
		BlacklistedAt: time.Now(),
		ExpiresAt:     expiresAt.Unix(),
	}

	if err := s.Repo.AddBlacklistedToken(ctx, entry); err != nil {
		l.Error("blacklist_error", "username", username, "error", err)
		return err
	}

	l.Info("token_blacklisted", "username", username)
	return nil
}

func (s *TokenBlacklistService) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return s.Repo.BlacklistedTokenExists(ctx, tokens.Sha256Hex(token))
}
