package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/dues_ledger/internal/core/ports/services"
	"github.com/SscSPs/dues_ledger/internal/platform/config"
	"github.com/SscSPs/dues_ledger/internal/utils"
)

// tokenService implements the TokenSvcFacade for issuing JWT access tokens.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateAccessToken creates a new JWT access token for the given member.
// The admin flag travels in the token so handlers can gate management routes.
func (s *tokenService) GenerateAccessToken(ctx context.Context, member *domain.Member) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(member.MemberID, member.IsAdmin, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return accessToken, expiryTime, nil
}
