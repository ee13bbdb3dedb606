package services

import (
	"context"
	"time"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
)

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed JWT for the member and returns its expiry.
	GenerateAccessToken(ctx context.Context, member *domain.Member) (string, time.Time, error)
}
