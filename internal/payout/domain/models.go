// Package domain contains types for affiliate payout onboarding through the
// external payment processor.
package domain

import (
	"context"
	"errors"

	authdomain "github.com/retentionops/portal/internal/auth/domain"
)

var (
	ErrMissingEmail = errors.New("payout account requires an email")
	ErrProcessor    = errors.New("payment processor request failed")
)

// Gateway abstracts the payment processor's account API.
type Gateway interface {
	// CreateExpressAccount opens a payout account for the email and returns
	// the processor's account identifier.
	CreateExpressAccount(ctx context.Context, email string) (string, error)
	// OnboardingLink returns a time-limited URL where the account holder
	// completes bank-detail collection.
	OnboardingLink(ctx context.Context, accountID string) (string, error)
}

// OnboardResult is the outcome of an onboarding request.
type OnboardResult struct {
	AccountID string `json:"account_id"`
	URL       string `json:"url"`
}

type Service interface {
	// EnsureAccount returns the identity's payout account identifier,
	// creating one on first call. Repeat calls never create a duplicate.
	EnsureAccount(ctx context.Context, identity authdomain.Identity) (string, error)
	// Onboard ensures the account exists and produces an onboarding link.
	Onboard(ctx context.Context, identity authdomain.Identity) (*OnboardResult, error)
}
