package service

import (
	"context"
	"strings"
	"time"

	authdomain "github.com/retentionops/portal/internal/auth/domain"
	"github.com/retentionops/portal/internal/observability/metrics"
	payoutdomain "github.com/retentionops/portal/internal/payout/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Gateway  payoutdomain.Gateway
	UserRepo authdomain.Repository
	Metrics  *metrics.Metrics
}

type Service struct {
	log      *zap.Logger
	gateway  payoutdomain.Gateway
	userRepo authdomain.Repository
	metrics  *metrics.Metrics
}

func New(p Params) payoutdomain.Service {
	return &Service{
		log:      p.Log.Named("payout.service"),
		gateway:  p.Gateway,
		userRepo: p.UserRepo,
		metrics:  p.Metrics,
	}
}

func (s *Service) EnsureAccount(ctx context.Context, identity authdomain.Identity) (string, error) {
	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return "", err
	}

	if user.StripeAccountID != nil && strings.TrimSpace(*user.StripeAccountID) != "" {
		return *user.StripeAccountID, nil
	}

	accountID, err := s.gateway.CreateExpressAccount(ctx, user.Email)
	if err != nil {
		return "", err
	}

	// Persist before returning so a failed link generation later still
	// finds the account and skips recreation.
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{
		"stripe_account_id": accountID,
		"updated_at":        time.Now().UTC(),
	}); err != nil {
		return "", err
	}

	s.metrics.RecordPayoutOnboarding(ctx, "account_created")
	s.log.Info("payout account created",
		zap.String("user_id", user.ID.String()),
		zap.String("account_id", accountID),
	)
	return accountID, nil
}

func (s *Service) Onboard(ctx context.Context, identity authdomain.Identity) (*payoutdomain.OnboardResult, error) {
	accountID, err := s.EnsureAccount(ctx, identity)
	if err != nil {
		return nil, err
	}

	url, err := s.gateway.OnboardingLink(ctx, accountID)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPayoutOnboarding(ctx, "link_issued")
	return &payoutdomain.OnboardResult{
		AccountID: accountID,
		URL:       url,
	}, nil
}
