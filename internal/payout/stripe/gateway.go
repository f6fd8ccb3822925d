// Package stripe adapts the payout gateway onto Stripe Connect Express.
package stripe

import (
	"context"
	"net/http"
	"strings"

	"github.com/retentionops/portal/internal/config"
	payoutdomain "github.com/retentionops/portal/internal/payout/domain"
	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

type Gateway struct {
	api    *client.API
	log    *zap.Logger
	appURL string
}

func NewGateway(cfg config.Config, log *zap.Logger) payoutdomain.Gateway {
	api := &client.API{}
	// The default backend waits far longer than the portal is willing
	// to; every processor call gets the shared external timeout.
	api.Init(cfg.Stripe.SecretKey, stripeapi.NewBackends(externalHTTPClient(cfg)))

	return &Gateway{
		api:    api,
		log:    log.Named("payout.stripe"),
		appURL: strings.TrimRight(cfg.AppURL, "/"),
	}
}

func (g *Gateway) CreateExpressAccount(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", payoutdomain.ErrMissingEmail
	}

	params := &stripeapi.AccountParams{
		Type:  stripeapi.String(string(stripeapi.AccountTypeExpress)),
		Email: stripeapi.String(email),
		Capabilities: &stripeapi.AccountCapabilitiesParams{
			Transfers: &stripeapi.AccountCapabilitiesTransfersParams{
				Requested: stripeapi.Bool(true),
			},
		},
	}
	params.Context = ctx

	account, err := g.api.Accounts.New(params)
	if err != nil {
		g.log.Error("express account creation failed", zap.Error(err))
		return "", payoutdomain.ErrProcessor
	}
	return account.ID, nil
}

func (g *Gateway) OnboardingLink(ctx context.Context, accountID string) (string, error) {
	params := &stripeapi.AccountLinkParams{
		Account:    stripeapi.String(accountID),
		RefreshURL: stripeapi.String(g.appURL + "/affiliate/payouts"),
		ReturnURL:  stripeapi.String(g.appURL + "/affiliate/payouts?onboarded=1"),
		Type:       stripeapi.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := g.api.AccountLinks.New(params)
	if err != nil {
		g.log.Error("onboarding link creation failed",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		return "", payoutdomain.ErrProcessor
	}
	return link.URL, nil
}

func externalHTTPClient(cfg config.Config) *http.Client {
	return &http.Client{Timeout: cfg.ExternalTimeout}
}
