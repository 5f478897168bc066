// File: services/payment/topup.go
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"

	walletRepo "tutorhive/database/repository/wallet"
)

// pointsPerCurrencyUnit converts a paid currency unit into wallet points.
const pointsPerCurrencyUnit = 1

// topUpExtensionDays is how far a successful top-up pushes the point expiry.
const topUpExtensionDays = 180

// ErrIntentNotSucceeded is returned when the referenced payment intent has
// not completed.
var ErrIntentNotSucceeded = errors.New("payment intent not succeeded")

// TopUpService is the payment-collaborator edge: it creates Stripe payment
// intents for wallet top-ups and credits the wallet once an intent succeeds.
type TopUpService interface {
	CreateIntent(ctx context.Context, studentID string, amount int64, currency string) (clientSecret string, err error)
	Confirm(ctx context.Context, studentID, intentID string) (points float64, err error)
}

// StripeTopUpService is the production implementation.
type StripeTopUpService struct {
	Wallets walletRepo.WalletRepository
	Logger  *zap.Logger
}

func (s *StripeTopUpService) CreateIntent(ctx context.Context, studentID string, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("studentId", studentID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

// Confirm verifies the intent succeeded and belongs to the student, then
// credits the wallet and extends the point expiry.
func (s *StripeTopUpService) Confirm(ctx context.Context, studentID, intentID string) (float64, error) {
	intent, err := paymentintent.Get(intentID, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch payment intent: %w", err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return 0, ErrIntentNotSucceeded
	}
	if intent.Metadata["studentId"] != studentID {
		return 0, ErrIntentNotSucceeded
	}

	points := float64(intent.Amount) / 100 * pointsPerCurrencyUnit
	if err := s.Wallets.Credit(ctx, studentID, points, topUpExtensionDays); err != nil {
		return 0, fmt.Errorf("failed to credit wallet: %w", err)
	}

	s.Logger.Info("wallet topped up",
		zap.String("studentId", studentID),
		zap.String("intentId", intentID),
		zap.Float64("points", points))
	return points, nil
}
