package services

import (
	"context"
	"fmt"
	"math"

	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// PaymentGateway creates payment intents with the external processor.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error)
}

type StripeGateway struct {
	client *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{client: sc}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.client.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

type paymentHistoryReader interface {
	ListByEmail(ctx context.Context, email string) ([]models.Payment, error)
}

type PaymentService struct {
	gateway  PaymentGateway
	currency string
	payments paymentHistoryReader
	logger   *zap.Logger
}

// NewPaymentService builds the service. gateway may be nil when no processor
// is configured; intent creation then fails with ErrPaymentsDisabled.
func NewPaymentService(gateway PaymentGateway, currency string, payments paymentHistoryReader, logger *zap.Logger) *PaymentService {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		gateway:  gateway,
		currency: currency,
		payments: payments,
		logger:   logger,
	}
}

// ToMinorUnits converts a price in major units to the gateway amount.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CreateIntent asks the gateway for a payment intent and returns its client
// secret. Nothing is persisted.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	if s.gateway == nil {
		return "", ErrPaymentsDisabled
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return "", ErrInvalidInput
	}
	amount := ToMinorUnits(price)
	if amount <= 0 {
		return "", ErrInvalidInput
	}

	secret, err := s.gateway.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		s.logger.Error("payment intent failed", zap.Int64("amount", amount), zap.String("currency", s.currency), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return secret, nil
}

func (s *PaymentService) History(ctx context.Context, actor Actor, email string) ([]models.Payment, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidInput
	}
	if !actor.IsAdmin() && !actor.Owns(email) {
		return nil, ErrForbidden
	}
	return s.payments.ListByEmail(ctx, email)
}
