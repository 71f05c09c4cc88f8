package payment

import (
	"context"

	"gestaorh-checkout-api/models"
	"gestaorh-checkout-api/services/payment/pagarme"
)

type Tokenizer interface {
	CreateCardToken(ctx context.Context, req *pagarme.CardTokenRequest) (string, error)
}

type SubscriptionCreator interface {
	CreateSubscription(ctx context.Context, order *models.Order, cardToken, idempotencyKey string) (*models.OrderResult, error)
}
