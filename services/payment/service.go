package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gestaorh-checkout-api/models"
	"gestaorh-checkout-api/services/payment/pagarme"
	"gestaorh-checkout-api/utils"
)

type Service struct {
	tokenizer     Tokenizer
	subscriptions SubscriptionCreator
}

func NewService(tokenizer Tokenizer, subscriptions SubscriptionCreator) *Service {
	return &Service{
		tokenizer:     tokenizer,
		subscriptions: subscriptions,
	}
}

// ValidateCard checa os dados do cartão antes de qualquer chamada externa.
func (s *Service) ValidateCard(p *models.PaymentData) bool {
	number := utils.OnlyDigits(p.CardNumber)
	if len(number) < 13 || len(number) > 19 {
		log.Printf("Invalid card number length: %d", len(number))
		return false
	}

	cvv := utils.OnlyDigits(p.CVV)
	if len(cvv) < 3 || len(cvv) > 4 {
		log.Printf("Invalid CVV length: %d", len(cvv))
		return false
	}

	if !validateExpiry(p.Expiry) {
		log.Printf("Invalid or past expiry date")
		return false
	}

	if len(strings.TrimSpace(p.CardName)) < 3 {
		log.Printf("Invalid card name length: %d", len(p.CardName))
		return false
	}

	if !validateLuhn(number) {
		log.Printf("Failed Luhn check for card %s", utils.MaskCardNumber(number))
		return false
	}

	return true
}

// Tokenize executa a primeira fase do submit: troca o cartão por um token.
// O cartão passa pela pré-validação local antes de qualquer chamada ao
// gateway; um cartão que falha no Luhn nunca sai daqui. Nome do titular sobe
// em maiúsculas, número e documento somente com dígitos, e o endereço de
// cobrança já resolvido pela flag same_address.
func (s *Service) Tokenize(ctx context.Context, order *models.Order, idempotencyKey string) (string, error) {
	if !s.ValidateCard(&order.Payment) {
		return "", &TokenizationError{BadCardData: true, Message: InvalidCardMessage}
	}

	expMonth, expYear, err := parseExpiry(order.Payment.Expiry)
	if err != nil {
		return "", &TokenizationError{BadCardData: true, Message: InvalidCardMessage}
	}

	billing := order.EffectiveBillingAddress()

	req := &pagarme.CardTokenRequest{
		HolderName:     strings.ToUpper(strings.TrimSpace(order.Payment.CardName)),
		HolderDocument: utils.OnlyDigits(order.Customer.Document),
		Number:         utils.OnlyDigits(order.Payment.CardNumber),
		ExpMonth:       expMonth,
		ExpYear:        expYear,
		CVV:            utils.OnlyDigits(order.Payment.CVV),
		BillingAddress: pagarme.BillingAddress{
			Line1:   strings.TrimSpace(fmt.Sprintf("%s, %s", billing.Street, billing.Number)),
			Line2:   billing.Complement,
			ZipCode: utils.OnlyDigits(billing.ZipCode),
			City:    billing.City,
			State:   billing.State,
			Country: "BR",
		},
		IdempotencyKey: idempotencyKey,
	}

	log.Printf("Tokenizing card %s for checkout: %s",
		utils.MaskCardNumber(req.Number), order.CheckoutID)

	token, err := s.tokenizer.CreateCardToken(ctx, req)
	if err != nil {
		var gatewayErr *pagarme.GatewayError
		if errors.As(err, &gatewayErr) {
			if gatewayErr.InvalidCardData() {
				return "", &TokenizationError{BadCardData: true, Message: InvalidCardMessage}
			}
			message := gatewayErr.Message
			if message == "" {
				message = GenericFailureMessage
			}
			return "", &TokenizationError{Message: message}
		}
		log.Printf("Tokenization transport failure for checkout %s: %v", order.CheckoutID, err)
		return "", &TokenizationError{Message: GenericFailureMessage}
	}

	return token, nil
}

// CreateSubscription executa a segunda fase do submit com o token emitido.
func (s *Service) CreateSubscription(ctx context.Context, order *models.Order, cardToken, idempotencyKey string) (*models.OrderResult, error) {
	result, err := s.subscriptions.CreateSubscription(ctx, order, cardToken, idempotencyKey)
	if err != nil {
		log.Printf("Subscription transport failure for checkout %s: %v", order.CheckoutID, err)
		return nil, &SubscriptionError{Message: GenericFailureMessage}
	}

	if !result.Succeeded {
		message := result.Message
		if message == "" {
			message = GenericFailureMessage
		}
		return nil, &SubscriptionError{Message: message}
	}

	return result, nil
}

func validateLuhn(cardNumber string) bool {
	sum := 0
	isEven := len(cardNumber)%2 == 0

	for i, r := range cardNumber {
		digit := int(r - '0')

		if digit < 0 || digit > 9 {
			return false
		}

		if isEven == (i%2 == 0) {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
	}

	return sum%10 == 0
}

// parseExpiry converte MM/AA nos inteiros esperados pelo gateway, com o ano
// expandido para quatro dígitos.
func parseExpiry(expiry string) (month, year int, err error) {
	clean := utils.OnlyDigits(expiry)
	if len(clean) != 4 {
		return 0, 0, fmt.Errorf("expiry must have 4 digits, got %d", len(clean))
	}

	month, err = strconv.Atoi(clean[:2])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid expiry month %q", clean[:2])
	}

	year, err = strconv.Atoi(clean[2:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid expiry year %q", clean[2:])
	}

	return month, 2000 + year, nil
}

func validateExpiry(expiry string) bool {
	expiryTime, err := time.Parse("01/06", expiry)
	if err != nil {
		return false
	}

	expiryTime = time.Date(
		expiryTime.Year(),
		expiryTime.Month()+1,
		0,
		23,
		59,
		59,
		0,
		time.UTC,
	)

	return expiryTime.After(time.Now())
}
