package payment

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestaorh-checkout-api/models"
	"gestaorh-checkout-api/services/payment/pagarme"
)

type stubTokenizer struct {
	err     error
	token   string
	lastReq *pagarme.CardTokenRequest
}

func (s *stubTokenizer) CreateCardToken(ctx context.Context, req *pagarme.CardTokenRequest) (string, error) {
	s.lastReq = req
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

type stubSubscriber struct {
	result *models.OrderResult
	err    error
}

func (s *stubSubscriber) CreateSubscription(ctx context.Context, order *models.Order, cardToken, idempotencyKey string) (*models.OrderResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func futureExpiry() string {
	return time.Now().AddDate(1, 0, 0).Format("01/06")
}

func testOrder() *models.Order {
	return &models.Order{
		CheckoutID: "checkout-1",
		Customer: models.CustomerData{
			CompanyName: "Acme Sistemas Ltda",
			Document:    "11.222.333/0001-81",
			Email:       "financeiro@acme.com.br",
			Mobile:      "(11) 98765-4321",
			Address: models.Address{
				ZipCode:      "01310-100",
				Street:       "Avenida Paulista",
				Number:       "1000",
				Neighborhood: "Bela Vista",
				City:         "São Paulo",
				State:        "SP",
			},
		},
		Payment: models.PaymentData{
			CardName:    "Joao da Silva",
			CardNumber:  "4242 4242 4242 4242",
			Expiry:      "12/30",
			CVV:         "123",
			SameAddress: true,
		},
		PlanName:  "Ouro",
		UnitPrice: 199.9,
	}
}

func TestValidateCard(t *testing.T) {
	svc := NewService(&stubTokenizer{}, &stubSubscriber{})

	valid := &models.PaymentData{
		CardName:   "JOAO DA SILVA",
		CardNumber: "4242 4242 4242 4242",
		Expiry:     futureExpiry(),
		CVV:        "123",
	}
	assert.True(t, svc.ValidateCard(valid))

	cases := map[string]func(*models.PaymentData){
		"short number": func(p *models.PaymentData) { p.CardNumber = "4242 4242" },
		"bad luhn":     func(p *models.PaymentData) { p.CardNumber = "4242 4242 4242 4243" },
		"short cvv":    func(p *models.PaymentData) { p.CVV = "12" },
		"past expiry":  func(p *models.PaymentData) { p.Expiry = "01/20" },
		"bad month":    func(p *models.PaymentData) { p.Expiry = "13/30" },
		"missing name": func(p *models.PaymentData) { p.CardName = "JS" },
	}

	for name, mutate := range cases {
		p := *valid
		mutate(&p)
		assert.False(t, svc.ValidateCard(&p), name)
	}
}

// O cartão vale até o último dia do mês impresso.
func TestValidateCardCurrentMonth(t *testing.T) {
	svc := NewService(&stubTokenizer{}, &stubSubscriber{})

	p := &models.PaymentData{
		CardName:   "JOAO DA SILVA",
		CardNumber: "4242 4242 4242 4242",
		Expiry:     time.Now().Format("01/06"),
		CVV:        "123",
	}
	assert.True(t, svc.ValidateCard(p))
}

func TestTokenizeNormalizesRequest(t *testing.T) {
	tokenizer := &stubTokenizer{token: "token_abc"}
	svc := NewService(tokenizer, &stubSubscriber{})

	token, err := svc.Tokenize(context.Background(), testOrder(), "idem-1")
	require.NoError(t, err)
	assert.Equal(t, "token_abc", token)

	req := tokenizer.lastReq
	require.NotNil(t, req)
	assert.Equal(t, "JOAO DA SILVA", req.HolderName)
	assert.Equal(t, "11222333000181", req.HolderDocument)
	assert.Equal(t, "4242424242424242", req.Number)
	assert.Equal(t, 12, req.ExpMonth)
	assert.Equal(t, 2030, req.ExpYear)
	assert.Equal(t, "idem-1", req.IdempotencyKey)

	// same_address ligada resolve para o endereço cadastral
	assert.Equal(t, "Avenida Paulista, 1000", req.BillingAddress.Line1)
	assert.Equal(t, "01310100", req.BillingAddress.ZipCode)
	assert.Equal(t, "BR", req.BillingAddress.Country)
}

func TestTokenizeUsesBillingAddressWhenDifferent(t *testing.T) {
	tokenizer := &stubTokenizer{token: "token_abc"}
	svc := NewService(tokenizer, &stubSubscriber{})

	order := testOrder()
	order.Payment.SameAddress = false
	order.Payment.BillingAddress = &models.Address{
		ZipCode: "04538-133",
		Street:  "Avenida Faria Lima",
		Number:  "3477",
		City:    "São Paulo",
		State:   "SP",
	}

	_, err := svc.Tokenize(context.Background(), order, "idem-1")
	require.NoError(t, err)
	assert.Equal(t, "Avenida Faria Lima, 3477", tokenizer.lastReq.BillingAddress.Line1)
	assert.Equal(t, "04538133", tokenizer.lastReq.BillingAddress.ZipCode)
}

// Cartão reprovado na pré-validação local nunca chega ao gateway.
func TestTokenizeRejectsInvalidCardBeforeGateway(t *testing.T) {
	tokenizer := &stubTokenizer{token: "token_abc"}
	svc := NewService(tokenizer, &stubSubscriber{})

	order := testOrder()
	order.Payment.CardNumber = "1234 5678 9012 3456" // falha no Luhn

	_, err := svc.Tokenize(context.Background(), order, "idem-1")
	require.Error(t, err)

	var tokenErr *TokenizationError
	require.True(t, errors.As(err, &tokenErr))
	assert.True(t, tokenErr.BadCardData)
	assert.Equal(t, InvalidCardMessage, tokenErr.Message)
	assert.Nil(t, tokenizer.lastReq)
}

func TestTokenizeRejectsExpiredCard(t *testing.T) {
	tokenizer := &stubTokenizer{token: "token_abc"}
	svc := NewService(tokenizer, &stubSubscriber{})

	order := testOrder()
	order.Payment.Expiry = "01/20"

	_, err := svc.Tokenize(context.Background(), order, "idem-1")
	require.Error(t, err)

	var tokenErr *TokenizationError
	require.True(t, errors.As(err, &tokenErr))
	assert.True(t, tokenErr.BadCardData)
	assert.Nil(t, tokenizer.lastReq)
}

func TestTokenizeMapsInvalidCardData(t *testing.T) {
	tokenizer := &stubTokenizer{err: &pagarme.GatewayError{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "The card is invalid",
	}}
	svc := NewService(tokenizer, &stubSubscriber{})

	_, err := svc.Tokenize(context.Background(), testOrder(), "idem-1")
	require.Error(t, err)

	var tokenErr *TokenizationError
	require.True(t, errors.As(err, &tokenErr))
	assert.True(t, tokenErr.BadCardData)
	assert.Equal(t, InvalidCardMessage, tokenErr.Message)
}

func TestTokenizeMapsGatewayFailure(t *testing.T) {
	tokenizer := &stubTokenizer{err: &pagarme.GatewayError{
		StatusCode: http.StatusServiceUnavailable,
		Message:    "Gateway em manutenção",
	}}
	svc := NewService(tokenizer, &stubSubscriber{})

	_, err := svc.Tokenize(context.Background(), testOrder(), "idem-1")
	require.Error(t, err)

	var tokenErr *TokenizationError
	require.True(t, errors.As(err, &tokenErr))
	assert.False(t, tokenErr.BadCardData)
	assert.Equal(t, "Gateway em manutenção", tokenErr.Message)
}

func TestTokenizeMapsTransportFailure(t *testing.T) {
	tokenizer := &stubTokenizer{err: errors.New("connection refused")}
	svc := NewService(tokenizer, &stubSubscriber{})

	_, err := svc.Tokenize(context.Background(), testOrder(), "idem-1")
	require.Error(t, err)

	var tokenErr *TokenizationError
	require.True(t, errors.As(err, &tokenErr))
	assert.False(t, tokenErr.BadCardData)
	assert.Equal(t, GenericFailureMessage, tokenErr.Message)
}

func TestCreateSubscriptionMapsDecline(t *testing.T) {
	subscriber := &stubSubscriber{result: &models.OrderResult{
		Succeeded: false,
		Message:   "Cartão recusado pelo emissor",
	}}
	svc := NewService(&stubTokenizer{}, subscriber)

	_, err := svc.CreateSubscription(context.Background(), testOrder(), "token_abc", "idem-1")
	require.Error(t, err)

	var subErr *SubscriptionError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, "Cartão recusado pelo emissor", subErr.Message)
}

func TestCreateSubscriptionSuccess(t *testing.T) {
	subscriber := &stubSubscriber{result: &models.OrderResult{
		Succeeded:      true,
		SubscriptionID: "sub_123",
		Status:         "active",
	}}
	svc := NewService(&stubTokenizer{}, subscriber)

	result, err := svc.CreateSubscription(context.Background(), testOrder(), "token_abc", "idem-1")
	require.NoError(t, err)
	assert.Equal(t, "sub_123", result.SubscriptionID)
}
