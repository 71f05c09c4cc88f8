package checkout

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestaorh-checkout-api/models"
	"gestaorh-checkout-api/services/payment"
	"gestaorh-checkout-api/services/payment/pagarme"
)

type fakeTokenizer struct {
	err      error
	token    string
	calls    int
	lastReq  *pagarme.CardTokenRequest
	onCreate func()
}

func (f *fakeTokenizer) CreateCardToken(ctx context.Context, req *pagarme.CardTokenRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

type fakeSubscriber struct {
	result    *models.OrderResult
	err       error
	calls     int
	lastKey   string
	lastOrder *models.Order
}

func (f *fakeSubscriber) CreateSubscription(ctx context.Context, order *models.Order, cardToken, idempotencyKey string) (*models.OrderResult, error) {
	f.calls++
	f.lastKey = idempotencyKey
	f.lastOrder = order
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func reviewSession(t *testing.T, store Store) *models.CheckoutSession {
	t.Helper()

	session := NewSession("company-1", "Ouro Insights", "51-100")
	session.Customer = validCustomer()
	require.NoError(t, Advance(session))
	session.Payment = validPayment()
	require.NoError(t, Advance(session))
	require.Equal(t, models.StepReview, session.Step)
	require.NoError(t, store.Save(context.Background(), session))

	return session
}

func TestSubmitSuccess(t *testing.T) {
	store := NewMemoryStore()
	tokenizer := &fakeTokenizer{token: "token_abc"}
	subscriber := &fakeSubscriber{result: &models.OrderResult{
		Succeeded:      true,
		SubscriptionID: "sub_123",
		Status:         "active",
	}}

	orch := NewOrchestrator(store, payment.NewService(tokenizer, subscriber), nil)
	session := reviewSession(t, store)

	result, err := orch.Submit(context.Background(), session)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "sub_123", result.SubscriptionID)

	assert.Equal(t, 1, tokenizer.calls)
	assert.Equal(t, 1, subscriber.calls)
	assert.NotEmpty(t, subscriber.lastKey)

	saved, err := store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.False(t, saved.IsProcessing)
	assert.Empty(t, saved.ProcessingStep)
	require.NotNil(t, saved.Result)
	assert.True(t, saved.Result.Succeeded)
}

// A flag de processamento precisa estar gravada antes da primeira chamada
// externa, para que outra aba veja a submissão em andamento.
func TestSubmitMarksProcessingBeforeTokenizing(t *testing.T) {
	store := NewMemoryStore()
	tokenizer := &fakeTokenizer{token: "token_abc"}
	subscriber := &fakeSubscriber{result: &models.OrderResult{Succeeded: true, SubscriptionID: "sub_1"}}

	orch := NewOrchestrator(store, payment.NewService(tokenizer, subscriber), nil)
	session := reviewSession(t, store)

	tokenizer.onCreate = func() {
		saved, err := store.Get(context.Background(), session.ID)
		require.NoError(t, err)
		assert.True(t, saved.IsProcessing)
		assert.Equal(t, ProcessingTokenizing, saved.ProcessingStep)
	}

	_, err := orch.Submit(context.Background(), session)
	require.NoError(t, err)
}

func TestSubmitTokenizationFailureAbortsBeforeSubscription(t *testing.T) {
	store := NewMemoryStore()
	tokenizer := &fakeTokenizer{err: &pagarme.GatewayError{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "invalid card",
	}}
	subscriber := &fakeSubscriber{}

	orch := NewOrchestrator(store, payment.NewService(tokenizer, subscriber), nil)
	session := reviewSession(t, store)

	_, err := orch.Submit(context.Background(), session)
	require.Error(t, err)

	var tokenErr *payment.TokenizationError
	require.True(t, errors.As(err, &tokenErr))
	assert.True(t, tokenErr.BadCardData)

	// Segunda fase nunca roda sem token
	assert.Equal(t, 0, subscriber.calls)

	saved, getErr := store.Get(context.Background(), session.ID)
	require.NoError(t, getErr)
	assert.False(t, saved.IsProcessing)
	assert.Equal(t, models.StepReview, saved.Step)
	assert.Nil(t, saved.Result)
}

// A pré-validação local do cartão roda dentro da primeira fase: um número
// que falha no Luhn é recusado sem nenhuma chamada externa.
func TestSubmitRejectsBadCardWithoutCallingGateway(t *testing.T) {
	store := NewMemoryStore()
	tokenizer := &fakeTokenizer{token: "token_abc"}
	subscriber := &fakeSubscriber{result: &models.OrderResult{Succeeded: true, SubscriptionID: "sub_1"}}

	orch := NewOrchestrator(store, payment.NewService(tokenizer, subscriber), nil)
	session := reviewSession(t, store)
	session.Payment.CardNumber = "1234 5678 9012 3456"
	require.NoError(t, store.Save(context.Background(), session))

	_, err := orch.Submit(context.Background(), session)
	require.Error(t, err)

	var tokenErr *payment.TokenizationError
	require.True(t, errors.As(err, &tokenErr))
	assert.True(t, tokenErr.BadCardData)

	assert.Equal(t, 0, tokenizer.calls)
	assert.Equal(t, 0, subscriber.calls)

	saved, getErr := store.Get(context.Background(), session.ID)
	require.NoError(t, getErr)
	assert.False(t, saved.IsProcessing)
	assert.Equal(t, models.StepReview, saved.Step)
	assert.Nil(t, saved.Result)
}

func TestSubmitSubscriptionFailureLeavesSessionOnReview(t *testing.T) {
	store := NewMemoryStore()
	tokenizer := &fakeTokenizer{token: "token_abc"}
	subscriber := &fakeSubscriber{result: &models.OrderResult{
		Succeeded: false,
		Message:   "Cartão recusado pelo emissor",
	}}

	orch := NewOrchestrator(store, payment.NewService(tokenizer, subscriber), nil)
	session := reviewSession(t, store)

	_, err := orch.Submit(context.Background(), session)
	require.Error(t, err)

	var subErr *payment.SubscriptionError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, "Cartão recusado pelo emissor", subErr.Message)

	saved, getErr := store.Get(context.Background(), session.ID)
	require.NoError(t, getErr)
	assert.False(t, saved.IsProcessing)
	assert.Equal(t, models.StepReview, saved.Step)
	assert.Nil(t, saved.Result)
}

func TestSubmitRejectsWrongStep(t *testing.T) {
	store := NewMemoryStore()
	orch := NewOrchestrator(store, payment.NewService(&fakeTokenizer{}, &fakeSubscriber{}), nil)

	session := NewSession("company-1", "Ouro", "11-25")
	require.NoError(t, store.Save(context.Background(), session))

	_, err := orch.Submit(context.Background(), session)
	assert.True(t, errors.Is(err, ErrNotOnReview))
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	store := NewMemoryStore()
	orch := NewOrchestrator(store, payment.NewService(&fakeTokenizer{}, &fakeSubscriber{}), nil)

	session := reviewSession(t, store)
	session.IsProcessing = true

	_, err := orch.Submit(context.Background(), session)
	assert.True(t, errors.Is(err, ErrAlreadyProcessing))
}

func TestSubmitRejectsCompletedCheckout(t *testing.T) {
	store := NewMemoryStore()
	orch := NewOrchestrator(store, payment.NewService(&fakeTokenizer{}, &fakeSubscriber{}), nil)

	session := reviewSession(t, store)
	session.Result = &models.OrderResult{Succeeded: true, SubscriptionID: "sub_1"}

	_, err := orch.Submit(context.Background(), session)
	assert.True(t, errors.Is(err, ErrAlreadyCompleted))
}

func TestSubmitResolvesPriceFromTable(t *testing.T) {
	store := NewMemoryStore()
	tokenizer := &fakeTokenizer{token: "token_abc"}
	subscriber := &fakeSubscriber{result: &models.OrderResult{Succeeded: true, SubscriptionID: "sub_1"}}

	orch := NewOrchestrator(store, payment.NewService(tokenizer, subscriber), nil)

	session := reviewSession(t, store)
	_, err := orch.Submit(context.Background(), session)
	require.NoError(t, err)

	require.NotNil(t, subscriber.lastOrder)
	assert.Equal(t, 449.9, subscriber.lastOrder.UnitPrice)
	assert.Equal(t, "Ouro Insights", subscriber.lastOrder.PlanName)
}
