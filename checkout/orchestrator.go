package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"gestaorh-checkout-api/models"
	"gestaorh-checkout-api/queue"
	"gestaorh-checkout-api/services/payment"
	"gestaorh-checkout-api/services/pricing"
)

// Rótulos exibidos no overlay de processamento do portal.
const (
	ProcessingTokenizing = "Validando cartão"
	ProcessingCreating   = "Criando assinatura"
)

var (
	ErrNotOnReview       = errors.New("checkout is not on review step")
	ErrAlreadyProcessing = errors.New("checkout submission already in progress")
	ErrAlreadyCompleted  = errors.New("checkout already completed")
)

// Orchestrator executa a submissão em duas fases: tokenização do cartão e
// criação da assinatura. A fila de e-mails é opcional; sem ela o recibo
// simplesmente não é enviado.
type Orchestrator struct {
	store    Store
	payments *payment.Service
	jobs     *queue.Queue
}

func NewOrchestrator(store Store, payments *payment.Service, jobs *queue.Queue) *Orchestrator {
	return &Orchestrator{
		store:    store,
		payments: payments,
		jobs:     jobs,
	}
}

// Submit só aceita sessões paradas na revisão e sem submissão em andamento.
// Falha em qualquer fase devolve a sessão à revisão com IsProcessing
// desligado; o resultado terminal só é gravado em caso de sucesso.
func (o *Orchestrator) Submit(ctx context.Context, session *models.CheckoutSession) (*models.OrderResult, error) {
	if session.Result != nil && session.Result.Succeeded {
		return nil, ErrAlreadyCompleted
	}
	if session.Step != models.StepReview {
		return nil, ErrNotOnReview
	}
	if session.IsProcessing {
		return nil, ErrAlreadyProcessing
	}

	price, err := pricing.Price(session.PlanName, session.Bracket)
	if err != nil {
		return nil, fmt.Errorf("error resolving plan price: %w", err)
	}

	order := &models.Order{
		CheckoutID:  session.ID,
		Customer:    session.Customer,
		Payment:     session.Payment,
		PlanName:    session.PlanName,
		Description: fmt.Sprintf("Plano %s (%s funcionários)", session.PlanName, session.Bracket),
		UnitPrice:   price,
	}

	session.IsProcessing = true
	session.ProcessingStep = ProcessingTokenizing
	if err := o.store.Save(ctx, session); err != nil {
		session.IsProcessing = false
		session.ProcessingStep = ""
		return nil, fmt.Errorf("error saving checkout session: %v", err)
	}

	log.Printf("Starting submission for checkout %s (plan: %s, bracket: %s)",
		session.ID, session.PlanName, session.Bracket)

	cardToken, err := o.payments.Tokenize(ctx, order, uuid.New().String())
	if err != nil {
		return nil, o.finishWithError(ctx, session, err)
	}

	session.ProcessingStep = ProcessingCreating
	if err := o.store.Save(ctx, session); err != nil {
		log.Printf("Warning: Failed to save processing step for checkout %s: %v", session.ID, err)
	}

	result, err := o.payments.CreateSubscription(ctx, order, cardToken, uuid.New().String())
	if err != nil {
		return nil, o.finishWithError(ctx, session, err)
	}

	session.IsProcessing = false
	session.ProcessingStep = ""
	session.Result = result
	if err := o.store.Save(ctx, session); err != nil {
		log.Printf("Warning: Failed to save completed checkout %s: %v", session.ID, err)
	}

	log.Printf("Checkout %s completed with subscription %s (status: %s)",
		session.ID, result.SubscriptionID, result.Status)

	o.enqueueReceipt(ctx, session, order, result)

	return result, nil
}

// finishWithError devolve a sessão à revisão preservando tudo que o usuário
// digitou. O erro original sobe intacto para o handler mapear.
func (o *Orchestrator) finishWithError(ctx context.Context, session *models.CheckoutSession, cause error) error {
	session.IsProcessing = false
	session.ProcessingStep = ""
	if err := o.store.Save(ctx, session); err != nil {
		log.Printf("Warning: Failed to reset processing state for checkout %s: %v", session.ID, err)
	}

	log.Printf("Submission failed for checkout %s: %v", session.ID, cause)
	return cause
}

func (o *Orchestrator) enqueueReceipt(ctx context.Context, session *models.CheckoutSession, order *models.Order, result *models.OrderResult) {
	if o.jobs == nil {
		return
	}

	err := o.jobs.Enqueue(ctx, queue.JobTypeReceiptEmail, map[string]interface{}{
		"checkout_id":     session.ID,
		"email":           order.Customer.Email,
		"company_name":    order.Customer.CompanyName,
		"plan":            order.PlanName,
		"bracket":         session.Bracket,
		"price":           order.UnitPrice,
		"subscription_id": result.SubscriptionID,
	})
	if err != nil {
		log.Printf("Warning: Failed to enqueue receipt email for checkout %s: %v", session.ID, err)
	}
}
