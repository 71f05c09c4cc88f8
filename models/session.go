package models

import "time"

type CheckoutStep string

const (
	StepCustomer CheckoutStep = "customer"
	StepPayment  CheckoutStep = "payment"
	StepReview   CheckoutStep = "review"
)

// OrderResult é o estado terminal de um checkout bem-sucedido.
type OrderResult struct {
	Succeeded      bool   `json:"succeeded"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	Status         string `json:"status,omitempty"`
	Message        string `json:"message,omitempty"`
}

// CheckoutSession é o estado do assistente de contratação. A sessão tem um
// único dono (uma aba do portal); toda mutação passa pelas transições de
// passo ou pelo submit.
type CheckoutSession struct {
	ID             string            `json:"checkout_id"`
	CompanyID      string            `json:"company_id,omitempty"`
	Step           CheckoutStep      `json:"step"`
	Customer       CustomerData      `json:"customer"`
	Payment        PaymentData       `json:"payment"`
	PlanName       string            `json:"plan"`
	Bracket        string            `json:"bracket"`
	IsProcessing   bool              `json:"is_processing"`
	ProcessingStep string            `json:"processing_step,omitempty"`
	Errors         map[string]string `json:"errors,omitempty"`
	Result         *OrderResult      `json:"result,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}
