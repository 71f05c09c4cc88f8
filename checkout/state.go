package checkout

import (
	"errors"

	"gestaorh-checkout-api/models"
	"gestaorh-checkout-api/validation"
)

var (
	ErrAlreadyOnFirstStep = errors.New("already on first step")
	ErrAlreadyOnLastStep  = errors.New("already on last step")
	ErrValidationFailed   = errors.New("validation failed")
)

// Advance tenta ir para o próximo passo. O passo atual é validado antes da
// transição; em caso de falha os erros de campo ficam na sessão e o passo não
// muda. Na transição pagamento→revisão com same_address ligada o endereço de
// cobrança digitado é descartado.
func Advance(session *models.CheckoutSession) error {
	switch session.Step {
	case models.StepCustomer:
		fieldErrors := validation.ValidateCustomer(&session.Customer)
		if !fieldErrors.Valid() {
			session.Errors = fieldErrors
			return ErrValidationFailed
		}
		session.Errors = nil
		session.Step = models.StepPayment
		return nil

	case models.StepPayment:
		fieldErrors := validation.ValidatePayment(&session.Payment)
		if !fieldErrors.Valid() {
			session.Errors = fieldErrors
			return ErrValidationFailed
		}
		if session.Payment.SameAddress {
			session.Payment.BillingAddress = nil
		}
		session.Errors = nil
		session.Step = models.StepReview
		return nil

	case models.StepReview:
		return ErrAlreadyOnLastStep

	default:
		return errors.New("unknown checkout step")
	}
}

// Back volta um passo sem validar nada e sem descartar dados digitados.
func Back(session *models.CheckoutSession) error {
	switch session.Step {
	case models.StepCustomer:
		return ErrAlreadyOnFirstStep
	case models.StepPayment:
		session.Errors = nil
		session.Step = models.StepCustomer
		return nil
	case models.StepReview:
		session.Errors = nil
		session.Step = models.StepPayment
		return nil
	default:
		return errors.New("unknown checkout step")
	}
}
