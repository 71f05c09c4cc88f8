package checkout

import (
	"time"

	"github.com/google/uuid"

	"gestaorh-checkout-api/models"
)

// NewSession abre um assistente de contratação no primeiro passo, amarrado à
// empresa autenticada e ao plano/faixa escolhidos no portal.
func NewSession(companyID, planName, bracket string) *models.CheckoutSession {
	return &models.CheckoutSession{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Step:      models.StepCustomer,
		PlanName:  planName,
		Bracket:   bracket,
		Payment: models.PaymentData{
			SameAddress: true,
		},
		CreatedAt: time.Now(),
	}
}
