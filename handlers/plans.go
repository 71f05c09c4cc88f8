package handlers

import (
	"net/http"

	"gestaorh-checkout-api/models"
	"gestaorh-checkout-api/services/pricing"
	"gestaorh-checkout-api/utils"
)

type PlanHandler struct{}

func NewPlanHandler() *PlanHandler {
	return &PlanHandler{}
}

// GetPlans devolve a tabela de preços completa para a página de planos.
func (h *PlanHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"plans":    pricing.Plans(),
			"brackets": pricing.Brackets,
		},
	})
}
