package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"gestaorh-checkout-api/models"
	"gestaorh-checkout-api/services/address"
	"gestaorh-checkout-api/utils"
)

// AddressHandler expõe a consulta direta de CEP usada pelo formulário quando
// o usuário pede o preenchimento manualmente.
type AddressHandler struct {
	client *address.Client
}

func NewAddressHandler(client *address.Client) *AddressHandler {
	return &AddressHandler{client: client}
}

func (h *AddressHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	cep := utils.OnlyDigits(mux.Vars(r)["cep"])
	if len(cep) != 8 {
		utils.SendErrorResponse(w, http.StatusBadRequest, "CEP deve ter 8 dígitos")
		return
	}

	result, err := h.client.Lookup(r.Context(), cep)
	if err != nil {
		log.Printf("CEP lookup failed for %s: %v", cep, err)
		utils.SendErrorResponse(w, http.StatusBadGateway, "Serviço de CEP indisponível no momento")
		return
	}

	if result == nil {
		utils.SendErrorResponse(w, http.StatusNotFound, "CEP não encontrado")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   result,
	})
}
