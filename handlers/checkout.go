package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"gestaorh-checkout-api/checkout"
	"gestaorh-checkout-api/middleware"
	"gestaorh-checkout-api/models"
	"gestaorh-checkout-api/services/address"
	"gestaorh-checkout-api/services/payment"
	"gestaorh-checkout-api/services/pricing"
	"gestaorh-checkout-api/utils"
	"gestaorh-checkout-api/validation"
)

const checkoutCookieName = "gestaorh_checkout"

// CheckoutHandler expõe o assistente de contratação: criação de sessão,
// edição dos passos, navegação e submissão final.
type CheckoutHandler struct {
	store        checkout.Store
	orchestrator *checkout.Orchestrator
	autofill     *address.AutoFill
	cookies      *sessions.CookieStore
}

func NewCheckoutHandler(store checkout.Store, orchestrator *checkout.Orchestrator, autofill *address.AutoFill, cookies *sessions.CookieStore) *CheckoutHandler {
	return &CheckoutHandler{
		store:        store,
		orchestrator: orchestrator,
		autofill:     autofill,
		cookies:      cookies,
	}
}

// StartCheckout abre uma sessão nova para o plano e a faixa escolhidos na
// página de planos. O par é validado contra a tabela antes de criar qualquer
// coisa.
func (h *CheckoutHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Plan    string `json:"plan"`
		Bracket string `json:"bracket"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding request body: %v", err)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := pricing.Price(req.Plan, req.Bracket); err != nil {
		log.Printf("Rejected checkout for unknown plan/bracket: %q/%q", req.Plan, req.Bracket)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Plano ou faixa de funcionários inválidos")
		return
	}

	company := middleware.GetCompanyFromContext(r.Context())
	var companyID string
	if company != nil {
		companyID = company.ID
	}

	session := checkout.NewSession(companyID, req.Plan, req.Bracket)
	if err := h.store.Save(r.Context(), session); err != nil {
		log.Printf("Error saving new checkout session: %v", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Erro ao iniciar o checkout")
		return
	}

	cookie, _ := h.cookies.Get(r, checkoutCookieName)
	cookie.Values["checkout_id"] = session.ID
	cookie.Options.MaxAge = int(checkout.SessionTTL.Seconds())
	cookie.Options.HttpOnly = true
	if err := cookie.Save(r, w); err != nil {
		log.Printf("Error saving checkout cookie: %v", err)
	}

	log.Printf("Started checkout %s (plan: %s, bracket: %s)", session.ID, req.Plan, req.Bracket)

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   session,
	})
}

// GetSession devolve o estado atual do assistente para a aba retomar de onde
// parou.
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   session,
	})
}

// UpdateCustomer grava os dados cadastrais digitados até aqui. Campos de
// telefone, CNPJ e CEP são normalizados para o formato de exibição; um CEP
// novo agenda o preenchimento automático de endereço com debounce.
func (h *CheckoutHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if session.IsProcessing {
		utils.SendErrorResponse(w, http.StatusConflict, "Pagamento em processamento, aguarde")
		return
	}

	var customer models.CustomerData
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		log.Printf("Error decoding customer data: %v", err)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer.Document = utils.FormatCNPJ(customer.Document)
	customer.Mobile = utils.FormatMobilePhone(customer.Mobile)
	customer.Phone = utils.FormatLandlinePhone(customer.Phone)
	customer.Address.ZipCode = utils.FormatPostalCode(customer.Address.ZipCode)

	previousZip := utils.OnlyDigits(session.Customer.Address.ZipCode)
	session.Customer = customer

	if err := h.store.Save(r.Context(), session); err != nil {
		log.Printf("Error saving checkout session %s: %v", session.ID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Erro ao salvar os dados")
		return
	}

	newZip := utils.OnlyDigits(customer.Address.ZipCode)
	if newZip != previousZip {
		h.scheduleCustomerAutoFill(session.ID, newZip)
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   session,
	})
}

// UpdatePayment grava os dados de pagamento. A validação acontece só na
// transição para a revisão; aqui os campos apenas ganham máscara.
func (h *CheckoutHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if session.IsProcessing {
		utils.SendErrorResponse(w, http.StatusConflict, "Pagamento em processamento, aguarde")
		return
	}

	var payment models.PaymentData
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		log.Printf("Error decoding payment data: %v", err)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment.CardNumber = utils.FormatCardNumber(payment.CardNumber)
	payment.Expiry = utils.FormatExpiry(payment.Expiry)
	if payment.BillingAddress != nil {
		payment.BillingAddress.ZipCode = utils.FormatPostalCode(payment.BillingAddress.ZipCode)
	}

	session.Payment = payment

	if err := h.store.Save(r.Context(), session); err != nil {
		log.Printf("Error saving checkout session %s: %v", session.ID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Erro ao salvar os dados")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   session,
	})
}

// NextStep valida o passo atual e avança. Falha de validação devolve 422 com
// os erros por campo; a sessão fica no passo em que estava.
func (h *CheckoutHandler) NextStep(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if session.IsProcessing {
		utils.SendErrorResponse(w, http.StatusConflict, "Pagamento em processamento, aguarde")
		return
	}

	err := checkout.Advance(session)

	if saveErr := h.store.Save(r.Context(), session); saveErr != nil {
		log.Printf("Error saving checkout session %s: %v", session.ID, saveErr)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Erro ao salvar os dados")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrValidationFailed):
			sendValidationErrors(w, session.Errors)
		case errors.Is(err, checkout.ErrAlreadyOnLastStep):
			utils.SendErrorResponse(w, http.StatusConflict, "Você já está na revisão do pedido")
		default:
			utils.SendErrorResponse(w, http.StatusInternalServerError, "Erro ao avançar")
		}
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   session,
	})
}

// PrevStep volta um passo preservando tudo que foi digitado.
func (h *CheckoutHandler) PrevStep(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if session.IsProcessing {
		utils.SendErrorResponse(w, http.StatusConflict, "Pagamento em processamento, aguarde")
		return
	}

	if err := checkout.Back(session); err != nil {
		utils.SendErrorResponse(w, http.StatusConflict, "Você já está no primeiro passo")
		return
	}

	if err := h.store.Save(r.Context(), session); err != nil {
		log.Printf("Error saving checkout session %s: %v", session.ID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Erro ao salvar os dados")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   session,
	})
}

// SubmitOrder dispara a submissão em duas fases. Toda falha volta como erro
// nesta resposta; o resultado terminal só existe quando a assinatura foi
// criada.
func (h *CheckoutHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	result, err := h.orchestrator.Submit(r.Context(), session)
	if err != nil {
		h.sendSubmitError(w, session, err)
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Assinatura criada com sucesso",
		Data:    result,
	})
}

func (h *CheckoutHandler) sendSubmitError(w http.ResponseWriter, session *models.CheckoutSession, err error) {
	var tokenErr *payment.TokenizationError
	var subErr *payment.SubscriptionError

	switch {
	case errors.As(err, &tokenErr):
		utils.SendErrorResponse(w, http.StatusUnprocessableEntity, tokenErr.Message)
	case errors.As(err, &subErr):
		utils.SendErrorResponse(w, http.StatusBadGateway, subErr.Message)
	case errors.Is(err, checkout.ErrAlreadyProcessing):
		utils.SendErrorResponse(w, http.StatusConflict, "Pagamento em processamento, aguarde")
	case errors.Is(err, checkout.ErrNotOnReview):
		utils.SendErrorResponse(w, http.StatusConflict, "Finalize os passos anteriores antes de confirmar")
	case errors.Is(err, checkout.ErrAlreadyCompleted):
		utils.SendErrorResponse(w, http.StatusConflict, "Este pedido já foi concluído")
	default:
		log.Printf("Unexpected submit error for checkout %s: %v", session.ID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Erro interno ao processar o pedido")
	}
}

// scheduleCustomerAutoFill agenda a consulta de CEP. Quando o resultado
// chega, a sessão é recarregada e o endereço só é aplicado se o CEP digitado
// ainda for o mesmo.
func (h *CheckoutHandler) scheduleCustomerAutoFill(sessionID, zip string) {
	h.autofill.Schedule(sessionID, zip, func(result *address.Result) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		session, err := h.store.Get(ctx, sessionID)
		if err != nil {
			log.Printf("Autofill: session %s no longer available: %v", sessionID, err)
			return
		}

		if utils.OnlyDigits(session.Customer.Address.ZipCode) != zip {
			log.Printf("Autofill: zip changed for checkout %s, discarding result", sessionID)
			return
		}

		session.Customer.Address.Street = result.Street
		session.Customer.Address.Neighborhood = result.Neighborhood
		session.Customer.Address.City = result.City
		session.Customer.Address.State = result.State

		if err := h.store.Save(ctx, session); err != nil {
			log.Printf("Autofill: error saving checkout %s: %v", sessionID, err)
		}
	})
}

// loadSession resolve a sessão do cookie e confere que ela pertence à
// empresa autenticada. Escreve a resposta de erro quando devolve false.
func (h *CheckoutHandler) loadSession(w http.ResponseWriter, r *http.Request) (*models.CheckoutSession, bool) {
	cookie, err := h.cookies.Get(r, checkoutCookieName)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusNotFound, "Nenhum checkout em andamento")
		return nil, false
	}

	checkoutID, _ := cookie.Values["checkout_id"].(string)
	if checkoutID == "" {
		utils.SendErrorResponse(w, http.StatusNotFound, "Nenhum checkout em andamento")
		return nil, false
	}

	session, err := h.store.Get(r.Context(), checkoutID)
	if err != nil {
		if errors.Is(err, checkout.ErrSessionNotFound) {
			utils.SendErrorResponse(w, http.StatusNotFound, "Checkout expirado, comece novamente")
		} else {
			log.Printf("Error loading checkout session %s: %v", checkoutID, err)
			utils.SendErrorResponse(w, http.StatusInternalServerError, "Erro ao carregar o checkout")
		}
		return nil, false
	}

	company := middleware.GetCompanyFromContext(r.Context())
	if company != nil && session.CompanyID != "" && session.CompanyID != company.ID {
		log.Printf("Company %s attempted to access checkout %s owned by %s",
			company.ID, session.ID, session.CompanyID)
		utils.SendErrorResponse(w, http.StatusForbidden, "Este checkout pertence a outra conta")
		return nil, false
	}

	return session, true
}

func sendValidationErrors(w http.ResponseWriter, fieldErrors map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(models.APIResponse{
		Status:  "error",
		Message: "Corrija os campos destacados",
		Data:    validation.FieldErrors(fieldErrors),
	})
}
