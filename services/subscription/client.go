package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"gestaorh-checkout-api/models"
	"gestaorh-checkout-api/utils"
)

const RequestTimeout = 30 * time.Second

// Client fala com a API de assinaturas do backend GestãoRH, que encaminha o
// pedido ao gateway de cobrança recorrente.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout:   RequestTimeout,
			Transport: transport,
		},
	}
}

// CreateSubscription monta e envia o pedido de assinatura: identidade e
// endereço da empresa, telefones decompostos em DDI 55 + DDD + número, o
// item único do plano com o preço resolvido, o token do cartão e o endereço
// de cobrança efetivo repetido sob o objeto do cartão. Um resultado com
// Succeeded falso não é erro de transporte; o chamador decide a mensagem.
func (c *Client) CreateSubscription(ctx context.Context, order *models.Order, cardToken, idempotencyKey string) (*models.OrderResult, error) {
	startTime := time.Now()

	mobile := decomposePhone(order.Customer.Mobile)
	if mobile == nil {
		return nil, fmt.Errorf("invalid mobile phone for checkout %s", order.CheckoutID)
	}

	billing := toAddress(order.EffectiveBillingAddress())

	payload := orderRequest{
		Customer: Customer{
			Name:         order.Customer.CompanyName,
			Email:        order.Customer.Email,
			DocumentType: "cnpj",
			Document:     utils.OnlyDigits(order.Customer.Document),
			Type:         "company",
			Address:      toAddress(order.Customer.Address),
			Phones: Phones{
				HomePhone:   decomposePhone(order.Customer.Phone),
				MobilePhone: *mobile,
			},
			Metadata: map[string]string{
				"checkout_id": order.CheckoutID,
				"trade_name":  order.Customer.TradeName,
			},
		},
		Items: []Item{
			{
				Name:        order.PlanName,
				Description: order.Description,
				Quantity:    1,
				PricingScheme: PricingScheme{
					SchemeType: "unit",
					Price:      order.UnitPrice,
				},
			},
		},
		CardToken: cardToken,
		CreditCard: creditCard{
			Card: cardBilling{BillingAddress: billing},
		},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling subscription request: %v", err)
	}

	log.Printf("Sending subscription request for checkout: %s (plan: %s, price: %.2f)",
		order.CheckoutID, order.PlanName, order.UnitPrice)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/subscriptions", bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating subscription request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Cache-Control", "no-cache")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making subscription request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading subscription response body: %v", err)
	}

	log.Printf("Subscription response received in %v for checkout: %s",
		time.Since(startTime), order.CheckoutID)

	cleanBody := strings.TrimPrefix(string(respBody), "\ufeff")

	var response orderResponse
	if err := json.Unmarshal([]byte(cleanBody), &response); err != nil {
		return nil, fmt.Errorf("error decoding subscription response: %v", err)
	}

	if !response.Succeeded || response.Data == nil {
		message := response.Message
		if message == "" {
			message = response.Error
		}
		log.Printf("Subscription creation failed for checkout %s: %s",
			order.CheckoutID, message)
		return &models.OrderResult{
			Succeeded: false,
			Message:   message,
		}, nil
	}

	log.Printf("Subscription created for checkout %s with ID: %s (status: %s)",
		order.CheckoutID, response.Data.ID, response.Data.Status)

	return &models.OrderResult{
		Succeeded:      true,
		SubscriptionID: response.Data.ID,
		Status:         response.Data.Status,
	}, nil
}

// decomposePhone separa DDD e número de um telefone nacional. Telefone vazio
// ou curto demais devolve nil e o campo é omitido do payload.
func decomposePhone(raw string) *Phone {
	digits := utils.OnlyDigits(raw)
	if len(digits) < 10 {
		return nil
	}
	return &Phone{
		CountryCode: "55",
		AreaCode:    digits[:2],
		Number:      digits[2:],
	}
}

func toAddress(a models.Address) Address {
	line1 := strings.TrimSpace(fmt.Sprintf("%s, %s", a.Street, a.Number))
	return Address{
		Line1:   line1,
		Line2:   a.Complement,
		ZipCode: utils.OnlyDigits(a.ZipCode),
		City:    a.City,
		State:   a.State,
		Country: "BR",
	}
}
