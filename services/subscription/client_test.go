package subscription

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestaorh-checkout-api/models"
)

func testOrder() *models.Order {
	return &models.Order{
		CheckoutID: "checkout-1",
		Customer: models.CustomerData{
			CompanyName: "Acme Sistemas Ltda",
			TradeName:   "Acme",
			Document:    "11.222.333/0001-81",
			Email:       "financeiro@acme.com.br",
			Phone:       "(11) 3210-9876",
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
			SameAddress: true,
		},
		PlanName:    "Ouro Insights",
		Description: "Plano Ouro Insights (51-100 funcionários)",
		UnitPrice:   449.9,
	}
}

func TestCreateSubscription(t *testing.T) {
	var captured orderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions", r.URL.Path)
		assert.Equal(t, "Bearer key_test", r.Header.Get("Authorization"))
		assert.Equal(t, "idem-456", r.Header.Get("Idempotency-Key"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{"succeeded":true,"data":{"id":"sub_789","status":"active"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key_test")
	result, err := client.CreateSubscription(context.Background(), testOrder(), "token_xyz", "idem-456")
	require.NoError(t, err)

	assert.True(t, result.Succeeded)
	assert.Equal(t, "sub_789", result.SubscriptionID)
	assert.Equal(t, "active", result.Status)

	// Identidade da empresa
	assert.Equal(t, "Acme Sistemas Ltda", captured.Customer.Name)
	assert.Equal(t, "cnpj", captured.Customer.DocumentType)
	assert.Equal(t, "11222333000181", captured.Customer.Document)
	assert.Equal(t, "company", captured.Customer.Type)
	assert.Equal(t, "Acme", captured.Customer.Metadata["trade_name"])
	assert.Equal(t, "checkout-1", captured.Customer.Metadata["checkout_id"])

	// Telefones decompostos em DDI 55 + DDD + número
	assert.Equal(t, Phone{CountryCode: "55", AreaCode: "11", Number: "987654321"}, captured.Customer.Phones.MobilePhone)
	require.NotNil(t, captured.Customer.Phones.HomePhone)
	assert.Equal(t, Phone{CountryCode: "55", AreaCode: "11", Number: "32109876"}, *captured.Customer.Phones.HomePhone)

	// Item único com o preço resolvido
	require.Len(t, captured.Items, 1)
	assert.Equal(t, "Ouro Insights", captured.Items[0].Name)
	assert.Equal(t, 1, captured.Items[0].Quantity)
	assert.Equal(t, "unit", captured.Items[0].PricingScheme.SchemeType)
	assert.Equal(t, 449.9, captured.Items[0].PricingScheme.Price)

	// Token e endereço de cobrança repetido sob o cartão
	assert.Equal(t, "token_xyz", captured.CardToken)
	assert.Equal(t, "Avenida Paulista, 1000", captured.CreditCard.Card.BillingAddress.Line1)
	assert.Equal(t, "01310100", captured.CreditCard.Card.BillingAddress.ZipCode)
	assert.Equal(t, "BR", captured.CreditCard.Card.BillingAddress.Country)
}

func TestCreateSubscriptionUsesBillingAddressWhenDifferent(t *testing.T) {
	var captured orderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{"succeeded":true,"data":{"id":"sub_1","status":"active"}}`)
	}))
	defer server.Close()

	order := testOrder()
	order.Payment.SameAddress = false
	order.Payment.BillingAddress = &models.Address{
		ZipCode:      "04538-133",
		Street:       "Avenida Faria Lima",
		Number:       "3477",
		Neighborhood: "Itaim Bibi",
		City:         "São Paulo",
		State:        "SP",
	}

	client := NewClient(server.URL, "key_test")
	_, err := client.CreateSubscription(context.Background(), order, "token_xyz", "idem-1")
	require.NoError(t, err)

	assert.Equal(t, "Avenida Faria Lima, 3477", captured.CreditCard.Card.BillingAddress.Line1)
	assert.Equal(t, "04538133", captured.CreditCard.Card.BillingAddress.ZipCode)
	// O endereço cadastral da empresa não muda
	assert.Equal(t, "Avenida Paulista, 1000", captured.Customer.Address.Line1)
}

func TestCreateSubscriptionOmitsEmptyLandline(t *testing.T) {
	var captured orderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{"succeeded":true,"data":{"id":"sub_1","status":"active"}}`)
	}))
	defer server.Close()

	order := testOrder()
	order.Customer.Phone = ""

	client := NewClient(server.URL, "key_test")
	_, err := client.CreateSubscription(context.Background(), order, "token_xyz", "idem-1")
	require.NoError(t, err)
	assert.Nil(t, captured.Customer.Phones.HomePhone)
}

// Recusa do gateway volta como resultado com Succeeded falso, não como erro
// de transporte.
func TestCreateSubscriptionDeclined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"succeeded":false,"message":"Cartão recusado pelo emissor"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key_test")
	result, err := client.CreateSubscription(context.Background(), testOrder(), "token_xyz", "idem-1")
	require.NoError(t, err)

	assert.False(t, result.Succeeded)
	assert.Equal(t, "Cartão recusado pelo emissor", result.Message)
}

func TestCreateSubscriptionRequiresMobile(t *testing.T) {
	order := testOrder()
	order.Customer.Mobile = ""

	client := NewClient("http://unused.invalid", "key_test")
	_, err := client.CreateSubscription(context.Background(), order, "token_xyz", "idem-1")
	assert.Error(t, err)
}
