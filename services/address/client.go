package address

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gestaorh-checkout-api/utils"
)

const (
	DefaultBaseURL = "https://viacep.com.br"
	RequestTimeout = 10 * time.Second
)

// Result é o endereço parcial resolvido a partir de um CEP.
type Result struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type viaCEPResponse struct {
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout:   RequestTimeout,
			Transport: transport,
		},
	}
}

// Lookup consulta um CEP de 8 dígitos. CEP desconhecido devolve (nil, nil):
// o chamador deixa os campos de endereço para digitação manual, sem erro ao
// usuário.
func (c *Client) Lookup(ctx context.Context, cep string) (*Result, error) {
	clean := utils.OnlyDigits(cep)
	if len(clean) != 8 {
		return nil, fmt.Errorf("invalid CEP: expected 8 digits, got %d", len(clean))
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, clean)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating CEP request: %v", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making CEP request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CEP service returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading CEP response body: %v", err)
	}

	var response viaCEPResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("error decoding CEP response: %v", err)
	}

	if response.Erro {
		return nil, nil
	}

	return &Result{
		Street:       response.Logradouro,
		Neighborhood: response.Bairro,
		City:         response.Localidade,
		State:        response.UF,
	}, nil
}
