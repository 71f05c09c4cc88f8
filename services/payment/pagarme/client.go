package pagarme

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultEndpoint = "https://api.pagar.me/core/v5"
	RequestTimeout  = 30 * time.Second
)

// GatewayError é uma resposta não-2xx do gateway de pagamento.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Message)
}

// InvalidCardData indica que o gateway recusou os dados do cartão na
// validação (HTTP 422), e não uma falha de infraestrutura.
func (e *GatewayError) InvalidCardData() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

type Client struct {
	baseURL   string
	publicKey string
	client    *http.Client
}

func NewClient(baseURL, publicKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultEndpoint
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		publicKey: publicKey,
		client: &http.Client{
			Timeout:   RequestTimeout,
			Transport: transport,
		},
	}
}
