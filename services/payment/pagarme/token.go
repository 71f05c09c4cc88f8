package pagarme

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
)

// CreateCardToken troca os dados brutos do cartão por um token opaco de uso
// único. Número, CVV e documento do titular só existem dentro desta chamada
// e nunca aparecem em log.
func (c *Client) CreateCardToken(ctx context.Context, req *CardTokenRequest) (string, error) {
	startTime := time.Now()

	payload := tokenRequest{
		Type: "card",
		Card: cardPayload{
			Number:         req.Number,
			HolderName:     req.HolderName,
			HolderDocument: req.HolderDocument,
			ExpMonth:       req.ExpMonth,
			ExpYear:        req.ExpYear,
			CVV:            req.CVV,
			BillingAddress: req.BillingAddress,
		},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshaling token request: %v", err)
	}

	url := fmt.Sprintf("%s/tokens?appId=%s", c.baseURL, c.publicKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("error creating token request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Cache-Control", "no-cache")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("error making token request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading token response body: %v", err)
	}

	log.Printf("Tokenization response received in %v (status %d)",
		time.Since(startTime), resp.StatusCode)

	cleanBody := strings.TrimPrefix(string(respBody), "\ufeff")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := "Tokenization failed"
		var gatewayErr errorResponse
		if err := json.Unmarshal([]byte(cleanBody), &gatewayErr); err == nil && gatewayErr.Message != "" {
			message = gatewayErr.Message
		}
		return "", &GatewayError{
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	var response tokenResponse
	if err := json.Unmarshal([]byte(cleanBody), &response); err != nil {
		return "", fmt.Errorf("error decoding token response: %v", err)
	}

	if response.ID == "" {
		return "", fmt.Errorf("no token ID received from gateway")
	}

	log.Printf("Card token created for card ending %s (brand: %s)",
		response.Card.LastFourDigits, response.Card.Brand)

	return response.ID, nil
}
