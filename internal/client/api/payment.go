package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

// ProcessPayment posts a payment authorization to the configured processor.
// The payment base is a single address, not a candidate list. A decline is
// returned as *PaymentDeclinedError with the processor's verbatim reason.
func (c *Client) ProcessPayment(ctx context.Context, req models.PaymentRequest) (models.PaymentResponse, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return models.PaymentResponse{}, fmt.Errorf("encode payment request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.paymentBase+"/api/payment/process", bytes.NewReader(b))
	if err != nil {
		return models.PaymentResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return models.PaymentResponse{}, fmt.Errorf("payment request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.PaymentResponse{}, err
	}

	var out models.PaymentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode >= 300 {
			return models.PaymentResponse{}, httpErrorFrom(resp.StatusCode, body)
		}
		return models.PaymentResponse{}, fmt.Errorf("decode payment response: %w", err)
	}
	if resp.StatusCode >= 300 || !out.Success {
		status := out.Status
		if status == "" {
			status = http.StatusText(resp.StatusCode)
		}
		return models.PaymentResponse{}, &PaymentDeclinedError{Status: status, Message: out.Message}
	}
	return out, nil
}
