package docrender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrRenderFailed marks a failure of the external document-render service.
// Callers treat it as a dependency error: the triggering payslip stays
// APPROVED and is retried on the next dispatcher run.
var ErrRenderFailed = errors.New("document render service failed")

// Renderer produces a hosted PDF for a payslip and returns its URL.
type Renderer interface {
	RenderPayslip(ctx context.Context, req RenderRequest) (string, error)
}

type RenderRequest struct {
	PayslipID        string `json:"payslip_id"`
	ProfileID        string `json:"profile_id"`
	ProfileName      string `json:"profile_name"`
	Period           string `json:"period"`
	TotalSales       string `json:"total_sales"`
	TotalCommission  string `json:"total_commission"`
	TotalWithholding string `json:"total_withholding"`
	NetPayment       string `json:"net_payment"`
}

type renderResponse struct {
	URL string `json:"url"`
}

// Client calls the external render service over HTTP. Every call is bounded
// by the configured timeout.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) RenderPayslip(ctx context.Context, req RenderRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrRenderFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payslips/render", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrRenderFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrRenderFailed, resp.StatusCode)
	}

	var rendered renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&rendered); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrRenderFailed, err)
	}
	if rendered.URL == "" {
		return "", fmt.Errorf("%w: empty document url", ErrRenderFailed)
	}

	return rendered.URL, nil
}
