package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pdstock/internal/dto"
)

// VisionClient delegates label reading to the Python vision sidecar, which
// owns the model prompt and image preprocessing. Keeping the model call out
// of process isolates extraction failures and latency from the ledger.
type VisionClient struct {
	sidecarURL string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewVisionClient(sidecarURL string, cb *CircuitBreaker) *VisionClient {
	return &VisionClient{
		sidecarURL: sidecarURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cb:         cb,
	}
}

type extractRequest struct {
	Image string `json:"image"`
}

// ExtractLabel sends the photo to the sidecar and returns whatever fields it
// managed to read. Any transport or sidecar failure surfaces as an error; the
// caller degrades to manual entry.
func (c *VisionClient) ExtractLabel(ctx context.Context, imageBase64 string) (*dto.LabelFields, error) {
	var fields dto.LabelFields
	err := c.cb.Execute(func() error {
		return c.post(ctx, imageBase64, &fields)
	})
	if err != nil {
		return nil, err
	}
	return &fields, nil
}

func (c *VisionClient) post(ctx context.Context, imageBase64 string, out *dto.LabelFields) error {
	body, err := json.Marshal(extractRequest{Image: imageBase64})
	if err != nil {
		return fmt.Errorf("vision: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sidecarURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("vision: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vision: sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vision: sidecar returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("vision: decode response: %w", err)
	}
	return nil
}
