package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rrsim/sim/report"
)

// RemoteClient sends simulation requests to a running `rrsim serve`.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteClient creates a client for the server at baseURL.
func NewRemoteClient(baseURL string) *RemoteClient {
	return &RemoteClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Simulate runs one quantum on the server.
func (c *RemoteClient) Simulate(ctx context.Context, req *SimulationRequest) (*report.Summary, error) {
	var summary report.Summary
	if err := c.post(ctx, "/api/v1/rr", req, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Sweep runs every quantum in req on the server.
func (c *RemoteClient) Sweep(ctx context.Context, req *SweepRequest) ([]*report.Summary, error) {
	var summaries []*report.Summary
	if err := c.post(ctx, "/api/v1/sweep", req, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *RemoteClient) post(ctx context.Context, path string, body, out any) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	logrus.Debugf("POST %s%s (%d bytes)", c.baseURL, path, len(bodyBytes))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
