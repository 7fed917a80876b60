package trading

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trade-station/internal/models"
)

// BackendClient talks to the strategy persistence backend. All calls are
// best effort from the caller's point of view; the deploy package keeps
// local state authoritative when these fail.
type BackendClient struct {
	http    *Client
	baseURL string
	logger  *logrus.Logger
}

// NewBackendClient creates a persistence backend client
func NewBackendClient(http *Client, baseURL string, logger *logrus.Logger) *BackendClient {
	return &BackendClient{http: http, baseURL: baseURL, logger: logger}
}

type deployedListResponse struct {
	Strategies []*models.DeployedStrategy `json:"strategies"`
}

// FetchDeployed lists the deployed strategies persisted remotely
func (c *BackendClient) FetchDeployed(ctx context.Context) ([]*models.DeployedStrategy, error) {
	var resp deployedListResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/deployed", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch deployed strategies: %w", err)
	}
	return resp.Strategies, nil
}

type deployRequest struct {
	Strategy *models.DeployedStrategy `json:"strategy"`
}

type deployResponse struct {
	Strategy *models.DeployedStrategy `json:"strategy"`
}

// Deploy persists a newly deployed strategy
func (c *BackendClient) Deploy(ctx context.Context, strategy *models.DeployedStrategy) error {
	var resp deployResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/deploy", deployRequest{Strategy: strategy}, &resp); err != nil {
		return fmt.Errorf("failed to persist deployment: %w", err)
	}
	return nil
}

// Stop records a stop transition
func (c *BackendClient) Stop(ctx context.Context, id uuid.UUID) error {
	url := fmt.Sprintf("%s/deployed/%s/stop", c.baseURL, id)
	if err := c.http.PostJSON(ctx, url, struct{}{}, nil); err != nil {
		return fmt.Errorf("failed to persist stop: %w", err)
	}
	return nil
}

// Resume records a resume transition
func (c *BackendClient) Resume(ctx context.Context, id uuid.UUID) error {
	url := fmt.Sprintf("%s/deployed/%s/resume", c.baseURL, id)
	if err := c.http.PostJSON(ctx, url, struct{}{}, nil); err != nil {
		return fmt.Errorf("failed to persist resume: %w", err)
	}
	return nil
}

// Remove deletes the persisted deployment record
func (c *BackendClient) Remove(ctx context.Context, id uuid.UUID) error {
	url := fmt.Sprintf("%s/deployed/%s", c.baseURL, id)
	if err := c.http.Delete(ctx, url); err != nil {
		return fmt.Errorf("failed to delete deployment: %w", err)
	}
	return nil
}
