package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/slatepos/slate/internal/shared/config"
	apperrors "github.com/slatepos/slate/internal/shared/errors"
	"github.com/slatepos/slate/internal/shared/logger"
)

// Client talks to the tenant backend over HTTPS. All catalog pulls hit the
// outbound API, ticket and workday pushes hit the inbound API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Interface
}

func NewClient(cfg config.BackendConfig, log logger.Interface) *Client {
	timeout := time.Duration(cfg.RequestTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("remote"),
	}
}

// FetchProductCombinations pulls groups, categories, products, tag groups
// and tags in a single call.
func (c *Client) FetchProductCombinations(ctx context.Context, params PullParams) (*ProductCombinationsDTO, error) {
	var out ProductCombinationsDTO
	if err := c.doRequest(ctx, http.MethodPost, c.outboundURL(params, "product-combinations"), params.AccessToken, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchCharges pulls charge definitions and their location mappings.
func (c *Client) FetchCharges(ctx context.Context, params PullParams) (*ChargesDTO, error) {
	var out ChargesDTO
	if err := c.doRequest(ctx, http.MethodPost, c.outboundURL(params, "charges"), params.AccessToken, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchPaymentTypes pulls the payment methods active for the location.
func (c *Client) FetchPaymentTypes(ctx context.Context, params PullParams) ([]PaymentTypeDTO, error) {
	var out []PaymentTypeDTO
	if err := c.doRequest(ctx, http.MethodPost, c.outboundURL(params, "payment-types"), params.AccessToken, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SyncTicket pushes one locally created ticket to the backend.
func (c *Client) SyncTicket(ctx context.Context, params PullParams, ticket map[string]any) (*TicketSyncResult, error) {
	url := fmt.Sprintf("%s/api/%s/inbound/sync-tickets", c.baseURL, params.TenantDomain)
	var out TicketSyncResult
	if err := c.doRequest(ctx, http.MethodPost, url, params.AccessToken, ticket, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SyncWorkday creates the workday on the backend and returns its server id.
func (c *Client) SyncWorkday(ctx context.Context, params PullParams, workday map[string]any) (*WorkdaySyncResult, error) {
	url := fmt.Sprintf("%s/api/%s/inbound/sync-workdays", c.baseURL, params.TenantDomain)
	var out WorkdaySyncResult
	if err := c.doRequest(ctx, http.MethodPost, url, params.AccessToken, workday, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWorkday patches an already synced workday, used when a shift that
// the backend knows about is closed locally.
func (c *Client) UpdateWorkday(ctx context.Context, params PullParams, workdayID string, patch map[string]any) error {
	url := fmt.Sprintf("%s/api/%s/inbound/update-workday/%s", c.baseURL, params.TenantDomain, workdayID)
	return c.doRequest(ctx, http.MethodPatch, url, params.AccessToken, patch, nil)
}

func (c *Client) outboundURL(params PullParams, resource string) string {
	return fmt.Sprintf("%s/api/%s/outbound/%s", c.baseURL, params.TenantDomain, resource)
}

func (c *Client) doRequest(ctx context.Context, method, url, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewSyncError("failed to encode request body", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return apperrors.NewSyncError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewSyncError("request failed", err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewSyncError("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warnw("backend request rejected", "method", method, "url", url, "status", resp.StatusCode)
		return apperrors.NewSyncError(fmt.Sprintf("backend returned status %d", resp.StatusCode), nil)
	}

	if out == nil {
		return nil
	}

	var envelope apiResponse
	if err := json.Unmarshal(respData, &envelope); err != nil {
		return apperrors.NewSyncError("failed to decode response", err)
	}
	if !envelope.Success {
		return apperrors.NewSyncError(fmt.Sprintf("backend reported failure: %s", envelope.Message), nil)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return apperrors.NewSyncError("failed to decode response data", err)
	}
	return nil
}
