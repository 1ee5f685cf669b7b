package connectivity

import (
	"context"
	"net/http"
	"time"

	"github.com/slatepos/slate/internal/shared/config"
	"github.com/slatepos/slate/internal/shared/logger"
)

// Checker probes the backend before any operation that needs the network.
// The probe is pessimistic: any transport error or non-2xx status counts
// as offline, and callers fall back to local-only behavior.
type Checker struct {
	probeURL   string
	httpClient *http.Client
	log        logger.Interface
}

func NewChecker(cfg config.BackendConfig, log logger.Interface) *Checker {
	timeout := time.Duration(cfg.ProbeTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Checker{
		probeURL:   cfg.BaseURL + "/up",
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("connectivity"),
	}
}

// IsOnline performs a single HEAD probe against the backend health endpoint.
func (c *Checker) IsOnline(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debugw("connectivity probe failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
