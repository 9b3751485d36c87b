// Package assets talks to the external object storage holding product images.
package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"marketplace/internal/pkg/errs"
)

// HTTPClient implements AssetStore against the storage service's HTTP API.
// Assets are addressed by their public URL; deletion goes through the storage
// base endpoint so credentials stay on this side.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates an asset store client with a default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse asset store url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("asset store url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Delete removes one asset. A missing asset is reported as not found so the
// caller can decide whether a double delete matters.
func (c *HTTPClient) Delete(ctx context.Context, assetURL string) error {
	if assetURL == "" {
		return errs.NewValueIsRequiredError("assetURL")
	}

	endpoint := *c.baseURL
	query := endpoint.Query()
	query.Set("url", assetURL)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return errs.NewObjectNotFoundError("asset", assetURL)
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("asset delete failed",
			slog.Int("status", resp.StatusCode),
			slog.String("asset", assetURL),
			slog.String("body", string(body)),
		)
		return fmt.Errorf("asset store error: %s", resp.Status)
	}
}
