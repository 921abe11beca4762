package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/orbitviz/orbit/pkg/errors"
	"github.com/orbitviz/orbit/pkg/graph"
	"github.com/orbitviz/orbit/pkg/httputil"
)

// HTTP fetches inventory neighborhoods from an inventory service speaking
// JSON over HTTP. The service is expected to expose
//
//	GET {base}/graphs/{resourceID}?depth={1|2}
//
// returning a payload of nodes and edges. Transient failures (network
// errors, 5xx responses) are retried with exponential backoff.
type HTTP struct {
	base   *url.URL
	client *http.Client
}

// NewHTTP creates an HTTP provider for the inventory service at baseURL.
// A nil client uses a default with a 15 second timeout.
func NewHTTP(baseURL string, client *http.Client) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTP{base: u, client: client}, nil
}

// Fetch requests the neighborhood of resourceID from the inventory service.
func (h *HTTP) Fetch(ctx context.Context, resourceID string, depth int) (graph.Graph, error) {
	if err := validate(resourceID, depth); err != nil {
		return graph.Graph{}, err
	}

	u := h.base.JoinPath("graphs", resourceID)
	q := u.Query()
	q.Set("depth", strconv.Itoa(depth))
	u.RawQuery = q.Encode()

	var p payload
	err := httputil.RetryWithBackoff(ctx, func() error {
		return h.get(ctx, u.String(), &p)
	})
	if err != nil {
		return graph.Graph{}, err
	}
	return toGraph(p), nil
}

// get performs a single request, wrapping transient failures as retryable.
func (h *HTTP) get(ctx context.Context, rawURL string, out *payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.ErrCodeResourceNotFound, "inventory service has no resource at %s", rawURL)
	case resp.StatusCode >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "inventory service returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return errors.New(errors.ErrCodeInternal, "inventory service returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read response from %s", rawURL))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode inventory payload")
	}
	return nil
}

// Ensure HTTP implements Provider.
var _ Provider = (*HTTP)(nil)
