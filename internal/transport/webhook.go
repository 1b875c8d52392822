package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/joao-fontenele/part-order-service/internal/domain"
)

// Client sends order traffic to a supplier webhook. Order requests go to
// POST {baseURL}/orders and final confirmations to POST
// {baseURL}/confirmations, both as application/json.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) RequestOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Quote, error) {
	resp, err := c.post(ctx, "request order", c.baseURL+"/orders", draft)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var quote domain.Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, &TransportError{Op: "request order", Err: fmt.Errorf("decode quote: %w", err)}
	}

	return &quote, nil
}

func (c *Client) ConfirmOrder(ctx context.Context, confirmation domain.FinalConfirmation) error {
	resp, err := c.post(ctx, "confirm order", c.baseURL+"/confirmations", confirmation)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) post(ctx context.Context, op, url string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, &TransportError{Op: op, Status: resp.StatusCode}
	}

	return resp, nil
}
