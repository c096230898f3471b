// Package gateway pushes messages to live connections held by the request gateway.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"orderflow/internal/core/ports"
)

// ErrConnectionGone is returned when the gateway no longer holds the connection.
var ErrConnectionGone = errors.New("connection gone")

// Pusher implements ports.ConnectionPusher by posting to
// {base}/connections/{connection_id}.
type Pusher struct {
	baseURL string
	http    *http.Client
}

var _ ports.ConnectionPusher = (*Pusher)(nil)

func NewPusher(baseURL string, httpClient *http.Client) *Pusher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Second}
	}
	return &Pusher{baseURL: baseURL, http: httpClient}
}

func (p *Pusher) Push(ctx context.Context, connectionID string, payload []byte) error {
	endpoint, err := url.JoinPath(p.baseURL, "connections", connectionID)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("push to %s: %w", connectionID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("push to %s: %w", connectionID, ErrConnectionGone)
	case resp.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("push to %s: gateway returned %d", connectionID, resp.StatusCode)
	}
	return nil
}
