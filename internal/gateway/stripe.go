package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
)

// StripeGateway is a thin JSON client for the provider's checkout-session
// API, wrapped in a circuit breaker so a misbehaving provider fails fast
// instead of tying up checkout requests.
type StripeGateway struct {
	base   string
	apiKey string
	http   *http.Client
	cb     *gobreaker.CircuitBreaker[[]byte]
}

func NewStripeGateway(base, apiKey string) *StripeGateway {
	return &StripeGateway{
		base:   base,
		apiKey: apiKey,
		http:   &http.Client{Timeout: 10 * time.Second},
		cb: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "payment-provider",
			Timeout: 30 * time.Second,
		}),
	}
}

func (g *StripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	body, err := g.do(ctx, http.MethodPost, "/v1/checkout/sessions", req)
	if err != nil {
		return nil, err
	}
	var session Session
	if errDecode := json.Unmarshal(body, &session); errDecode != nil {
		return nil, fmt.Errorf("decode provider session failed: %w", errDecode)
	}
	return &session, nil
}

func (g *StripeGateway) Status(ctx context.Context, sessionID string) (*SessionStatus, error) {
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	body, err := g.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var status SessionStatus
	if errDecode := json.Unmarshal(body, &status); errDecode != nil {
		return nil, fmt.Errorf("decode provider status failed: %w", errDecode)
	}
	return &status, nil
}

func (g *StripeGateway) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	return g.cb.Execute(func() ([]byte, error) {
		var reader io.Reader
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("marshal provider request failed: %w", err)
			}
			reader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, g.base+path, reader)
		if err != nil {
			return nil, fmt.Errorf("build provider request failed: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := g.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("provider request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read provider response failed: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(body))
		}
		return body, nil
	})
}
